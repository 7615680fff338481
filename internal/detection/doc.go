// Package detection counts objects in images by their edge contours.
//
// Detection follows a fixed pipeline:
//
//  1. Single-channel conversion (skipped for *image.Gray input)
//  2. Canny edge detection with thresholds 50 and 150
//  3. External contour extraction: connected edge groups that are not nested
//     inside another group's hole
//
// Each external contour is one detected object. Detection results carry no
// identity: every Detect call replaces the previous contours wholesale.
//
// # Contours
//
// Contours are traced along the outer border of each edge group and
// compressed so straight horizontal, vertical and diagonal runs keep only
// their endpoints. Coordinates follow the image convention: origin at the
// top-left, X rightward, Y downward.
//
// # Limitations
//
// The thresholds are not configurable. Thin or low-contrast boundaries may
// fall below the high threshold and yield no contour, and objects that touch
// merge into one contour.
package detection
