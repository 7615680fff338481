// Package imaging provides the image primitives used by the perception pipeline.
//
// It covers image loading and caching, region-of-interest cropping and Canny
// edge detection. All operations work with standard Go image.Image values and
// use a coordinate system where (0,0) is the top-left corner, X increases
// rightward and Y increases downward.
//
// # Coordinate System
//
// Pixel coordinates are 0-based. For regions, (X1,Y1) is inclusive and
// (X2,Y2) is exclusive. Edge maps returned by Canny keep the bounds of the
// source image, so sub-images with a non-zero origin are handled in place.
//
// # Thread Safety
//
// ImageCache is safe for concurrent use. Canny, EdgeDetect and Crop are
// stateless and may be called concurrently on different images.
//
// # Error Handling
//
// Functions return errors for:
//   - Regions outside image bounds or with x1 >= x2 or y1 >= y2
//   - File I/O errors during image loading
//   - Unknown image formats (PNG, JPEG, GIF, BMP and WebP are registered)
//   - Encoding errors during PNG output
package imaging
