package detection

import (
	"image"
	"image/draw"

	"github.com/anthonynsimon/bild/effect"

	"github.com/praetech/praesense/internal/imaging"
)

// Canny hysteresis thresholds used by Detector.
const (
	CannyLow  = 50
	CannyHigh = 150
)

// Detector counts objects in an image as external edge contours.
//
// The contours found by the most recent Detect call are kept until the next
// call replaces them. A Detector is not safe for concurrent use.
type Detector struct {
	objects []Contour
}

// NewDetector creates a detector with no stored objects.
func NewDetector() *Detector {
	return &Detector{}
}

// Detect finds objects in img and returns how many were found.
//
// Images that are not already *image.Gray are converted to a single channel
// first. Edges come from Canny with the fixed CannyLow/CannyHigh thresholds,
// and each external contour of the edge map counts as one object.
func (d *Detector) Detect(img image.Image) int {
	gray := Grayscale(img)
	edges := imaging.Canny(gray, CannyLow, CannyHigh)
	contours := FindExternalContours(edges)

	// Report points in the caller's coordinate space.
	if shift := img.Bounds().Min.Sub(gray.Bounds().Min); shift != (image.Point{}) {
		for _, c := range contours {
			for i := range c {
				c[i] = c[i].Add(shift)
			}
		}
	}

	d.objects = contours
	return len(contours)
}

// Objects returns the contours found by the most recent Detect call.
func (d *Detector) Objects() []Contour {
	out := make([]Contour, len(d.objects))
	for i, c := range d.objects {
		out[i] = append(Contour(nil), c...)
	}
	return out
}

// Count returns the number of objects found by the most recent Detect call.
func (d *Detector) Count() int {
	return len(d.objects)
}

// Grayscale returns img as a single-channel image, converting only when img
// is not already *image.Gray.
//
// bild weights the channels and returns an *image.RGBA with R=G=B; the
// result is copied into an *image.Gray, so the grey level is preserved.
func Grayscale(img image.Image) *image.Gray {
	if g, ok := img.(*image.Gray); ok {
		return g
	}
	rgba := effect.Grayscale(img)
	gray := image.NewGray(rgba.Bounds())
	draw.Draw(gray, gray.Bounds(), rgba, rgba.Bounds().Min, draw.Src)
	return gray
}
