package fusion

import (
	"errors"
	"fmt"
	"slices"

	"gonum.org/v1/gonum/floats"
)

// ErrEmptyReading is returned when a reading carries no values.
var ErrEmptyReading = errors.New("reading has no values")

// Reading is one sensor's numeric output at call time.
//
// Values are stored row-major in Data. Shape describes the logical array
// layout; a 1-D reading of n values has Shape [n].
type Reading struct {
	Shape []int     `json:"shape"`
	Data  []float64 `json:"data"`
}

// Vector builds a 1-D reading from values. The values are copied.
func Vector(values ...float64) Reading {
	return Reading{
		Shape: []int{len(values)},
		Data:  slices.Clone(values),
	}
}

// NewReading builds a reading with an explicit shape.
//
// When shape is omitted the reading is 1-D. The product of shape must equal
// len(data).
func NewReading(data []float64, shape ...int) (Reading, error) {
	if len(data) == 0 {
		return Reading{}, ErrEmptyReading
	}
	if len(shape) == 0 {
		return Vector(data...), nil
	}

	dims := make([]float64, len(shape))
	for i, d := range shape {
		if d <= 0 {
			return Reading{}, fmt.Errorf("invalid dimension %d at axis %d", d, i)
		}
		dims[i] = float64(d)
	}
	if size := int(floats.Prod(dims)); size != len(data) {
		return Reading{}, fmt.Errorf("shape %v holds %d values, got %d", shape, size, len(data))
	}

	return Reading{
		Shape: slices.Clone(shape),
		Data:  slices.Clone(data),
	}, nil
}

// Len returns the number of values in the reading.
func (r Reading) Len() int {
	return len(r.Data)
}

// SameShape reports whether r and other have identical shapes.
func (r Reading) SameShape(other Reading) bool {
	return slices.Equal(r.shape(), other.shape())
}

// shape returns the declared shape, treating a missing shape as 1-D.
func (r Reading) shape() []int {
	if len(r.Shape) == 0 {
		return []int{len(r.Data)}
	}
	return r.Shape
}

// clone returns a deep copy so the registry never aliases caller memory.
func (r Reading) clone() Reading {
	return Reading{
		Shape: slices.Clone(r.shape()),
		Data:  slices.Clone(r.Data),
	}
}
