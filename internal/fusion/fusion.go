package fusion

import (
	"errors"
	"fmt"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Method selects how registered readings are combined.
type Method string

// WeightedAverage averages readings elementwise with equal weights.
const WeightedAverage Method = "weighted_average"

var (
	// ErrUnknownMethod is returned by FuseWith for an unsupported method.
	ErrUnknownMethod = errors.New("unknown fusion method")

	// ErrShapeMismatch is returned when registered readings do not share a shape.
	ErrShapeMismatch = errors.New("sensor readings have mismatched shapes")
)

// Fusion is a registry of named sensor readings.
//
// A Fusion holds the latest reading per sensor name for the lifetime of the
// value. It is not safe for concurrent use.
type Fusion struct {
	sensors map[string]Reading
}

// New creates an empty registry.
func New() *Fusion {
	return &Fusion{
		sensors: make(map[string]Reading),
	}
}

// Add registers a reading under name, replacing any previous reading with
// the same name. The reading is copied.
func (f *Fusion) Add(name string, r Reading) {
	f.sensors[name] = r.clone()
}

// Remove drops the reading registered under name, if any.
func (f *Fusion) Remove(name string) {
	delete(f.sensors, name)
}

// Reset drops every registered reading and returns how many were removed.
func (f *Fusion) Reset() int {
	n := len(f.sensors)
	f.sensors = make(map[string]Reading)
	return n
}

// Len returns the number of registered sensors.
func (f *Fusion) Len() int {
	return len(f.sensors)
}

// Sensors returns the registered sensor names in sorted order.
func (f *Fusion) Sensors() []string {
	names := make([]string, 0, len(f.sensors))
	for name := range f.sensors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Reading returns the reading registered under name.
func (f *Fusion) Reading(name string) (Reading, bool) {
	r, ok := f.sensors[name]
	if !ok {
		return Reading{}, false
	}
	return r.clone(), true
}

// Fuse combines all registered readings with WeightedAverage.
//
// It returns a nil reading and a nil error when no sensors are registered.
func (f *Fusion) Fuse() (*Reading, error) {
	return f.FuseWith(WeightedAverage)
}

// FuseWith combines all registered readings using method.
//
// The result is recomputed from scratch on every call and is not retained.
// A nil reading with a nil error means nothing is registered.
func (f *Fusion) FuseWith(method Method) (*Reading, error) {
	if method != WeightedAverage {
		return nil, fmt.Errorf("%w: %q", ErrUnknownMethod, method)
	}
	if len(f.sensors) == 0 {
		return nil, nil
	}

	names := f.Sensors()
	weights := make([]float64, len(names))
	for i := range weights {
		weights[i] = 1 / float64(len(names))
	}

	return f.weightedAverage(names, weights)
}

// weightedAverage stacks the readings of names as matrix rows and computes
// Aᵀw / Σw.
func (f *Fusion) weightedAverage(names []string, weights []float64) (*Reading, error) {
	first := f.sensors[names[0]]
	size := first.Len()
	if size == 0 {
		return nil, fmt.Errorf("sensor %q: %w", names[0], ErrEmptyReading)
	}

	stacked := make([]float64, 0, len(names)*size)
	for _, name := range names {
		r := f.sensors[name]
		if !r.SameShape(first) || r.Len() != size {
			return nil, fmt.Errorf("%w: sensor %q has shape %v, sensor %q has shape %v",
				ErrShapeMismatch, name, r.shape(), names[0], first.shape())
		}
		stacked = append(stacked, r.Data...)
	}

	a := mat.NewDense(len(names), size, stacked)
	w := mat.NewVecDense(len(weights), weights)

	var avg mat.VecDense
	avg.MulVec(a.T(), w)
	avg.ScaleVec(1/floats.Sum(weights), &avg)

	return &Reading{
		Shape: first.clone().Shape,
		Data:  mat.Col(nil, 0, &avg),
	}, nil
}
