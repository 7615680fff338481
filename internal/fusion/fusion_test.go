package fusion

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

var approx = cmpopts.EquateApprox(0, 1e-12)

func TestFuse_Example(t *testing.T) {
	f := New()
	f.Add("a", Vector(1, 1))
	f.Add("b", Vector(3, 3))

	got, err := f.Fuse()
	if err != nil {
		t.Fatalf("Fuse failed: %v", err)
	}
	if got == nil {
		t.Fatal("Fuse returned nil result")
	}

	want := Reading{Shape: []int{2}, Data: []float64{2, 2}}
	if diff := cmp.Diff(want, *got, approx); diff != "" {
		t.Errorf("fused reading mismatch (-want +got):\n%s", diff)
	}
}

func TestFuse_NoSensors(t *testing.T) {
	f := New()

	got, err := f.Fuse()
	if err != nil {
		t.Fatalf("Fuse with no sensors should not fail: %v", err)
	}
	if got != nil {
		t.Errorf("expected absent result, got %+v", got)
	}
}

func TestFuse_ElementwiseAverage(t *testing.T) {
	tests := []struct {
		name     string
		readings map[string][]float64
		want     []float64
	}{
		{
			"single sensor",
			map[string][]float64{"lidar": {4, 5, 6}},
			[]float64{4, 5, 6},
		},
		{
			"three sensors",
			map[string][]float64{
				"lidar":  {1, 2, 3},
				"radar":  {4, 5, 6},
				"camera": {7, 8, 9},
			},
			[]float64{4, 5, 6},
		},
		{
			"negative values",
			map[string][]float64{
				"x": {-2, 10},
				"y": {2, -10},
			},
			[]float64{0, 0},
		},
		{
			"fractional mean",
			map[string][]float64{
				"a": {0},
				"b": {1},
				"c": {1},
			},
			[]float64{2.0 / 3.0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := New()
			for name, data := range tt.readings {
				f.Add(name, Vector(data...))
			}

			got, err := f.Fuse()
			if err != nil {
				t.Fatalf("Fuse failed: %v", err)
			}
			if diff := cmp.Diff(tt.want, got.Data, approx); diff != "" {
				t.Errorf("fused data mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFuse_OrderIndependent(t *testing.T) {
	readings := []struct {
		name string
		data []float64
	}{
		{"imu", []float64{0.1, 0.2, 0.3}},
		{"gps", []float64{10, 20, 30}},
		{"radar", []float64{-5, 0, 5}},
		{"camera", []float64{1, 1, 1}},
	}

	forward := New()
	for _, r := range readings {
		forward.Add(r.name, Vector(r.data...))
	}
	backward := New()
	for i := len(readings) - 1; i >= 0; i-- {
		backward.Add(readings[i].name, Vector(readings[i].data...))
	}

	a, err := forward.Fuse()
	if err != nil {
		t.Fatalf("forward Fuse failed: %v", err)
	}
	b, err := backward.Fuse()
	if err != nil {
		t.Fatalf("backward Fuse failed: %v", err)
	}

	if diff := cmp.Diff(a, b); diff != "" {
		t.Errorf("registration order changed the result (-forward +backward):\n%s", diff)
	}
}

func TestAdd_ReplacesExisting(t *testing.T) {
	f := New()
	f.Add("a", Vector(1, 1))
	f.Add("b", Vector(3, 3))
	f.Add("a", Vector(5, 5))

	if f.Len() != 2 {
		t.Errorf("Len: got %d, want 2", f.Len())
	}

	got, err := f.Fuse()
	if err != nil {
		t.Fatalf("Fuse failed: %v", err)
	}
	if diff := cmp.Diff([]float64{4, 4}, got.Data, approx); diff != "" {
		t.Errorf("fusion should only reflect the latest value (-want +got):\n%s", diff)
	}
}

func TestAdd_CopiesInput(t *testing.T) {
	data := []float64{1, 2}
	f := New()
	f.Add("a", Reading{Shape: []int{2}, Data: data})
	data[0] = 100

	r, ok := f.Reading("a")
	if !ok {
		t.Fatal("reading not registered")
	}
	if r.Data[0] != 1 {
		t.Errorf("registry aliased caller data: got %v", r.Data)
	}
}

func TestFuse_Matrix(t *testing.T) {
	a, err := NewReading([]float64{1, 2, 3, 4, 5, 6}, 2, 3)
	if err != nil {
		t.Fatalf("NewReading failed: %v", err)
	}
	b, err := NewReading([]float64{3, 2, 1, 0, -1, -2}, 2, 3)
	if err != nil {
		t.Fatalf("NewReading failed: %v", err)
	}

	f := New()
	f.Add("left", a)
	f.Add("right", b)

	got, err := f.Fuse()
	if err != nil {
		t.Fatalf("Fuse failed: %v", err)
	}

	want := Reading{Shape: []int{2, 3}, Data: []float64{2, 2, 2, 2, 2, 2}}
	if diff := cmp.Diff(want, *got, approx); diff != "" {
		t.Errorf("fused matrix mismatch (-want +got):\n%s", diff)
	}
}

func TestFuse_ShapeMismatch(t *testing.T) {
	tests := []struct {
		name string
		a, b Reading
	}{
		{"different length", Vector(1, 2), Vector(1, 2, 3)},
		{"same length different shape", Reading{Shape: []int{2, 2}, Data: []float64{1, 2, 3, 4}}, Vector(1, 2, 3, 4)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := New()
			f.Add("a", tt.a)
			f.Add("b", tt.b)

			got, err := f.Fuse()
			if !errors.Is(err, ErrShapeMismatch) {
				t.Fatalf("expected ErrShapeMismatch, got %v", err)
			}
			if got != nil {
				t.Errorf("expected nil result on error, got %+v", got)
			}
		})
	}
}

func TestFuse_EmptyReading(t *testing.T) {
	f := New()
	f.Add("a", Reading{})

	if _, err := f.Fuse(); !errors.Is(err, ErrEmptyReading) {
		t.Errorf("expected ErrEmptyReading, got %v", err)
	}
}

func TestFuseWith_UnknownMethod(t *testing.T) {
	f := New()
	f.Add("a", Vector(1))

	got, err := f.FuseWith("kalman")
	if !errors.Is(err, ErrUnknownMethod) {
		t.Fatalf("expected ErrUnknownMethod, got %v", err)
	}
	if got != nil {
		t.Errorf("expected nil result, got %+v", got)
	}
}

func TestSensors_Sorted(t *testing.T) {
	f := New()
	f.Add("radar", Vector(1))
	f.Add("camera", Vector(1))
	f.Add("lidar", Vector(1))

	want := []string{"camera", "lidar", "radar"}
	if diff := cmp.Diff(want, f.Sensors()); diff != "" {
		t.Errorf("Sensors mismatch (-want +got):\n%s", diff)
	}
}

func TestRemoveAndReset(t *testing.T) {
	f := New()
	f.Add("a", Vector(1))
	f.Add("b", Vector(2))
	f.Add("c", Vector(3))

	f.Remove("b")
	f.Remove("missing")
	if f.Len() != 2 {
		t.Errorf("Len after Remove: got %d, want 2", f.Len())
	}

	if n := f.Reset(); n != 2 {
		t.Errorf("Reset: got %d removed, want 2", n)
	}
	if f.Len() != 0 {
		t.Errorf("Len after Reset: got %d, want 0", f.Len())
	}

	got, err := f.Fuse()
	if err != nil || got != nil {
		t.Errorf("Fuse after Reset: got (%v, %v), want (nil, nil)", got, err)
	}
}

func TestNewReading(t *testing.T) {
	tests := []struct {
		name    string
		data    []float64
		shape   []int
		want    []int
		wantErr bool
	}{
		{"implicit vector", []float64{1, 2, 3}, nil, []int{3}, false},
		{"matrix", []float64{1, 2, 3, 4}, []int{2, 2}, []int{2, 2}, false},
		{"tensor", make([]float64, 24), []int{2, 3, 4}, []int{2, 3, 4}, false},
		{"size mismatch", []float64{1, 2, 3}, []int{2, 2}, nil, true},
		{"zero dimension", []float64{1}, []int{0, 1}, nil, true},
		{"empty data", nil, nil, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := NewReading(tt.data, tt.shape...)
			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error, got reading %+v", r)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewReading failed: %v", err)
			}
			if diff := cmp.Diff(tt.want, r.Shape); diff != "" {
				t.Errorf("shape mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
