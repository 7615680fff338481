package awareness

import (
	"image"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/praetech/praesense/internal/detection"
	"github.com/praetech/praesense/internal/fusion"
)

// Logf is the package-level diagnostic logger. It defaults to log.Printf and
// may be replaced by SetLogger.
var Logf func(format string, v ...interface{}) = log.Printf

// SetLogger replaces the package logger. Passing nil mutes it.
func SetLogger(f func(format string, v ...interface{})) {
	if f == nil {
		Logf = func(string, ...interface{}) {}
		return
	}
	Logf = f
}

// State summarises the most recent environment analysis.
//
// ID identifies the analysis call itself, not any detected object.
type State struct {
	ID              uuid.UUID `json:"id"`
	ObjectsDetected int       `json:"objects_detected"`
	Timestamp       time.Time `json:"timestamp"`
}

// IsZero reports whether no analysis has been recorded.
func (s State) IsZero() bool {
	return s.ID == uuid.Nil
}

// Option configures an Awareness.
type Option func(*Awareness)

// WithClock sets the time source used to stamp environment states.
func WithClock(now func() time.Time) Option {
	return func(a *Awareness) {
		if now != nil {
			a.now = now
		}
	}
}

// Awareness combines sensor fusion and object detection behind one facade.
// It is safe for concurrent use.
type Awareness struct {
	mu       sync.Mutex
	fusion   *fusion.Fusion
	detector *detection.Detector
	state    State
	now      func() time.Time
}

// New creates an Awareness with an empty sensor registry and no state.
func New(opts ...Option) *Awareness {
	a := &Awareness{
		fusion:   fusion.New(),
		detector: detection.NewDetector(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// ProcessSensors registers every reading under its sensor name and returns
// the fusion of all readings registered so far.
//
// Readings persist across calls; a name seen before is overwritten. The
// result is nil when no sensor has ever been registered.
func (a *Awareness) ProcessSensors(readings map[string]fusion.Reading) (*fusion.Reading, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	names := make([]string, 0, len(readings))
	for name := range readings {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		a.fusion.Add(name, readings[name])
	}

	fused, err := a.fusion.Fuse()
	if err != nil {
		return nil, err
	}
	if fused != nil {
		Logf("[Awareness] Fused %d sensors into shape %v", a.fusion.Len(), fused.Shape)
	}
	return fused, nil
}

// AnalyzeEnvironment counts the objects in img and replaces the environment
// state with the result.
func (a *Awareness) AnalyzeEnvironment(img image.Image) State {
	a.mu.Lock()
	defer a.mu.Unlock()

	n := a.detector.Detect(img)
	a.state = State{
		ID:              uuid.New(),
		ObjectsDetected: n,
		Timestamp:       a.now().UTC(),
	}
	Logf("[Awareness] Analysis %s detected %d objects", a.state.ID, n)
	return a.state
}

// State returns the most recent environment state, or the zero State when no
// analysis has run.
func (a *Awareness) State() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

// Objects returns the contours found by the most recent analysis.
func (a *Awareness) Objects() []detection.Contour {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.detector.Objects()
}

// Sensors returns the registered sensor names in sorted order.
func (a *Awareness) Sensors() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.fusion.Sensors()
}

// ResetSensors drops every registered reading and returns how many were
// removed.
func (a *Awareness) ResetSensors() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.fusion.Reset()
}
