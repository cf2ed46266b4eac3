package stats

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// DefaultWindow is the number of samples aggregated per series.
const DefaultWindow = 30

// Series names recorded by the frame driver.
const (
	Frame   = "frame"
	Update  = "update"
	Render  = "render"
	Physics = "physics"
	FPS     = "fps"
)

// DefaultSeries is the set of series the engine records every frame.
var DefaultSeries = []string{Frame, Update, Render, Physics, FPS}

// Snapshot is the aggregate of the most recent window of samples.
// Avg, Min and Max are zero until Valid.
type Snapshot struct {
	Avg, Min, Max float64
	Last          float64
	Valid         bool
}

// Series is a fixed-capacity FIFO of samples.
type Series struct {
	name    string
	samples []float64
	head    int
	count   int
	snap    Snapshot
}

func newSeries(name string, window int) *Series {
	return &Series{name: name, samples: make([]float64, window)}
}

func (s *Series) push(v float64) {
	s.samples[s.head] = v
	s.head = (s.head + 1) % len(s.samples)
	if s.count < len(s.samples) {
		s.count++
	}
	s.snap.Last = v
	if s.count < len(s.samples) {
		return
	}

	sum, lo, hi := 0.0, math.Inf(1), math.Inf(-1)
	for _, x := range s.samples {
		sum += x
		lo = math.Min(lo, x)
		hi = math.Max(hi, x)
	}
	s.snap.Avg = sum / float64(len(s.samples))
	s.snap.Min = lo
	s.snap.Max = hi
	s.snap.Valid = true
}

// Accumulator keeps rolling aggregates for a fixed set of named series.
// Durations are stored in seconds.
type Accumulator struct {
	window int
	names  []string
	series map[string]*Series
	now    func() time.Time
}

// NewAccumulator creates the named series. A window below 1 uses DefaultWindow.
func NewAccumulator(window int, names ...string) *Accumulator {
	if window < 1 {
		window = DefaultWindow
	}
	if len(names) == 0 {
		names = DefaultSeries
	}
	a := &Accumulator{
		window: window,
		series: make(map[string]*Series, len(names)),
		now:    time.Now,
	}
	for _, name := range names {
		if _, ok := a.series[name]; ok {
			continue
		}
		a.names = append(a.names, name)
		a.series[name] = newSeries(name, window)
	}
	return a
}

// SetClock replaces the time source used by Profile.
func (a *Accumulator) SetClock(now func() time.Time) {
	a.now = now
}

func (a *Accumulator) Window() int { return a.window }

// Names returns the series names in registration order.
func (a *Accumulator) Names() []string {
	return append([]string(nil), a.names...)
}

func (a *Accumulator) get(name string) *Series {
	s, ok := a.series[name]
	if !ok {
		panic(fmt.Sprintf("stats: unknown series %q", name))
	}
	return s
}

// RecordValue appends a raw sample. Non-finite values are stored as zero.
func (a *Accumulator) RecordValue(name string, v float64) {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		v = 0
	}
	a.get(name).push(v)
}

// Record appends a duration sample.
func (a *Accumulator) Record(name string, d time.Duration) {
	a.RecordValue(name, d.Seconds())
}

// RecordFPS records the reciprocal of a frame's elapsed time.
func (a *Accumulator) RecordFPS(elapsed time.Duration) {
	a.RecordValue(FPS, 1/elapsed.Seconds())
}

// Profile starts timing a phase and returns the function that records it:
//
//	defer acc.Profile(stats.Update)()
func (a *Accumulator) Profile(name string) func() {
	s := a.get(name)
	start := a.now()
	return func() {
		s.push(a.now().Sub(start).Seconds())
	}
}

func (a *Accumulator) Snapshot(name string) Snapshot {
	return a.get(name).snap
}

// Report renders every series as one line. Duration series are in ms.
func (a *Accumulator) Report() string {
	var b strings.Builder
	for _, name := range a.names {
		snap := a.series[name].snap
		if name == FPS {
			fmt.Fprintf(&b, "%-8s avg %7.1f  min %7.1f  max %7.1f\n", name, snap.Avg, snap.Min, snap.Max)
			continue
		}
		fmt.Fprintf(&b, "%-8s avg %6.2fms  min %6.2fms  max %6.2fms\n", name, snap.Avg*1000, snap.Min*1000, snap.Max*1000)
	}
	return b.String()
}
