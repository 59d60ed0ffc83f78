package game

import (
	"sort"
)

// Position is a fixed point track coordinate, real distance * Skin.TrackRounding
type Position = int64

type TimeSignature int

const (
	Triple    TimeSignature = 3
	Quadruple TimeSignature = 4
)

// TimingPoint sets the BPM and signature until the next timing point.
// A BPM of 0 or infinity is allowed and marks a freeze.
type TimingPoint struct {
	StartTime float64 // ms
	Bpm       float64
	Signature TimeSignature
	Hidden    bool // no timing lines
}

func (tp TimingPoint) startTime() float64 { return tp.StartTime }

// ControlPoint is either a scroll velocity or a scroll speed factor point
type ControlPoint struct {
	StartTime  float64
	Multiplier float64

	// Only set for SV points, once, by Chart.InitializeControlPoints
	CumulativePosition Position
}

func (cp ControlPoint) startTime() float64 { return cp.StartTime }

type timed interface {
	startTime() float64
}

// IndexAtTime returns the index of the last item with a start time <= t,
// or -1 if t precedes every item. list must be sorted by start time.
func IndexAtTime[T timed](list []T, t float64) int {
	// first index with start time > t
	i := sort.Search(len(list), func(i int) bool {
		return list[i].startTime() > t
	})
	return i - 1
}

// Lerp interpolates linearly between a and b
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

func sortByStartTime[T timed](list []T) {
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].startTime() < list[j].startTime()
	})
}
