package game

import "math"

// snapResolution is the number of ticks per beat snaps are measured in
const snapResolution = 48

// ClassifySnap returns the index of the first snap in snaps whose divisor
// divides the note's tick offset from its timing point. points must not be
// empty and must be sorted.
func ClassifySnap(points []TimingPoint, snaps []BeatSnap, startTime float64) (int, error) {
	if len(points) == 0 {
		return 0, ErrNoTimingPoints
	}

	tp := points[0]
	if i := IndexAtTime(points, startTime); i >= 0 {
		tp = points[i]
	}

	beatLength := 60000 / tp.Bpm
	offset := startTime - tp.StartTime
	tick := math.Round(snapResolution * offset / beatLength)

	var index int64
	if !math.IsInf(tick, 0) && !math.IsNaN(tick) {
		index = int64(tick)
	}

	for i, snap := range snaps {
		if snap.Divisor != 0 && index%snap.Divisor == 0 {
			return i, nil
		}
	}
	// snaps without a divisor of 1
	return len(snaps) - 1, nil
}
