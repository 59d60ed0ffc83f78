package game

import "math"

// TimingLine is a measure ruler
type TimingLine struct {
	StartTime            float64
	StartPosition        Position // track position, fixed at generation
	CurrentTrackPosition Position // live projected position
	HitPosition          float64
	TimingGroup          string
}

// GenerateTimingLines places a line at every measure of every visible timing
// point, up to the next timing point and never past the chart length
func GenerateTimingLines(points []TimingPoint, group *TimingGroup, length float64, skin Skin, hitPosition float64) ([]TimingLine, error) {
	if len(points) == 0 {
		return nil, ErrNoTimingPoints
	}

	lines := []TimingLine{}
	for i, tp := range points {
		if tp.Hidden {
			continue
		}

		// end 1ms early so lines of adjacent points do not overlap
		end := length
		if i+1 < len(points) {
			end = math.Min(end, points[i+1].StartTime-1)
		}

		signature := tp.Signature
		if signature == 0 {
			signature = Quadruple
		}

		msPerBeat := 60000 / math.Min(skin.MaxTimingLineBPM, math.Abs(tp.Bpm))
		increment := float64(signature) * msPerBeat
		if !(increment > 0) {
			continue
		}

		for t := tp.StartTime; t < end; t += increment {
			lines = append(lines, TimingLine{
				StartTime:     t,
				StartPosition: group.PositionFromTime(t, false),
				HitPosition:   hitPosition,
				TimingGroup:   DefaultGroupID,
			})
		}
	}
	return lines, nil
}
