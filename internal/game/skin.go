package game

import (
	"image/color"
	"math"
)

type NoteShape string

const (
	ShapeBars    NoteShape = "bars"
	ShapeCircles NoteShape = "circles"
)

// BeatSnap is one subdivision bucket, Divisor 4 matches 1/12 notes with the
// 48 ticks per beat resolution used by ClassifySnap
type BeatSnap struct {
	Divisor int64
	Color   color.RGBA
}

// Skin is the immutable configuration a chart is initialized with
type Skin struct {
	NoteShape       NoteShape
	LaneWidth       float64
	NoteWidth       float64
	NoteHeight      float64
	ReceptorsY      float64 // distance of the receptors from the screen edge they sit at
	WideTimingLines bool
	Downscroll      bool

	// 0 keeps the scroll speed as configured on rate change, 100 rescales it fully
	NormalizeByRatePercentage float64
	ScrollSpeed               float64
	MinScrollSpeed            float64
	MaxScrollSpeed            float64
	ScrollSpeedScaling        float64 // Quaver scales from a 1366 wide virtual screen

	Offset           float64 // ms added to the audio clock
	TrackRounding    float64
	MaxTimingLineBPM float64
	BeatSnaps        []BeatSnap

	// History frames a moving note is stretched over, 0 disables it
	StretchFrames int
}

func rgb(r, g, b uint8) color.RGBA {
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

// DefaultBeatSnaps, ordered from coarsest to finest; the last one catches all
func DefaultBeatSnaps() []BeatSnap {
	return []BeatSnap{
		{Divisor: 48, Color: rgb(255, 96, 96)},  // 1/1 red
		{Divisor: 24, Color: rgb(61, 132, 255)}, // 1/2 blue
		{Divisor: 16, Color: rgb(178, 71, 255)}, // 1/3 purple
		{Divisor: 12, Color: rgb(255, 238, 58)}, // 1/4 yellow
		{Divisor: 8, Color: rgb(255, 146, 210)}, // 1/6 pink
		{Divisor: 6, Color: rgb(255, 167, 61)},  // 1/8 orange
		{Divisor: 4, Color: rgb(132, 255, 255)}, // 1/12 cyan
		{Divisor: 3, Color: rgb(127, 255, 138)}, // 1/16 green
		{Divisor: 1, Color: rgb(200, 200, 200)}, // 1/48 grey
	}
}

func DefaultSkin() Skin {
	return Skin{
		NoteShape:                 ShapeBars,
		LaneWidth:                 145,
		NoteWidth:                 145,
		NoteHeight:                36,
		ReceptorsY:                226,
		WideTimingLines:           true,
		Downscroll:                true,
		ScrollSpeed:               320,
		NormalizeByRatePercentage: 100,
		MinScrollSpeed:            50,
		MaxScrollSpeed:            1000,
		ScrollSpeedScaling:        1920.0 / 1366.0,
		Offset:                    -50,
		TrackRounding:             100,
		MaxTimingLineBPM:          9999,
		BeatSnaps:                 DefaultBeatSnaps(),
	}
}

// ScrollSpeedFor returns the scroll speed in pixels per track unit at rate
func (s Skin) ScrollSpeedFor(rate float64) float64 {
	scaling := 1 + (rate-1)*(s.NormalizeByRatePercentage/100)
	adjusted := math.Min(math.Max(s.ScrollSpeed*scaling, s.MinScrollSpeed), s.MaxScrollSpeed)
	return (adjusted / 10) / (20 * rate) * s.ScrollSpeedScaling
}

// FieldPositions are the reference rows objects are projected against.
// With downscroll they are negative offsets from the bottom of the screen.
type FieldPositions struct {
	Receptor   float64
	HitObject  float64
	TimingLine float64
	Downscroll bool
}

func (s Skin) FieldPositions() FieldPositions {
	receptor := s.ReceptorsY
	if s.Downscroll {
		receptor = -s.ReceptorsY
	}
	return FieldPositions{
		Receptor:   receptor,
		HitObject:  receptor,
		TimingLine: receptor,
		Downscroll: s.Downscroll,
	}
}

// ScreenY converts a projected position into a screen row
func (f FieldPositions) ScreenY(position float64, screenHeight float64) float64 {
	if f.Downscroll {
		return position + screenHeight
	}
	return position
}
