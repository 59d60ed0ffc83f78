package game

import (
	"image/color"
	"math"
)

// DefaultGroupID names the group every object without an explicit group joins
const DefaultGroupID = "$Default"

// TimingGroup is an independently scrolling layer with its own SV and SSF
// timelines. The Current* fields and ScrollSpeed are per frame caches that
// depend only on (time, rate).
type TimingGroup struct {
	InitialScrollVelocity float64
	ScrollVelocities      []ControlPoint
	ScrollSpeedFactors    []ControlPoint
	// Tint for the group's notes, nil keeps the snap colors
	Color *color.RGBA

	CurrentTrackPosition Position
	CurrentSsfFactor     float64
	ScrollSpeed          float64

	skin Skin
}

func NewTimingGroup(skin Skin, initialScrollVelocity float64, svs, ssfs []ControlPoint) *TimingGroup {
	return &TimingGroup{
		InitialScrollVelocity: initialScrollVelocity,
		ScrollVelocities:      svs,
		ScrollSpeedFactors:    ssfs,
		CurrentSsfFactor:      1,
		skin:                  skin,
	}
}

func (g *TimingGroup) round(v float64) Position {
	return Position(math.Round(v * g.skin.TrackRounding))
}

// initializeControlPoints fills in the cumulative SV positions.
// The list must already be sorted.
func (g *TimingGroup) initializeControlPoints() {
	if len(g.ScrollVelocities) == 0 {
		return
	}
	svs := g.ScrollVelocities
	position := g.round(svs[0].StartTime * g.InitialScrollVelocity)
	svs[0].CumulativePosition = position
	for i := 1; i < len(svs); i++ {
		// up to this point the previous multiplier applies
		position += g.round((svs[i].StartTime - svs[i-1].StartTime) * svs[i-1].Multiplier)
		svs[i].CumulativePosition = position
	}
}

// PositionFromTime converts a map time to a track position
func (g *TimingGroup) PositionFromTime(t float64, ignoreSV bool) Position {
	if ignoreSV {
		return g.round(t)
	}

	i := IndexAtTime(g.ScrollVelocities, t)
	if i < 0 {
		return g.round(t * g.InitialScrollVelocity)
	}

	sv := g.ScrollVelocities[i]
	return sv.CumulativePosition + g.round((t-sv.StartTime)*sv.Multiplier)
}

// ScrollSpeedFactorFromTime interpolates the SSF multiplier at t. There is
// no effect before the first point and no extrapolation after the last.
func (g *TimingGroup) ScrollSpeedFactorFromTime(t float64) float64 {
	i := IndexAtTime(g.ScrollSpeedFactors, t)
	if i < 0 {
		return 1
	}

	ssf := g.ScrollSpeedFactors[i]
	if i == len(g.ScrollSpeedFactors)-1 {
		return ssf.Multiplier
	}

	next := g.ScrollSpeedFactors[i+1]
	return Lerp(ssf.Multiplier, next.Multiplier, (t-ssf.StartTime)/(next.StartTime-ssf.StartTime))
}

// Update refreshes the cached SSF factor and track position for t
func (g *TimingGroup) Update(t float64, ignoreSV bool) {
	g.CurrentSsfFactor = g.ScrollSpeedFactorFromTime(t)
	g.CurrentTrackPosition = g.PositionFromTime(t, ignoreSV)
}

// UpdateScrollSpeed derives the per frame scroll speed for a playback rate
func (g *TimingGroup) UpdateScrollSpeed(rate float64) {
	g.ScrollSpeed = g.skin.ScrollSpeedFor(rate)
}

// ObjectPosition projects a static track position to a position relative
// to the top (downscroll: bottom) of the screen. The result is truncated.
func (g *TimingGroup) ObjectPosition(hitPosition float64, initialPosition Position, ignoreSSF bool) Position {
	speed := g.ScrollSpeed
	if g.skin.Downscroll {
		speed = -speed
	}
	if !ignoreSSF {
		speed *= g.CurrentSsfFactor
	}

	distance := float64(initialPosition) - float64(g.CurrentTrackPosition)
	return Position(hitPosition + distance*speed/g.skin.TrackRounding)
}
