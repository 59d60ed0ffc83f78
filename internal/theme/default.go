package theme

import (
	"image/color"

	"git.lost.host/meutraa/vsrg/internal/game"
)

type DefaultTheme struct {
	Snaps []game.BeatSnap
}

func NewDefaultTheme(skin game.Skin) *DefaultTheme {
	snaps := skin.BeatSnaps
	if len(snaps) == 0 {
		snaps = game.DefaultBeatSnaps()
	}
	return &DefaultTheme{Snaps: snaps}
}

var (
	gray   = color.RGBA{R: 130, G: 130, B: 130, A: 255}
	white  = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	yellow = color.RGBA{R: 253, G: 249, B: 0, A: 255}
	other  = color.RGBA{R: 255, G: 255, B: 255, A: 255}
)

// NoteColor is the color of the snap bucket, white for an unknown bucket
func (t *DefaultTheme) NoteColor(snapIndex int) color.RGBA {
	if snapIndex < 0 || snapIndex >= len(t.Snaps) {
		return other
	}
	return t.Snaps[snapIndex].Color
}

// LongNoteColor is a dimmed NoteColor for long note bodies
func (t *DefaultTheme) LongNoteColor(snapIndex int) color.RGBA {
	c := t.NoteColor(snapIndex)
	return color.RGBA{R: c.R / 2, G: c.G / 2, B: c.B / 2, A: c.A}
}

// Tint multiplies each channel by the group color
func (t *DefaultTheme) Tint(c, group color.RGBA) color.RGBA {
	return color.RGBA{
		R: uint8(uint16(c.R) * uint16(group.R) / 255),
		G: uint8(uint16(c.G) * uint16(group.G) / 255),
		B: uint8(uint16(c.B) * uint16(group.B) / 255),
		A: c.A,
	}
}

func (t *DefaultTheme) ReceptorColor() color.RGBA   { return gray }
func (t *DefaultTheme) TimingLineColor() color.RGBA { return gray }
func (t *DefaultTheme) TextColor() color.RGBA       { return white }
func (t *DefaultTheme) WarningColor() color.RGBA    { return yellow }
