package theme

import "image/color"

type Theme interface {
	NoteColor(snapIndex int) color.RGBA
	LongNoteColor(snapIndex int) color.RGBA
	// Tint applies a timing group color to a note color
	Tint(c, group color.RGBA) color.RGBA
	ReceptorColor() color.RGBA
	TimingLineColor() color.RGBA
	TextColor() color.RGBA
	WarningColor() color.RGBA
}
