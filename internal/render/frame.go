package render

import (
	"image/color"
	"math"

	"git.lost.host/meutraa/vsrg/internal/game"
	"git.lost.host/meutraa/vsrg/internal/theme"
)

const (
	receptorThickness   = 3
	timingLineThickness = 1

	// moves larger than this many note heights per frame are not stretched
	stretchLimit = 8
)

// DrawChart draws the playfield from the live positions of the last
// Chart.Update. Nothing here mutates the chart.
func DrawChart(d Drawer, c *game.Chart, skin game.Skin, field game.FieldPositions, t theme.Theme) {
	width, height := d.ScreenWidth(), d.ScreenHeight()
	lanes := c.KeyCount(true)
	playfieldWidth := float64(lanes) * skin.LaneWidth
	playfieldX := (width - playfieldWidth) / 2

	receptorY := field.ScreenY(field.Receptor, height)
	switch skin.NoteShape {
	case game.ShapeBars:
		d.Line(0, receptorY, width, receptorY, receptorThickness, t.ReceptorColor())
	case game.ShapeCircles:
		for i := 0; i < lanes; i++ {
			x := playfieldX + float64(i)*skin.LaneWidth + skin.LaneWidth/2
			d.CircleOutline(x, receptorY, skin.NoteWidth/2.2, 2, t.ReceptorColor())
		}
	}

	x1, x2 := playfieldX, playfieldX+playfieldWidth
	if skin.WideTimingLines {
		x1, x2 = 0, width
	}
	for _, line := range c.TimingLines {
		y := field.ScreenY(float64(line.CurrentTrackPosition), height)
		if y < 0 || y > height {
			continue
		}
		d.Line(x1, y, x2, y, timingLineThickness, t.TimingLineColor())
	}

	margin := skin.NoteHeight * stretchLimit
	for _, h := range c.HitObjects {
		if h.Consumed || h.TailTime() <= c.Time {
			continue
		}
		if h.Lane < 1 || h.Lane > lanes {
			continue
		}

		var tint *color.RGBA
		if g, ok := c.TimingGroups[h.TimingGroup]; ok {
			tint = g.Color
		}

		lane := h.Lane - 1
		if c.Mods.Mirror {
			lane = lanes - h.Lane
		}
		noteX := playfieldX + float64(lane)*skin.LaneWidth + skin.LaneWidth/2 - skin.NoteWidth/2
		noteY := field.ScreenY(float64(h.Position), height)
		passed := h.StartTime <= c.Time

		if h.IsLongNote() {
			headY := noteY
			if passed {
				headY = receptorY
			}
			tailY := field.ScreenY(float64(h.PositionTail), height)
			top, bottom := math.Min(headY, tailY), math.Max(headY, tailY)
			if bottom >= 0 && top <= height {
				body := t.LongNoteColor(h.SnapIndex)
				if nil != tint {
					body = t.Tint(body, *tint)
				}
				d.Rectangle(noteX+skin.NoteWidth*0.1, top, skin.NoteWidth*0.8, bottom-top, body)
			}
		}

		if passed || noteY < -margin || noteY > height+margin {
			continue
		}

		head := t.NoteColor(h.SnapIndex)
		if nil != tint {
			head = t.Tint(head, *tint)
		}
		switch skin.NoteShape {
		case game.ShapeBars:
			top, bottom := stretch(h, skin)
			middle := noteY - skin.NoteHeight/2
			d.Rectangle(noteX, middle-top, skin.NoteWidth, top+bottom, head)
		case game.ShapeCircles:
			d.Circle(noteX+skin.NoteWidth/2, noteY, skin.NoteWidth/2.4, head)
		}
	}
}

// stretch returns how far a bar extends above and below its middle. A note
// that moved since the previous frames is stretched over the distance.
func stretch(h *game.HitObject, skin game.Skin) (top, bottom float64) {
	top, bottom = skin.NoteHeight/2, skin.NoteHeight/2
	limit := skin.NoteHeight * stretchLimit
	for i := 0; i < skin.StretchFrames && i < h.History.Len(); i++ {
		// positive is moving down the screen
		s := float64(h.Position - h.History.At(i))
		if math.Abs(s) > limit {
			continue
		}
		if s > 0 {
			top = math.Max(top, s)
		} else {
			bottom = math.Max(bottom, -s)
		}
	}
	return top, bottom
}

// OverlayLine is one line of the debug overlay
type OverlayLine struct {
	Text    string
	Warning bool
}

const (
	overlayX          = 10
	overlayLineHeight = CellHeight
)

func DrawOverlay(d Drawer, lines []OverlayLine, t theme.Theme) {
	y := 0.0
	for _, line := range lines {
		c := t.TextColor()
		if line.Warning {
			c = t.WarningColor()
		}
		if line.Text != "" {
			d.Text(overlayX, y, c, line.Text)
		}
		y += overlayLineHeight
	}
}
