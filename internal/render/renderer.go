package render

import (
	"image"
	"image/color"
	"time"
)

// Drawer draws in a virtual pixel space of ScreenWidth x ScreenHeight
type Drawer interface {
	Rectangle(x, y, w, h float64, c color.RGBA)
	Line(x1, y1, x2, y2, thickness float64, c color.RGBA)
	Circle(x, y, radius float64, c color.RGBA)
	CircleOutline(x, y, radius, thickness float64, c color.RGBA)
	Texture(img image.Image, x, y float64, tint color.RGBA)
	Text(x, y float64, c color.RGBA, s string)
	ScreenWidth() float64
	ScreenHeight() float64
}

// Renderer is a Drawer with a frame lifecycle
type Renderer interface {
	Drawer
	Init() error
	Deinit() error
	Clear()
	Show()
}

// RenderLoop clears, renders and shows a frame every period until render
// returns false
func RenderLoop(r Renderer, period time.Duration, render func(now time.Time) bool) {
	for {
		now := time.Now()
		deadline := now.Add(period)

		r.Clear()
		cont := render(now)
		r.Show()
		if !cont {
			return
		}

		time.Sleep(time.Until(deadline))
	}
}
