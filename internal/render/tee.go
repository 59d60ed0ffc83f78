package render

import (
	"image"
	"image/color"
)

// Tee forwards draw calls to every drawer. The screen size is the first one's.
type Tee []Drawer

func (t Tee) Rectangle(x, y, w, h float64, c color.RGBA) {
	for _, d := range t {
		d.Rectangle(x, y, w, h, c)
	}
}

func (t Tee) Line(x1, y1, x2, y2, thickness float64, c color.RGBA) {
	for _, d := range t {
		d.Line(x1, y1, x2, y2, thickness, c)
	}
}

func (t Tee) Circle(x, y, radius float64, c color.RGBA) {
	for _, d := range t {
		d.Circle(x, y, radius, c)
	}
}

func (t Tee) CircleOutline(x, y, radius, thickness float64, c color.RGBA) {
	for _, d := range t {
		d.CircleOutline(x, y, radius, thickness, c)
	}
}

func (t Tee) Texture(img image.Image, x, y float64, tint color.RGBA) {
	for _, d := range t {
		d.Texture(img, x, y, tint)
	}
}

func (t Tee) Text(x, y float64, c color.RGBA, s string) {
	for _, d := range t {
		d.Text(x, y, c, s)
	}
}

func (t Tee) ScreenWidth() float64  { return t[0].ScreenWidth() }
func (t Tee) ScreenHeight() float64 { return t[0].ScreenHeight() }
