package render

import (
	"image"
	"image/color"
	"math"

	"github.com/gdamore/tcell/v2"
)

const (
	CellWidth  = 16
	CellHeight = 32
)

// DefaultRenderer draws on a terminal, every cell covering
// CellWidth x CellHeight virtual pixels
type DefaultRenderer struct {
	screen     tcell.Screen
	background tcell.Style
}

func NewDefaultRenderer(screen tcell.Screen) *DefaultRenderer {
	return &DefaultRenderer{
		screen:     screen,
		background: tcell.StyleDefault.Background(tcell.ColorBlack),
	}
}

func (r *DefaultRenderer) Init() error {
	if err := r.screen.Init(); nil != err {
		return err
	}
	r.screen.SetStyle(r.background)
	r.screen.HideCursor()
	r.screen.Clear()
	return nil
}

func (r *DefaultRenderer) Deinit() error {
	r.screen.Fini()
	return nil
}

func (r *DefaultRenderer) Clear() { r.screen.Clear() }
func (r *DefaultRenderer) Show()  { r.screen.Show() }

func (r *DefaultRenderer) Screen() tcell.Screen { return r.screen }

func (r *DefaultRenderer) ScreenWidth() float64 {
	w, _ := r.screen.Size()
	return float64(w * CellWidth)
}

func (r *DefaultRenderer) ScreenHeight() float64 {
	_, h := r.screen.Size()
	return float64(h * CellHeight)
}

func style(c color.RGBA) tcell.Style {
	return tcell.StyleDefault.
		Background(tcell.ColorBlack).
		Foreground(tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B)))
}

func column(x float64) int { return int(math.Floor(x / CellWidth)) }
func row(y float64) int    { return int(math.Floor(y / CellHeight)) }

func (r *DefaultRenderer) set(i, j int, ch rune, st tcell.Style) {
	w, h := r.screen.Size()
	if i < 0 || j < 0 || i >= w || j >= h {
		return
	}
	r.screen.SetContent(i, j, ch, nil, st)
}

func (r *DefaultRenderer) Rectangle(x, y, w, h float64, c color.RGBA) {
	if w <= 0 || h <= 0 || c.A == 0 {
		return
	}
	st := style(c)
	c1 := int(math.Ceil((x+w)/CellWidth)) - 1
	r1 := int(math.Ceil((y+h)/CellHeight)) - 1
	for j := row(y); j <= r1; j++ {
		for i := column(x); i <= c1; i++ {
			r.set(i, j, '█', st)
		}
	}
}

func (r *DefaultRenderer) Line(x1, y1, x2, y2, thickness float64, c color.RGBA) {
	if c.A == 0 {
		return
	}
	st := style(c)
	c1, r1, c2, r2 := column(x1), row(y1), column(x2), row(y2)

	ch := '·'
	switch {
	case r1 == r2:
		ch = '─'
	case c1 == c2:
		ch = '│'
	}

	steps := max(abs(c2-c1), abs(r2-r1))
	if steps == 0 {
		r.set(c1, r1, ch, st)
		return
	}
	for s := 0; s <= steps; s++ {
		t := float64(s) / float64(steps)
		i := int(math.Round(float64(c1) + t*float64(c2-c1)))
		j := int(math.Round(float64(r1) + t*float64(r2-r1)))
		r.set(i, j, ch, st)
	}
}

// cells calls fn with the center distance to (x, y) of every cell within
// reach of (x, y)
func cells(x, y, reach float64, fn func(i, j int, distance float64)) {
	for j := row(y - reach); j <= row(y+reach); j++ {
		for i := column(x - reach); i <= column(x+reach); i++ {
			cx := (float64(i) + 0.5) * CellWidth
			cy := (float64(j) + 0.5) * CellHeight
			fn(i, j, math.Hypot(cx-x, cy-y))
		}
	}
}

func (r *DefaultRenderer) Circle(x, y, radius float64, c color.RGBA) {
	if c.A == 0 {
		return
	}
	st := style(c)
	// a circle smaller than a cell still fills the cell it is centered in
	r.set(column(x), row(y), '█', st)
	cells(x, y, radius, func(i, j int, d float64) {
		if d <= radius {
			r.set(i, j, '█', st)
		}
	})
}

func (r *DefaultRenderer) CircleOutline(x, y, radius, thickness float64, c color.RGBA) {
	if c.A == 0 {
		return
	}
	st := style(c)
	band := math.Max(thickness, CellWidth) / 2
	cells(x, y, radius+band, func(i, j int, d float64) {
		if math.Abs(d-radius) <= band {
			r.set(i, j, '○', st)
		}
	})
}

// Texture samples img at the center of every cell it covers, one image
// pixel per virtual pixel
func (r *DefaultRenderer) Texture(img image.Image, x, y float64, tint color.RGBA) {
	b := img.Bounds()
	for j := row(y); j <= row(y+float64(b.Dy())-1); j++ {
		for i := column(x); i <= column(x+float64(b.Dx())-1); i++ {
			px := b.Min.X + int((float64(i)+0.5)*CellWidth-x)
			py := b.Min.Y + int((float64(j)+0.5)*CellHeight-y)
			if !(image.Point{X: px, Y: py}).In(b) {
				continue
			}
			c := modulate(color.RGBAModel.Convert(img.At(px, py)).(color.RGBA), tint)
			if c.A == 0 {
				continue
			}
			r.set(i, j, '█', style(c))
		}
	}
}

func modulate(c, tint color.RGBA) color.RGBA {
	mul := func(a, b uint8) uint8 { return uint8(uint16(a) * uint16(b) / 255) }
	return color.RGBA{R: mul(c.R, tint.R), G: mul(c.G, tint.G), B: mul(c.B, tint.B), A: mul(c.A, tint.A)}
}

func (r *DefaultRenderer) Text(x, y float64, c color.RGBA, s string) {
	st := style(c)
	i, j := column(x), row(y)
	for _, ch := range s {
		r.set(i, j, ch, st)
		i++
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
