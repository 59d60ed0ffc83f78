package render

import (
	"image"
	"image/color"
)

type OpKind string

const (
	OpRectangle     OpKind = "rectangle"
	OpLine          OpKind = "line"
	OpCircle        OpKind = "circle"
	OpCircleOutline OpKind = "circle-outline"
	OpTexture       OpKind = "texture"
	OpText          OpKind = "text"
)

// Op is one recorded draw call. Unused fields are zero.
type Op struct {
	Kind      OpKind     `json:"kind"`
	X         float64    `json:"x"`
	Y         float64    `json:"y"`
	W         float64    `json:"w,omitempty"`
	H         float64    `json:"h,omitempty"`
	X2        float64    `json:"x2,omitempty"`
	Y2        float64    `json:"y2,omitempty"`
	Radius    float64    `json:"radius,omitempty"`
	Thickness float64    `json:"thickness,omitempty"`
	Color     color.RGBA `json:"color"`
	Text      string     `json:"text,omitempty"`
}

// Recorder is a headless Renderer that keeps the draw calls of the current
// frame
type Recorder struct {
	Width, Height float64
	Ops           []Op
	Frames        int
}

func NewRecorder(width, height float64) *Recorder {
	return &Recorder{Width: width, Height: height}
}

func (r *Recorder) Init() error   { return nil }
func (r *Recorder) Deinit() error { return nil }
func (r *Recorder) Clear()        { r.Ops = r.Ops[:0] }
func (r *Recorder) Show()         { r.Frames++ }

func (r *Recorder) ScreenWidth() float64  { return r.Width }
func (r *Recorder) ScreenHeight() float64 { return r.Height }

func (r *Recorder) Rectangle(x, y, w, h float64, c color.RGBA) {
	r.Ops = append(r.Ops, Op{Kind: OpRectangle, X: x, Y: y, W: w, H: h, Color: c})
}

func (r *Recorder) Line(x1, y1, x2, y2, thickness float64, c color.RGBA) {
	r.Ops = append(r.Ops, Op{Kind: OpLine, X: x1, Y: y1, X2: x2, Y2: y2, Thickness: thickness, Color: c})
}

func (r *Recorder) Circle(x, y, radius float64, c color.RGBA) {
	r.Ops = append(r.Ops, Op{Kind: OpCircle, X: x, Y: y, Radius: radius, Color: c})
}

func (r *Recorder) CircleOutline(x, y, radius, thickness float64, c color.RGBA) {
	r.Ops = append(r.Ops, Op{Kind: OpCircleOutline, X: x, Y: y, Radius: radius, Thickness: thickness, Color: c})
}

func (r *Recorder) Texture(img image.Image, x, y float64, tint color.RGBA) {
	b := img.Bounds()
	r.Ops = append(r.Ops, Op{Kind: OpTexture, X: x, Y: y, W: float64(b.Dx()), H: float64(b.Dy()), Color: tint})
}

func (r *Recorder) Text(x, y float64, c color.RGBA, s string) {
	r.Ops = append(r.Ops, Op{Kind: OpText, X: x, Y: y, Color: c, Text: s})
}

// Count returns the number of recorded ops of kind
func (r *Recorder) Count(kind OpKind) int {
	n := 0
	for _, op := range r.Ops {
		if op.Kind == kind {
			n++
		}
	}
	return n
}

// Filter returns the recorded ops of kind
func (r *Recorder) Filter(kind OpKind) []Op {
	ops := []Op{}
	for _, op := range r.Ops {
		if op.Kind == kind {
			ops = append(ops, op)
		}
	}
	return ops
}
