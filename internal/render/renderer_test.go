package render

import (
	"testing"
	"time"
)

func TestRenderLoop(t *testing.T) {
	r := NewRecorder(100, 100)
	frames := 0
	RenderLoop(r, time.Millisecond, func(now time.Time) bool {
		frames++
		r.Text(0, 0, red, "frame")
		if len(r.Ops) != 1 {
			t.Errorf("expected the frame to start cleared, got %v ops", len(r.Ops))
		}
		return frames < 3
	})
	if r.Frames != 3 {
		t.Errorf("expected 3 shown frames, got %v", r.Frames)
	}
}
