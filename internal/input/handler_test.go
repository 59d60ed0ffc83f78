package input

import (
	"math"
	"testing"
)

type fakeClock struct {
	time, rate, volume float64
	length             float64
	calls              []string
	running, broken    bool
}

func (c *fakeClock) Play()                  { c.calls = append(c.calls, "play"); c.running = !c.broken }
func (c *fakeClock) Pause()                 { c.calls = append(c.calls, "pause"); c.running = false }
func (c *fakeClock) Restart()               { c.calls = append(c.calls, "restart"); c.time = 0; c.running = false }
func (c *fakeClock) Running() bool          { return c.running }
func (c *fakeClock) SeekMs(ms float64)      { c.time = ms }
func (c *fakeClock) SetRate(r float64)      { c.rate = r }
func (c *fakeClock) SetVolume(v float64)    { c.volume = v }
func (c *fakeClock) CurrentTimeMs() float64 { return c.time }
func (c *fakeClock) Rate() float64          { return c.rate }
func (c *fakeClock) Volume() float64        { return c.volume }
func (c *fakeClock) TotalDurationMs() (float64, bool) {
	return c.length, c.length > 0
}

func TestTogglePlay(t *testing.T) {
	c := &fakeClock{}
	h := &Handler{Clock: c}
	h.Apply(TogglePlay)
	h.Apply(TogglePlay)
	h.Apply(Restart)

	expected := []string{"play", "pause", "restart", "play"}
	if len(c.calls) != len(expected) {
		t.Fatalf("expected %v, got %v", expected, c.calls)
	}
	for i := range expected {
		if c.calls[i] != expected[i] {
			t.Errorf("call %d: expected %v, got %v", i, expected[i], c.calls[i])
		}
	}
	if !h.Playing {
		t.Error("expected restart to play")
	}
}

func TestSeekClamps(t *testing.T) {
	c := &fakeClock{time: 3000, length: 10000}
	h := &Handler{Clock: c}

	h.Apply(SeekBackward)
	if c.time != 0 {
		t.Errorf("expected 0, got %v", c.time)
	}
	h.Apply(SeekForward)
	h.Apply(SeekForward)
	h.Apply(SeekForward)
	if c.time != 10000 {
		t.Errorf("expected the seek to clamp to 10000, got %v", c.time)
	}

	c.length = 0
	h.Apply(SeekForward)
	if c.time != 15000 {
		t.Errorf("expected an unclamped seek without a duration, got %v", c.time)
	}
}

func TestRateAndVolumeSteps(t *testing.T) {
	c := &fakeClock{rate: 1, volume: 0.03}
	h := &Handler{Clock: c}

	for i := 0; i < 20; i++ {
		h.Apply(RateUp)
	}
	if c.rate != MaxRate {
		t.Errorf("expected the rate to stop at %v, got %v", MaxRate, c.rate)
	}
	for i := 0; i < 20; i++ {
		h.Apply(RateDown)
	}
	if c.rate != MinRate {
		t.Errorf("expected the rate to stop at %v, got %v", MinRate, c.rate)
	}

	h.Apply(VolumeUp)
	if math.Abs(c.volume-0.08) > 1e-9 {
		t.Errorf("expected 0.08, got %v", c.volume)
	}
	h.Apply(VolumeDown)
	h.Apply(VolumeDown)
	if c.volume != 0 {
		t.Errorf("expected the volume to stop at 0, got %v", c.volume)
	}
}

func TestQuit(t *testing.T) {
	h := &Handler{Clock: &fakeClock{}}
	if h.Apply(TogglePlay) {
		t.Error("did not expect to quit")
	}
	if !h.Apply(Quit) {
		t.Error("expected to quit")
	}
}

func TestTogglePlayWhenPlaybackFails(t *testing.T) {
	c := &fakeClock{broken: true}
	h := &Handler{Clock: c}

	h.Apply(TogglePlay)
	if h.Playing {
		t.Error("expected the visual state to stay paused")
	}
	h.Apply(Restart)
	if h.Playing {
		t.Error("expected restart to stay paused")
	}

	c.broken = false
	h.Apply(TogglePlay)
	if !h.Playing || !c.running {
		t.Error("expected a retry to play")
	}
}
