package input

import "math"

const (
	SeekStep   = 5000 // ms
	VolumeStep = 0.05
	RateStep   = 0.1

	MinRate   = 0.5
	MaxRate   = 2.0
	MaxVolume = 1.5
)

// Clock is the part of the audio clock the host keys drive
type Clock interface {
	Play()
	Pause()
	Restart()
	SeekMs(ms float64)
	SetRate(r float64)
	SetVolume(v float64)
	CurrentTimeMs() float64
	TotalDurationMs() (float64, bool)
	Running() bool
	Rate() float64
	Volume() float64
}

// Handler applies host commands. Playing is the visual play state, which
// stays set when the audio runs out but not when playback fails to start.
type Handler struct {
	Clock   Clock
	Playing bool
	Debug   bool
}

// Apply runs cmd and reports whether the host should quit
func (h *Handler) Apply(cmd Command) bool {
	c := h.Clock
	switch cmd {
	case Quit:
		return true
	case TogglePlay:
		if !h.Playing {
			c.Play()
			h.Playing = c.Running()
		} else {
			c.Pause()
			h.Playing = false
		}
	case Restart:
		c.Restart()
		c.Play()
		h.Playing = c.Running()
	case VolumeUp:
		c.SetVolume(math.Min(c.Volume()+VolumeStep, MaxVolume))
	case VolumeDown:
		c.SetVolume(math.Max(c.Volume()-VolumeStep, 0))
	case RateUp:
		c.SetRate(math.Min(c.Rate()+RateStep, MaxRate))
	case RateDown:
		c.SetRate(math.Max(c.Rate()-RateStep, MinRate))
	case SeekBackward:
		c.SeekMs(h.clampSeek(c.CurrentTimeMs() - SeekStep))
	case SeekForward:
		c.SeekMs(h.clampSeek(c.CurrentTimeMs() + SeekStep))
	case ToggleDebug:
		h.Debug = !h.Debug
	}
	return false
}

func (h *Handler) clampSeek(ms float64) float64 {
	ms = math.Max(0, ms)
	if total, ok := h.Clock.TotalDurationMs(); ok {
		ms = math.Min(ms, total)
	}
	return ms
}
