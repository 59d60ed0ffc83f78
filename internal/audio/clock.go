package audio

import (
	"errors"
	"fmt"
	"math"
	"time"

	"git.lost.host/meutraa/vsrg/internal/log"
	"github.com/faiface/beep"
)

const (
	InitialVolume = 0.03
	InitialRate   = 1.0

	MinRate   = 0.1
	MaxVolume = 1.5
)

var (
	ErrNoSource = errors.New("no audio file specified")
	ErrNoSink   = errors.New("no audio sink available")
)

// TimeProvider returns the current wall clock time
type TimeProvider func() time.Time

// Clock derives song time from wall clock deltas, scaled by the playback
// rate, and drives a Sink alongside it. The audio thread is never queried.
//
// While playing, time is accumulated + (now - anchor) * anchorRate.
type Clock struct {
	output Output
	sink   Sink
	now    TimeProvider

	source string
	err    error

	anchor      time.Time
	anchorRate  float64
	accumulated float64 // ms
	paused      bool

	length    float64 // ms
	hasLength bool
	rate      float64
	volume    float64
}

// NewClock creates the initial sink on output. A nil now uses time.Now.
func NewClock(output Output, now TimeProvider) (*Clock, error) {
	if nil == now {
		now = time.Now
	}
	c := &Clock{
		output:     output,
		now:        now,
		paused:     true,
		anchorRate: InitialRate,
		rate:       InitialRate,
		volume:     InitialVolume,
	}

	sink, err := c.newSink()
	if nil != err {
		return nil, fmt.Errorf("unable to create initial audio sink: %w", err)
	}
	c.sink = sink
	return c, nil
}

func (c *Clock) newSink() (Sink, error) {
	sink, err := c.output.NewSink()
	if nil != err {
		return nil, err
	}
	sink.SetVolume(c.volume)
	sink.SetSpeed(c.rate)
	sink.Pause()
	return sink, nil
}

// sinceAnchor is the song time elapsed since the anchor
func (c *Clock) sinceAnchor() float64 {
	return c.elapsed(c.now())
}

func (c *Clock) elapsed(now time.Time) float64 {
	return float64(now.Sub(c.anchor)) / float64(time.Millisecond) * c.anchorRate
}

func (c *Clock) clamp(ms float64) float64 {
	if c.hasLength {
		return math.Min(ms, c.length)
	}
	return ms
}

// SetSource changes the audio file and verifies that it decodes.
// A failure is recoverable and reported by LastError.
func (c *Clock) SetSource(path string) {
	c.source = path
	c.err = nil
	c.hasLength = false

	if path == "" {
		c.err = ErrNoSource
		return
	}

	s, format, err := Decode(path)
	if nil != err {
		c.err = err
		log.Warnf("%v\n", err)
		return
	}
	defer s.Close()

	c.learnLength(s, format)
	log.Infof("audio source %v verified, duration %vms\n", path, c.length)
}

func (c *Clock) learnLength(s beep.StreamSeeker, format beep.Format) {
	if d, ok := Duration(s, format); ok {
		c.length = float64(d) / float64(time.Millisecond)
		c.hasLength = true
	}
}

// load appends the source to sink, advanced by offset ms
func (c *Clock) load(sink Sink, offset float64) bool {
	if c.source == "" {
		c.err = ErrNoSource
		return false
	}

	s, format, err := Decode(c.source)
	if nil != err {
		c.err = err
		log.Errorf("%v\n", err)
		return false
	}
	if !c.hasLength {
		c.learnLength(s, format)
	}
	if err := skip(s, format, offset); nil != err {
		s.Close()
		c.err = fmt.Errorf("unable to seek audio to %vms: %w", offset, err)
		log.Errorf("%v\n", c.err)
		return false
	}

	sink.Append(s, format)
	c.err = nil
	return true
}

// Play resumes the clock. The source is loaded into the sink first if
// needed; when that fails the error is recorded and the clock stays paused.
func (c *Clock) Play() {
	if !c.paused {
		return
	}
	if nil == c.sink {
		c.err = ErrNoSink
		log.Errorf("play: %v\n", c.err)
		return
	}

	if c.sink.Empty() && !c.load(c.sink, c.accumulated) {
		log.Warnf("unable to play: %v\n", c.err)
		return
	}
	c.sink.Play()

	c.anchor = c.now()
	c.anchorRate = c.rate
	c.paused = false
	log.Debugf("audio playing from %vms\n", c.accumulated)
}

// Pause folds the elapsed time into the accumulated time
func (c *Clock) Pause() {
	if c.paused {
		return
	}
	if nil != c.sink {
		c.sink.Pause()
	}
	c.accumulated = c.clamp(c.accumulated + c.sinceAnchor())
	c.paused = true
	log.Debugf("audio paused at %vms\n", c.accumulated)
}

// Restart rewinds to zero, paused, on a fresh sink. The next Play reloads
// the source from the start.
func (c *Clock) Restart() {
	c.accumulated = 0
	c.anchorRate = c.rate
	c.paused = true

	if nil != c.sink {
		c.sink.Stop()
	}
	sink, err := c.newSink()
	if nil != err {
		c.sink = nil
		c.err = fmt.Errorf("unable to create audio sink on restart: %w", err)
		log.Errorf("%v\n", c.err)
		return
	}
	c.sink = sink
}

// SeekMs jumps to ms, clamped to the song, keeping the play state. The
// sink is replaced by one that starts at the target.
func (c *Clock) SeekMs(ms float64) {
	if math.IsNaN(ms) {
		return
	}
	target := c.clamp(math.Max(0, ms))
	playing := !c.paused

	c.accumulated = target
	c.anchor = c.now()
	c.anchorRate = c.rate

	if nil != c.sink {
		c.sink.Stop()
	}
	sink, err := c.newSink()
	if nil != err {
		c.sink = nil
		c.paused = true
		c.err = fmt.Errorf("unable to create audio sink on seek: %w", err)
		log.Errorf("%v\n", c.err)
		return
	}
	c.sink = sink

	if !c.load(sink, target) {
		c.paused = true
		return
	}
	if playing {
		sink.Play()
	}
}

// SetRate changes the playback rate without a jump in the current time
func (c *Clock) SetRate(r float64) {
	if math.IsNaN(r) {
		return
	}
	c.rate = math.Max(MinRate, r)
	if nil != c.sink {
		c.sink.SetSpeed(c.rate)
	}
	if !c.paused {
		now := c.now()
		c.accumulated += c.elapsed(now)
		c.anchor = now
	}
	c.anchorRate = c.rate
	log.Debugf("audio rate set to %v\n", c.rate)
}

func (c *Clock) SetVolume(v float64) {
	if math.IsNaN(v) {
		return
	}
	c.volume = math.Max(0, math.Min(MaxVolume, v))
	if nil != c.sink {
		c.sink.SetVolume(c.volume)
	}
	log.Debugf("audio volume set to %v\n", c.volume)
}

// CurrentTimeMs is the song time, clamped to the duration when known
func (c *Clock) CurrentTimeMs() float64 {
	t := c.accumulated
	if !c.paused {
		t += c.sinceAnchor()
	}
	return c.clamp(t)
}

func (c *Clock) TotalDurationMs() (float64, bool) {
	return c.length, c.hasLength
}

// IsPlaying is true while the clock runs with an audible sink
func (c *Clock) IsPlaying() bool {
	if c.paused || nil == c.sink {
		return false
	}
	return !c.sink.Empty() && !c.sink.Paused()
}

// Running is true between Play and Pause, even after the source ran out
func (c *Clock) Running() bool { return !c.paused }

func (c *Clock) Rate() float64    { return c.rate }
func (c *Clock) Volume() float64  { return c.volume }
func (c *Clock) LastError() error { return c.err }
func (c *Clock) Source() string   { return c.source }

// Close stops playback and releases the output
func (c *Clock) Close() {
	if nil != c.sink {
		c.sink.Stop()
		c.sink = nil
	}
	c.output.Close()
}
