package audio

import (
	"github.com/faiface/beep"
)

// Sink is a single playback voice. Commands are fire and forget, nothing
// here blocks on the audio thread.
type Sink interface {
	Append(s beep.StreamSeekCloser, format beep.Format)
	Play()
	Pause()
	// Stop discards and closes the appended source
	Stop()
	SetVolume(v float64)
	SetSpeed(r float64)

	// Empty is true when nothing was appended or the source ran out
	Empty() bool
	Paused() bool
}

// Output creates sinks on an audio device
type Output interface {
	NewSink() (Sink, error)
	Close()
}

// NullOutput is a silent Output that keeps every sink it created
type NullOutput struct {
	Sinks []*NullSink

	// Fail, when set, is returned by NewSink
	Fail error
}

func (o *NullOutput) NewSink() (Sink, error) {
	if nil != o.Fail {
		return nil, o.Fail
	}
	s := &NullSink{paused: true, Volume: 1, Speed: 1}
	o.Sinks = append(o.Sinks, s)
	return s, nil
}

func (o *NullOutput) Close() {
	for _, s := range o.Sinks {
		s.Stop()
	}
}

// Last returns the most recently created sink
func (o *NullOutput) Last() *NullSink {
	if len(o.Sinks) == 0 {
		return nil
	}
	return o.Sinks[len(o.Sinks)-1]
}

// NullSink records the commands it receives
type NullSink struct {
	Commands []string
	Volume   float64
	Speed    float64
	Format   beep.Format

	// Offset is the sample position of the source when it was appended
	Offset int

	streamer beep.StreamSeekCloser
	paused   bool
	stopped  bool
}

func (s *NullSink) Append(streamer beep.StreamSeekCloser, format beep.Format) {
	s.Commands = append(s.Commands, "append")
	s.streamer = streamer
	s.Format = format
	s.Offset = streamer.Position()
}

func (s *NullSink) Play() {
	s.Commands = append(s.Commands, "play")
	s.paused = false
}

func (s *NullSink) Pause() {
	s.Commands = append(s.Commands, "pause")
	s.paused = true
}

func (s *NullSink) Stop() {
	if s.stopped {
		return
	}
	s.Commands = append(s.Commands, "stop")
	s.stopped = true
	s.paused = true
	if nil != s.streamer {
		s.streamer.Close()
		s.streamer = nil
	}
}

func (s *NullSink) SetVolume(v float64) {
	s.Commands = append(s.Commands, "volume")
	s.Volume = v
}

func (s *NullSink) SetSpeed(r float64) {
	s.Commands = append(s.Commands, "speed")
	s.Speed = r
}

func (s *NullSink) Empty() bool  { return nil == s.streamer }
func (s *NullSink) Paused() bool { return s.paused }
func (s *NullSink) Stopped() bool {
	return s.stopped
}
