package audio

import (
	"fmt"
	"math"
	"sync/atomic"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/effects"
	"github.com/faiface/beep/speaker"
)

const (
	outputSampleRate = beep.SampleRate(44100)
	resampleQuality  = 4
)

// SpeakerOutput plays sinks through the system audio device
type SpeakerOutput struct {
	sampleRate beep.SampleRate
}

func NewSpeakerOutput() (*SpeakerOutput, error) {
	if err := speaker.Init(outputSampleRate, outputSampleRate.N(time.Second/60)); nil != err {
		return nil, fmt.Errorf("unable to open audio device: %w", err)
	}
	return &SpeakerOutput{sampleRate: outputSampleRate}, nil
}

func (o *SpeakerOutput) NewSink() (Sink, error) {
	return &speakerSink{sampleRate: o.sampleRate, paused: true, gain: 1, speed: 1}, nil
}

func (o *SpeakerOutput) Close() {
	speaker.Clear()
}

// speakerSink chains source -> resampler (speed) -> volume -> ctrl (pause)
type speakerSink struct {
	sampleRate beep.SampleRate

	streamer  beep.StreamSeekCloser
	resampler *beep.Resampler
	volume    *effects.Volume
	ctrl      *beep.Ctrl
	ratio     float64 // source rate / output rate
	done      atomic.Bool

	paused      bool
	gain, speed float64
}

func (s *speakerSink) Append(streamer beep.StreamSeekCloser, format beep.Format) {
	s.streamer = streamer
	s.ratio = float64(format.SampleRate) / float64(s.sampleRate)
	s.resampler = beep.Resample(resampleQuality, format.SampleRate, s.sampleRate, streamer)
	s.resampler.SetRatio(s.ratio * s.speed)
	s.volume = &effects.Volume{Streamer: s.resampler, Base: 2}
	s.applyGain()
	s.ctrl = &beep.Ctrl{
		Streamer: beep.Seq(s.volume, beep.Callback(func() { s.done.Store(true) })),
		Paused:   s.paused,
	}
	s.done.Store(false)
	speaker.Play(s.ctrl)
}

func (s *speakerSink) applyGain() {
	if nil == s.volume {
		return
	}
	s.volume.Silent = s.gain <= 0
	if !s.volume.Silent {
		s.volume.Volume = math.Log2(s.gain)
	}
}

func (s *speakerSink) setPaused(paused bool) {
	s.paused = paused
	if nil == s.ctrl {
		return
	}
	speaker.Lock()
	s.ctrl.Paused = paused
	speaker.Unlock()
}

func (s *speakerSink) Play()  { s.setPaused(false) }
func (s *speakerSink) Pause() { s.setPaused(true) }

func (s *speakerSink) Stop() {
	s.paused = true
	if nil == s.ctrl {
		return
	}
	speaker.Lock()
	s.ctrl.Streamer = nil
	speaker.Unlock()
	s.streamer.Close()
	s.ctrl, s.streamer, s.resampler, s.volume = nil, nil, nil, nil
}

func (s *speakerSink) SetVolume(v float64) {
	s.gain = v
	speaker.Lock()
	s.applyGain()
	speaker.Unlock()
}

func (s *speakerSink) SetSpeed(r float64) {
	s.speed = r
	if nil == s.resampler {
		return
	}
	speaker.Lock()
	s.resampler.SetRatio(s.ratio * r)
	speaker.Unlock()
}

func (s *speakerSink) Empty() bool  { return nil == s.ctrl || s.done.Load() }
func (s *speakerSink) Paused() bool { return s.paused }
