package main

import (
	"errors"
	"fmt"
	"time"

	"git.lost.host/meutraa/vsrg/internal/audio"
	"git.lost.host/meutraa/vsrg/internal/config"
	"git.lost.host/meutraa/vsrg/internal/game"
	"git.lost.host/meutraa/vsrg/internal/input"
	"git.lost.host/meutraa/vsrg/internal/log"
	"git.lost.host/meutraa/vsrg/internal/metrics"
	"git.lost.host/meutraa/vsrg/internal/parser"
	"git.lost.host/meutraa/vsrg/internal/render"
	"git.lost.host/meutraa/vsrg/internal/session"
	"git.lost.host/meutraa/vsrg/internal/theme"
	"git.lost.host/meutraa/vsrg/internal/trace"
	"github.com/prometheus/client_golang/prometheus"
)

type Program struct {
	Config   *config.Config
	Parser   parser.Parser
	Renderer render.Renderer
	Output   audio.Output
	Sessions session.Store
	Theme    theme.Theme
	Metrics  *metrics.Metrics

	// Headless programs stop once the chart has been played through, or
	// when playback cannot run
	Headless bool
	Events   <-chan *input.Event
	Now      audio.TimeProvider

	Clock   *audio.Clock
	Handler *input.Handler

	skin  game.Skin
	field game.FieldPositions
	chart *game.Chart

	sessions session.Store
	trace    *trace.Writer
	recorder *render.Recorder
	drawer   render.Drawer

	frameCounter uint64
}

func (p *Program) Init() error {
	if nil == p.Parser {
		p.Parser = &parser.DefaultParser{}
	}
	if nil == p.Now {
		p.Now = time.Now
	}
	p.skin = p.Config.Skin()
	p.field = p.skin.FieldPositions()
	if nil == p.Theme {
		p.Theme = theme.NewDefaultTheme(p.skin)
	}
	if nil == p.Metrics {
		p.Metrics = metrics.New()
	}

	files, err := p.Parser.Find(p.Config.Directory)
	if nil != err {
		return err
	}
	if len(files) == 0 {
		return errors.New("unable to find a .qua file in given directory")
	}
	for _, f := range files[1:] {
		log.Debugf("ignoring chart %v\n", f)
	}

	p.chart, err = p.Parser.Parse(files[0])
	if nil != err {
		return err
	}
	p.chart.Mods = p.Config.Mods()
	log.Infof("opening %v (%v)\n", p.chart.FilePath, p.chart.AudioFile)

	p.Clock, err = audio.NewClock(p.Output, p.Now)
	if nil != err {
		return err
	}
	p.Clock.SetSource(p.chart.AudioFile)
	p.Clock.SetRate(p.Config.Rate)
	p.Clock.SetVolume(p.Config.Volume)

	if d, ok := p.Clock.TotalDurationMs(); ok {
		p.chart.Length = d
	} else {
		p.chart.Length = p.chart.EndTime()
	}
	p.chart.Rate = p.Clock.Rate()

	if err := p.chart.Initialize(p.skin, p.field); nil != err {
		return fmt.Errorf("unable to load %v: %w", p.chart.FilePath, err)
	}

	p.Handler = &input.Handler{Clock: p.Clock, Debug: p.Config.Debug}

	if nil != p.Sessions {
		if err := p.Sessions.Init(); nil != err {
			log.Warnf("sessions disabled: %v\n", err)
		} else {
			p.sessions = p.Sessions
			if p.Config.Resume {
				p.resume()
			}
		}
	}

	p.drawer = p.Renderer
	if p.Config.Trace != "" {
		if err := p.openTrace(p.Config.Trace); nil != err {
			return err
		}
	}

	p.Handler.Apply(input.TogglePlay)
	return nil
}

func (p *Program) resume() {
	s, ok, err := p.sessions.Load(p.chart.Checksum)
	if nil != err {
		log.Warnf("%v\n", err)
		return
	}
	if !ok {
		return
	}
	log.Infof("resuming at %.0fms from %v\n", s.Position, s.Updated.Format(time.RFC3339))
	p.Clock.SetRate(s.Rate)
	p.Clock.SetVolume(s.Volume)
	p.Clock.SeekMs(s.Position)
}

func (p *Program) openTrace(path string) error {
	w, err := trace.NewWriter(path)
	if nil != err {
		return err
	}
	p.trace = w

	if r, ok := p.Renderer.(*render.Recorder); ok {
		p.recorder = r
		return nil
	}
	p.recorder = render.NewRecorder(p.Renderer.ScreenWidth(), p.Renderer.ScreenHeight())
	p.drawer = render.Tee{p.Renderer, p.recorder}
	return nil
}

// Update applies pending host commands and advances the chart. It returns
// false when the program should stop.
func (p *Program) Update() bool {
	for pending := true; pending; {
		select {
		case ev, ok := <-p.Events:
			if !ok {
				return false
			}
			p.Metrics.Commands.WithLabelValues(ev.Command.String()).Inc()
			if p.Handler.Apply(ev.Command) {
				return false
			}
		default:
			pending = false
		}
	}

	p.chart.Rate = p.Clock.Rate()
	p.chart.Update(p.Clock.CurrentTimeMs() + p.skin.Offset)

	p.Metrics.ChartTime.Set(p.chart.Time)
	p.Metrics.Rate.Set(p.chart.Rate)
	if nil != p.Clock.LastError() {
		p.Metrics.AudioError.Set(1)
	} else {
		p.Metrics.AudioError.Set(0)
	}

	if p.Headless && !p.Clock.Running() {
		log.Warnf("playback stopped at %.0fms\n", p.Clock.CurrentTimeMs())
		return false
	}
	if p.Headless && p.Clock.CurrentTimeMs() >= p.chart.Length {
		return false
	}
	return true
}

func (p *Program) Render() {
	p.frameCounter++
	p.Metrics.Frames.Inc()
	timer := prometheus.NewTimer(p.Metrics.FrameDuration)
	defer timer.ObserveDuration()

	if p.recorder != nil && p.recorder != p.Renderer {
		p.recorder.Clear()
	}

	render.DrawChart(p.drawer, p.chart, p.skin, p.field, p.Theme)
	if p.Handler.Debug {
		render.DrawOverlay(p.drawer, p.overlay(), p.Theme)
	}

	if nil != p.trace {
		if err := p.trace.WriteFrame(p.chart.Time, p.chart.Rate, p.recorder.Ops); nil != err {
			log.Errorf("%v, tracing stopped\n", err)
			p.trace.Close()
			p.trace = nil
		}
	}
}

func playState(b bool) string {
	if b {
		return "playing"
	}
	return "paused"
}

func (p *Program) overlay() []render.OverlayLine {
	c := p.chart
	svs, ssfs := c.Counts()
	duration := "unknown"
	if d, ok := p.Clock.TotalDurationMs(); ok {
		duration = fmt.Sprintf("%.0fms", d)
	}

	lines := []render.OverlayLine{
		{Text: fmt.Sprintf("%v - %v [%v]", c.Artist, c.Title, c.DifficultyName)},
		{Text: fmt.Sprintf("      Notes: %6v", len(c.HitObjects))},
		{Text: fmt.Sprintf("        SVs: %6v", svs)},
		{Text: fmt.Sprintf("       SSFs: %6v", ssfs)},
		{Text: fmt.Sprintf("     Groups: %6v", len(c.TimingGroups))},
		{Text: fmt.Sprintf("     Timing: %6v", len(c.TimingPoints))},
		{Text: fmt.Sprintf("      Lines: %6v", len(c.TimingLines))},
		{Text: fmt.Sprintf("     Visual: %v  Audio: %v", playState(p.Handler.Playing), playState(p.Clock.IsPlaying()))},
		{Text: fmt.Sprintf("     Volume: %6.2f  Rate: %.1fx", p.Clock.Volume(), p.Clock.Rate())},
		{Text: fmt.Sprintf("       Time: %.0fms / %v", p.Clock.CurrentTimeMs(), duration)},
		{Text: fmt.Sprintf("      Frame: %6v", p.frameCounter)},
	}
	if err := p.Clock.LastError(); nil != err {
		lines = append(lines, render.OverlayLine{Text: err.Error(), Warning: true})
	}
	return lines
}

// Close saves the session and releases the clock and trace
func (p *Program) Close() {
	if nil != p.sessions {
		err := p.sessions.Save(session.Session{
			Checksum: p.chart.Checksum,
			Position: p.Clock.CurrentTimeMs(),
			Rate:     p.Clock.Rate(),
			Volume:   p.Clock.Volume(),
		})
		if nil != err {
			log.Warnf("%v\n", err)
		}
		p.sessions.Deinit()
		p.sessions = nil
	}
	if nil != p.trace {
		if err := p.trace.Close(); nil != err {
			log.Warnf("unable to close trace: %v\n", err)
		}
		p.trace = nil
	}
	if nil != p.Clock {
		p.Clock.Close()
	}
}
