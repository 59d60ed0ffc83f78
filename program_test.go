package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"git.lost.host/meutraa/vsrg/internal/audio"
	"git.lost.host/meutraa/vsrg/internal/config"
	"git.lost.host/meutraa/vsrg/internal/input"
	"git.lost.host/meutraa/vsrg/internal/render"
	"git.lost.host/meutraa/vsrg/internal/session"
	"git.lost.host/meutraa/vsrg/internal/trace"
	"github.com/faiface/beep"
	"github.com/faiface/beep/wav"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

const chart = `AudioFile: audio.wav
Mode: Keys4
Title: Song
Artist: Artist
DifficultyName: Easy
TimingPoints:
- Bpm: 120
HitObjects:
- StartTime: 1000
  Lane: 1
- StartTime: 1500
  Lane: 2
  EndTime: 2500
`

type fakeTime struct {
	t time.Time
}

func (f *fakeTime) now() time.Time { return f.t }

func (f *fakeTime) advance(ms float64) {
	f.t = f.t.Add(time.Duration(ms * float64(time.Millisecond)))
}

func writeMap(t *testing.T, withAudio bool) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "chart.qua"), []byte(chart), 0o644); nil != err {
		t.Fatal(err)
	}
	if !withAudio {
		return dir
	}

	f, err := os.Create(filepath.Join(dir, "audio.wav"))
	if nil != err {
		t.Fatal(err)
	}
	defer f.Close()
	format := beep.Format{SampleRate: 44100, NumChannels: 1, Precision: 2}
	if err := wav.Encode(f, beep.Silence(format.SampleRate.N(3*time.Second)), format); nil != err {
		t.Fatal(err)
	}
	return dir
}

func newProgram(t *testing.T, dir string, ft *fakeTime, args ...string) (*Program, *render.Recorder) {
	t.Helper()
	cfg, err := config.Parse(append([]string{dir, "--headless"}, args...))
	if nil != err {
		t.Fatal(err)
	}
	r := render.NewRecorder(1920, 1080)
	p := &Program{
		Config:   cfg,
		Renderer: r,
		Output:   &audio.NullOutput{},
		Sessions: session.NewDefaultStore(cfg.Sessions),
		Headless: true,
		Now:      ft.now,
	}
	if err := p.Init(); nil != err {
		t.Fatal(err)
	}
	return p, r
}

func TestProgramPlaysThrough(t *testing.T) {
	dir := writeMap(t, true)
	tracePath := filepath.Join(t.TempDir(), "trace.jsonl.sz")
	ft := &fakeTime{t: time.Unix(1000, 0)}
	p, r := newProgram(t, dir, ft, "--debug", "--trace", tracePath,
		"--sessions", filepath.Join(t.TempDir(), "sessions.db"))

	if !p.Handler.Playing || !p.Clock.Running() {
		t.Fatal("expected the program to start playing")
	}
	if p.chart.Length != 3000 {
		t.Errorf("expected the audio duration as length, got %v", p.chart.Length)
	}

	if !p.Update() {
		t.Fatal("expected the program to keep running")
	}
	p.Render()
	if p.chart.Time != -50 {
		t.Errorf("expected the offset to apply, got %v", p.chart.Time)
	}
	if r.Count(render.OpLine) == 0 || r.Count(render.OpText) == 0 {
		t.Errorf("expected receptors and the overlay, got %+v", r.Ops)
	}

	ft.advance(1000)
	r.Clear()
	p.Update()
	p.Render()
	if p.chart.Time != 950 {
		t.Errorf("expected 950, got %v", p.chart.Time)
	}
	if r.Count(render.OpRectangle) == 0 {
		t.Errorf("expected the first note on screen, got %+v", r.Ops)
	}

	ft.advance(5000)
	if p.Update() {
		t.Error("expected a headless program to stop at the end of the chart")
	}
	p.Close()

	if v := testutil.ToFloat64(p.Metrics.Frames); v != 2 {
		t.Errorf("expected 2 frames counted, got %v", v)
	}
	if v := testutil.ToFloat64(p.Metrics.AudioError); v != 0 {
		t.Errorf("expected no audio error, got %v", v)
	}

	frames, err := trace.ReadFrames(tracePath)
	if nil != err {
		t.Fatal(err)
	}
	if len(frames) != 2 || frames[0].TimeMs != -50 || frames[1].TimeMs != 950 {
		t.Errorf("unexpected frames %+v", frames)
	}
	if len(frames[1].Ops) != len(r.Ops) {
		t.Errorf("expected the traced frame to match the drawn one, got %v and %v", len(frames[1].Ops), len(r.Ops))
	}
}

func TestProgramQuits(t *testing.T) {
	ft := &fakeTime{t: time.Unix(1000, 0)}
	p, _ := newProgram(t, writeMap(t, true), ft, "--sessions", filepath.Join(t.TempDir(), "sessions.db"))
	defer p.Close()

	events := make(chan *input.Event, 4)
	p.Events = events

	events <- &input.Event{Command: input.TogglePlay}
	events <- &input.Event{Command: input.ToggleDebug}
	if !p.Update() {
		t.Fatal("expected the program to keep running")
	}
	if p.Handler.Playing || p.Clock.Running() || !p.Handler.Debug {
		t.Error("expected the commands to apply")
	}

	if v := testutil.ToFloat64(p.Metrics.Commands.WithLabelValues("toggle-debug")); v != 1 {
		t.Errorf("expected the command to be counted, got %v", v)
	}

	events <- &input.Event{Command: input.Quit}
	if p.Update() {
		t.Error("expected quit to stop the program")
	}

	close(events)
	if p.Update() {
		t.Error("expected a closed input to stop the program")
	}
}

func TestProgramResumes(t *testing.T) {
	dir := writeMap(t, true)
	db := filepath.Join(t.TempDir(), "sessions.db")
	ft := &fakeTime{t: time.Unix(1000, 0)}

	p, _ := newProgram(t, dir, ft, "--sessions", db, "--volume", "0.5")
	p.Clock.SetRate(1.5)
	ft.advance(800)
	p.Close()

	p, _ = newProgram(t, dir, ft, "--sessions", db, "--resume")
	defer p.Close()
	if p.Clock.CurrentTimeMs() != 1200 {
		t.Errorf("expected to resume at 1200ms, got %v", p.Clock.CurrentTimeMs())
	}
	if p.Clock.Rate() != 1.5 || p.Clock.Volume() != 0.5 {
		t.Errorf("expected the saved rate and volume, got %v and %v", p.Clock.Rate(), p.Clock.Volume())
	}
}

func TestProgramWithoutAudio(t *testing.T) {
	ft := &fakeTime{t: time.Unix(1000, 0)}
	p, r := newProgram(t, writeMap(t, false), ft, "--debug", "--sessions", filepath.Join(t.TempDir(), "sessions.db"))
	defer p.Close()

	if p.chart.Length != 2500 {
		t.Errorf("expected the last object end as length, got %v", p.chart.Length)
	}
	if nil == p.Clock.LastError() {
		t.Fatal("expected the missing audio to be reported")
	}
	if p.Handler.Playing || p.Clock.Running() {
		t.Error("expected playback to stay paused")
	}

	ft.advance(500)
	if p.Update() {
		t.Error("expected a headless program to stop when playback cannot start")
	}
	p.Render()
	if p.chart.Time != -50 {
		t.Errorf("expected the clock to stay at 0, got %v", p.chart.Time)
	}
	warned := false
	for _, op := range r.Filter(render.OpText) {
		if op.Text == p.Clock.LastError().Error() {
			warned = true
		}
	}
	if !warned {
		t.Error("expected the audio error in the overlay")
	}
}

func TestProgramNoChart(t *testing.T) {
	cfg, err := config.Parse([]string{t.TempDir()})
	if nil != err {
		t.Fatal(err)
	}
	p := &Program{Config: cfg, Renderer: render.NewRecorder(100, 100), Output: &audio.NullOutput{}}
	if err := p.Init(); nil == err {
		t.Error("expected an error for a directory without charts")
	}
	p.Close()
}
