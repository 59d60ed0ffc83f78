package main

import (
	"bytes"
	"fmt"
	"io"
	stdlog "log"
	"os"
	"time"

	"git.lost.host/meutraa/vsrg/internal/audio"
	"git.lost.host/meutraa/vsrg/internal/config"
	"git.lost.host/meutraa/vsrg/internal/input"
	"git.lost.host/meutraa/vsrg/internal/log"
	"git.lost.host/meutraa/vsrg/internal/metrics"
	"git.lost.host/meutraa/vsrg/internal/render"
	"git.lost.host/meutraa/vsrg/internal/session"
	"github.com/gdamore/tcell/v2"
	"golang.org/x/term"
)

func main() {
	if err := run(os.Args[1:]); nil != err {
		stdlog.Fatalln(err)
	}
}

// openLog picks the log destination. Without a log file a terminal run
// holds its log until close, since the screen owns stderr until then.
func openLog(path string, headless bool, stderr io.Writer) (io.Writer, func(), error) {
	if path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if nil != err {
			return nil, nil, fmt.Errorf("unable to open log file: %w", err)
		}
		return f, func() { f.Close() }, nil
	}
	if headless {
		return stderr, func() {}, nil
	}
	buffer := &bytes.Buffer{}
	return buffer, func() {
		log.Default().SetOutput(stderr)
		buffer.WriteTo(stderr)
	}, nil
}

func run(args []string) error {
	cfg, err := config.Parse(args)
	if nil != err {
		return err
	}

	headless := cfg.Headless || !term.IsTerminal(int(os.Stdout.Fd()))

	log.Default().SetLevel(log.LevelFromString(cfg.LogLevel))
	out, closeLog, err := openLog(cfg.LogFile, headless, os.Stderr)
	if nil != err {
		return err
	}
	defer closeLog()
	log.Default().SetOutput(out)

	p := &Program{
		Config:   cfg,
		Sessions: session.NewDefaultStore(cfg.Sessions),
		Headless: headless,
		Metrics:  metrics.New(),
	}

	if cfg.MetricsAddr != "" {
		server, err := p.Metrics.Serve(cfg.MetricsAddr)
		if nil != err {
			return fmt.Errorf("unable to serve metrics: %w", err)
		}
		defer server.Close()
	}

	var screen tcell.Screen
	if headless {
		log.Infof("rendering headless at %vx%v\n", cfg.Width, cfg.Height)
		p.Renderer = render.NewRecorder(cfg.Width, cfg.Height)
		p.Output = &audio.NullOutput{}
	} else {
		screen, err = tcell.NewScreen()
		if nil != err {
			return fmt.Errorf("unable to open terminal: %w", err)
		}
		p.Renderer = render.NewDefaultRenderer(screen)

		output, err := audio.NewSpeakerOutput()
		if nil != err {
			log.Warnf("%v, playing silently\n", err)
			p.Output = &audio.NullOutput{}
		} else {
			p.Output = output
		}
	}

	// The terminal must be initialized before its size is known
	if err := p.Renderer.Init(); nil != err {
		return err
	}
	defer func() {
		// Restore the terminal state
		if err := p.Renderer.Deinit(); nil != err {
			log.Errorf("%v\n", err)
		}
	}()

	if nil != screen {
		events := make(chan *input.Event, 128)
		input.ReadInput(screen, events)
		p.Events = events
	}

	if err := p.Init(); nil != err {
		p.Close()
		return err
	}
	defer p.Close()

	render.RenderLoop(p.Renderer, cfg.FramePeriod, func(_ time.Time) bool {
		if !p.Update() {
			return false
		}
		p.Render()
		return true
	})
	return nil
}
