package config

import (
	"fmt"
	"time"

	"git.lost.host/meutraa/vsrg/internal/game"
	"gopkg.in/alecthomas/kingpin.v2"
)

const Version = "0.3.0"

type Config struct {
	Directory string

	Rate   float64
	Volume float64
	Offset time.Duration

	ScrollSpeed   float64
	Normalize     float64
	Upscroll      bool
	Shape         string
	StretchFrames int
	Mirror        bool
	NoSV          bool
	NoSSF         bool

	Debug       bool
	Headless    bool
	FramePeriod time.Duration
	Width       float64 // virtual screen size used when headless
	Height      float64

	Trace    string
	Sessions string
	Resume   bool

	LogLevel    string
	LogFile     string
	MetricsAddr string
}

// Parse reads the command line, args excludes the program name
func Parse(args []string) (*Config, error) {
	c := &Config{}
	app := kingpin.New("vsrg", "Scroll velocity chart renderer")
	app.Version(Version)

	app.Arg("directory", "Map directory containing .qua charts").Required().ExistingDirVar(&c.Directory)
	app.Flag("rate", "Playback rate").Default("1.0").Short('r').Float64Var(&c.Rate)
	app.Flag("volume", "Playback volume").Default("0.03").Short('v').Float64Var(&c.Volume)
	app.Flag("offset", "Global offset").Default("-50ms").Short('o').DurationVar(&c.Offset)
	app.Flag("scroll-speed", "Scroll speed, higher is faster").Default("320").Short('s').Float64Var(&c.ScrollSpeed)
	app.Flag("normalize", "Percentage of the rate the scroll speed is normalized by").Default("0").Float64Var(&c.Normalize)
	app.Flag("upscroll", "Notes travel up to the receptors").BoolVar(&c.Upscroll)
	app.Flag("shape", "Note shape").Default(string(game.ShapeBars)).EnumVar(&c.Shape, string(game.ShapeBars), string(game.ShapeCircles))
	app.Flag("stretch-frames", "Frames of history a moving note is stretched over").Default("0").IntVar(&c.StretchFrames)
	app.Flag("mirror", "Flip lanes horizontally").BoolVar(&c.Mirror)
	app.Flag("no-sv", "Ignore scroll velocities").BoolVar(&c.NoSV)
	app.Flag("no-ssf", "Ignore scroll speed factors").BoolVar(&c.NoSSF)
	app.Flag("debug", "Show the debug overlay").Short('d').BoolVar(&c.Debug)
	app.Flag("headless", "Render without a terminal").BoolVar(&c.Headless)
	app.Flag("frame-period", "Render frame period").Default("4ms").Short('p').DurationVar(&c.FramePeriod)
	app.Flag("width", "Headless screen width").Default("1920").Float64Var(&c.Width)
	app.Flag("height", "Headless screen height").Default("1080").Float64Var(&c.Height)
	app.Flag("trace", "Write drawn frames to this file, .zst and .sz are compressed").StringVar(&c.Trace)
	app.Flag("sessions", "Session database").Default("./sessions.db").StringVar(&c.Sessions)
	app.Flag("resume", "Resume the chart where it was last closed").BoolVar(&c.Resume)
	app.Flag("log-level", "Log level").Default("info").EnumVar(&c.LogLevel, "debug", "info", "warn", "error", "none")
	app.Flag("log-file", "Log to this file instead of stderr").StringVar(&c.LogFile)
	app.Flag("metrics-addr", "Serve prometheus metrics on this address").StringVar(&c.MetricsAddr)

	if _, err := app.Parse(args); nil != err {
		return nil, err
	}

	if c.Rate <= 0 {
		return nil, fmt.Errorf("rate must be positive, got %v", c.Rate)
	}
	if c.Volume < 0 || c.Volume > 1.5 {
		return nil, fmt.Errorf("volume must be within [0, 1.5], got %v", c.Volume)
	}
	if c.FramePeriod <= 0 {
		return nil, fmt.Errorf("frame period must be positive, got %v", c.FramePeriod)
	}
	if c.StretchFrames < 0 || c.StretchFrames > game.HistorySize {
		return nil, fmt.Errorf("stretch frames must be within [0, %v], got %v", game.HistorySize, c.StretchFrames)
	}

	return c, nil
}

func (c *Config) Skin() game.Skin {
	skin := game.DefaultSkin()
	skin.ScrollSpeed = c.ScrollSpeed
	skin.NormalizeByRatePercentage = c.Normalize
	skin.Downscroll = !c.Upscroll
	skin.NoteShape = game.NoteShape(c.Shape)
	skin.StretchFrames = c.StretchFrames
	skin.Offset = float64(c.Offset) / float64(time.Millisecond)
	return skin
}

func (c *Config) Mods() game.Mods {
	return game.Mods{
		Mirror: c.Mirror,
		NoSV:   c.NoSV,
		NoSSF:  c.NoSSF,
	}
}
