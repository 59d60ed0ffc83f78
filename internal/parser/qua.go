package parser

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"git.lost.host/meutraa/vsrg/internal/game"
	"git.lost.host/meutraa/vsrg/internal/log"
	"gopkg.in/yaml.v3"
)

// quaFile mirrors the YAML layout of a .qua chart. Fields the renderer
// does not use are still decoded so they can be checked and logged.
type quaFile struct {
	AudioFile       string  `yaml:"AudioFile"`
	SongPreviewTime float64 `yaml:"SongPreviewTime"`
	BackgroundFile  string  `yaml:"BackgroundFile"`
	BannerFile      string  `yaml:"BannerFile"`
	MapID           int     `yaml:"MapId"`
	MapSetID        int     `yaml:"MapSetId"`
	Mode            string  `yaml:"Mode"`
	Title           string  `yaml:"Title"`
	Artist          string  `yaml:"Artist"`
	Source          string  `yaml:"Source"`
	Tags            string  `yaml:"Tags"`
	Creator         string  `yaml:"Creator"`
	DifficultyName  string  `yaml:"DifficultyName"`
	Description     string  `yaml:"Description"`
	Genre           string  `yaml:"Genre"`

	LegacyLNRendering              bool     `yaml:"LegacyLNRendering"`
	BPMDoesNotAffectScrollVelocity bool     `yaml:"BPMDoesNotAffectScrollVelocity"`
	InitialScrollVelocity          *float64 `yaml:"InitialScrollVelocity"`
	HasScratchKey                  bool     `yaml:"HasScratchKey"`

	TimingPoints       []quaTimingPoint     `yaml:"TimingPoints"`
	SliderVelocities   []quaControlPoint    `yaml:"SliderVelocities"`
	ScrollSpeedFactors []quaControlPoint    `yaml:"ScrollSpeedFactors"`
	HitObjects         []quaHitObject       `yaml:"HitObjects"`
	TimingGroups       map[string]yaml.Node `yaml:"TimingGroups"`
}

type quaTimingPoint struct {
	StartTime     float64      `yaml:"StartTime"`
	Bpm           float64      `yaml:"Bpm"`
	TimeSignature quaSignature `yaml:"TimeSignature"`
	Hidden        bool         `yaml:"Hidden"`
}

type quaControlPoint struct {
	StartTime  float64 `yaml:"StartTime"`
	Multiplier float64 `yaml:"Multiplier"`
}

type quaKeySound struct {
	Sample int `yaml:"Sample"`
	Volume int `yaml:"Volume"`
}

type quaHitObject struct {
	StartTime   float64       `yaml:"StartTime"`
	EndTime     *float64      `yaml:"EndTime"`
	Lane        int           `yaml:"Lane"`
	KeySounds   []quaKeySound `yaml:"KeySounds"`
	TimingGroup string        `yaml:"TimingGroup"`
}

type quaTimingGroup struct {
	InitialScrollVelocity *float64          `yaml:"InitialScrollVelocity"`
	ScrollVelocities      []quaControlPoint `yaml:"ScrollVelocities"`
	ScrollSpeedFactors    []quaControlPoint `yaml:"ScrollSpeedFactors"`
	ColorRGB              string            `yaml:"ColorRgb"`
}

// quaSignature accepts both the enum name and the beat count
type quaSignature game.TimeSignature

func (s *quaSignature) UnmarshalYAML(value *yaml.Node) error {
	switch strings.ToLower(strings.TrimSpace(value.Value)) {
	case "quadruple", "4", "":
		*s = quaSignature(game.Quadruple)
	case "triple", "3":
		*s = quaSignature(game.Triple)
	default:
		return fmt.Errorf("line %v: unknown time signature %q", value.Line, value.Value)
	}
	return nil
}

func controlPoints(points []quaControlPoint) []game.ControlPoint {
	cps := make([]game.ControlPoint, len(points))
	for i, p := range points {
		cps[i] = game.ControlPoint{StartTime: p.StartTime, Multiplier: p.Multiplier}
	}
	return cps
}

func initialScrollVelocity(v *float64) float64 {
	if nil == v {
		return 1
	}
	return *v
}

func mode(s string) (game.GameMode, error) {
	switch game.GameMode(s) {
	case "", game.Keys4:
		return game.Keys4, nil
	case game.Keys7:
		return game.Keys7, nil
	}
	return "", fmt.Errorf("unsupported game mode %q", s)
}

// timingGroup decodes a group node. Groups may carry a type tag such as
// !ScrollGroup, which is dropped. The skin is attached on initialization.
func timingGroup(id string, node yaml.Node) (*game.TimingGroup, error) {
	if node.Kind == yaml.MappingNode {
		node.Tag = "!!map"
	}
	var qg quaTimingGroup
	if err := node.Decode(&qg); nil != err {
		return nil, fmt.Errorf("timing group %q: %w", id, err)
	}
	g := game.NewTimingGroup(game.Skin{}, initialScrollVelocity(qg.InitialScrollVelocity), controlPoints(qg.ScrollVelocities), controlPoints(qg.ScrollSpeedFactors))
	if qg.ColorRGB != "" {
		if rgb, ok := parseColor(qg.ColorRGB); ok {
			g.Color = &color.RGBA{R: rgb[0], G: rgb[1], B: rgb[2], A: 255}
		} else {
			log.Warnf("timing group %q has an invalid color %q\n", id, qg.ColorRGB)
		}
	}
	return g, nil
}

func (q *quaFile) chart() (*game.Chart, error) {
	m, err := mode(q.Mode)
	if nil != err {
		return nil, err
	}

	c := &game.Chart{
		Title:                 q.Title,
		Artist:                q.Artist,
		Creator:               q.Creator,
		DifficultyName:        q.DifficultyName,
		AudioFile:             q.AudioFile,
		Mode:                  m,
		HasScratchKey:         q.HasScratchKey,
		InitialScrollVelocity: initialScrollVelocity(q.InitialScrollVelocity),
		TimingPoints:          make([]game.TimingPoint, len(q.TimingPoints)),
		ScrollVelocities:      controlPoints(q.SliderVelocities),
		ScrollSpeedFactors:    controlPoints(q.ScrollSpeedFactors),
		HitObjects:            make([]*game.HitObject, len(q.HitObjects)),
		TimingGroups:          map[string]*game.TimingGroup{},
	}

	for i, tp := range q.TimingPoints {
		signature := game.TimeSignature(tp.TimeSignature)
		if signature == 0 {
			signature = game.Quadruple
		}
		c.TimingPoints[i] = game.TimingPoint{
			StartTime: tp.StartTime,
			Bpm:       tp.Bpm,
			Signature: signature,
			Hidden:    tp.Hidden,
		}
	}

	lanes := c.KeyCount(true)
	for i, h := range q.HitObjects {
		if h.Lane < 1 || h.Lane > lanes {
			return nil, fmt.Errorf("hit object at %vms: lane %v outside 1-%v", h.StartTime, h.Lane, lanes)
		}
		if nil != h.EndTime && *h.EndTime < h.StartTime {
			return nil, fmt.Errorf("hit object at %vms: ends before it starts (%vms)", h.StartTime, *h.EndTime)
		}
		keySounds := make([]game.KeySound, len(h.KeySounds))
		for j, ks := range h.KeySounds {
			keySounds[j] = game.KeySound{Sample: ks.Sample, Volume: ks.Volume}
		}
		c.HitObjects[i] = &game.HitObject{
			StartTime:   h.StartTime,
			EndTime:     h.EndTime,
			Lane:        h.Lane,
			KeySounds:   keySounds,
			TimingGroup: h.TimingGroup,
		}
	}

	for id, node := range q.TimingGroups {
		// the default group is rebuilt from the chart level points
		if id == game.DefaultGroupID {
			continue
		}
		g, err := timingGroup(id, node)
		if nil != err {
			return nil, err
		}
		c.TimingGroups[id] = g
	}
	return c, nil
}

// parseColor reads a "r,g,b" timing group color
func parseColor(s string) ([3]uint8, bool) {
	var rgb [3]uint8
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return rgb, false
	}
	for i, p := range parts {
		v, err := strconv.ParseUint(strings.TrimSpace(p), 10, 8)
		if nil != err {
			return rgb, false
		}
		rgb[i] = uint8(v)
	}
	return rgb, true
}
