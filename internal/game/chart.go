package game

import (
	"fmt"

	"git.lost.host/meutraa/vsrg/internal/log"
)

type Chart struct {
	Title          string
	Artist         string
	Creator        string
	DifficultyName string
	AudioFile      string
	FilePath       string
	Checksum       string

	Mode                  GameMode
	HasScratchKey         bool
	InitialScrollVelocity float64

	TimingPoints []TimingPoint
	// Chart level SV and SSF points, moved into the default group on load
	ScrollVelocities   []ControlPoint
	ScrollSpeedFactors []ControlPoint
	HitObjects         []*HitObject
	TimingGroups       map[string]*TimingGroup
	TimingLines        []TimingLine

	// Playback state
	Time   float64 // current map time in ms
	Rate   float64
	Mods   Mods
	Length float64 // ms

	skin     Skin
	reported map[string]bool
}

// KeyCount returns the number of lanes
func (c *Chart) KeyCount(includeScratch bool) int {
	n, ok := modeKeys[c.Mode]
	if !ok {
		n = modeKeys[Keys4]
	}
	if c.HasScratchKey && includeScratch {
		n++
	}
	return n
}

// Initialize prepares a freshly parsed chart for playback. It must run once,
// before the first Update, and fails on charts that cannot be rendered.
func (c *Chart) Initialize(skin Skin, field FieldPositions) error {
	c.skin = skin
	if c.Rate == 0 {
		c.Rate = 1
	}

	c.InitializeDefaultTimingGroup()
	c.Sort()
	c.InitializeControlPoints()
	if err := c.InitializeHitObjects(field); nil != err {
		return fmt.Errorf("unable to initialize hit objects: %w", err)
	}
	if err := c.InitializeTimingLines(field); nil != err {
		return fmt.Errorf("unable to initialize timing lines: %w", err)
	}
	if err := c.InitializeBeatSnaps(); nil != err {
		return fmt.Errorf("unable to initialize beat snaps: %w", err)
	}
	return nil
}

// InitializeDefaultTimingGroup moves the chart level SV/SSF points into the
// default group and assigns every ungrouped object to it
func (c *Chart) InitializeDefaultTimingGroup() {
	if c.TimingGroups == nil {
		c.TimingGroups = map[string]*TimingGroup{}
	}
	if c.InitialScrollVelocity == 0 {
		c.InitialScrollVelocity = 1
	}

	c.TimingGroups[DefaultGroupID] = NewTimingGroup(c.skin, c.InitialScrollVelocity, c.ScrollVelocities, c.ScrollSpeedFactors)
	c.ScrollVelocities = nil
	c.ScrollSpeedFactors = nil

	for _, g := range c.TimingGroups {
		g.skin = c.skin
	}
	for _, h := range c.HitObjects {
		if h.TimingGroup == "" {
			h.TimingGroup = DefaultGroupID
		}
	}
}

func (c *Chart) Sort() {
	sortByStartTime(c.HitObjects)
	sortByStartTime(c.TimingPoints)
	for _, g := range c.TimingGroups {
		sortByStartTime(g.ScrollVelocities)
		sortByStartTime(g.ScrollSpeedFactors)
	}
}

// InitializeControlPoints computes the cumulative SV positions of every group
func (c *Chart) InitializeControlPoints() {
	for _, g := range c.TimingGroups {
		g.initializeControlPoints()
	}
}

// InitializeHitObjects fixes the static track positions of every object
func (c *Chart) InitializeHitObjects(field FieldPositions) error {
	for _, h := range c.HitObjects {
		g, ok := c.TimingGroups[h.TimingGroup]
		if !ok {
			return &MissingGroupError{ID: h.TimingGroup, Time: h.StartTime}
		}
		h.StartPosition = g.PositionFromTime(h.StartTime, false)
		h.StartPositionTail = h.StartPosition
		if h.EndTime != nil {
			h.StartPositionTail = g.PositionFromTime(*h.EndTime, false)
		}
		h.HitPosition = field.HitObject
	}
	return nil
}

func (c *Chart) InitializeTimingLines(field FieldPositions) error {
	g, ok := c.TimingGroups[DefaultGroupID]
	if !ok {
		return &MissingGroupError{ID: DefaultGroupID}
	}
	lines, err := GenerateTimingLines(c.TimingPoints, g, c.Length, c.skin, field.TimingLine)
	if nil != err {
		return err
	}
	c.TimingLines = lines
	return nil
}

func (c *Chart) InitializeBeatSnaps() error {
	if len(c.TimingPoints) == 0 {
		return ErrNoTimingPoints
	}
	for _, h := range c.HitObjects {
		index, err := ClassifySnap(c.TimingPoints, c.skin.BeatSnaps, h.StartTime)
		if nil != err {
			return err
		}
		h.SnapIndex = index
	}
	return nil
}

// Update runs one frame: every group's caches are refreshed before any
// object is projected against them
func (c *Chart) Update(time float64) {
	c.UpdateTrackPosition(time)
	c.UpdateScrollSpeed()
	c.UpdateTimingLines()
	c.UpdateHitObjects()
}

func (c *Chart) UpdateTrackPosition(time float64) {
	c.Time = time
	for _, g := range c.TimingGroups {
		g.Update(time, c.Mods.NoSV)
	}
}

func (c *Chart) UpdateScrollSpeed() {
	for _, g := range c.TimingGroups {
		g.UpdateScrollSpeed(c.Rate)
	}
}

func (c *Chart) UpdateTimingLines() {
	for i := range c.TimingLines {
		line := &c.TimingLines[i]
		g, ok := c.group(line.TimingGroup, line.StartTime)
		if !ok {
			continue
		}
		initial := line.StartPosition
		if c.Mods.NoSV {
			initial = g.round(line.StartTime)
		}
		line.CurrentTrackPosition = g.ObjectPosition(line.HitPosition, initial, c.Mods.NoSSF)
	}
}

func (c *Chart) UpdateHitObjects() {
	for _, h := range c.HitObjects {
		if h.Consumed {
			continue
		}
		g, ok := c.group(h.TimingGroup, h.StartTime)
		if !ok {
			continue
		}

		h.pushHistory()

		head, tail := h.StartPosition, h.StartPositionTail
		if c.Mods.NoSV {
			head, tail = g.round(h.StartTime), g.round(h.TailTime())
		}
		h.Position = g.ObjectPosition(h.HitPosition, head, c.Mods.NoSSF)
		h.PositionTail = g.ObjectPosition(h.HitPosition, tail, c.Mods.NoSSF)
	}
}

// group resolves a timing group for the frame pass. Unknown ids are logged
// once and the object is skipped.
func (c *Chart) group(id string, time float64) (*TimingGroup, bool) {
	g, ok := c.TimingGroups[id]
	if ok {
		return g, true
	}
	if c.reported == nil {
		c.reported = map[string]bool{}
	}
	if !c.reported[id] {
		c.reported[id] = true
		log.Warnf("%v, skipping", &MissingGroupError{ID: id, Time: time})
	}
	return nil, false
}

// Counts summarises the chart for the debug overlay
func (c *Chart) Counts() (svs, ssfs int) {
	for _, g := range c.TimingGroups {
		svs += len(g.ScrollVelocities)
		ssfs += len(g.ScrollSpeedFactors)
	}
	return svs, ssfs
}

// EndTime is the latest start or tail time of any object
func (c *Chart) EndTime() float64 {
	end := 0.0
	for _, h := range c.HitObjects {
		if t := h.TailTime(); t > end {
			end = t
		}
	}
	return end
}
