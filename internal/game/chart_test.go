package game

import (
	"errors"
	"math"
	"testing"
)

func newNote(t float64) *HitObject {
	return &HitObject{StartTime: t, Lane: 1}
}

func createChart(t *testing.T, notes []float64, svs, ssfs []ControlPoint) *Chart {
	hitObjects := make([]*HitObject, len(notes))
	for i, n := range notes {
		hitObjects[i] = newNote(n)
	}
	chart := &Chart{
		Mode:                  Keys4,
		InitialScrollVelocity: 1,
		TimingPoints:          []TimingPoint{{StartTime: 0, Bpm: 120, Signature: Quadruple}},
		ScrollVelocities:      svs,
		ScrollSpeedFactors:    ssfs,
		HitObjects:            hitObjects,
		Rate:                  1,
		Length:                2500,
	}
	if err := chart.Initialize(DefaultSkin(), FieldPositions{Downscroll: true}); nil != err {
		t.Fatalf("unable to initialize chart: %v", err)
	}
	return chart
}

func TestUpdateTrackPosition(t *testing.T) {
	chart := createChart(t, []float64{500}, nil, nil)

	chart.UpdateTrackPosition(0)
	if p := chart.TimingGroups[DefaultGroupID].CurrentTrackPosition; p != 0 {
		t.Errorf("expected track position 0, got %v", p)
	}

	chart.UpdateTrackPosition(1000)
	if p := chart.TimingGroups[DefaultGroupID].CurrentTrackPosition; p != 100000 {
		t.Errorf("expected track position 100000, got %v", p)
	}
	if chart.Time != 1000 {
		t.Errorf("expected chart time 1000, got %v", chart.Time)
	}
}

func TestUpdateScrollSpeed(t *testing.T) {
	chart := createChart(t, []float64{500}, nil, nil)
	for _, rate := range []float64{0.5, 1, 1.5, 2} {
		chart.Rate = rate
		chart.UpdateScrollSpeed()

		skin := DefaultSkin()
		scaling := 1 + (rate-1)*(skin.NormalizeByRatePercentage/100)
		adjusted := math.Min(math.Max(skin.ScrollSpeed*scaling, 50), 1000)
		expected := (adjusted / 10) / (20 * rate) * (1920.0 / 1366.0)

		if got := chart.TimingGroups[DefaultGroupID].ScrollSpeed; math.Abs(got-expected) > 1e-9 {
			t.Errorf("rate %v: expected scroll speed %v, got %v", rate, expected, got)
		}
	}
}

func TestUpdateTimingLines(t *testing.T) {
	chart := createChart(t, []float64{500}, nil, nil)

	chart.UpdateScrollSpeed()
	chart.UpdateTrackPosition(1000)
	chart.UpdateTimingLines()

	if len(chart.TimingLines) != 2 {
		t.Fatalf("expected 2 timing lines, got %v", len(chart.TimingLines))
	}
	if p := chart.TimingLines[0].CurrentTrackPosition; p != 2248 {
		t.Errorf("expected first line at 2248, got %v", p)
	}
	if p := chart.TimingLines[1].CurrentTrackPosition; p != -2248 {
		t.Errorf("expected second line at -2248, got %v", p)
	}
}

func TestUpdateMatchesSteps(t *testing.T) {
	a := createChart(t, []float64{500, 1500}, nil, nil)
	b := createChart(t, []float64{500, 1500}, nil, nil)

	a.Update(1000)

	b.UpdateTrackPosition(1000)
	b.UpdateScrollSpeed()
	b.UpdateTimingLines()
	b.UpdateHitObjects()

	for i := range a.TimingLines {
		if a.TimingLines[i].CurrentTrackPosition != b.TimingLines[i].CurrentTrackPosition {
			t.Errorf("line %d: %v != %v", i, a.TimingLines[i].CurrentTrackPosition, b.TimingLines[i].CurrentTrackPosition)
		}
	}
	for i := range a.HitObjects {
		if a.HitObjects[i].Position != b.HitObjects[i].Position {
			t.Errorf("note %d: %v != %v", i, a.HitObjects[i].Position, b.HitObjects[i].Position)
		}
	}
}

func TestUpdateHitObjectsMods(t *testing.T) {
	svs := []ControlPoint{{StartTime: 1000, Multiplier: 2}}
	ssfs := []ControlPoint{{StartTime: 0, Multiplier: 2}}

	tests := []struct {
		mods     Mods
		expected Position
	}{
		{Mods{}, -8995},
		{Mods{NoSV: true}, -6746},
		{Mods{NoSSF: true}, -4497},
		{Mods{NoSV: true, NoSSF: true}, -3373},
	}

	for _, test := range tests {
		chart := createChart(t, []float64{1500}, append([]ControlPoint{}, svs...), append([]ControlPoint{}, ssfs...))
		chart.Mods = test.mods
		chart.UpdateScrollSpeed()
		chart.UpdateTrackPosition(0)
		chart.UpdateHitObjects()

		note := chart.HitObjects[0]
		if note.Position != test.expected || note.PositionTail != test.expected {
			t.Errorf("%+v: expected %v, got %v / %v", test.mods, test.expected, note.Position, note.PositionTail)
		}
	}
}

func TestInitializeBeatSnaps(t *testing.T) {
	chart := createChart(t, []float64{0, 20, 62.5, 125, 250}, nil, nil)

	expected := []int{0, 8, 5, 3, 1}
	for i, note := range chart.HitObjects {
		if note.SnapIndex != expected[i] {
			t.Errorf("note at %v: expected snap %v, got %v", note.StartTime, expected[i], note.SnapIndex)
		}
	}
}

func TestInitializeBeatSnapsNoTimingPoints(t *testing.T) {
	chart := createChart(t, []float64{500}, nil, nil)
	chart.TimingPoints = nil

	if err := chart.InitializeBeatSnaps(); !errors.Is(err, ErrNoTimingPoints) {
		t.Errorf("expected ErrNoTimingPoints, got %v", err)
	}
}

func TestInitializeWithoutTimingPoints(t *testing.T) {
	chart := &Chart{HitObjects: []*HitObject{newNote(0)}, Length: 1000}
	err := chart.Initialize(DefaultSkin(), FieldPositions{})
	if !errors.Is(err, ErrNoTimingPoints) {
		t.Errorf("expected ErrNoTimingPoints, got %v", err)
	}
}

func TestInitializeMissingGroup(t *testing.T) {
	note := newNote(100)
	note.TimingGroup = "layer"
	chart := &Chart{
		TimingPoints: []TimingPoint{{Bpm: 120}},
		HitObjects:   []*HitObject{note},
	}

	err := chart.Initialize(DefaultSkin(), FieldPositions{})
	var missing *MissingGroupError
	if !errors.As(err, &missing) {
		t.Fatalf("expected MissingGroupError, got %v", err)
	}
	if missing.ID != "layer" {
		t.Errorf("expected missing id layer, got %q", missing.ID)
	}
}

func TestInitializeAssignsDefaultGroup(t *testing.T) {
	layered := newNote(900)
	layered.TimingGroup = "layer"
	chart := &Chart{
		TimingPoints: []TimingPoint{{Bpm: 120}},
		HitObjects:   []*HitObject{newNote(1000), layered},
		TimingGroups: map[string]*TimingGroup{
			"layer": {InitialScrollVelocity: 0.5, CurrentSsfFactor: 1},
		},
		Length: 1000,
	}
	if err := chart.Initialize(DefaultSkin(), FieldPositions{}); nil != err {
		t.Fatal(err)
	}

	// sorted by start time
	if chart.HitObjects[0] != layered {
		t.Fatal("expected hit objects to be sorted")
	}
	if chart.HitObjects[1].TimingGroup != DefaultGroupID {
		t.Errorf("expected default group, got %q", chart.HitObjects[1].TimingGroup)
	}
	if p := layered.StartPosition; p != 45000 {
		t.Errorf("expected layered start position 45000, got %v", p)
	}
	if p := chart.HitObjects[1].StartPosition; p != 100000 {
		t.Errorf("expected default start position 100000, got %v", p)
	}
}

func TestLongNoteTail(t *testing.T) {
	end := 2000.0
	ln := &HitObject{StartTime: 1000, EndTime: &end, Lane: 2}
	chart := &Chart{
		TimingPoints: []TimingPoint{{Bpm: 120}},
		HitObjects:   []*HitObject{ln},
		Length:       3000,
	}
	if err := chart.Initialize(DefaultSkin(), FieldPositions{}); nil != err {
		t.Fatal(err)
	}
	if ln.StartPosition != 100000 || ln.StartPositionTail != 200000 {
		t.Errorf("expected 100000/200000, got %v/%v", ln.StartPosition, ln.StartPositionTail)
	}

	chart.Update(1000)
	if ln.Position != 0 {
		t.Errorf("expected head on the receptor, got %v", ln.Position)
	}
	if ln.PositionTail >= ln.Position {
		t.Errorf("expected downscroll tail above head, got %v >= %v", ln.PositionTail, ln.Position)
	}
}

func TestConsumedObjectsAreNotProjected(t *testing.T) {
	chart := createChart(t, []float64{500, 1500}, nil, nil)
	chart.Update(0)
	hit := chart.HitObjects[0]
	before := hit.Position

	hit.Hit(480)
	chart.Update(1000)

	if hit.Position != before {
		t.Errorf("expected consumed note to keep %v, got %v", before, hit.Position)
	}
	if hit.HitTime != 480 || !hit.Consumed {
		t.Errorf("expected hit at 480, got %v (%v)", hit.HitTime, hit.Consumed)
	}
	if chart.HitObjects[1].Position == 0 {
		t.Error("expected remaining note to be projected")
	}
}

func TestMissingGroupSkippedPerFrame(t *testing.T) {
	chart := createChart(t, []float64{500, 1500}, nil, nil)
	chart.HitObjects[0].TimingGroup = "gone"
	chart.Update(0)
	before := chart.HitObjects[0].Position

	chart.Update(250)
	if chart.HitObjects[0].Position != before {
		t.Errorf("expected object with a missing group to be skipped")
	}
	if chart.HitObjects[1].Position == 0 {
		t.Errorf("expected the rest of the pass to run")
	}
}

func TestHistoryTracksPreviousPositions(t *testing.T) {
	chart := createChart(t, []float64{1500}, nil, nil)
	note := chart.HitObjects[0]

	chart.Update(0)
	if note.History.Len() != HistorySize {
		t.Fatalf("expected full history after first frame, got %v", note.History.Len())
	}

	first := note.Position
	chart.Update(100)
	if note.History.At(0) != first {
		t.Errorf("expected newest history entry %v, got %v", first, note.History.At(0))
	}
	for i := 0; i < 20; i++ {
		chart.Update(float64(200 + i))
	}
	if note.History.Len() != HistorySize {
		t.Errorf("expected bounded history, got %v", note.History.Len())
	}
}

func TestKeyCount(t *testing.T) {
	tests := []struct {
		chart    Chart
		scratch  bool
		expected int
	}{
		{Chart{Mode: Keys4}, true, 4},
		{Chart{Mode: Keys7}, false, 7},
		{Chart{Mode: Keys7, HasScratchKey: true}, true, 8},
		{Chart{Mode: Keys7, HasScratchKey: true}, false, 7},
		{Chart{}, false, 4},
	}
	for _, test := range tests {
		if got := test.chart.KeyCount(test.scratch); got != test.expected {
			t.Errorf("%v scratch=%v: expected %v, got %v", test.chart.Mode, test.scratch, test.expected, got)
		}
	}
}

func BenchmarkUpdate(b *testing.B) {
	notes := make([]*HitObject, 2000)
	svs := make([]ControlPoint, 500)
	for i := range notes {
		notes[i] = newNote(float64(i * 50))
	}
	for i := range svs {
		svs[i] = ControlPoint{StartTime: float64(i * 200), Multiplier: 0.5 + float64(i%4)/2}
	}
	chart := &Chart{
		TimingPoints:     []TimingPoint{{Bpm: 180}},
		HitObjects:       notes,
		ScrollVelocities: svs,
		Length:           100000,
	}
	if err := chart.Initialize(DefaultSkin(), DefaultSkin().FieldPositions()); nil != err {
		b.Fatal(err)
	}
	b.ResetTimer()

	for n := 0; n < b.N; n++ {
		chart.Update(float64(n % 100000))
	}
}
