package game

// HistorySize is how many previous live positions a hit object remembers
const HistorySize = 10

// PositionHistory is a fixed size ring of previous positions, newest first.
// It only feeds the cosmetic stretch effect.
type PositionHistory struct {
	buf  [HistorySize]Position
	head int
	n    int
}

func (h *PositionHistory) Push(p Position) {
	h.head = (h.head + HistorySize - 1) % HistorySize
	h.buf[h.head] = p
	if h.n < HistorySize {
		h.n++
	}
}

// At returns the i-th most recent position, 0 being the newest
func (h *PositionHistory) At(i int) Position {
	return h.buf[(h.head+i)%HistorySize]
}

func (h *PositionHistory) Len() int {
	return h.n
}

type KeySound struct {
	Sample int // one based index into the chart's custom samples
	Volume int
}

type HitObject struct {
	StartTime   float64
	EndTime     *float64 // set for long notes
	Lane        int      // one based
	KeySounds   []KeySound
	TimingGroup string

	SnapIndex   int     // index into Skin.BeatSnaps
	HitPosition float64 // reference row the object is projected against

	// Track positions at StartTime and EndTime, fixed at load
	StartPosition     Position
	StartPositionTail Position

	// Live positions, recomputed every frame
	Position     Position
	PositionTail Position
	History      PositionHistory

	// Set by gameplay; consumed objects are no longer projected
	HitTime  float64
	Consumed bool
}

func (h *HitObject) startTime() float64 { return h.StartTime }

func (h *HitObject) IsLongNote() bool {
	return h.EndTime != nil
}

// TailTime is EndTime for long notes and StartTime otherwise
func (h *HitObject) TailTime() float64 {
	if h.EndTime != nil {
		return *h.EndTime
	}
	return h.StartTime
}

// Hit flags the object as consumed by gameplay at time
func (h *HitObject) Hit(time float64) {
	h.HitTime = time
	h.Consumed = true
}

func (h *HitObject) pushHistory() {
	if h.History.Len() == 0 {
		for i := 0; i < HistorySize-1; i++ {
			h.History.Push(h.Position)
		}
	}
	h.History.Push(h.Position)
}
