package game

type GameMode string

const (
	Keys4 GameMode = "Keys4"
	Keys7 GameMode = "Keys7"
)

var modeKeys = map[GameMode]int{
	Keys4: 4,
	Keys7: 7,
}

// Mods change how a chart is played back
type Mods struct {
	Mirror bool // flip lanes horizontally
	NoSV   bool // ignore scroll velocities
	NoSSF  bool // ignore scroll speed factors
}
