package session

import "time"

// Session is the playback state of a chart when it was last closed
type Session struct {
	Checksum string
	Position float64 // ms
	Rate     float64
	Volume   float64
	Updated  time.Time
}

type Store interface {
	Init() error
	Deinit()
	Save(s Session) error
	// Load returns false if the chart has no saved session
	Load(checksum string) (Session, bool, error)
}
