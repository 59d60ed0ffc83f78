package game

import (
	"errors"
	"fmt"
)

// ErrNoTimingPoints is returned when a chart without timing points is asked
// for timing lines or beat snaps
var ErrNoTimingPoints = errors.New("chart has no timing points")

// MissingGroupError is a reference to a timing group the chart does not have
type MissingGroupError struct {
	ID   string
	Time float64 // start time of the referencing object
}

func (e *MissingGroupError) Error() string {
	return fmt.Sprintf("timing group %q not found for object at %vms", e.ID, e.Time)
}
