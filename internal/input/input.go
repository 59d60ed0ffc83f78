package input

import (
	"time"

	"github.com/gdamore/tcell/v2"
)

type Command int

const (
	None Command = iota
	TogglePlay
	Restart
	SeekBackward
	SeekForward
	VolumeUp
	VolumeDown
	RateUp
	RateDown
	ToggleDebug
	Quit
)

func (c Command) String() string {
	switch c {
	case TogglePlay:
		return "toggle-play"
	case Restart:
		return "restart"
	case SeekBackward:
		return "seek-backward"
	case SeekForward:
		return "seek-forward"
	case VolumeUp:
		return "volume-up"
	case VolumeDown:
		return "volume-down"
	case RateUp:
		return "rate-up"
	case RateDown:
		return "rate-down"
	case ToggleDebug:
		return "toggle-debug"
	case Quit:
		return "quit"
	}
	return "none"
}

type Event struct {
	Command Command
	Time    time.Time
}

// Map translates a key press into a host command
func Map(ev *tcell.EventKey) Command {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyBackspace, tcell.KeyBackspace2, tcell.KeyCtrlC:
		return Quit
	case tcell.KeyLeft:
		return SeekBackward
	case tcell.KeyRight:
		return SeekForward
	case tcell.KeyUp:
		return VolumeUp
	case tcell.KeyDown:
		return VolumeDown
	case tcell.KeyRune:
		switch ev.Rune() {
		case ' ':
			return TogglePlay
		case 'r', 'R':
			return Restart
		case '=', '+':
			return RateUp
		case '-', '_':
			return RateDown
		case 'd', 'D':
			return ToggleDebug
		}
	}
	return None
}

// ReadInput polls screen until it is finalized, sending every mapped key
// press to events
func ReadInput(screen tcell.Screen, events chan<- *Event) {
	go func() {
		for {
			ev := screen.PollEvent()
			if nil == ev {
				close(events)
				return
			}
			key, ok := ev.(*tcell.EventKey)
			if !ok {
				continue
			}
			if cmd := Map(key); cmd != None {
				events <- &Event{Command: cmd, Time: key.When()}
			}
		}
	}()
}
