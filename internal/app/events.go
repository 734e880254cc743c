package app

import "fmt"

// EventKind distinguishes window events.
type EventKind int

const (
	EventResize EventKind = iota + 1
	EventClose
	EventKey
)

// Key is a keyboard key the app reacts to.
type Key int

const (
	KeyUnknown Key = iota
	KeyX
	KeyEscape
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
)

func (k Key) String() string {
	switch k {
	case KeyX:
		return "X"
	case KeyEscape:
		return "Escape"
	case KeyUp:
		return "Up"
	case KeyDown:
		return "Down"
	case KeyLeft:
		return "Left"
	case KeyRight:
		return "Right"
	default:
		return fmt.Sprintf("key(%d)", int(k))
	}
}

// Action is what happened to a key.
type Action int

const (
	ActionPress Action = iota + 1
	ActionRelease
	ActionRepeat
)

// Event is a single window signal. Width and Height are set for resizes; Key
// and Action for key events.
type Event struct {
	Kind   EventKind
	Width  int
	Height int
	Key    Key
	Action Action
}

// ResizeEvent reports a new framebuffer size.
func ResizeEvent(width, height int) Event {
	return Event{Kind: EventResize, Width: width, Height: height}
}

// CloseEvent reports that the window wants to close.
func CloseEvent() Event { return Event{Kind: EventClose} }

// KeyEvent reports a key transition.
func KeyEvent(key Key, action Action) Event {
	return Event{Kind: EventKey, Key: key, Action: action}
}

// EventQueue buffers window events until the frame loop drains them.
type EventQueue struct {
	events []Event
}

// Push appends e.
func (q *EventQueue) Push(e Event) { q.events = append(q.events, e) }

// Drain returns the queued events in arrival order and empties the queue.
func (q *EventQueue) Drain() []Event {
	out := q.events
	q.events = nil
	return out
}
