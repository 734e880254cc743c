package app

// Window is the event source driving the app. PollEvents is called once per
// frame after rendering and pushes whatever happened since the last call.
type Window interface {
	PollEvents(q *EventQueue) error
}

// HeadlessWindow reports its size once and requests close after a fixed
// number of polls. A zero frame limit never closes.
type HeadlessWindow struct {
	width, height int
	limit         int
	polls         int
	sized         bool
	script        map[int][]Event
}

// NewHeadlessWindow returns a window of the given size that closes after
// frames polls.
func NewHeadlessWindow(width, height, frames int) *HeadlessWindow {
	return &HeadlessWindow{width: width, height: height, limit: frames, script: make(map[int][]Event)}
}

// At schedules events to be delivered on the given poll, counted from 1.
func (w *HeadlessWindow) At(poll int, events ...Event) {
	w.script[poll] = append(w.script[poll], events...)
}

// Polls returns how many times PollEvents ran.
func (w *HeadlessWindow) Polls() int { return w.polls }

// PollEvents implements Window.
func (w *HeadlessWindow) PollEvents(q *EventQueue) error {
	w.polls++
	if !w.sized {
		q.Push(ResizeEvent(w.width, w.height))
		w.sized = true
	}
	for _, e := range w.script[w.polls] {
		q.Push(e)
	}
	if w.limit > 0 && w.polls >= w.limit {
		q.Push(CloseEvent())
	}
	return nil
}
