package phrase

import "golang.org/x/exp/slices"

// Session is the ordered, growing capture for the current recording session. Notes are only
// appended by the capture handler and only removed all at once by Clear.
type Session struct {
	notes []CapturedNote

	appendListeners []func(CapturedNote)
	clearListeners  []func()
}

// NewSession creates an empty capture session.
func NewSession() *Session {
	return &Session{}
}

// OnAppend registers a listener notified after every appended note.
func (s *Session) OnAppend(fn func(CapturedNote)) {
	s.appendListeners = append(s.appendListeners, fn)
}

// OnClear registers a listener notified whenever a new session starts.
func (s *Session) OnClear(fn func()) {
	s.clearListeners = append(s.clearListeners, fn)
}

// Append adds a note to the end of the capture.
func (s *Session) Append(n CapturedNote) {
	s.notes = append(s.notes, n)
	for _, fn := range s.appendListeners {
		fn(n)
	}
}

// Notes returns a copy of the capture.
func (s *Session) Notes() []CapturedNote {
	return slices.Clone(s.notes)
}

// Len returns the number of captured notes.
func (s *Session) Len() int {
	return len(s.notes)
}

// Clear ends the session. Listeners are notified even when the capture was already empty,
// since clearing always starts a new session.
func (s *Session) Clear() {
	s.notes = nil
	for _, fn := range s.clearListeners {
		fn()
	}
}
