package deck

import "sync"

// Session serialises dispatches for one user.
type Session struct {
	mu    sync.Mutex
	state State
}

func NewSession() *Session { return &Session{} }

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) Dispatch(a Action) []Notice {
	s.mu.Lock()
	defer s.mu.Unlock()
	var notices []Notice
	s.state, notices = Reduce(s.state, a)
	return notices
}

// beginSubmit marks the session as submitting if the draft is ready and no other
// submission is running, and returns the draft to send.
func (s *Session) beginSubmit() (Draft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch {
	case s.state.Submitting:
		return s.state.Draft, ErrSubmitting
	case !s.state.Draft.CanSubmit():
		return s.state.Draft, ErrNotReady
	}
	s.state, _ = Reduce(s.state, SubmitStarted{})
	return s.state.Draft, nil
}
