package proctor

import (
	"sync"
	"time"
)

// State of one proctored exam session.
type State int

const (
	StateIdle State = iota
	StateActive
	StateWarned
	StateTerminated
)

func (s State) String() string {
	switch s {
	case StateActive:
		return "active"
	case StateWarned:
		return "warned"
	case StateTerminated:
		return "terminated"
	default:
		return "idle"
	}
}

// MaxViolations is the counter value that forces submission.
const MaxViolations = 3

// warnDisplay is how long a warning stays up before the session auto-returns
// to Active without an explicit acknowledgement.
const warnDisplay = 3 * time.Second

// Violation types mirror the suppressed actions during the exam.
const (
	ViolationContextMenu = "context_menu"
	ViolationDevtools    = "devtools_shortcut"
	ViolationCopyPaste   = "copy_paste"
	ViolationScreenshot  = "screenshot_shortcut"
	ViolationSelection   = "text_selection"
)

// Violation is the outcome of recording one suppressed action. Terminate is
// true on exactly one recording per session: the one where the counter first
// reaches MaxViolations. The caller is responsible for the save-then-redirect
// side effect.
type Violation struct {
	Jenis     string
	Count     int
	Remaining int
	State     State
	Terminate bool
}

// Session tracks integrity violations for one exam entry. The counter is
// strictly increasing and is reset only by discarding the session (leaving
// the exam screen). All methods are safe for concurrent use.
type Session struct {
	mu          sync.Mutex
	state       State
	count       int
	warnedUntil time.Time

	now func() time.Time
}

func NewSession() *Session {
	return &Session{state: StateIdle, now: time.Now}
}

// Activate engages proctoring. Sessions belonging to asesor reviewing a
// transcript are never activated and stay Idle.
func (s *Session) Activate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateIdle {
		s.state = StateActive
	}
}

// RecordViolation increments the counter and transitions to Warned(n), or to
// Terminated when the counter reaches MaxViolations. Recording against an
// Idle or already-Terminated session is a no-op.
func (s *Session) RecordViolation(jenis string) Violation {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateIdle || s.state == StateTerminated {
		return Violation{Jenis: jenis, Count: s.count, Remaining: MaxViolations - s.count, State: s.state}
	}

	s.count++
	if s.count >= MaxViolations {
		s.count = MaxViolations
		s.state = StateTerminated
		return Violation{Jenis: jenis, Count: s.count, Remaining: 0, State: s.state, Terminate: true}
	}

	s.state = StateWarned
	s.warnedUntil = s.now().Add(warnDisplay)
	return Violation{Jenis: jenis, Count: s.count, Remaining: MaxViolations - s.count, State: s.state}
}

// Acknowledge dismisses a warning early and returns the session to Active.
// The counter is untouched.
func (s *Session) Acknowledge() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateWarned {
		s.state = StateActive
	}
}

// State returns the current state, auto-returning an expired warning to
// Active.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateWarned && !s.now().Before(s.warnedUntil) {
		s.state = StateActive
	}
	return s.state
}

// Count returns the violation counter. It never decreases within one session.
func (s *Session) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.count
}
