// Package timer implements the work session state machine.
//
// A session is Running (no end, lastResume set), Paused (no end, no
// lastResume) or Stopped (end set). ElapsedBeforePause accumulates every
// closed active segment and never decreases while the session is open.
package timer

import "time"

// State is the lifecycle state of a session.
type State string

const (
	StateRunning State = "running"
	StatePaused  State = "paused"
	StateStopped State = "stopped"
)

// Session is one tracked interval of work on a project, possibly made of
// several active segments separated by pauses.
type Session struct {
	ID                 string        `json:"id"`
	ProjectID          string        `json:"project_id"`
	Start              time.Time     `json:"start"`
	End                *time.Time    `json:"end,omitempty"`
	LastResume         *time.Time    `json:"last_resume,omitempty"`
	ElapsedBeforePause time.Duration `json:"elapsed_before_pause"`
}

// New creates a Running session that starts at at.
func New(id, projectID string, at time.Time) Session {
	resume := at
	return Session{
		ID:         id,
		ProjectID:  projectID,
		Start:      at,
		LastResume: &resume,
	}
}

// NewFromPast creates a Running session that started at past, with the gap
// up to at already counted.
func NewFromPast(id, projectID string, past, at time.Time) (Session, error) {
	if past.After(at) {
		return Session{}, refuse("start-from-past", "", ErrStartInFuture)
	}
	resume := at
	return Session{
		ID:                 id,
		ProjectID:          projectID,
		Start:              past,
		LastResume:         &resume,
		ElapsedBeforePause: at.Sub(past),
	}, nil
}

// NewLogged creates a Stopped session covering [start, end].
func NewLogged(id, projectID string, start, end time.Time) (Session, error) {
	if !end.After(start) {
		return Session{}, refuse("log", "", ErrInvalidInterval)
	}
	e := end
	return Session{
		ID:                 id,
		ProjectID:          projectID,
		Start:              start,
		End:                &e,
		ElapsedBeforePause: end.Sub(start),
	}, nil
}

// State derives the session state from its fields.
func (s Session) State() State {
	switch {
	case s.End != nil:
		return StateStopped
	case s.LastResume != nil:
		return StateRunning
	default:
		return StatePaused
	}
}

// IsOpen reports whether the session has not been stopped.
func (s Session) IsOpen() bool {
	return s.End == nil
}

// Pause folds the active segment into ElapsedBeforePause.
// Returns false without error when the session is already paused.
func (s *Session) Pause(at time.Time) (bool, error) {
	switch s.State() {
	case StateStopped:
		return false, refuse("pause", StateStopped, ErrSessionStopped)
	case StatePaused:
		return false, nil
	}
	s.ElapsedBeforePause += segment(*s.LastResume, at)
	s.LastResume = nil
	return true, nil
}

// Resume opens a new active segment at at.
// Returns false without error when the session is already running.
func (s *Session) Resume(at time.Time) (bool, error) {
	switch s.State() {
	case StateStopped:
		return false, refuse("resume", StateStopped, ErrSessionStopped)
	case StateRunning:
		return false, nil
	}
	resume := at
	s.LastResume = &resume
	return true, nil
}

// Stop closes the session at at. After Stop, ElapsedBeforePause is the
// session's final duration.
func (s *Session) Stop(at time.Time) error {
	if s.State() == StateStopped {
		return refuse("stop", StateStopped, ErrSessionStopped)
	}
	if s.LastResume != nil {
		s.ElapsedBeforePause += segment(*s.LastResume, at)
		s.LastResume = nil
	}
	end := at
	s.End = &end
	return nil
}

// In returns the session with its instants expressed in loc.
func (s Session) In(loc *time.Location) Session {
	if loc == nil {
		return s
	}
	s.Start = s.Start.In(loc)
	if s.End != nil {
		end := s.End.In(loc)
		s.End = &end
	}
	if s.LastResume != nil {
		resume := s.LastResume.In(loc)
		s.LastResume = &resume
	}
	return s
}

// CurrentDuration is the time the session has accrued as of at. Stopped and
// paused sessions return ElapsedBeforePause unchanged.
func (s Session) CurrentDuration(at time.Time) time.Duration {
	if s.End != nil || s.LastResume == nil {
		return s.ElapsedBeforePause
	}
	return s.ElapsedBeforePause + segment(*s.LastResume, at)
}

// segment is the length of an active segment; a clock that stepped
// backwards contributes nothing.
func segment(from, to time.Time) time.Duration {
	d := to.Sub(from)
	if d < 0 {
		return 0
	}
	return d
}
