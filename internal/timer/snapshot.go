package timer

import "time"

// Snapshot is everything an independently clocked display needs to show a
// session's elapsed time without asking again.
type Snapshot struct {
	SessionID          string        `json:"session_id"`
	IsRunning          bool          `json:"is_running"`
	Accumulated        time.Duration `json:"accumulated_before_active_segment"`
	ActiveSegmentStart *time.Time    `json:"active_segment_start,omitempty"`
	TakenAt            time.Time     `json:"last_snapshot_at"`
}

// Snapshot captures the session state as of at.
func (s Session) Snapshot(at time.Time) Snapshot {
	snap := Snapshot{
		SessionID:   s.ID,
		IsRunning:   s.State() == StateRunning,
		Accumulated: s.ElapsedBeforePause,
		TakenAt:     at,
	}
	if snap.IsRunning {
		start := *s.LastResume
		snap.ActiveSegmentStart = &start
	}
	return snap
}

// Elapsed recomputes the session duration at localNow using only the
// snapshot. It agrees with Session.CurrentDuration for the same instant.
func (snap Snapshot) Elapsed(localNow time.Time) time.Duration {
	if !snap.IsRunning || snap.ActiveSegmentStart == nil {
		return snap.Accumulated
	}
	return snap.Accumulated + segment(*snap.ActiveSegmentStart, localNow)
}
