package timer

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

var t0 = time.Date(2024, time.January, 15, 9, 0, 0, 0, time.UTC)

func TestNew_IsRunning(t *testing.T) {
	s := New("s1", "p1", t0)

	if s.State() != StateRunning {
		t.Fatalf("State() = %q, expected %q", s.State(), StateRunning)
	}
	if !s.Start.Equal(t0) || s.LastResume == nil || !s.LastResume.Equal(t0) {
		t.Errorf("unexpected start fields: start=%v lastResume=%v", s.Start, s.LastResume)
	}
	if s.ElapsedBeforePause != 0 {
		t.Errorf("ElapsedBeforePause = %v, expected 0", s.ElapsedBeforePause)
	}
	if !s.IsOpen() {
		t.Error("new session should be open")
	}
}

func TestPauseResumeStop_Scenario(t *testing.T) {
	s := New("s1", "p1", t0)

	if _, err := s.Pause(t0.Add(30 * time.Second)); err != nil {
		t.Fatalf("Pause() returned unexpected error: %v", err)
	}
	if _, err := s.Resume(t0.Add(90 * time.Second)); err != nil {
		t.Fatalf("Resume() returned unexpected error: %v", err)
	}
	if err := s.Stop(t0.Add(150 * time.Second)); err != nil {
		t.Fatalf("Stop() returned unexpected error: %v", err)
	}

	if s.ElapsedBeforePause != 90*time.Second {
		t.Errorf("ElapsedBeforePause = %v, expected 90s", s.ElapsedBeforePause)
	}
	if s.State() != StateStopped {
		t.Errorf("State() = %q, expected stopped", s.State())
	}
	if s.LastResume != nil {
		t.Error("stopped session should have no LastResume")
	}
	if s.End == nil || !s.End.Equal(t0.Add(150*time.Second)) {
		t.Errorf("End = %v, expected %v", s.End, t0.Add(150*time.Second))
	}
}

func TestPauseResume_NoTimeGainedOrLost(t *testing.T) {
	s := New("s1", "p1", t0)
	t1 := t0.Add(10 * time.Minute)
	t2 := t0.Add(25 * time.Minute)

	_, _ = s.Pause(t1)
	atPause := s.CurrentDuration(t1)
	_, _ = s.Resume(t2)

	if got := s.CurrentDuration(t2); got != atPause {
		t.Errorf("CurrentDuration at resume = %v, expected %v", got, atPause)
	}
	if got := s.CurrentDuration(t2.Add(time.Minute)); got != atPause+time.Minute {
		t.Errorf("CurrentDuration after resume = %v, expected %v", got, atPause+time.Minute)
	}
}

func TestCurrentDuration_Monotonic(t *testing.T) {
	running := New("s1", "p1", t0)
	prev := time.Duration(-1)
	for i := 0; i < 10; i++ {
		d := running.CurrentDuration(t0.Add(time.Duration(i) * 7 * time.Second))
		if d < prev {
			t.Fatalf("CurrentDuration decreased: %v after %v", d, prev)
		}
		prev = d
	}

	paused := New("s2", "p1", t0)
	_, _ = paused.Pause(t0.Add(time.Minute))
	for _, at := range []time.Time{t0.Add(time.Minute), t0.Add(time.Hour), t0.Add(48 * time.Hour)} {
		if d := paused.CurrentDuration(at); d != time.Minute {
			t.Errorf("paused CurrentDuration(%v) = %v, expected 1m", at, d)
		}
	}

	stopped := New("s3", "p1", t0)
	_ = stopped.Stop(t0.Add(2 * time.Minute))
	for _, at := range []time.Time{t0, t0.Add(time.Hour), t0.Add(365 * 24 * time.Hour)} {
		if d := stopped.CurrentDuration(at); d != 2*time.Minute {
			t.Errorf("stopped CurrentDuration(%v) = %v, expected 2m", at, d)
		}
	}
}

func TestPause_AlreadyPausedIsNoOp(t *testing.T) {
	s := New("s1", "p1", t0)
	_, _ = s.Pause(t0.Add(time.Minute))
	before := s

	changed, err := s.Pause(t0.Add(5 * time.Minute))
	if err != nil {
		t.Fatalf("Pause() on paused session returned error: %v", err)
	}
	if changed {
		t.Error("Pause() on paused session reported a change")
	}
	if s.ElapsedBeforePause != before.ElapsedBeforePause || s.LastResume != nil {
		t.Error("Pause() on paused session mutated state")
	}
}

func TestResume_AlreadyRunningIsNoOp(t *testing.T) {
	s := New("s1", "p1", t0)

	changed, err := s.Resume(t0.Add(time.Minute))
	if err != nil {
		t.Fatalf("Resume() on running session returned error: %v", err)
	}
	if changed {
		t.Error("Resume() on running session reported a change")
	}
	if !s.LastResume.Equal(t0) {
		t.Errorf("LastResume moved to %v", s.LastResume)
	}
}

func TestStoppedSession_RejectsTransitions(t *testing.T) {
	s := New("s1", "p1", t0)
	_ = s.Stop(t0.Add(time.Minute))
	frozen := s

	tests := []struct {
		name string
		op   func() error
	}{
		{"pause", func() error { _, err := s.Pause(t0.Add(time.Hour)); return err }},
		{"resume", func() error { _, err := s.Resume(t0.Add(time.Hour)); return err }},
		{"stop", func() error { return s.Stop(t0.Add(time.Hour)) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.op()
			if !errors.Is(err, ErrPreconditionViolation) {
				t.Fatalf("expected ErrPreconditionViolation, got %v", err)
			}
			if !errors.Is(err, ErrSessionStopped) {
				t.Errorf("expected ErrSessionStopped, got %v", err)
			}
			var pe *PreconditionError
			if !errors.As(err, &pe) || pe.Op != tt.name || pe.State != StateStopped {
				t.Errorf("unexpected PreconditionError: %+v", pe)
			}
			if !s.End.Equal(*frozen.End) || s.ElapsedBeforePause != frozen.ElapsedBeforePause {
				t.Error("refused transition mutated the session")
			}
		})
	}
}

func TestStop_FromPaused(t *testing.T) {
	s := New("s1", "p1", t0)
	_, _ = s.Pause(t0.Add(20 * time.Minute))

	if err := s.Stop(t0.Add(2 * time.Hour)); err != nil {
		t.Fatalf("Stop() returned unexpected error: %v", err)
	}
	if s.ElapsedBeforePause != 20*time.Minute {
		t.Errorf("ElapsedBeforePause = %v, expected 20m", s.ElapsedBeforePause)
	}
}

func TestNewLogged(t *testing.T) {
	s, err := NewLogged("s1", "p1", t0, t0.Add(3600*time.Second))
	if err != nil {
		t.Fatalf("NewLogged() returned unexpected error: %v", err)
	}
	if s.State() != StateStopped {
		t.Errorf("State() = %q, expected stopped", s.State())
	}
	for _, at := range []time.Time{t0.Add(2 * time.Hour), t0.Add(1000 * time.Hour)} {
		if d := s.CurrentDuration(at); d != time.Hour {
			t.Errorf("CurrentDuration(%v) = %v, expected 1h", at, d)
		}
	}
}

func TestNewLogged_InvalidInterval(t *testing.T) {
	tests := []struct {
		name string
		end  time.Time
	}{
		{"end equals start", t0},
		{"end before start", t0.Add(-time.Minute)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewLogged("s1", "p1", t0, tt.end)
			if !errors.Is(err, ErrInvalidInterval) {
				t.Errorf("expected ErrInvalidInterval, got %v", err)
			}
		})
	}
}

func TestNewFromPast(t *testing.T) {
	now := t0.Add(time.Hour)
	s, err := NewFromPast("s1", "p1", now.Add(-1800*time.Second), now)
	if err != nil {
		t.Fatalf("NewFromPast() returned unexpected error: %v", err)
	}
	if s.State() != StateRunning {
		t.Errorf("State() = %q, expected running", s.State())
	}
	if d := s.CurrentDuration(now); d != 1800*time.Second {
		t.Errorf("CurrentDuration(now) = %v, expected 30m", d)
	}
	if !s.Start.Equal(now.Add(-30 * time.Minute)) {
		t.Errorf("Start = %v, expected %v", s.Start, now.Add(-30*time.Minute))
	}
}

func TestNewFromPast_FutureRejected(t *testing.T) {
	_, err := NewFromPast("s1", "p1", t0.Add(time.Minute), t0)
	if !errors.Is(err, ErrStartInFuture) || !errors.Is(err, ErrPreconditionViolation) {
		t.Errorf("expected ErrStartInFuture precondition error, got %v", err)
	}
}

func TestNewFromPast_SameInstant(t *testing.T) {
	s, err := NewFromPast("s1", "p1", t0, t0)
	if err != nil {
		t.Fatalf("NewFromPast() returned unexpected error: %v", err)
	}
	if s.ElapsedBeforePause != 0 {
		t.Errorf("ElapsedBeforePause = %v, expected 0", s.ElapsedBeforePause)
	}
}

func TestPause_ClockSteppedBack(t *testing.T) {
	s := New("s1", "p1", t0)
	_, _ = s.Pause(t0.Add(-time.Minute))
	if s.ElapsedBeforePause != 0 {
		t.Errorf("ElapsedBeforePause = %v, expected 0", s.ElapsedBeforePause)
	}
}

func TestSnapshot_ElapsedMatchesCurrentDuration(t *testing.T) {
	s := New("s1", "p1", t0)
	_, _ = s.Pause(t0.Add(10 * time.Minute))
	_, _ = s.Resume(t0.Add(15 * time.Minute))

	snap := s.Snapshot(t0.Add(16 * time.Minute))
	if !snap.IsRunning || snap.ActiveSegmentStart == nil {
		t.Fatalf("expected running snapshot, got %+v", snap)
	}
	if snap.Accumulated != 10*time.Minute {
		t.Errorf("Accumulated = %v, expected 10m", snap.Accumulated)
	}

	for _, at := range []time.Time{t0.Add(16 * time.Minute), t0.Add(3 * time.Hour)} {
		if snap.Elapsed(at) != s.CurrentDuration(at) {
			t.Errorf("Elapsed(%v) = %v, CurrentDuration = %v", at, snap.Elapsed(at), s.CurrentDuration(at))
		}
	}
}

func TestSnapshot_Paused(t *testing.T) {
	s := New("s1", "p1", t0)
	_, _ = s.Pause(t0.Add(5 * time.Minute))

	snap := s.Snapshot(t0.Add(6 * time.Minute))
	if snap.IsRunning || snap.ActiveSegmentStart != nil {
		t.Fatalf("expected paused snapshot, got %+v", snap)
	}
	if snap.Elapsed(t0.Add(10*time.Hour)) != 5*time.Minute {
		t.Errorf("paused Elapsed = %v, expected 5m", snap.Elapsed(t0.Add(10*time.Hour)))
	}
}

func TestSnapshot_SurvivesJSON(t *testing.T) {
	s := New("s1", "p1", t0)
	snap := s.Snapshot(t0)

	data, err := json.Marshal(snap)
	if err != nil {
		t.Fatalf("Marshal() returned unexpected error: %v", err)
	}
	var decoded Snapshot
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal() returned unexpected error: %v", err)
	}
	at := t0.Add(42 * time.Minute)
	if decoded.Elapsed(at) != snap.Elapsed(at) {
		t.Errorf("decoded Elapsed = %v, expected %v", decoded.Elapsed(at), snap.Elapsed(at))
	}
}

func TestSession_In(t *testing.T) {
	zone := time.FixedZone("UTC+9", 9*60*60)
	s := New("s1", "p1", t0)
	if _, err := s.Pause(t0.Add(time.Hour)); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Resume(t0.Add(2 * time.Hour)); err != nil {
		t.Fatal(err)
	}
	stopped := s
	if err := stopped.Stop(t0.Add(3 * time.Hour)); err != nil {
		t.Fatal(err)
	}

	for _, ws := range []Session{s, stopped} {
		moved := ws.In(zone)
		if moved.Start.Location() != zone || !moved.Start.Equal(ws.Start) {
			t.Errorf("Start = %v, expected %v in %s", moved.Start, ws.Start, zone)
		}
		if moved.End != nil && (moved.End.Location() != zone || !moved.End.Equal(*ws.End)) {
			t.Errorf("End = %v", moved.End)
		}
		if moved.LastResume != nil && moved.LastResume.Location() != zone {
			t.Errorf("LastResume = %v", moved.LastResume)
		}
		if moved.CurrentDuration(t0.Add(4*time.Hour)) != ws.CurrentDuration(t0.Add(4*time.Hour)) {
			t.Error("changing location must not change the duration")
		}
	}
	if s.Start.Location() != time.UTC {
		t.Error("In must not modify the receiver")
	}
}
