package notify

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"github.com/xolan/punch/internal/osutil"
)

type reminderFile struct {
	Reminders []Reminder `json:"reminders"`
}

// FileScheduler keeps the reminder queue in a JSON file so that a separate
// long-running process can deliver what a short-lived command scheduled.
// Every read-modify-write holds an flock on "<path>.lock", so `punch watch`
// marking deliveries and a `punch stop` cancelling never overwrite each other.
type FileScheduler struct {
	path string
	mu   sync.Mutex
	lock *flock.Flock
}

// NewFileScheduler returns a scheduler backed by the file at path.
func NewFileScheduler(path string) *FileScheduler {
	return &FileScheduler{path: path, lock: flock.New(path + ".lock")}
}

// locked runs fn while holding both the in-process mutex and the file lock.
func (s *FileScheduler) locked(fn func() error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := osutil.Provider.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("lock reminders: %w", err)
	}
	if err := s.lock.Lock(); err != nil {
		return fmt.Errorf("lock reminders: %w", err)
	}
	defer func() { _ = s.lock.Unlock() }()

	return fn()
}

// Path returns the queue file location.
func (s *FileScheduler) Path() string {
	return s.path
}

func (s *FileScheduler) ScheduleHourlyReminders(sessionID, projectName string, from time.Time) error {
	err := s.locked(func() error {
		reminders, err := s.load()
		if err != nil {
			return err
		}
		kept := dropSession(reminders, sessionID)
		return s.save(append(kept, HourlyReminders(sessionID, projectName, from)...))
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrScheduling, err)
	}
	return nil
}

func (s *FileScheduler) CancelReminders(sessionID string) error {
	err := s.locked(func() error {
		reminders, err := s.load()
		if err != nil {
			return err
		}
		kept := dropSession(reminders, sessionID)
		if len(kept) == len(reminders) {
			return nil
		}
		return s.save(kept)
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrScheduling, err)
	}
	return nil
}

// List returns the reminders of sessionID ordered by fire time, or every
// reminder when sessionID is empty.
func (s *FileScheduler) List(sessionID string) ([]Reminder, error) {
	result := []Reminder{}
	err := s.locked(func() error {
		reminders, err := s.load()
		if err != nil {
			return err
		}
		for _, r := range reminders {
			if sessionID == "" || belongsTo(r, sessionID) {
				result = append(result, r)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sortByFireAt(result)
	return result, nil
}

// Due returns undelivered reminders whose fire time is at or before now.
func (s *FileScheduler) Due(now time.Time) ([]Reminder, error) {
	due := []Reminder{}
	err := s.locked(func() error {
		reminders, err := s.load()
		if err != nil {
			return err
		}
		for _, r := range reminders {
			if !r.Delivered() && !r.FireAt.After(now) {
				due = append(due, r)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sortByFireAt(due)
	return due, nil
}

// MarkDelivered stamps the given reminders as delivered at at. Ids that were
// cancelled in the meantime are ignored.
func (s *FileScheduler) MarkDelivered(ids []string, at time.Time) error {
	if len(ids) == 0 {
		return nil
	}

	wanted := make(map[string]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}
	return s.locked(func() error {
		reminders, err := s.load()
		if err != nil {
			return err
		}
		for i := range reminders {
			if wanted[reminders[i].ID] && !reminders[i].Delivered() {
				delivered := at
				reminders[i].DeliveredAt = &delivered
			}
		}
		return s.save(reminders)
	})
}

func (s *FileScheduler) load() ([]Reminder, error) {
	data, err := osutil.ReadFileIfExists(s.path)
	if err != nil {
		return nil, fmt.Errorf("read reminders: %w", err)
	}
	if len(data) == 0 {
		return nil, nil
	}

	var f reminderFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse reminders: %w", err)
	}
	return f.Reminders, nil
}

func (s *FileScheduler) save(reminders []Reminder) error {
	if reminders == nil {
		reminders = []Reminder{}
	}
	// reminderFile contains only JSON-safe types, so Marshal cannot fail
	data, _ := json.MarshalIndent(reminderFile{Reminders: reminders}, "", "  ")
	if err := osutil.WriteFileAtomic(s.path, data, 0644); err != nil {
		return fmt.Errorf("write reminders: %w", err)
	}
	return nil
}

func dropSession(reminders []Reminder, sessionID string) []Reminder {
	kept := make([]Reminder, 0, len(reminders))
	for _, r := range reminders {
		if !belongsTo(r, sessionID) {
			kept = append(kept, r)
		}
	}
	return kept
}

func sortByFireAt(reminders []Reminder) {
	sort.SliceStable(reminders, func(i, j int) bool {
		if !reminders[i].FireAt.Equal(reminders[j].FireAt) {
			return reminders[i].FireAt.Before(reminders[j].FireAt)
		}
		return reminders[i].ID < reminders[j].ID
	})
}
