// Package live publishes the state of the open session for displays that
// keep their own clock, such as `punch watch`.
package live

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/xolan/punch/internal/osutil"
	"github.com/xolan/punch/internal/timer"
)

// LiveFile is the name of the published status file
const LiveFile = "live.json"

// Status is a session snapshot plus what a display needs to label it.
type Status struct {
	timer.Snapshot
	ProjectName string `json:"project_name"`
	Color       string `json:"color"`
}

// Projector receives every session transition. Clear removes any live
// display after a stop or delete.
type Projector interface {
	Publish(s Status) error
	Clear() error
}

// FileProjector writes the current status to a JSON file.
type FileProjector struct {
	path string
}

// NewFileProjector returns a projector writing to path.
func NewFileProjector(path string) *FileProjector {
	return &FileProjector{path: path}
}

// Path returns the status file location.
func (p *FileProjector) Path() string {
	return p.path
}

func (p *FileProjector) Publish(s Status) error {
	// Status contains only JSON-safe types, so Marshal cannot fail
	data, _ := json.MarshalIndent(s, "", "  ")
	if err := osutil.WriteFileAtomic(p.path, data, 0644); err != nil {
		return fmt.Errorf("publish live status: %w", err)
	}
	return nil
}

func (p *FileProjector) Clear() error {
	if err := osutil.RemoveIfExists(p.path); err != nil {
		return fmt.Errorf("clear live status: %w", err)
	}
	return nil
}

// Read loads the published status. It returns nil when nothing is published.
func Read(path string) (*Status, error) {
	data, err := osutil.ReadFileIfExists(path)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, nil
	}

	var s Status
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse live status: %w", err)
	}
	return &s, nil
}

// NopProjector discards everything.
type NopProjector struct{}

func (NopProjector) Publish(Status) error { return nil }

func (NopProjector) Clear() error { return nil }

// Recorder keeps every call in memory.
type Recorder struct {
	mu        sync.Mutex
	published []Status
	clears    int
	current   *Status
}

func (r *Recorder) Publish(s Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.published = append(r.published, s)
	r.current = &s
	return nil
}

func (r *Recorder) Clear() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clears++
	r.current = nil
	return nil
}

// Current returns the last published status, or nil after a Clear.
func (r *Recorder) Current() *Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.current == nil {
		return nil
	}
	s := *r.current
	return &s
}

// Published returns every status published so far.
func (r *Recorder) Published() []Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Status(nil), r.published...)
}

// Clears returns how many times Clear was called.
func (r *Recorder) Clears() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.clears
}
