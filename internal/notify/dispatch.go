package notify

import (
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/xolan/punch/internal/clock"
)

// DispatchSpec is the cron schedule the dispatcher checks the queue on.
const DispatchSpec = "* * * * *"

// Queue is the part of a scheduler the dispatcher drains.
type Queue interface {
	Due(now time.Time) ([]Reminder, error)
	MarkDelivered(ids []string, at time.Time) error
}

// Notifier shows a reminder to the user.
type Notifier interface {
	Notify(r Reminder) error
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(r Reminder) error

func (f NotifierFunc) Notify(r Reminder) error { return f(r) }

// WriterNotifier prints reminders as lines on W.
type WriterNotifier struct {
	W io.Writer
}

func (n WriterNotifier) Notify(r Reminder) error {
	_, err := fmt.Fprintf(n.W, "[%s] %s\n", r.FireAt.Format("15:04"), r.Message())
	return err
}

// Dispatcher periodically delivers due reminders from a Queue.
type Dispatcher struct {
	queue    Queue
	notifier Notifier
	clock    clock.Clock
	logger   *slog.Logger

	mu   sync.Mutex
	cron *cron.Cron
}

// NewDispatcher wires a dispatcher. A nil logger discards log output.
func NewDispatcher(queue Queue, notifier Notifier, clk clock.Clock, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Dispatcher{
		queue:    queue,
		notifier: notifier,
		clock:    clk,
		logger:   logger,
	}
}

// Start registers the delivery job and starts the cron scheduler. It also
// delivers anything already due so a fresh process catches up immediately.
func (d *Dispatcher) Start() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.cron != nil {
		return nil
	}

	c := cron.New(cron.WithLocation(d.clock.Now().Location()))
	if _, err := c.AddFunc(DispatchSpec, d.tick); err != nil {
		return fmt.Errorf("failed to create reminder job: %w", err)
	}

	d.tick()
	c.Start()
	d.cron = c
	d.logger.Debug("reminder dispatcher started", "schedule", DispatchSpec)
	return nil
}

// Stop halts the scheduler and waits for a running delivery to finish.
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	c := d.cron
	d.cron = nil
	d.mu.Unlock()

	if c == nil {
		return
	}
	<-c.Stop().Done()
}

func (d *Dispatcher) tick() {
	if _, err := d.DeliverDue(d.clock.Now()); err != nil {
		d.logger.Warn("reminder delivery failed", "error", err)
	}
}

// DeliverDue hands every due reminder to the notifier and marks it
// delivered. When a session has several overdue reminders only the latest
// is shown; the older ones are marked delivered without notifying.
func (d *Dispatcher) DeliverDue(now time.Time) ([]Reminder, error) {
	due, err := d.queue.Due(now)
	if err != nil {
		return nil, err
	}
	if len(due) == 0 {
		return nil, nil
	}

	// due is ordered by fire time, so the last per session wins
	latest := make(map[string]int, len(due))
	for i, r := range due {
		latest[r.SessionID] = i
	}

	var delivered []Reminder
	ids := make([]string, 0, len(due))
	for i, r := range due {
		if latest[r.SessionID] == i {
			if err := d.notifier.Notify(r); err != nil {
				d.logger.Warn("reminder not shown", "reminder", r.ID, "error", err)
				continue
			}
			delivered = append(delivered, r)
		}
		ids = append(ids, r.ID)
	}

	if err := d.queue.MarkDelivered(ids, now); err != nil {
		return delivered, err
	}
	return delivered, nil
}
