package pipeline

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// minLead keeps a just-registered candidate from receiving an offer moments
// later when the send window is about to open; anything closer than this is
// pushed to the next day.
const minLead = 2 * time.Hour

var sleep = time.Sleep

// WaitFor blocks for the given duration or until the context is cancelled.
func WaitFor(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		sleep(d)
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-done:
		return nil
	}
}

// Deferral delays pipeline runs to a fixed local send window. Pending sends
// are keyed by candidate ID; a re-submission replaces the pending one.
// Nothing is persisted: a process restart drops pending sends.
type Deferral struct {
	base   context.Context
	hour   int
	minute int
	loc    *time.Location
	logger *zap.Logger

	mu      sync.Mutex
	pending map[string]*deferredTask

	now  func() time.Time
	wait func(ctx context.Context, d time.Duration) error
}

type deferredTask struct {
	cancel context.CancelFunc
}

// NewDeferral parses a "HH:MM" send window in the given location. The base
// context bounds every pending send; cancelling it (process shutdown) drops
// them all.
func NewDeferral(base context.Context, sendAt string, loc *time.Location, log *zap.Logger) (*Deferral, error) {
	var hour, minute int
	if _, err := fmt.Sscanf(sendAt, "%d:%d", &hour, &minute); err != nil {
		return nil, fmt.Errorf("parse send window %q: %w", sendAt, err)
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return nil, fmt.Errorf("send window %q is out of range", sendAt)
	}
	if loc == nil {
		loc = time.Local
	}
	if log == nil {
		log = zap.NewNop()
	}

	return &Deferral{
		base:    base,
		hour:    hour,
		minute:  minute,
		loc:     loc,
		logger:  log,
		pending: make(map[string]*deferredTask),
		now:     time.Now,
		wait:    WaitFor,
	}, nil
}

// Schedule queues run for the next send window, replacing any send already
// pending for the same candidate.
func (d *Deferral) Schedule(userID string, run func(ctx context.Context)) {
	ctx, cancel := context.WithCancel(d.base)
	task := &deferredTask{cancel: cancel}

	d.mu.Lock()
	if previous, ok := d.pending[userID]; ok {
		previous.cancel()
	}
	d.pending[userID] = task
	d.mu.Unlock()

	now := d.now().In(d.loc)
	delay := d.target(now).Sub(now)
	wait := d.wait

	d.logger.Info("offer dispatch deferred",
		zap.String("user_id", userID),
		zap.Duration("delay", delay),
	)

	go func() {
		defer d.forget(userID, task)

		if err := wait(ctx, delay); err != nil {
			d.logger.Debug("deferred dispatch cancelled",
				zap.String("user_id", userID),
				zap.Error(err),
			)
			return
		}

		run(ctx)
	}()
}

func (d *Deferral) target(now time.Time) time.Time {
	target := time.Date(now.Year(), now.Month(), now.Day(), d.hour, d.minute, 0, 0, d.loc)
	if target.Before(now.Add(minLead)) {
		target = target.AddDate(0, 0, 1)
	}
	return target
}

func (d *Deferral) forget(userID string, task *deferredTask) {
	d.mu.Lock()
	defer d.mu.Unlock()

	// Only clear the entry if it still belongs to this task; a re-submission
	// may have replaced it already.
	if current, ok := d.pending[userID]; ok && current == task {
		delete(d.pending, userID)
	}
	task.cancel()
}
