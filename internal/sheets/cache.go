package sheets

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/luminaoffer/lumina-offer/internal/recruit"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

type postingLister interface {
	All(ctx context.Context) (*recruit.Postings, error)
}

// PostingCache keeps a periodically refreshed snapshot of the Postings sheet
// so per-request matching never burns read quota. The snapshot may lag the
// sheet by up to one refresh interval.
type PostingCache struct {
	table  postingLister
	logger *zap.Logger

	mu       sync.RWMutex
	snapshot []*recruit.Posting

	cron *cron.Cron
}

func NewPostingCache(table postingLister, log *zap.Logger) *PostingCache {
	if log == nil {
		log = zap.NewNop()
	}
	return &PostingCache{table: table, logger: log}
}

// Refresh replaces the snapshot with a fresh read of the sheet.
func (c *PostingCache) Refresh(ctx context.Context) error {
	postings, err := c.table.All(ctx)
	if err != nil {
		return fmt.Errorf("refresh postings: %w", err)
	}

	c.mu.Lock()
	c.snapshot = postings.Items
	c.mu.Unlock()

	c.logger.Info("postings snapshot refreshed", zap.Int("count", postings.Len()))
	return nil
}

// Postings returns the cached posting set, reading through on the first call.
// Callers get their own slice header and may filter freely.
func (c *PostingCache) Postings(ctx context.Context) (*recruit.Postings, error) {
	c.mu.RLock()
	snapshot := c.snapshot
	c.mu.RUnlock()

	if snapshot == nil {
		if err := c.Refresh(ctx); err != nil {
			return nil, err
		}
		c.mu.RLock()
		snapshot = c.snapshot
		c.mu.RUnlock()
	}

	items := make([]*recruit.Posting, len(snapshot))
	copy(items, snapshot)
	return &recruit.Postings{Items: items}, nil
}

// StartRefresh schedules periodic refreshes. A zero or negative interval
// disables the schedule and leaves the cache read-through only.
func (c *PostingCache) StartRefresh(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		return nil
	}

	c.cron = cron.New()
	_, err := c.cron.AddFunc(fmt.Sprintf("@every %s", interval), func() {
		if err := c.Refresh(ctx); err != nil {
			c.logger.Warn("scheduled postings refresh failed", zap.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("schedule postings refresh: %w", err)
	}

	c.cron.Start()
	c.logger.Info("postings refresh scheduled", zap.Duration("interval", interval))
	return nil
}

// Stop halts the refresh schedule, if any.
func (c *PostingCache) Stop() {
	if c.cron != nil {
		c.cron.Stop()
	}
}
