// Package pipeline runs the matching flow: eligibility narrowing, model
// ranking, offer persistence and the outbound push. No step in here may
// surface an error to the candidate-facing HTTP response.
package pipeline

import (
	"context"
	"strconv"

	"github.com/luminaoffer/lumina-offer/internal/ai"
	"github.com/luminaoffer/lumina-offer/internal/recruit"
	"go.uber.org/zap"
)

// ComposeResult is the outcome of one matching run. Posting is nil exactly
// when NoMatch is set; the two success fields and the reason never coexist.
type ComposeResult struct {
	RankedStoreIDs []int64
	Posting        *recruit.Posting
	Message        string
	NoMatch        recruit.NoMatchReason
}

// Matched reports whether a concrete posting was resolved.
func (r *ComposeResult) Matched() bool {
	return r != nil && r.Posting != nil
}

// Composer produces a ranked shortlist and a ready-to-send message for the
// top pick, or a graceful no-match. It has no side effects besides the one
// model call.
type Composer struct {
	recommender ai.Recommender
	logger      *zap.Logger
}

func NewComposer(recommender ai.Recommender, log *zap.Logger) *Composer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Composer{recommender: recommender, logger: log}
}

// Compose filters the posting set for the candidate and asks the model to
// rank what is left. Every failure mode is demoted to a no-match result; the
// model is never invoked on an empty eligible set.
func (c *Composer) Compose(ctx context.Context, candidate *recruit.Candidate, postings *recruit.Postings) *ComposeResult {
	eligible, steps, reason := recruit.Eligible(candidate, postings)

	for _, step := range steps {
		c.logger.Info("eligibility step",
			zap.String("user_id", candidate.UserID),
			zap.String("name", step.Name),
			zap.Int("initial", step.Initial),
			zap.Int("dropped", step.Dropped),
			zap.Int("left", step.Left),
		)
	}

	if reason != recruit.NoMatchNone {
		c.logger.Info("no eligible postings",
			zap.String("user_id", candidate.UserID),
			zap.String("reason", string(reason)),
		)
		return &ComposeResult{NoMatch: reason}
	}

	rec, err := c.recommender.Recommend(ctx, candidate, eligible)
	if err != nil {
		c.logger.Warn("recommendation failed",
			zap.String("user_id", candidate.UserID),
			zap.Error(err),
		)
		return &ComposeResult{NoMatch: recruit.NoMatchUnresolved}
	}

	if len(rec.RankedStoreIDs) == 0 {
		c.logger.Warn("recommendation carries no ranked stores",
			zap.String("user_id", candidate.UserID),
		)
		return &ComposeResult{NoMatch: recruit.NoMatchUnresolved}
	}

	top := rec.RankedStoreIDs[0]
	posting := eligible.FindByStoreID(strconv.FormatInt(top, 10))
	if posting == nil {
		// The model can echo back an ID that was never in the prompt.
		c.logger.Warn("top ranked store not in eligible set",
			zap.String("user_id", candidate.UserID),
			zap.Int64("store_id", top),
			zap.Int64s("ranked_store_ids", rec.RankedStoreIDs),
		)
		return &ComposeResult{NoMatch: recruit.NoMatchUnknownStore}
	}

	c.logger.Info("match resolved",
		zap.String("user_id", candidate.UserID),
		zap.String("store_id", posting.StoreID),
		zap.Int64s("ranked_store_ids", rec.RankedStoreIDs),
	)

	return &ComposeResult{
		RankedStoreIDs: rec.RankedStoreIDs,
		Posting:        posting,
		Message:        rec.Message,
	}
}
