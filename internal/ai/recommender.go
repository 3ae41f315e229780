package ai

import (
	"context"

	"github.com/luminaoffer/lumina-offer/internal/recruit"
)

// Recommendation is the parsed model output: store IDs ranked by fit
// (highest first, at most three) and one generated outreach message for the
// top-ranked store. It is consumed immediately and never persisted.
type Recommendation struct {
	RankedStoreIDs []int64
	Message        string
	Raw            string
}

// Recommender ranks the eligible postings for a candidate and drafts the
// outreach message for the best one.
type Recommender interface {
	Recommend(ctx context.Context, candidate *recruit.Candidate, eligible *recruit.Postings) (*Recommendation, error)
}
