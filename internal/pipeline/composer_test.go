package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/luminaoffer/lumina-offer/internal/ai"
	"github.com/luminaoffer/lumina-offer/internal/recruit"
	"go.uber.org/zap"
)

type stubRecommender struct {
	rec   *ai.Recommendation
	err   error
	calls int
}

func (s *stubRecommender) Recommend(_ context.Context, _ *recruit.Candidate, _ *recruit.Postings) (*ai.Recommendation, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.rec, nil
}

func openPostings() *recruit.Postings {
	return &recruit.Postings{Items: []*recruit.Posting{
		{StoreID: "101", StoreName: "LUMINA表参道", Role: "スタイリスト", Status: recruit.PostingStatusOpen, Requirement: recruit.RequirementRequired},
		{StoreID: "108", StoreName: "LUMINA銀座", Role: "スタイリスト", Status: recruit.PostingStatusOpen, Requirement: recruit.RequirementRequired},
	}}
}

func stylist() *recruit.Candidate {
	return &recruit.Candidate{UserID: "U1", Role: "スタイリスト", License: recruit.LicenseHeld}
}

func TestComposeSuccess(t *testing.T) {
	stub := &stubRecommender{rec: &ai.Recommendation{
		RankedStoreIDs: []int64{108, 101},
		Message:        "オファー文章",
	}}
	composer := NewComposer(stub, zap.NewNop())

	result := composer.Compose(context.Background(), stylist(), openPostings())

	if !result.Matched() {
		t.Fatalf("expected a match, got no-match %q", result.NoMatch)
	}
	if result.Posting.StoreID != "108" {
		t.Fatalf("expected the top ranked posting, got %s", result.Posting.StoreID)
	}
	if result.Message != "オファー文章" {
		t.Fatalf("unexpected message: %s", result.Message)
	}
	if len(result.RankedStoreIDs) != 2 {
		t.Fatalf("unexpected ranking: %v", result.RankedStoreIDs)
	}
}

func TestComposeNoEligibleSkipsModel(t *testing.T) {
	stub := &stubRecommender{}
	composer := NewComposer(stub, zap.NewNop())

	c := &recruit.Candidate{UserID: "U1", Role: "カラーリスト"}
	result := composer.Compose(context.Background(), c, openPostings())

	if result.Matched() {
		t.Fatalf("expected no-match")
	}
	if result.NoMatch != recruit.NoMatchNoEligible {
		t.Fatalf("unexpected reason: %q", result.NoMatch)
	}
	if stub.calls != 0 {
		t.Fatalf("model must not be invoked on an empty eligible set")
	}
}

func TestComposeMissingRoleSkipsModel(t *testing.T) {
	stub := &stubRecommender{}
	composer := NewComposer(stub, zap.NewNop())

	result := composer.Compose(context.Background(), &recruit.Candidate{UserID: "U1"}, openPostings())

	if result.NoMatch != recruit.NoMatchMissingRole {
		t.Fatalf("unexpected reason: %q", result.NoMatch)
	}
	if stub.calls != 0 {
		t.Fatalf("model must not be invoked without a role")
	}
}

func TestComposeRecommenderFailureIsNoMatch(t *testing.T) {
	stub := &stubRecommender{err: errors.New("malformed response")}
	composer := NewComposer(stub, zap.NewNop())

	result := composer.Compose(context.Background(), stylist(), openPostings())

	if result.Matched() {
		t.Fatalf("expected no-match")
	}
	if result.NoMatch != recruit.NoMatchUnresolved {
		t.Fatalf("unexpected reason: %q", result.NoMatch)
	}
}

func TestComposeHallucinatedStoreIDIsNoMatch(t *testing.T) {
	stub := &stubRecommender{rec: &ai.Recommendation{
		RankedStoreIDs: []int64{999},
		Message:        "オファー文章",
	}}
	composer := NewComposer(stub, zap.NewNop())

	result := composer.Compose(context.Background(), stylist(), openPostings())

	if result.Matched() {
		t.Fatalf("expected no-match for an unknown store id")
	}
	if result.NoMatch != recruit.NoMatchUnknownStore {
		t.Fatalf("unexpected reason: %q", result.NoMatch)
	}
}
