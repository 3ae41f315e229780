package gemini

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/luminaoffer/lumina-offer/internal/recruit"
	"go.uber.org/zap"
)

type stubGenerator struct {
	response   string
	err        error
	lastPrompt string
}

func (s *stubGenerator) GenerateContent(_ context.Context, prompt string) (string, error) {
	s.lastPrompt = prompt
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

func testCandidate() *recruit.Candidate {
	return &recruit.Candidate{
		UserID:  "U1",
		Role:    "スタイリスト",
		MBTI:    "ENFP",
		Perk:    "社会保険完備",
		License: recruit.LicenseHeld,
	}
}

func testEligible() *recruit.Postings {
	return &recruit.Postings{Items: []*recruit.Posting{
		{StoreID: "101", StoreName: "LUMINA表参道", Perks: "社会保険完備、週休2日"},
		{StoreID: "108", StoreName: "LUMINA銀座", Perks: "独立支援"},
	}}
}

func TestRankerRecommend(t *testing.T) {
	stub := &stubGenerator{response: `{"ranked_store_ids": [101, 108], "first_offer_message": "LUMINA Offerから、あなたに特別なオファーが届いています。"}`}
	ranker := NewRanker(stub, zap.NewNop(), 0)

	rec, err := ranker.Recommend(context.Background(), testCandidate(), testEligible())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(rec.RankedStoreIDs) != 2 || rec.RankedStoreIDs[0] != 101 {
		t.Fatalf("unexpected ranking: %v", rec.RankedStoreIDs)
	}

	if !strings.HasPrefix(rec.Message, "LUMINA Offerから") {
		t.Fatalf("unexpected message: %s", rec.Message)
	}

	if rec.Raw == "" {
		t.Fatalf("expected raw response to be preserved")
	}

	if !strings.Contains(stub.lastPrompt, `"store_id": "101"`) {
		t.Fatalf("expected postings to be embedded in the prompt, got: %s", stub.lastPrompt)
	}

	if !strings.Contains(stub.lastPrompt, `"mbti": "ENFP"`) {
		t.Fatalf("expected candidate profile to be embedded in the prompt")
	}
}

func TestRankerRecommendJSONEmbeddedInProse(t *testing.T) {
	stub := &stubGenerator{response: "Here you go: {\"ranked_store_ids\":[101],\"first_offer_message\":\"メッセージ\"} hope that helps!"}
	ranker := NewRanker(stub, zap.NewNop(), 0)

	rec, err := ranker.Recommend(context.Background(), testCandidate(), testEligible())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(rec.RankedStoreIDs) != 1 || rec.RankedStoreIDs[0] != 101 {
		t.Fatalf("unexpected ranking: %v", rec.RankedStoreIDs)
	}
}

func TestRankerRecommendCodeFencedJSON(t *testing.T) {
	stub := &stubGenerator{response: "```json\n{\"ranked_store_ids\": [108, 101], \"first_offer_message\": \"メッセージ\"}\n```"}
	ranker := NewRanker(stub, zap.NewNop(), 0)

	rec, err := ranker.Recommend(context.Background(), testCandidate(), testEligible())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if rec.RankedStoreIDs[0] != 108 {
		t.Fatalf("unexpected top store: %v", rec.RankedStoreIDs)
	}
}

func TestRankerRecommendTruncatesRankingToThree(t *testing.T) {
	stub := &stubGenerator{response: `{"ranked_store_ids": [1, 2, 3, 4, 5], "first_offer_message": "メッセージ"}`}
	ranker := NewRanker(stub, zap.NewNop(), 0)

	rec, err := ranker.Recommend(context.Background(), testCandidate(), testEligible())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(rec.RankedStoreIDs) != 3 {
		t.Fatalf("expected at most 3 ranked ids, got %v", rec.RankedStoreIDs)
	}
}

func TestRankerRecommendMalformedResponses(t *testing.T) {
	cases := []struct {
		name     string
		response string
	}{
		{name: "no json at all", response: "すみません、お手伝いできません。"},
		{name: "unbalanced object", response: `{"ranked_store_ids": [101]`},
		{name: "empty id list", response: `{"ranked_store_ids": [], "first_offer_message": "メッセージ"}`},
		{name: "missing id field", response: `{"first_offer_message": "メッセージ"}`},
		{name: "missing message", response: `{"ranked_store_ids": [101]}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			stub := &stubGenerator{response: tc.response}
			ranker := NewRanker(stub, zap.NewNop(), 0)

			if _, err := ranker.Recommend(context.Background(), testCandidate(), testEligible()); err == nil {
				t.Fatalf("expected an error for response %q", tc.response)
			}
		})
	}
}

func TestRankerRecommendGeneratorFailure(t *testing.T) {
	stub := &stubGenerator{err: errors.New("quota exceeded")}
	ranker := NewRanker(stub, zap.NewNop(), 0)

	if _, err := ranker.Recommend(context.Background(), testCandidate(), testEligible()); err == nil {
		t.Fatalf("expected generator error to propagate")
	}
}

func TestExtractJSONObjectIgnoresBracesInsideStrings(t *testing.T) {
	raw := `note: {"first_offer_message": "smile {always}", "ranked_store_ids": [7]} trailing`

	object, err := extractJSONObject(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.HasPrefix(object, `{"first_offer_message"`) || !strings.HasSuffix(object, "[7]}") {
		t.Fatalf("unexpected extraction: %s", object)
	}
}

func TestCoerceIDListMixedTypes(t *testing.T) {
	ids := coerceIDList([]any{float64(101), "108", "not-a-number", float64(125)})

	if len(ids) != 3 || ids[0] != 101 || ids[1] != 108 || ids[2] != 125 {
		t.Fatalf("unexpected ids: %v", ids)
	}
}
