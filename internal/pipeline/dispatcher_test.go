package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/luminaoffer/lumina-offer/internal/recruit"
	"go.uber.org/zap"
)

type fakeOffers struct {
	appended []*recruit.Offer
	err      error
}

func (f *fakeOffers) Append(_ context.Context, offer *recruit.Offer) error {
	if f.err != nil {
		return f.err
	}
	f.appended = append(f.appended, offer)
	return nil
}

type fakeMessenger struct {
	texts   []string
	cards   []*recruit.Posting
	textErr error
	cardErr error
}

func (f *fakeMessenger) PushText(_ context.Context, _, text string) error {
	if f.textErr != nil {
		return f.textErr
	}
	f.texts = append(f.texts, text)
	return nil
}

func (f *fakeMessenger) PushOfferCard(_ context.Context, _ string, posting *recruit.Posting, _ string) error {
	if f.cardErr != nil {
		return f.cardErr
	}
	f.cards = append(f.cards, posting)
	return nil
}

func matchedResult() *ComposeResult {
	return &ComposeResult{
		RankedStoreIDs: []int64{101},
		Posting:        &recruit.Posting{StoreID: "101", StoreName: "LUMINA表参道"},
		Message:        "オファー文章",
	}
}

func TestDispatchMatched(t *testing.T) {
	offers := &fakeOffers{}
	messenger := &fakeMessenger{}
	dispatcher := NewDispatcher(offers, messenger, zap.NewNop())

	dispatcher.Dispatch(context.Background(), "U1", matchedResult())

	if len(offers.appended) != 1 {
		t.Fatalf("expected exactly one offer row, got %d", len(offers.appended))
	}
	offer := offers.appended[0]
	if offer.UserID != "U1" || offer.StoreID != "101" {
		t.Fatalf("unexpected offer: %+v", offer)
	}
	if offer.Status != recruit.OfferStatusSent {
		t.Fatalf("expected status %q, got %q", recruit.OfferStatusSent, offer.Status)
	}
	if offer.SentDate == "" {
		t.Fatalf("expected a send date")
	}

	if len(messenger.cards) != 1 {
		t.Fatalf("expected exactly one card push, got %d", len(messenger.cards))
	}
}

func TestDispatchNoMatchIsSilent(t *testing.T) {
	offers := &fakeOffers{}
	messenger := &fakeMessenger{}
	dispatcher := NewDispatcher(offers, messenger, zap.NewNop())

	dispatcher.Dispatch(context.Background(), "U1", &ComposeResult{NoMatch: recruit.NoMatchNoEligible})

	if len(offers.appended) != 0 {
		t.Fatalf("expected no offer rows on no-match")
	}
	if len(messenger.cards) != 0 {
		t.Fatalf("expected no messages on no-match")
	}
}

func TestDispatchAppendFailureSkipsSend(t *testing.T) {
	offers := &fakeOffers{err: errors.New("quota exhausted")}
	messenger := &fakeMessenger{}
	dispatcher := NewDispatcher(offers, messenger, zap.NewNop())

	dispatcher.Dispatch(context.Background(), "U1", matchedResult())

	if len(messenger.cards) != 0 {
		t.Fatalf("expected no card when the offer row could not be recorded")
	}
}

func TestDispatchSendFailureIsSwallowed(t *testing.T) {
	offers := &fakeOffers{}
	messenger := &fakeMessenger{cardErr: errors.New("push failed")}
	dispatcher := NewDispatcher(offers, messenger, zap.NewNop())

	// Must not panic or propagate; the row stays recorded.
	dispatcher.Dispatch(context.Background(), "U1", matchedResult())

	if len(offers.appended) != 1 {
		t.Fatalf("expected the offer row to remain recorded")
	}
}
