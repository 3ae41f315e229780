package pipeline

import (
	"context"
	"time"

	"github.com/luminaoffer/lumina-offer/internal/recruit"
	"go.uber.org/zap"
)

// OfferAppender persists one sent-offer row.
type OfferAppender interface {
	Append(ctx context.Context, offer *recruit.Offer) error
}

// CardPusher delivers the rich offer card to a candidate.
type CardPusher interface {
	PushOfferCard(ctx context.Context, to string, posting *recruit.Posting, offerText string) error
}

// Dispatcher persists and sends a resolved match. Unmatched candidates are
// deliberately left alone: no row, no message.
type Dispatcher struct {
	offers    OfferAppender
	messenger CardPusher
	logger    *zap.Logger
	now       func() time.Time
}

func NewDispatcher(offers OfferAppender, messenger CardPusher, log *zap.Logger) *Dispatcher {
	if log == nil {
		log = zap.NewNop()
	}
	return &Dispatcher{
		offers:    offers,
		messenger: messenger,
		logger:    log,
		now:       time.Now,
	}
}

// Dispatch appends one offer row and pushes one card for a matched result.
// Failures here are logged and swallowed; they must never reach the HTTP
// response of the request that triggered the pipeline.
func (d *Dispatcher) Dispatch(ctx context.Context, userID string, result *ComposeResult) {
	if !result.Matched() {
		reason := recruit.NoMatchUnresolved
		if result != nil {
			reason = result.NoMatch
		}
		d.logger.Info("skipping dispatch",
			zap.String("user_id", userID),
			zap.String("reason", string(reason)),
			zap.String("detail", reason.UserMessage()),
		)
		return
	}

	offer := &recruit.Offer{
		UserID:   userID,
		StoreID:  result.Posting.StoreID,
		SentDate: d.now().Format(recruit.SentDateLayout),
		Status:   recruit.OfferStatusSent,
	}

	if err := d.offers.Append(ctx, offer); err != nil {
		d.logger.Error("recording offer failed",
			zap.String("user_id", userID),
			zap.String("store_id", offer.StoreID),
			zap.Error(err),
		)
		return
	}

	if err := d.messenger.PushOfferCard(ctx, userID, result.Posting, result.Message); err != nil {
		d.logger.Error("sending offer card failed",
			zap.String("user_id", userID),
			zap.String("store_id", offer.StoreID),
			zap.Error(err),
		)
		return
	}

	d.logger.Info("offer dispatched",
		zap.String("user_id", userID),
		zap.String("store_id", offer.StoreID),
		zap.String("store_name", result.Posting.StoreName),
	)
}
