// Package line wraps the LINE Messaging API: text pushes, the rich offer
// card, and webhook parsing with signature verification.
package line

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"
	"github.com/line/line-bot-sdk-go/v8/linebot/webhook"
	"github.com/luminaoffer/lumina-offer/internal/recruit"
	"go.uber.org/zap"
)

// ErrInvalidSignature is returned by ParseWebhook when the X-Line-Signature
// header does not match the channel secret.
var ErrInvalidSignature = webhook.ErrInvalidSignature

// Config carries the channel credentials and the static pieces of the offer
// card.
type Config struct {
	ChannelToken  string
	ChannelSecret string
	// LiffID identifies the scheduling-form LIFF app opened from the card.
	LiffID string
	// LearnMoreURL backs the card's secondary link button.
	LearnMoreURL string
}

// Messenger is the outbound LINE transport.
type Messenger struct {
	api           *messaging_api.MessagingApiAPI
	channelSecret string
	liffID        string
	learnMoreURL  string
	logger        *zap.Logger
}

func NewMessenger(cfg Config, log *zap.Logger) (*Messenger, error) {
	if strings.TrimSpace(cfg.ChannelToken) == "" {
		return nil, errors.New("line channel token is required")
	}
	if strings.TrimSpace(cfg.ChannelSecret) == "" {
		return nil, errors.New("line channel secret is required")
	}
	if log == nil {
		log = zap.NewNop()
	}

	api, err := messaging_api.NewMessagingApiAPI(cfg.ChannelToken)
	if err != nil {
		return nil, fmt.Errorf("create messaging api client: %w", err)
	}

	return &Messenger{
		api:           api,
		channelSecret: cfg.ChannelSecret,
		liffID:        cfg.LiffID,
		learnMoreURL:  cfg.LearnMoreURL,
		logger:        log,
	}, nil
}

// PushText sends a plain text push message to the given user.
func (m *Messenger) PushText(_ context.Context, to, text string) error {
	_, err := m.api.PushMessage(&messaging_api.PushMessageRequest{
		To: to,
		Messages: []messaging_api.MessageInterface{
			messaging_api.TextMessage{Text: text},
		},
	}, "")
	if err != nil {
		return fmt.Errorf("push text message: %w", err)
	}
	return nil
}

// ReplyText answers an inbound event using its reply token.
func (m *Messenger) ReplyText(_ context.Context, replyToken, text string) error {
	_, err := m.api.ReplyMessage(&messaging_api.ReplyMessageRequest{
		ReplyToken: replyToken,
		Messages: []messaging_api.MessageInterface{
			messaging_api.TextMessage{Text: text},
		},
	})
	if err != nil {
		return fmt.Errorf("reply text message: %w", err)
	}
	return nil
}

// PushOfferCard sends the rich offer bubble for a matched posting.
func (m *Messenger) PushOfferCard(_ context.Context, to string, posting *recruit.Posting, offerText string) error {
	container, err := offerBubble(posting, offerText, m.liffID, m.learnMoreURL)
	if err != nil {
		return err
	}

	m.logger.Debug("pushing offer card",
		zap.String("to", to),
		zap.String("store_id", posting.StoreID),
		zap.String("store_name", posting.StoreName),
	)

	_, err = m.api.PushMessage(&messaging_api.PushMessageRequest{
		To: to,
		Messages: []messaging_api.MessageInterface{
			messaging_api.FlexMessage{
				AltText:  fmt.Sprintf("%sからのオファー", posting.StoreName),
				Contents: container,
			},
		},
	}, "")
	if err != nil {
		return fmt.Errorf("push offer card: %w", err)
	}
	return nil
}

// ParseWebhook verifies the inbound signature and decodes the callback body.
func (m *Messenger) ParseWebhook(r *http.Request) (*webhook.CallbackRequest, error) {
	return webhook.ParseRequest(m.channelSecret, r)
}
