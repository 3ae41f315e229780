package server

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/line/line-bot-sdk-go/v8/linebot/webhook"
	"github.com/luminaoffer/lumina-offer/internal/line"
	"github.com/luminaoffer/lumina-offer/internal/recruit"
	"github.com/luminaoffer/lumina-offer/internal/sheets"
	"go.uber.org/zap"
)

const instructionReply = "ご登録ありがとうございます。リッチメニューからプロフィールをご入力ください。"

// IntakeService runs the offer pipeline for a registered candidate.
type IntakeService interface {
	Handle(ctx context.Context, userID string, candidate *recruit.Candidate)
}

// ScheduleUpdater records a submitted interview schedule on its offer row.
type ScheduleUpdater interface {
	UpdateSchedule(ctx context.Context, sub *recruit.ScheduleSubmission) error
}

// WebhookTransport parses inbound LINE callbacks and answers them.
type WebhookTransport interface {
	ParseWebhook(r *http.Request) (*webhook.CallbackRequest, error)
	ReplyText(ctx context.Context, replyToken, text string) error
}

// Handler holds the route implementations.
type Handler struct {
	intake    IntakeService
	offers    ScheduleUpdater
	transport WebhookTransport
	logger    *zap.Logger
}

func NewHandler(intake IntakeService, offers ScheduleUpdater, transport WebhookTransport, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{
		intake:    intake,
		offers:    offers,
		transport: transport,
		logger:    log,
	}
}

type triggerOfferRequest struct {
	UserID string             `json:"userId"`
	Wishes *recruit.Candidate `json:"wishes"`
}

// TriggerOffer accepts a candidate registration and runs the offer pipeline.
// Once the request is structurally valid it always reports success; matching
// failures surface to the candidate through the pipeline itself, not here.
func (h *Handler) TriggerOffer(c *gin.Context) {
	var req triggerOfferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid request body"})
		return
	}
	if strings.TrimSpace(req.UserID) == "" || req.Wishes == nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "userId and wishes are required"})
		return
	}

	h.intake.Handle(c.Request.Context(), req.UserID, req.Wishes)

	c.JSON(http.StatusOK, gin.H{"status": "success", "message": "offer task processed"})
}

// SubmitSchedule records the interview slots picked in the scheduling form.
func (h *Handler) SubmitSchedule(c *gin.Context) {
	var sub recruit.ScheduleSubmission
	if err := c.ShouldBindJSON(&sub); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid request body"})
		return
	}
	if strings.TrimSpace(sub.UserID) == "" || strings.TrimSpace(sub.StoreID) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "userId and salonId are required"})
		return
	}

	err := h.offers.UpdateSchedule(c.Request.Context(), &sub)
	switch {
	case errors.Is(err, sheets.ErrOfferNotFound):
		c.JSON(http.StatusNotFound, gin.H{"status": "error", "message": "offer not found"})
	case err != nil:
		h.logger.Error("recording schedule failed",
			zap.String("user_id", sub.UserID),
			zap.String("store_id", sub.StoreID),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "failed to update spreadsheet"})
	default:
		c.JSON(http.StatusOK, gin.H{"status": "success", "message": "schedule submitted"})
	}
}

// Callback handles the LINE webhook. Inbound text messages get a static
// pointer to the rich menu; everything else is acknowledged and ignored.
func (h *Handler) Callback(c *gin.Context) {
	cb, err := h.transport.ParseWebhook(c.Request)
	if err != nil {
		if errors.Is(err, line.ErrInvalidSignature) {
			c.String(http.StatusBadRequest, "invalid signature")
			return
		}
		c.String(http.StatusBadRequest, "invalid request")
		return
	}

	for _, event := range cb.Events {
		msg, ok := event.(webhook.MessageEvent)
		if !ok {
			continue
		}
		if _, ok := msg.Message.(webhook.TextMessageContent); !ok {
			continue
		}
		if err := h.transport.ReplyText(c.Request.Context(), msg.ReplyToken, instructionReply); err != nil {
			h.logger.Error("replying to inbound message failed", zap.Error(err))
		}
	}

	c.String(http.StatusOK, "OK")
}
