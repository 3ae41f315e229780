package pipeline

import (
	"context"
	"time"

	"github.com/luminaoffer/lumina-offer/internal/recruit"
	"go.uber.org/zap"
)

const welcomeMessage = "ご登録いただき、誠にありがとうございます！\n" +
	"LUMINA Offerが、あなたのプロフィールを拝見してピッタリな『好待遇サロンの公認オファー』を、このLINEアカウントを通じてご連絡いたします。\n" +
	"楽しみにお待ちください！"

// TextPusher sends a plain push message.
type TextPusher interface {
	PushText(ctx context.Context, to, text string) error
}

// CandidateUpserter writes a candidate row into the Users table.
type CandidateUpserter interface {
	Upsert(ctx context.Context, c *recruit.Candidate) error
}

// PostingSource supplies the current posting set.
type PostingSource interface {
	Postings(ctx context.Context) (*recruit.Postings, error)
}

// Intake handles a new candidate submission: immediate acknowledgement,
// profile normalization, upsert, then the matching pipeline. Acknowledgement
// and upsert failures are independent; neither stops the pipeline.
type Intake struct {
	users      CandidateUpserter
	postings   PostingSource
	composer   *Composer
	dispatcher *Dispatcher
	messenger  TextPusher
	// deferral, when set, moves the pipeline run to the configured send
	// window instead of running it in the request.
	deferral *Deferral
	logger   *zap.Logger
	now      func() time.Time
}

func NewIntake(
	users CandidateUpserter,
	postings PostingSource,
	composer *Composer,
	dispatcher *Dispatcher,
	messenger TextPusher,
	deferral *Deferral,
	log *zap.Logger,
) *Intake {
	if log == nil {
		log = zap.NewNop()
	}
	return &Intake{
		users:      users,
		postings:   postings,
		composer:   composer,
		dispatcher: dispatcher,
		messenger:  messenger,
		deferral:   deferral,
		logger:     log,
		now:        time.Now,
	}
}

// Handle processes one intake submission. It never returns an error: once a
// request is structurally valid, downstream failures are logged and the
// caller reports success.
func (i *Intake) Handle(ctx context.Context, userID string, candidate *recruit.Candidate) {
	candidate.UserID = userID

	if err := i.messenger.PushText(ctx, userID, welcomeMessage); err != nil {
		i.logger.Error("sending welcome message failed",
			zap.String("user_id", userID),
			zap.Error(err),
		)
	}

	if candidate.Birthdate != "" {
		bracket, err := recruit.AgeBracket(candidate.Birthdate, i.now())
		if err != nil {
			i.logger.Warn("deriving age bracket failed",
				zap.String("user_id", userID),
				zap.Error(err),
			)
		} else {
			candidate.AgeBracket = bracket
		}
	}

	candidate.RegisteredAt = i.now().Format(recruit.SentDateLayout)
	candidate.Status = recruit.CandidateStatusOffering

	if err := i.users.Upsert(ctx, candidate); err != nil {
		i.logger.Error("upserting candidate failed",
			zap.String("user_id", userID),
			zap.Error(err),
		)
	}

	if i.deferral != nil {
		i.deferral.Schedule(userID, func(ctx context.Context) {
			i.runPipeline(ctx, candidate)
		})
		return
	}

	i.runPipeline(ctx, candidate)
}

func (i *Intake) runPipeline(ctx context.Context, candidate *recruit.Candidate) {
	postings, err := i.postings.Postings(ctx)
	if err != nil {
		i.logger.Error("loading postings failed",
			zap.String("user_id", candidate.UserID),
			zap.Error(err),
		)
		return
	}

	result := i.composer.Compose(ctx, candidate, postings)
	i.dispatcher.Dispatch(ctx, candidate.UserID, result)
}
