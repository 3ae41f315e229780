package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	_ "embed"

	"github.com/luminaoffer/lumina-offer/internal/ai"
	"github.com/luminaoffer/lumina-offer/internal/logger"
	"github.com/luminaoffer/lumina-offer/internal/recruit"
	"go.uber.org/zap"
)

type contentGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

// Ranker asks Gemini to score the eligible postings and draft the outreach
// message for the best one. It implements ai.Recommender.
type Ranker struct {
	generator contentGenerator
	logger    *zap.Logger
	maxLogLen int
}

//go:embed prompt.md
var promptTemplate string

const defaultMaxLogLength = 2000

// maxRankedStores caps how many ranked IDs are kept even if the model
// returns more than instructed.
const maxRankedStores = 3

func NewRanker(generator contentGenerator, log *zap.Logger, maxLogLength int) *Ranker {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}
	if log == nil {
		log = zap.NewNop()
	}

	return &Ranker{
		generator: generator,
		logger:    log,
		maxLogLen: maxLogLength,
	}
}

func (r *Ranker) Recommend(ctx context.Context, candidate *recruit.Candidate, eligible *recruit.Postings) (*ai.Recommendation, error) {
	if candidate == nil {
		return nil, fmt.Errorf("candidate is required")
	}
	if eligible.Len() == 0 {
		return nil, fmt.Errorf("eligible postings are required")
	}

	candidateJSON, err := json.MarshalIndent(candidate, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal candidate payload: %w", err)
	}

	postingsJSON, err := json.MarshalIndent(eligible.Items, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal postings payload: %w", err)
	}

	prompt := buildPrompt(string(candidateJSON), string(postingsJSON))

	r.logger.Debug("gemini generate content request",
		zap.String("user_id", candidate.UserID),
		zap.Int("eligible_postings", eligible.Len()),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", logger.TruncateForLog(prompt, r.maxLogLen)),
	)

	raw, err := r.generator.GenerateContent(ctx, prompt)
	if err != nil {
		return nil, err
	}

	r.logger.Debug("gemini generate content response",
		zap.String("user_id", candidate.UserID),
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", logger.TruncateForLog(raw, r.maxLogLen)),
	)

	rec, err := parseResponse(raw)
	if err != nil {
		r.logger.Warn("unparsable gemini response",
			zap.String("user_id", candidate.UserID),
			zap.String("raw_response", logger.TruncateForLog(raw, r.maxLogLen)),
			zap.Error(err),
		)
		return nil, err
	}

	rec.Raw = raw
	return rec, nil
}

func buildPrompt(candidateJSON, postingsJSON string) string {
	template := promptTemplate
	if strings.TrimSpace(template) == "" {
		template = "Candidate:\n{{CANDIDATE_JSON}}\n\nPostings:\n{{POSTINGS_JSON}}\n\nJSON Response:"
	}
	prompt := strings.ReplaceAll(template, "{{CANDIDATE_JSON}}", candidateJSON)
	prompt = strings.ReplaceAll(prompt, "{{POSTINGS_JSON}}", postingsJSON)
	return prompt
}

func parseResponse(raw string) (*ai.Recommendation, error) {
	object, err := extractJSONObject(raw)
	if err != nil {
		return nil, err
	}

	var data map[string]any
	if err := json.Unmarshal([]byte(object), &data); err != nil {
		return nil, fmt.Errorf("parse gemini response: %w", err)
	}

	ids := coerceIDList(data["ranked_store_ids"])
	if len(ids) == 0 {
		return nil, errors.New("gemini response contains no ranked store ids")
	}
	if len(ids) > maxRankedStores {
		ids = ids[:maxRankedStores]
	}

	message := coerceString(data["first_offer_message"])
	if message == "" {
		return nil, errors.New("gemini response contains no offer message")
	}

	return &ai.Recommendation{
		RankedStoreIDs: ids,
		Message:        message,
	}, nil
}

// extractJSONObject locates the first balanced top-level JSON object anywhere
// in the raw text. Model responses may wrap the object in commentary or code
// fences.
func extractJSONObject(raw string) (string, error) {
	start := strings.IndexByte(raw, '{')
	if start == -1 {
		return "", errors.New("response does not contain a json object")
	}

	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(raw); i++ {
		c := raw[i]

		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return raw[start : i+1], nil
			}
		}
	}

	return "", errors.New("response contains an unbalanced json object")
}

func coerceIDList(v any) []int64 {
	list, ok := v.([]any)
	if !ok {
		return nil
	}

	ids := make([]int64, 0, len(list))
	for _, item := range list {
		switch val := item.(type) {
		case float64:
			ids = append(ids, int64(val))
		case string:
			parsed, err := strconv.ParseInt(strings.TrimSpace(val), 10, 64)
			if err != nil {
				continue
			}
			ids = append(ids, parsed)
		}
	}
	return ids
}

func coerceString(v any) string {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	case fmt.Stringer:
		return strings.TrimSpace(val.String())
	default:
		return ""
	}
}
