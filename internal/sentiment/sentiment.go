// Package sentiment suggests a polarity for a lead's free-text reason.
// Suggestions are advisory input to the review step; the operator label
// stays authoritative, and any failure degrades to unknown.
package sentiment

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/growthops/leadops-cli/internal/model"
	"github.com/growthops/leadops-cli/pkg/anthropic"
)

const (
	defaultModel     = "claude-haiku-4-5-20251001"
	suggestMaxTokens = 8
)

const systemPrompt = `You label the sentiment of short Indonesian or English answers to ` +
	`"why do you need a point-of-sale system". Reply with exactly one word: ` +
	`positive or negative. Positive means genuine buying intent; negative means ` +
	`spam, a test entry, or no intent.`

// Suggester maps free-text reasons to sentiment suggestions.
type Suggester struct {
	client anthropic.Client
	model  string
}

// NewSuggester builds a Suggester over an Anthropic client. An empty
// model falls back to the default.
func NewSuggester(client anthropic.Client, mdl string) *Suggester {
	if mdl == "" {
		mdl = defaultModel
	}
	return &Suggester{client: client, model: mdl}
}

// Suggest returns the suggested polarity for one reason string. Blank
// reasons and API failures come back as unknown, never as an error.
func (s *Suggester) Suggest(ctx context.Context, reason string) model.Sentiment {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return model.SentimentUnknown
	}

	resp, err := s.client.CreateMessage(ctx, anthropic.MessageRequest{
		Model:     s.model,
		MaxTokens: suggestMaxTokens,
		System:    systemPrompt,
		Messages: []anthropic.Message{
			{Role: "user", Content: fmt.Sprintf("Reason: %s", reason)},
		},
	})
	if err != nil {
		zap.L().Debug("sentiment suggestion skipped", zap.Error(err))
		return model.SentimentUnknown
	}
	resp.Usage.LogUsage(resp.Model, "sentiment")

	return parseLabel(resp.Text)
}

// SuggestAll labels each lead's reason, preserving input order.
func (s *Suggester) SuggestAll(ctx context.Context, leads []model.IntakeRecord) []model.ReviewSuggestion {
	out := make([]model.ReviewSuggestion, 0, len(leads))
	for _, lead := range leads {
		out = append(out, model.ReviewSuggestion{
			Phone:     lead.Phone,
			Sentiment: s.Suggest(ctx, lead.Reason),
		})
	}
	return out
}

func parseLabel(text string) model.Sentiment {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "positive":
		return model.SentimentPositive
	case "negative":
		return model.SentimentNegative
	default:
		return model.SentimentUnknown
	}
}
