package sentiment

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/growthops/leadops-cli/internal/model"
	"github.com/growthops/leadops-cli/pkg/anthropic"
)

type fakeClient struct {
	text  string
	err   error
	calls int
	last  anthropic.MessageRequest
}

func (f *fakeClient) CreateMessage(ctx context.Context, req anthropic.MessageRequest) (*anthropic.MessageResponse, error) {
	f.calls++
	f.last = req
	if f.err != nil {
		return nil, f.err
	}
	return &anthropic.MessageResponse{Text: f.text, Model: req.Model}, nil
}

func TestSuggest_Positive(t *testing.T) {
	c := &fakeClient{text: "positive"}
	s := NewSuggester(c, "")

	got := s.Suggest(context.Background(), "butuh kasir untuk toko baru")
	assert.Equal(t, model.SentimentPositive, got)
	assert.Contains(t, c.last.Messages[0].Content, "butuh kasir")
}

func TestSuggest_ModelSelection(t *testing.T) {
	c := &fakeClient{text: "positive"}
	NewSuggester(c, "claude-sonnet-4-5").Suggest(context.Background(), "real reason")
	assert.Equal(t, "claude-sonnet-4-5", c.last.Model)

	NewSuggester(c, "").Suggest(context.Background(), "real reason")
	assert.Equal(t, defaultModel, c.last.Model)
}

func TestSuggest_NegativeWithNoise(t *testing.T) {
	c := &fakeClient{text: " Negative\n"}
	got := NewSuggester(c, "").Suggest(context.Background(), "test test")
	assert.Equal(t, model.SentimentNegative, got)
}

func TestSuggest_BlankReasonSkipsAPI(t *testing.T) {
	c := &fakeClient{text: "positive"}
	got := NewSuggester(c, "").Suggest(context.Background(), "   ")
	assert.Equal(t, model.SentimentUnknown, got)
	assert.Zero(t, c.calls)
}

func TestSuggest_APIErrorDegradesToUnknown(t *testing.T) {
	c := &fakeClient{err: errors.New("rate limited")}
	got := NewSuggester(c, "").Suggest(context.Background(), "real reason")
	assert.Equal(t, model.SentimentUnknown, got)
}

func TestSuggest_UnexpectedLabel(t *testing.T) {
	c := &fakeClient{text: "maybe?"}
	got := NewSuggester(c, "").Suggest(context.Background(), "real reason")
	assert.Equal(t, model.SentimentUnknown, got)
}

func TestSuggestAll_PreservesOrder(t *testing.T) {
	c := &fakeClient{text: "positive"}
	leads := []model.IntakeRecord{
		{Phone: "0811", Reason: "buka cabang"},
		{Phone: "0822", Reason: ""},
	}

	got := NewSuggester(c, "").SuggestAll(context.Background(), leads)
	assert.Len(t, got, 2)
	assert.Equal(t, "0811", got[0].Phone)
	assert.Equal(t, model.SentimentPositive, got[0].Sentiment)
	assert.Equal(t, model.SentimentUnknown, got[1].Sentiment)
	assert.Equal(t, 1, c.calls)
}
