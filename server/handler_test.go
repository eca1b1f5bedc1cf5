package main

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/schema"
	"go.uber.org/zap"

	"github.com/Apri1221/localpulse-api/models"
)

// fakeLLM implements llms.Model and records the last call.
type fakeLLM struct {
	response string
	chunks   []string
	err      error

	calls        int
	lastMessages []llms.MessageContent
	lastOpts     llms.CallOptions
}

func (f *fakeLLM) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	f.calls++
	f.lastMessages = messages

	opts := llms.CallOptions{}
	for _, opt := range options {
		opt(&opts)
	}
	f.lastOpts = opts

	if f.err != nil {
		return nil, f.err
	}

	if opts.StreamingFunc != nil {
		chunks := f.chunks
		if chunks == nil {
			chunks = []string{f.response}
		}
		for _, chunk := range chunks {
			if err := opts.StreamingFunc(ctx, []byte(chunk)); err != nil {
				return nil, err
			}
		}
	}

	return &llms.ContentResponse{
		Choices: []*llms.ContentChoice{{Content: f.response}},
	}, nil
}

func (f *fakeLLM) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return f.response, f.err
}

// fakeAnalysisStore counts queries so cache behavior is observable.
type fakeAnalysisStore struct {
	stats    models.BasicStats
	statsErr error

	statsCalls        int
	analysisCalls     int
	opportunityCalls  int
	analysisErr       error
	opportunityErr    error
	insights          []models.DistrictInsight
	opportunities     []models.BusinessOpportunity
	lastStatsLocation string
}

func (f *fakeAnalysisStore) BasicStats(ctx context.Context, location string) (models.BasicStats, error) {
	f.statsCalls++
	f.lastStatsLocation = location
	return f.stats, f.statsErr
}

func (f *fakeAnalysisStore) DistrictAnalysis(ctx context.Context, location string) ([]models.DistrictInsight, error) {
	f.analysisCalls++
	return f.insights, f.analysisErr
}

func (f *fakeAnalysisStore) BusinessOpportunities(ctx context.Context, location string) ([]models.BusinessOpportunity, error) {
	f.opportunityCalls++
	return f.opportunities, f.opportunityErr
}

func newTestAssistant(llm llms.Model, store AnalysisStore) *Assistant {
	return NewAssistant(llm, store, time.Hour, 200, 800, zap.NewNop())
}

func systemPromptOf(t *testing.T, messages []llms.MessageContent) string {
	t.Helper()
	require.NotEmpty(t, messages)
	require.Equal(t, schema.ChatMessageTypeSystem, messages[0].Role)
	require.NotEmpty(t, messages[0].Parts)

	text, ok := messages[0].Parts[0].(llms.TextContent)
	require.True(t, ok)
	return text.Text
}

func TestAssistant_GenerateResponse_ShallowIntent(t *testing.T) {
	llm := &fakeLLM{response: "Halo! Saya LocalPulse.AI."}
	store := &fakeAnalysisStore{stats: models.BasicStats{TotalBanks: 4, TotalATMs: 2, TotalPOI: 7}}
	assistant := newTestAssistant(llm, store)

	response, directive := assistant.GenerateResponse(context.Background(), "Halo, apa kabar?")

	assert.Equal(t, "Halo! Saya LocalPulse.AI.", response)
	assert.Equal(t, "gdp", directive.Mode)
	assert.Equal(t, 200, llm.lastOpts.MaxTokens)
	assert.Equal(t, GreetingSysPrompt, systemPromptOf(t, llm.lastMessages))
	assert.Zero(t, store.analysisCalls)

	history := assistant.ConversationHistory()
	require.Len(t, history, 1)
	assert.Equal(t, "Halo, apa kabar?", history[0].Query)
	assert.Equal(t, "Halo! Saya LocalPulse.AI.", history[0].Response)
}

func TestAssistant_GenerateResponse_DeepIntent(t *testing.T) {
	density := 0.8
	llm := &fakeLLM{response: "Badung adalah prioritas tertinggi."}
	store := &fakeAnalysisStore{
		stats: models.BasicStats{TotalBanks: 4, TotalATMs: 2, TotalPOI: 7},
		insights: []models.DistrictInsight{
			{District: "Badung", TotalFinancial: 1, AvgPOIDensity: &density, Classification: AreaHighPriorityWhitespace},
		},
	}
	assistant := newTestAssistant(llm, store)

	_, directive := assistant.GenerateResponse(context.Background(), "Lokasi belum terjangkau bank di Bali?")

	assert.Equal(t, "whitespots", directive.Mode)
	assert.Equal(t, 800, llm.lastOpts.MaxTokens)
	assert.Equal(t, 1, store.analysisCalls)

	prompt := systemPromptOf(t, llm.lastMessages)
	assert.Contains(t, prompt, "whitespots")
	assert.Contains(t, prompt, "total_banks")
	assert.Contains(t, prompt, "HIGH_PRIORITY_WHITESPACE")
}

func TestAssistant_BusinessAnalysisContext(t *testing.T) {
	llm := &fakeLLM{response: "ok"}
	store := &fakeAnalysisStore{
		opportunities: []models.BusinessOpportunity{
			{District: "Badung", AvgActivityDensity: 0.8, TotalActivityPoints: 3, OpportunityScore: 2.4},
		},
	}
	assistant := newTestAssistant(llm, store)

	assistant.GenerateResponse(context.Background(), "Lokasi strategis untuk coffee shop di Bali?")

	assert.Equal(t, 1, store.opportunityCalls)
	assert.Zero(t, store.analysisCalls)

	prompt := systemPromptOf(t, llm.lastMessages)
	assert.Contains(t, prompt, "business_opportunities")
	assert.Contains(t, prompt, "Seminyak Business District")
}

func TestAssistant_LLMFailure_FallbackKeepsDirective(t *testing.T) {
	llm := &fakeLLM{err: errors.New("overloaded_error")}
	store := &fakeAnalysisStore{stats: models.BasicStats{TotalBanks: 4, TotalATMs: 2, TotalPOI: 7}}
	assistant := newTestAssistant(llm, store)

	response, directive := assistant.GenerateResponse(context.Background(), "Cabang berisiko di Bali?")

	assert.Equal(t, "risk", directive.Mode)
	assert.Contains(t, response, "Analisis Terbatas")
	assert.Contains(t, response, "Bank: 4 lokasi")
	assert.Contains(t, response, "overloaded_error")

	// Failed calls never enter the history.
	assert.Empty(t, assistant.ConversationHistory())
}

func TestAssistant_ContextQueryFailure_Degrades(t *testing.T) {
	llm := &fakeLLM{response: "jawaban"}
	store := &fakeAnalysisStore{
		statsErr:    errors.New("disk I/O error"),
		analysisErr: errors.New("disk I/O error"),
	}
	assistant := newTestAssistant(llm, store)

	response, directive := assistant.GenerateResponse(context.Background(), "Lokasi belum terjangkau bank di Bali?")

	// Store failures degrade to empty context; the pipeline still answers.
	assert.Equal(t, "jawaban", response)
	assert.Equal(t, "whitespots", directive.Mode)
}

func TestAssistant_StatsCache(t *testing.T) {
	llm := &fakeLLM{response: "ok"}
	store := &fakeAnalysisStore{stats: models.BasicStats{TotalBanks: 1}}
	assistant := newTestAssistant(llm, store)
	ctx := context.Background()

	assistant.GenerateResponse(ctx, "Halo")
	assistant.GenerateResponse(ctx, "Halo lagi")
	assert.Equal(t, 1, store.statsCalls)

	assistant.ClearConversation()
	assistant.GenerateResponse(ctx, "Halo")
	assert.Equal(t, 2, store.statsCalls)
}

func TestAssistant_StatsCacheExpiry(t *testing.T) {
	llm := &fakeLLM{response: "ok"}
	store := &fakeAnalysisStore{}
	assistant := NewAssistant(llm, store, time.Nanosecond, 200, 800, zap.NewNop())
	ctx := context.Background()

	assistant.GenerateResponse(ctx, "Halo")
	time.Sleep(time.Millisecond)
	assistant.GenerateResponse(ctx, "Halo lagi")

	assert.Equal(t, 2, store.statsCalls)
}

func TestAssistant_ClearConversation(t *testing.T) {
	llm := &fakeLLM{response: "ok"}
	assistant := newTestAssistant(llm, &fakeAnalysisStore{})

	assistant.GenerateResponse(context.Background(), "Halo")
	require.Len(t, assistant.ConversationHistory(), 1)

	assistant.ClearConversation()
	assert.Empty(t, assistant.ConversationHistory())
}

func TestAssistant_StreamResponse(t *testing.T) {
	llm := &fakeLLM{response: "dua potong", chunks: []string{"dua ", "potong"}}
	assistant := newTestAssistant(llm, &fakeAnalysisStore{})

	var received []string
	response, directive := assistant.StreamResponse(context.Background(), "Halo", func(ctx context.Context, chunk []byte) error {
		received = append(received, string(chunk))
		return nil
	})

	assert.Equal(t, "dua potong", response)
	assert.Equal(t, "gdp", directive.Mode)
	assert.Equal(t, "dua potong", strings.Join(received, ""))
}

func TestAssistant_StreamResponse_FallbackIsStreamed(t *testing.T) {
	llm := &fakeLLM{err: errors.New("api_error")}
	store := &fakeAnalysisStore{stats: models.BasicStats{TotalPOI: 7}}
	assistant := newTestAssistant(llm, store)

	var received []string
	response, directive := assistant.StreamResponse(context.Background(), "Cabang berisiko di Bali?", func(ctx context.Context, chunk []byte) error {
		received = append(received, string(chunk))
		return nil
	})

	require.Len(t, received, 1)
	assert.Equal(t, response, received[0])
	assert.Contains(t, response, "api_error")
	assert.Equal(t, "risk", directive.Mode)
}
