package main

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/schema"
	"go.uber.org/zap"

	"github.com/Apri1221/localpulse-api/models"
)

// AnalysisStore is the slice of the store the assistant needs to assemble
// prompt context.
type AnalysisStore interface {
	BasicStats(ctx context.Context, location string) (models.BasicStats, error)
	DistrictAnalysis(ctx context.Context, location string) ([]models.DistrictInsight, error)
	BusinessOpportunities(ctx context.Context, location string) ([]models.BusinessOpportunity, error)
}

type statsCacheEntry struct {
	stats     models.BasicStats
	fetchedAt time.Time
}

// Assistant runs the chat pipeline: intent extraction, context assembly,
// prompt construction and the LLM call. History and the stats cache are
// in-process only and reset on restart.
type Assistant struct {
	llm              llms.Model
	store            AnalysisStore
	log              *zap.Logger
	shallowMaxTokens int
	deepMaxTokens    int

	historyMu sync.Mutex
	history   []models.ConversationEntry

	cacheMu    sync.Mutex
	statsCache map[string]statsCacheEntry
	statsTTL   time.Duration
}

func NewAssistant(llm llms.Model, store AnalysisStore, statsTTL time.Duration, shallowMaxTokens, deepMaxTokens int, log *zap.Logger) *Assistant {
	return &Assistant{
		llm:              llm,
		store:            store,
		log:              log,
		shallowMaxTokens: shallowMaxTokens,
		deepMaxTokens:    deepMaxTokens,
		statsCache:       make(map[string]statsCacheEntry),
		statsTTL:         statsTTL,
	}
}

// basicStats serves counts from the cache while the entry is fresh. Store
// errors degrade to zero counts so the chat pipeline never fails on them.
func (a *Assistant) basicStats(ctx context.Context, location string) models.BasicStats {
	a.cacheMu.Lock()
	entry, ok := a.statsCache[location]
	a.cacheMu.Unlock()
	if ok && time.Since(entry.fetchedAt) < a.statsTTL {
		return entry.stats
	}

	stats, err := a.store.BasicStats(ctx, location)
	if err != nil {
		a.log.Error("basic stats query failed", zap.String("location", location), zap.Error(err))
		return models.BasicStats{}
	}

	a.cacheMu.Lock()
	a.statsCache[location] = statsCacheEntry{stats: stats, fetchedAt: time.Now()}
	a.cacheMu.Unlock()

	return stats
}

// databaseContext assembles the intent-specific context. Every query error
// degrades to an empty section instead of failing the response.
func (a *Assistant) databaseContext(ctx context.Context, intent Intent, location string) models.AnalysisContext {
	if location == "" {
		location = LocationBali
	}

	dbContext := models.AnalysisContext{
		BasicStats: a.basicStats(ctx, location),
	}

	switch intent {
	case IntentWhitespots, IntentRiskAssessment:
		insights, err := a.store.DistrictAnalysis(ctx, location)
		if err != nil {
			a.log.Error("district analysis failed", zap.String("location", location), zap.Error(err))
		} else {
			dbContext.DistrictAnalysis = insights
		}
	case IntentBusinessAnalysis:
		opportunities, err := a.store.BusinessOpportunities(ctx, location)
		if err != nil {
			a.log.Error("business opportunity query failed", zap.String("location", location), zap.Error(err))
		} else {
			dbContext.BusinessOpportunities = opportunities
		}
		dbContext.RecommendedBusinessAreas = recommendedBusinessAreas[location]
	}

	return dbContext
}

// GenerateResponse answers one query. The map directive is computed before
// the LLM call and survives its failure; on failure the text degrades to a
// fallback built from the stats already in hand.
func (a *Assistant) GenerateResponse(ctx context.Context, query string) (string, models.MapDirective) {
	return a.respond(ctx, query, nil)
}

// StreamResponse behaves like GenerateResponse but forwards generation
// chunks to streamFn as they arrive. The fallback text is delivered through
// streamFn as a single chunk.
func (a *Assistant) StreamResponse(ctx context.Context, query string, streamFn func(ctx context.Context, chunk []byte) error) (string, models.MapDirective) {
	return a.respond(ctx, query, streamFn)
}

func (a *Assistant) respond(ctx context.Context, query string, streamFn func(ctx context.Context, chunk []byte) error) (string, models.MapDirective) {
	intent, entities, location := ExtractIntentAndEntities(query)
	directive := GenerateMapDirective(intent, location)

	maxTokens := a.shallowMaxTokens
	var dbContext models.AnalysisContext
	if intent.NeedsDeepAnalysis() {
		maxTokens = a.deepMaxTokens
		dbContext = a.databaseContext(ctx, intent, location)
	} else {
		dbContext.BasicStats = a.basicStats(ctx, location)
	}

	systemPrompt := buildSystemPrompt(intent, location, dbContext, time.Now())

	messages := []llms.MessageContent{
		{
			Role:  schema.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{llms.TextPart(systemPrompt)},
		},
		{
			Role: schema.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{
				llms.TextPart(fmt.Sprintf("User Query: %q\n\nProvide helpful response based on context.", query)),
			},
		},
	}

	options := []llms.CallOption{llms.WithMaxTokens(maxTokens)}
	if streamFn != nil {
		options = append(options, llms.WithStreamingFunc(streamFn))
	}

	content, err := a.llm.GenerateContent(ctx, messages, options...)
	if err != nil {
		a.log.Error("llm call failed",
			zap.String("intent", string(intent)),
			zap.Strings("entities", entities),
			zap.Error(err))

		text := fallbackResponse(location, dbContext.BasicStats, err)
		if streamFn != nil {
			_ = streamFn(ctx, []byte(text))
		}
		return text, directive
	}

	var text string
	if len(content.Choices) > 0 {
		text = content.Choices[0].Content
	}

	a.historyMu.Lock()
	a.history = append(a.history, models.ConversationEntry{
		Timestamp: time.Now(),
		Query:     query,
		Response:  text,
	})
	a.historyMu.Unlock()

	return text, directive
}

func (a *Assistant) ConversationHistory() []models.ConversationEntry {
	a.historyMu.Lock()
	defer a.historyMu.Unlock()

	history := make([]models.ConversationEntry, len(a.history))
	copy(history, a.history)
	return history
}

// ClearConversation drops the history and the stats cache together, so the
// next stats lookup recomputes instead of serving a stale entry.
func (a *Assistant) ClearConversation() {
	a.historyMu.Lock()
	a.history = nil
	a.historyMu.Unlock()

	a.cacheMu.Lock()
	a.statsCache = make(map[string]statsCacheEntry)
	a.cacheMu.Unlock()
}
