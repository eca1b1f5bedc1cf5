package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractIntentAndEntities(t *testing.T) {
	tests := []struct {
		name         string
		query        string
		wantIntent   Intent
		wantEntities []string
		wantLocation string
	}{
		{
			name:         "greeting",
			query:        "Halo, apa kabar?",
			wantIntent:   IntentGreeting,
			wantEntities: nil,
			wantLocation: "Bali",
		},
		{
			name:         "whitespots with location",
			query:        "Lokasi belum terjangkau bank di Bali?",
			wantIntent:   IntentWhitespots,
			wantEntities: []string{"Bali"},
			wantLocation: "Bali",
		},
		{
			name:         "risk assessment",
			query:        "Cabang berisiko di Bali?",
			wantIntent:   IntentRiskAssessment,
			wantEntities: []string{"Bali"},
			wantLocation: "Bali",
		},
		{
			name:         "gdp national without location",
			query:        "Bagaimana kondisi nasional ekonomi?",
			wantIntent:   IntentGDPNational,
			wantEntities: nil,
			wantLocation: "Indonesia",
		},
		{
			name:         "gdp national with bali stays regional",
			query:        "GDP di Bali?",
			wantIntent:   IntentGDPNational,
			wantEntities: []string{"Bali"},
			wantLocation: "Bali",
		},
		{
			name:         "business analysis",
			query:        "Lokasi strategis untuk coffee shop di Bali?",
			wantIntent:   IntentBusinessAnalysis,
			wantEntities: []string{"Bali"},
			wantLocation: "Bali",
		},
		{
			name:         "bank distribution with bank entities",
			query:        "Dimana cabang bank BCA dan Mandiri di Bali?",
			wantIntent:   IntentBankDistribution,
			wantEntities: []string{"Bali", "BCA", "MANDIRI"},
			wantLocation: "Bali",
		},
		{
			name:         "no keyword defaults to general info",
			query:        "Berapa jumlah penduduk di sana?",
			wantIntent:   IntentGeneralInfo,
			wantEntities: nil,
			wantLocation: "Bali",
		},
		{
			name:         "earlier intent wins on keyword overlap",
			query:        "Halo, ada lokasi terbaik untuk ekspansi?",
			wantIntent:   IntentGreeting,
			wantEntities: nil,
			wantLocation: "Bali",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			intent, entities, location := ExtractIntentAndEntities(tt.query)

			assert.Equal(t, tt.wantIntent, intent)
			assert.Equal(t, tt.wantEntities, entities)
			assert.Equal(t, tt.wantLocation, location)
		})
	}
}

func TestExtractIntent_EveryKeywordResolvesItsIntent(t *testing.T) {
	for _, entry := range intentKeywords {
		for _, keyword := range entry.keywords {
			intent, _, _ := ExtractIntentAndEntities(keyword)
			assert.Equal(t, entry.intent, intent, "keyword %q", keyword)
		}
	}
}

func TestIntent_NeedsDeepAnalysis(t *testing.T) {
	deep := []Intent{IntentWhitespots, IntentRiskAssessment, IntentBusinessAnalysis, IntentBankDistribution}
	for _, intent := range deep {
		assert.True(t, intent.NeedsDeepAnalysis(), "intent %s", intent)
	}

	shallow := []Intent{IntentGreeting, IntentGeneralInfo, IntentGDPNational}
	for _, intent := range shallow {
		assert.False(t, intent.NeedsDeepAnalysis(), "intent %s", intent)
	}
}
