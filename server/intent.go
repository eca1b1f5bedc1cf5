package main

import "strings"

type Intent string

const (
	IntentGreeting         Intent = "greeting"
	IntentWhitespots       Intent = "whitespots"
	IntentRiskAssessment   Intent = "risk_assessment"
	IntentGDPNational      Intent = "gdp_national"
	IntentBusinessAnalysis Intent = "business_analysis"
	IntentBankDistribution Intent = "bank_distribution"
	IntentGeneralInfo      Intent = "general_info"
)

const (
	LocationBali      = "Bali"
	LocationIndonesia = "Indonesia"
)

// intentKeywords is ordered: the first entry whose keyword appears in the
// query wins, so broad terms must stay below narrow ones.
var intentKeywords = []struct {
	intent   Intent
	keywords []string
}{
	{IntentGreeting, []string{"halo", "hai", "hello", "apa kabar", "selamat"}},
	{IntentWhitespots, []string{"belum terjangkau", "white-spot", "white spot", "lokasi terbaik", "ekspansi"}},
	{IntentRiskAssessment, []string{"cabang berisiko", "pengawasan", "berisiko"}},
	{IntentGDPNational, []string{"kondisi nasional", "ekonomi nasional", "gdp", "nasional"}},
	{IntentBusinessAnalysis, []string{"coffee shop", "kedai kopi", "lokasi strategis", "usaha"}},
	{IntentBankDistribution, []string{"sebaran bank", "lokasi bank", "cabang bank"}},
}

var bankEntities = []string{"bni", "bca", "bri", "mandiri", "bsi", "btn", "cimb", "danamon"}

// ExtractIntentAndEntities classifies a free-text query into an intent,
// collects the recognized location and bank entities, and resolves the
// location the analysis should run against.
func ExtractIntentAndEntities(query string) (Intent, []string, string) {
	queryLower := strings.ToLower(query)

	intent := IntentGeneralInfo
	for _, entry := range intentKeywords {
		if containsAny(queryLower, entry.keywords) {
			intent = entry.intent
			break
		}
	}

	var entities []string
	hasBali := strings.Contains(queryLower, "bali")
	if hasBali {
		entities = append(entities, LocationBali)
	}
	for _, bank := range bankEntities {
		if strings.Contains(queryLower, bank) {
			entities = append(entities, strings.ToUpper(bank))
		}
	}

	location := LocationBali
	if !hasBali && intent == IntentGDPNational {
		location = LocationIndonesia
	}

	return intent, entities, location
}

func containsAny(s string, substrings []string) bool {
	for _, sub := range substrings {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// NeedsDeepAnalysis reports whether the intent gets the full database context
// and the larger generation budget.
func (i Intent) NeedsDeepAnalysis() bool {
	switch i {
	case IntentWhitespots, IntentRiskAssessment, IntentBusinessAnalysis, IntentBankDistribution:
		return true
	}
	return false
}
