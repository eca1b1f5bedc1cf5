package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/Apri1221/localpulse-api/models"
)

const GreetingSysPrompt = "You are LocalPulse.AI assistant. Say hello, mention you help with banking/economic analysis, ask how to help. Be friendly and concise (max 2 sentences)."

const GeneralInfoSysPrompt = "You are LocalPulse.AI. Briefly explain you help analyze banking and economic data in Indonesia. Be concise (max 3 sentences)."

const GDPNationalSysPrompt = "You are LocalPulse.AI. Give a general economic overview for Indonesia without detailed analysis (max 4 sentences)."

const analysisSysPromptTemplate = `You are LocalPulse.AI, an advanced economic and banking analysis system for Indonesia.

**Analysis Context:**
- Intent: %s
- Location: %s
- Date: %s

**Database Context:**
%s

**Guidelines:**
1. Use real data from the context
2. Be specific with numbers and district names
3. Provide actionable insights
4. Match user's language (Indonesian/English)
5. Structure clearly with headings and bullet points

**Focus Areas:**
- whitespots: High-opportunity areas with specific recommendations
- risk_assessment: Branch vulnerability with risk classifications
- bank_distribution: Coverage analysis by district
- business_analysis: Market opportunities with competitive analysis`

// buildSystemPrompt returns the short fixed prompt for conversational
// intents, or the full analysis template with the serialized database
// context for everything else.
func buildSystemPrompt(intent Intent, location string, dbContext models.AnalysisContext, now time.Time) string {
	switch intent {
	case IntentGreeting:
		return GreetingSysPrompt
	case IntentGeneralInfo:
		return GeneralInfoSysPrompt
	case IntentGDPNational:
		return GDPNationalSysPrompt
	}

	contextJSON, err := json.MarshalIndent(dbContext, "", "  ")
	if err != nil {
		contextJSON = []byte("{}")
	}

	return fmt.Sprintf(analysisSysPromptTemplate, intent, location, now.Format("2006-01-02"), contextJSON)
}

// fallbackResponse is returned in place of the generated answer when the LLM
// call fails; the already-computed stats keep the reply useful.
func fallbackResponse(location string, stats models.BasicStats, cause error) string {
	return fmt.Sprintf(`**Analisis Terbatas - API Error**

Data %s:
- Bank: %d lokasi
- ATM: %d lokasi
- POI: %d titik aktivitas

Error: %v`, location, stats.TotalBanks, stats.TotalATMs, stats.TotalPOI, cause)
}
