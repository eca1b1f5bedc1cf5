package main

import (
	"sort"

	"github.com/Apri1221/localpulse-api/models"
)

// Area classification constants for the district analysis.
const (
	AreaHighPriorityWhitespace   = "HIGH_PRIORITY_WHITESPACE"
	AreaMediumPriorityWhitespace = "MEDIUM_PRIORITY_WHITESPACE"
	AreaPotentialRiskOversupply  = "POTENTIAL_RISK_OVERSUPPLY"
	AreaHighRiskLowDemand        = "HIGH_RISK_LOW_DEMAND"
	AreaBalanced                 = "BALANCED"
)

// ClassifyArea maps a district's average activity density and financial
// institution count to an area classification. Rules are evaluated top down:
//   - density > 0.7 with fewer than 2 institutions: high priority whitespace
//   - density > 0.5 with fewer than 3 institutions: medium priority whitespace
//   - density < 0.3 with more than 2 institutions: potential oversupply
//   - density < 0.2 with at least one institution: low demand risk
//   - anything else: balanced
func ClassifyArea(avgDensity float64, totalFinancial int64) string {
	switch {
	case avgDensity > 0.7 && totalFinancial < 2:
		return AreaHighPriorityWhitespace
	case avgDensity > 0.5 && totalFinancial < 3:
		return AreaMediumPriorityWhitespace
	case avgDensity < 0.3 && totalFinancial > 2:
		return AreaPotentialRiskOversupply
	case avgDensity < 0.2 && totalFinancial > 0:
		return AreaHighRiskLowDemand
	default:
		return AreaBalanced
	}
}

// classifyInsight fills the classification for one analysis row. Districts
// without activity data never match a threshold rule and stay balanced.
func classifyInsight(row *models.DistrictInsight) {
	if row.AvgPOIDensity == nil {
		row.Classification = AreaBalanced
		return
	}
	row.Classification = ClassifyArea(*row.AvgPOIDensity, row.TotalFinancial)
}

// sortInsights orders rows by average density descending, districts without
// activity data last.
func sortInsights(rows []models.DistrictInsight) {
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i].AvgPOIDensity, rows[j].AvgPOIDensity
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return *a > *b
		}
	})
}

// recommendedBusinessAreas is curated seed data for the launched region.
// Only Bali carries a hand-picked list; other provinces rely on the ranked
// opportunities alone.
var recommendedBusinessAreas = map[string][]models.RecommendedArea{
	LocationBali: {
		{
			Name:              "Seminyak Business District",
			Coordinates:       [2]float64{-8.6872, 115.1748},
			District:          "Badung",
			BusinessPotential: "HIGH",
		},
		{
			Name:              "Ubud Cultural Center",
			Coordinates:       [2]float64{-8.5088, 115.2623},
			District:          "Gianyar",
			BusinessPotential: "HIGH",
		},
		{
			Name:              "Canggu Beach Area",
			Coordinates:       [2]float64{-8.6482, 115.1374},
			District:          "Badung",
			BusinessPotential: "HIGH",
		},
	},
}
