package main

import "github.com/Apri1221/localpulse-api/models"

var mapCenters = map[string][2]float64{
	LocationBali:      {-8.6705, 115.2126},
	LocationIndonesia: {-2.5, 118},
}

const (
	baliZoom     = 10
	nationalZoom = 5
	businessZoom = 11
)

// GenerateMapDirective resolves the rendering instructions for one intent.
// Filter maps are built fresh on every call so callers can annotate them
// without sharing state.
func GenerateMapDirective(intent Intent, location string) models.MapDirective {
	center, ok := mapCenters[location]
	if !ok {
		center = mapCenters[LocationBali]
	}
	zoom := baliZoom
	if location != LocationBali {
		zoom = nationalZoom
	}

	switch intent {
	case IntentWhitespots:
		return models.MapDirective{
			Mode:    "whitespots",
			Filters: map[string]any{"show_heatmap": true, "show_financial": true},
			Center:  center,
			Zoom:    zoom,
		}
	case IntentRiskAssessment:
		return models.MapDirective{
			Mode:    "risk",
			Filters: map[string]any{"show_heatmap": true, "show_financial": true, "highlight_risk": true},
			Center:  center,
			Zoom:    zoom,
		}
	case IntentBankDistribution:
		return models.MapDirective{
			Mode:    "financial",
			Filters: map[string]any{"show_financial": true, "group_by_category": true},
			Center:  center,
			Zoom:    zoom,
		}
	case IntentBusinessAnalysis:
		return models.MapDirective{
			Mode: "business_analysis",
			Filters: map[string]any{
				"show_heatmap":           true,
				"show_poi_density":       true,
				"show_financial":         true,
				"show_recommended_areas": true,
			},
			Center: center,
			Zoom:   businessZoom,
		}
	default:
		// gdp_national doubles as the fallback for unknown intents and is
		// always rendered at the national level.
		return models.MapDirective{
			Mode:    "gdp",
			Filters: map[string]any{},
			Center:  mapCenters[LocationIndonesia],
			Zoom:    nationalZoom,
		}
	}
}
