package models

import (
	"fmt"
	"time"
)

// Financial categories inside the poi_density table. Every other category is
// treated as an activity point for density analysis.
const (
	CategoryBank = "Bank"
	CategoryATM  = "ATM"
)

type POI struct {
	ID            int64    `gorm:"primaryKey" json:"id"`
	Name          string   `json:"name"`
	Category      string   `json:"category"`
	Latitude      float64  `json:"lat"`
	Longitude     float64  `json:"lng"`
	Province      string   `json:"province"`
	District      string   `json:"district"`
	Intensity     float64  `json:"intensity"`
	Rating        *float64 `json:"rating"`
	RatingCount   *int64   `gorm:"column:rating_count" json:"rating_count"`
	GmapsLink     *string  `gorm:"column:gmaps_link" json:"gmaps_link"`
	BankCategory  *string  `gorm:"column:bank_category" json:"bank_category"`
	BankColorcode *string  `gorm:"column:bank_colorcode" json:"bank_colorcode"`
}

func (p *POI) TableName() string {
	return "poi_density"
}

func (p *POI) IsFinancial() bool {
	return p.Category == CategoryBank || p.Category == CategoryATM
}

// FinancialInstitution is the wire shape for /api/financial rows. The table
// category doubles as the institution type.
type FinancialInstitution struct {
	ID            int64    `json:"id"`
	Name          string   `json:"name"`
	Type          string   `json:"type"`
	Lat           float64  `json:"lat"`
	Lng           float64  `json:"lng"`
	Province      string   `json:"province"`
	District      string   `json:"district"`
	Rating        *float64 `json:"rating"`
	RatingCount   *int64   `json:"rating_count"`
	GmapsLink     *string  `json:"gmaps_link"`
	BankCategory  *string  `json:"bank_category"`
	BankColorcode *string  `json:"bank_colorcode"`
}

func NewFinancialInstitution(p POI) FinancialInstitution {
	return FinancialInstitution{
		ID:            p.ID,
		Name:          p.Name,
		Type:          p.Category,
		Lat:           p.Latitude,
		Lng:           p.Longitude,
		Province:      p.Province,
		District:      p.District,
		Rating:        p.Rating,
		RatingCount:   p.RatingCount,
		GmapsLink:     p.GmapsLink,
		BankCategory:  p.BankCategory,
		BankColorcode: p.BankColorcode,
	}
}

// POIDetail is the wire shape for /api/poi detailed rows.
type POIDetail struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	Lat         float64  `json:"lat"`
	Lng         float64  `json:"lng"`
	Intensity   float64  `json:"intensity"`
	Category    string   `json:"category"`
	Province    string   `json:"province"`
	District    string   `json:"district"`
	Rating      *float64 `json:"rating"`
	RatingCount *int64   `json:"rating_count"`
	GmapsLink   *string  `json:"gmaps_link"`
}

func NewPOIDetail(p POI) POIDetail {
	return POIDetail{
		ID:          p.ID,
		Name:        p.Name,
		Lat:         p.Latitude,
		Lng:         p.Longitude,
		Intensity:   p.Intensity,
		Category:    p.Category,
		Province:    p.Province,
		District:    p.District,
		Rating:      p.Rating,
		RatingCount: p.RatingCount,
		GmapsLink:   p.GmapsLink,
	}
}

// HeatmapPoint marshals as a [lat, lng, intensity] tuple.
type HeatmapPoint [3]float64

func NewHeatmapPoint(p POI) HeatmapPoint {
	return HeatmapPoint{p.Latitude, p.Longitude, p.Intensity}
}

// DistrictCategoryRollup is one per-district-per-category aggregation row.
type DistrictCategoryRollup struct {
	District     string  `json:"district"`
	Category     string  `json:"category"`
	Count        int64   `json:"count"`
	AvgIntensity float64 `json:"avg_intensity"`
}

// DistrictSummary is one per-district aggregation row.
type DistrictSummary struct {
	District     string  `json:"district"`
	Count        int64   `json:"count"`
	AvgIntensity float64 `json:"avg_intensity"`
	Categories   int64   `json:"categories"`
}

// BasicStats holds the headline counts for one province.
type BasicStats struct {
	TotalBanks int64 `json:"total_banks"`
	TotalATMs  int64 `json:"total_atms"`
	TotalPOI   int64 `json:"total_poi"`
}

// DistrictInsight is one classified row of the whitespot/risk analysis.
// AvgPOIDensity is nil for districts that hold financial institutions but no
// activity points; those rows sort after every district with data.
type DistrictInsight struct {
	District       string   `json:"district"`
	Banks          int64    `json:"banks"`
	ATMs           int64    `json:"atms"`
	TotalFinancial int64    `json:"total_financial"`
	AvgPOIDensity  *float64 `json:"avg_poi_density"`
	Classification string   `json:"area_classification"`
}

// BusinessOpportunity is one ranked district from the business analysis.
type BusinessOpportunity struct {
	District            string  `json:"district"`
	AvgActivityDensity  float64 `json:"avg_activity_density"`
	TotalActivityPoints int64   `json:"total_activity_points"`
	HighActivitySpots   int64   `json:"high_activity_spots"`
	OpportunityScore    float64 `json:"business_opportunity_score"`
}

// RecommendedArea is a curated business area attached to the analysis context.
type RecommendedArea struct {
	Name              string     `json:"name"`
	Coordinates       [2]float64 `json:"coordinates"`
	District          string     `json:"district"`
	BusinessPotential string     `json:"business_potential"`
}

// AnalysisContext is the database context serialized into the system prompt.
// Intent-specific sections stay empty unless the intent asked for them.
type AnalysisContext struct {
	BasicStats
	DistrictAnalysis         []DistrictInsight     `json:"district_analysis,omitempty"`
	BusinessOpportunities    []BusinessOpportunity `json:"business_opportunities,omitempty"`
	RecommendedBusinessAreas []RecommendedArea     `json:"recommended_business_areas,omitempty"`
}

// MapDirective tells the client how to render the map for one answer.
type MapDirective struct {
	Mode       string           `json:"mode"`
	Filters    map[string]any   `json:"filters"`
	Center     [2]float64       `json:"center"`
	Zoom       int              `json:"zoom"`
	Highlights []map[string]any `json:"highlights"`
}

// ConversationEntry is one exchange kept in the in-process history. The
// history does not survive a restart.
type ConversationEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Query     string    `json:"query"`
	Response  string    `json:"response"`
}

func (e *ConversationEntry) Stringify() string {
	return fmt.Sprintf("[%s] Q: %s | A: %s", e.Timestamp.Format(time.RFC3339), e.Query, e.Response)
}
