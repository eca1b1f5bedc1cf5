package main

import "github.com/Apri1221/localpulse-api/models"

type ChatRequest struct {
	Query string `json:"query"`
}

type ChatResponse struct {
	Success      bool                `json:"success"`
	Query        string              `json:"query"`
	Response     string              `json:"response"`
	MapDirective models.MapDirective `json:"map_directive"`
	Timestamp    string              `json:"timestamp"`
}

type SearchRequest struct {
	Query    string `json:"query"`
	Location string `json:"location"`
}

type FinancialData struct {
	Banks []models.FinancialInstitution `json:"banks"`
	ATMs  []models.FinancialInstitution `json:"atms"`
}

type FinancialResponse struct {
	Success bool          `json:"success"`
	Count   int           `json:"count"`
	Data    FinancialData `json:"data"`
}

type POIResponse struct {
	Success         bool                            `json:"success"`
	Count           int                             `json:"count"`
	HeatmapData     []models.HeatmapPoint           `json:"heatmap_data"`
	DetailedData    []models.POIDetail              `json:"detailed_data"`
	Districts       []models.DistrictCategoryRollup `json:"districts"`
	DistrictSummary []models.DistrictSummary        `json:"district_summary"`
}

type MetaResponse struct {
	Success        bool     `json:"success"`
	Categories     []string `json:"categories"`
	Districts      []string `json:"districts"`
	BankCategories []string `json:"bank_categories"`
}

// WebSocketsMessage is one frame on the streaming chat socket.
type WebSocketsMessage struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}
