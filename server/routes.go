package main

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Apri1221/localpulse-api/models"
)

const llmUnavailableError = "Claude service not available. Please set CLAUDE_API_KEY environment variable."

var apiEndpoints = []string{
	"/api/financial",
	"/api/poi",
	"/api/health",
	"/api/chat",
	"/api/chat/stream",
	"/api/search",
	"/api/conversation",
	"/api/meta",
}

func (a *API) handleHealth(c *gin.Context) {
	counts, err := a.store.HealthCounts(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}

	claudeStatus := "disabled"
	if a.assistant != nil {
		claudeStatus = "ready"
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"status":   "healthy",
		"database": counts,
		"claude_service": gin.H{
			"enabled": a.assistant != nil,
			"status":  claudeStatus,
		},
		"endpoints": apiEndpoints,
	})
}

func (a *API) handleChat(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Query) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Query is required"})
		return
	}

	if a.assistant == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"success": false, "error": llmUnavailableError})
		return
	}

	query := strings.TrimSpace(req.Query)
	a.log.Info("processing chat query", zap.String("query", query))

	response, directive := a.assistant.GenerateResponse(c.Request.Context(), query)

	c.JSON(http.StatusOK, ChatResponse{
		Success:      true,
		Query:        query,
		Response:     response,
		MapDirective: directive,
		Timestamp:    time.Now().Format(time.RFC3339),
	})
}

// handleChatStream upgrades to a websocket and streams the generated answer
// chunk by chunk, followed by the map directive and a final frame carrying
// the assembled text.
func (a *API) handleChatStream(c *gin.Context) {
	query, _ := c.GetQuery("query")

	conn, err := a.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		a.log.Error("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	if a.assistant == nil {
		_ = conn.WriteJSON(WebSocketsMessage{Type: "error", Data: llmUnavailableError})
		return
	}
	if strings.TrimSpace(query) == "" {
		_ = conn.WriteJSON(WebSocketsMessage{Type: "error", Data: "Query is required"})
		return
	}

	response, directive := a.assistant.StreamResponse(
		c.Request.Context(),
		strings.TrimSpace(query),
		func(ctx context.Context, chunk []byte) error {
			return conn.WriteJSON(WebSocketsMessage{Type: "chunk", Data: string(chunk)})
		},
	)

	if err := conn.WriteJSON(WebSocketsMessage{Type: "directive", Data: directive}); err != nil {
		a.log.Error("failed to write to ws connection", zap.Error(err))
		return
	}
	_ = conn.WriteJSON(WebSocketsMessage{Type: "done", Data: response})
}

func (a *API) handleSearch(c *gin.Context) {
	var req SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}
	if req.Location == "" {
		req.Location = LocationBali
	}

	// Web search integration pending; the contract is an always-empty list.
	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"query":     req.Query,
		"location":  req.Location,
		"results":   []any{},
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

func (a *API) handleGetConversation(c *gin.Context) {
	if a.assistant == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"success": false, "error": llmUnavailableError})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"history": a.assistant.ConversationHistory(),
	})
}

func (a *API) handleClearConversation(c *gin.Context) {
	if a.assistant == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"success": false, "error": llmUnavailableError})
		return
	}

	a.assistant.ClearConversation()
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Conversation history cleared",
	})
}

func (a *API) handleFinancial(c *gin.Context) {
	filter := FinancialFilter{
		Province: c.DefaultQuery("province", LocationBali),
		District: c.Query("district"),
		Type:     c.Query("type"),
	}

	pois, err := a.store.FinancialInstitutions(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}

	data := FinancialData{
		Banks: []models.FinancialInstitution{},
		ATMs:  []models.FinancialInstitution{},
	}
	for _, poi := range pois {
		institution := models.NewFinancialInstitution(poi)
		if poi.Category == models.CategoryBank {
			data.Banks = append(data.Banks, institution)
		} else {
			data.ATMs = append(data.ATMs, institution)
		}
	}

	c.JSON(http.StatusOK, FinancialResponse{
		Success: true,
		Count:   len(pois),
		Data:    data,
	})
}

func (a *API) handlePOI(c *gin.Context) {
	minIntensity, err := strconv.ParseFloat(c.DefaultQuery("min_intensity", "0"), 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid min_intensity"})
		return
	}
	maxIntensity, err := strconv.ParseFloat(c.DefaultQuery("max_intensity", "1"), 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid max_intensity"})
		return
	}

	filter := POIFilter{
		Province:     c.DefaultQuery("province", LocationBali),
		District:     c.Query("district"),
		Category:     c.Query("category"),
		MinIntensity: minIntensity,
		MaxIntensity: maxIntensity,
	}

	ctx := c.Request.Context()

	pois, err := a.store.POIRecords(ctx, filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}

	rollups, err := a.store.DistrictCategoryRollups(ctx, filter.Province)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}

	summaries, err := a.store.DistrictSummaries(ctx, filter.Province)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}

	heatmap := make([]models.HeatmapPoint, len(pois))
	detailed := make([]models.POIDetail, len(pois))
	for i, poi := range pois {
		heatmap[i] = models.NewHeatmapPoint(poi)
		detailed[i] = models.NewPOIDetail(poi)
	}

	c.JSON(http.StatusOK, POIResponse{
		Success:         true,
		Count:           len(pois),
		HeatmapData:     heatmap,
		DetailedData:    detailed,
		Districts:       rollups,
		DistrictSummary: summaries,
	})
}

func (a *API) handleMeta(c *gin.Context) {
	ctx := c.Request.Context()

	categories, err := a.store.Categories(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}

	districts, err := a.store.Districts(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}

	bankCategories, err := a.store.BankCategories(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, MetaResponse{
		Success:        true,
		Categories:     categories,
		Districts:      districts,
		BankCategories: bankCategories,
	})
}
