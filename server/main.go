package main

import (
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/joho/godotenv"
	"github.com/tmc/langchaingo/llms/anthropic"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Apri1221/localpulse-api/config"
)

type API struct {
	config    *config.Config
	store     *Store
	assistant *Assistant
	upgrader  websocket.Upgrader
	log       *zap.Logger
}

func main() {
	_ = godotenv.Load()
	cfg := config.LoadConfig()

	logger := newLogger(cfg.Log.Level, cfg.Log.Format)
	defer logger.Sync()

	if _, err := os.Stat(cfg.Database.Path); err != nil {
		logger.Fatal("database file not found, run cmd/seed first",
			zap.String("path", cfg.Database.Path))
	}

	store, err := NewStore(cfg.Database.Path)
	if err != nil {
		logger.Fatal("failed to open database", zap.Error(err))
	}

	var assistant *Assistant
	if cfg.Anthropic.APIKey == "" {
		logger.Warn("CLAUDE_API_KEY not set, chat endpoints disabled")
	} else {
		llm, err := anthropic.New(
			anthropic.WithToken(cfg.Anthropic.APIKey),
			anthropic.WithModel(cfg.Anthropic.Model),
		)
		if err != nil {
			logger.Fatal("failed to create anthropic client", zap.Error(err))
		}
		assistant = NewAssistant(
			llm,
			store,
			cfg.Cache.StatsTTL,
			cfg.Anthropic.ShallowMaxTokens,
			cfg.Anthropic.DeepMaxTokens,
			logger,
		)
	}

	api := &API{
		config:    cfg,
		store:     store,
		assistant: assistant,
		upgrader:  websocket.Upgrader{},
		log:       logger,
	}

	logger.Info("starting localpulse api server",
		zap.String("address", cfg.Server.Address()),
		zap.Bool("claude_enabled", assistant != nil))

	if err := api.Run(); err != nil {
		logger.Fatal("failed to run the api server", zap.Error(err))
	}
}

func (a *API) Run() error {
	return a.Router().Run(a.config.Server.Address())
}

func (a *API) Router() *gin.Engine {
	r := gin.Default()
	r.Use(cors.Default())

	r.GET("/api/health", a.handleHealth)
	r.POST("/api/chat", a.handleChat)
	r.GET("/api/chat/stream", a.handleChatStream)
	r.POST("/api/search", a.handleSearch)
	r.GET("/api/conversation", a.handleGetConversation)
	r.DELETE("/api/conversation", a.handleClearConversation)
	r.GET("/api/financial", a.handleFinancial)
	r.GET("/api/poi", a.handlePOI)
	r.GET("/api/meta", a.handleMeta)

	return r
}

func newLogger(levelStr, format string) *zap.Logger {
	level := zapcore.InfoLevel
	switch levelStr {
	case "debug":
		level = zapcore.DebugLevel
	case "warn":
		level = zapcore.WarnLevel
	case "error":
		level = zapcore.ErrorLevel
	}

	var cfg zap.Config
	if format == "json" {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(level)
	logger, _ := cfg.Build()
	return logger
}
