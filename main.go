package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"lead-agent/catalog"
	"lead-agent/config"
	"lead-agent/dao"
	"lead-agent/internal/hubspot"
	"lead-agent/internal/llm"
	"lead-agent/internal/transcript"
	"lead-agent/logger"
	"lead-agent/route"
	"lead-agent/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	zl := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zl.Sync()

	// A missing or broken catalog is not fatal: the index builds empty and
	// every search returns a valid "no match".
	items, err := catalog.LoadCSV(cfg.Catalog.Path)
	if err != nil {
		zl.Warn("catalog load failed, searches will return no matches",
			zap.String("path", cfg.Catalog.Path), zap.Error(err))
		items = nil
	}
	index := catalog.NewIndex(items)
	zl.Info("catalog indexed", zap.Int("items", index.Len()))

	plans, err := service.LoadQuestionPlans(cfg.Questions.Path)
	if err != nil {
		zl.Warn("question plans not loaded, using built-in table",
			zap.String("path", cfg.Questions.Path), zap.Error(err))
		plans = service.NewQuestionPlanner()
	}

	var store dao.Store
	if cfg.Redis.Enabled {
		redisStore := dao.NewRedisStore(cfg.Redis.Address, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.TTL())
		store = redisStore
		zl.Info("using redis session store", zap.String("addr", cfg.Redis.Address))
	} else {
		store = dao.NewMemoryStore()
		zl.Info("using in-memory session store")
	}
	defer store.Close()

	llmClient := llm.NewClient(cfg.LLM.BaseURL, cfg.LLM.APIKey, cfg.LLM.Model, zl)
	crm := hubspot.NewClient(hubspot.Options{
		BaseURL:      cfg.HubSpot.BaseURL,
		AccessToken:  cfg.HubSpot.AccessToken,
		RefreshToken: cfg.HubSpot.RefreshToken,
		ClientID:     cfg.HubSpot.ClientID,
		ClientSecret: cfg.HubSpot.ClientSecret,
	}, zl)
	transcripts := transcript.NewFileStore(cfg.Transcripts.Dir)

	engine := service.NewEngine(store, index, plans, llmClient, llmClient, crm, transcripts, zl)

	if cfg.App.Environment != "development" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()
	route.Register(r, engine)

	zl.Info("starting server", zap.String("addr", cfg.HTTP.Addr))
	if err := r.Run(cfg.HTTP.Addr); err != nil {
		zl.Fatal("server stopped", zap.Error(err))
	}
}
