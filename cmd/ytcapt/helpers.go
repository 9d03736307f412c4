package main

import (
	"github.com/yoonbae81/ytcapt/internal/cache"
	"github.com/yoonbae81/ytcapt/internal/config"
	"github.com/yoonbae81/ytcapt/internal/service"
	"github.com/yoonbae81/ytcapt/internal/source"
	"github.com/yoonbae81/ytcapt/pkg/executor"
	"github.com/yoonbae81/ytcapt/pkg/log"
)

// loadConfig reads the environment configuration and sets the log level
// accordingly.
func loadConfig() (*config.Config, error) {
	cfg, err := config.NewFromEnv()
	if err != nil {
		return nil, err
	}
	if cfg.Production {
		log.InitLogger(log.LevelInfo)
	} else {
		log.InitLogger(log.LevelDebug)
	}
	return cfg, nil
}

// buildService wires the cache store, the yt-dlp boundary and the
// orchestrator. The caller owns closing the returned store.
func buildService(cfg *config.Config) (*service.Service, *cache.Store, error) {
	store, err := cache.NewStore(cfg.Cache.DBPath, cfg.Cache.TTL)
	if err != nil {
		return nil, nil, err
	}

	ytdlp := source.NewYTDLP(cfg.Fetch.YTDLPPath, executor.New())
	svc := service.New(store, ytdlp, ytdlp, service.Config{
		DefaultLanguage: cfg.Fetch.DefaultLanguage,
		FetchTimeout:    cfg.Fetch.Timeout,
	})
	return svc, store, nil
}
