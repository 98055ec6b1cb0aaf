package main

import (
	"flag"
	"os"
	"sync"
	"time"

	"github.com/emzola/bookswap/config"
	"github.com/emzola/bookswap/data"
	_ "github.com/emzola/bookswap/docs"
	"github.com/emzola/bookswap/handler"
	"github.com/emzola/bookswap/internal/jsonlog"
	"github.com/emzola/bookswap/repository"
	"github.com/emzola/bookswap/repository/jsonfile"
	"github.com/emzola/bookswap/repository/postgres"
	"github.com/emzola/bookswap/service"
	"github.com/jellydator/ttlcache/v3"
)

// app defines the application's layers and shared resources.
type app struct {
	config  config.Config
	repo    repository.Repository
	service service.Service
	handler *handler.Handler
}

// @title BookSwap API
// @version 1.0.0
// @description This is an API service for a peer-to-peer book exchange.
// @contact.name API Support
// @contact.email emma.idika@yahoo.com
// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html
// @BasePath /
func main() {
	logger := jsonlog.New(os.Stdout, jsonlog.LevelInfo)

	var configPath string
	flag.StringVar(&configPath, "config", "config.yml", "Path to YAML config file")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		logger.PrintFatal(err, nil)
	}

	// Initialize the configured store engine
	var repo repository.Repository
	switch cfg.Store.Engine {
	case "postgres":
		db, err := postgres.OpenDB(cfg)
		if err != nil {
			logger.PrintFatal(err, nil)
		}
		defer db.Close()
		logger.PrintInfo("database connection pool established", nil)
		repo = postgres.New(db)
	case "jsonfile":
		store, err := jsonfile.Open(cfg.Store.Path)
		if err != nil {
			logger.PrintFatal(err, nil)
		}
		logger.PrintInfo("json document store opened", map[string]string{
			"path": cfg.Store.Path,
		})
		if cfg.Store.Seed {
			err = store.Seed()
			if err != nil {
				logger.PrintFatal(err, nil)
			}
		}
		repo = store
	default:
		logger.PrintFatal(errUnknownStoreEngine(cfg.Store.Engine), nil)
	}

	// Other shared resources: waitgroup and in-memory cache
	var wg sync.WaitGroup
	cache := ttlcache.New(ttlcache.WithTTL[string, *data.User](30 * time.Minute))
	go cache.Start()

	// Application layers
	service := service.New(cfg, &wg, logger, repo)
	handler := handler.New(cfg, logger, cache, service)

	// Instantiate application
	app := &app{
		config:  cfg,
		repo:    repo,
		service: service,
		handler: handler,
	}

	// Start HTTP server
	err = app.serve(&wg, logger)
	if err != nil {
		logger.PrintFatal(err, nil)
	}
}
