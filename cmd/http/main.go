package main

import (
	"flag"
	"log"
	"net/http"

	"go.uber.org/zap"

	"github.com/awmpietro/golang-decision-tree-engine/internal/app"
	"github.com/awmpietro/golang-decision-tree-engine/internal/config"
	"github.com/awmpietro/golang-decision-tree-engine/internal/dtree"
	"github.com/awmpietro/golang-decision-tree-engine/internal/dtree/cache"
	"github.com/awmpietro/golang-decision-tree-engine/internal/transport/httptransport"
)

func main() {
	configFile := flag.String("config", "", "optional yaml or json runtime config")
	flag.Parse()

	cfg := config.Load()
	if *configFile != "" {
		var err error
		if cfg, err = config.LoadFile(*configFile); err != nil {
			log.Fatal(err)
		}
	}

	logger, err := config.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = logger.Sync() }()

	latencyObserver := dtree.NewAsyncDepthObserver(dtree.NewDepthLatencyLogger(logger), cfg.ObsBuffer)
	defer latencyObserver.Close()

	svc := app.NewService(
		dtree.NewCompiler(),
		cache.NewInMemory[*dtree.Solution](cfg.CacheMaxItems),
		app.WithLogger(logger),
		app.WithDepthObserver(latencyObserver),
		app.WithMaxNodes(cfg.MaxNodes),
	)
	h := httptransport.NewHandler(svc)

	mux := http.NewServeMux()
	mux.HandleFunc("/solve", h.Solve)

	logger.Info("listening", zap.String("addr", cfg.HTTPAddr))
	if err := http.ListenAndServe(cfg.HTTPAddr, mux); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
