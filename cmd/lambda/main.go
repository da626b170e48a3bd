package main

import (
	"log"

	"github.com/aws/aws-lambda-go/lambda"

	"github.com/awmpietro/golang-decision-tree-engine/internal/app"
	"github.com/awmpietro/golang-decision-tree-engine/internal/config"
	"github.com/awmpietro/golang-decision-tree-engine/internal/dtree"
	"github.com/awmpietro/golang-decision-tree-engine/internal/dtree/cache"
	"github.com/awmpietro/golang-decision-tree-engine/internal/transport/lambdatransport"
)

func main() {
	cfg := config.Load()

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
	h := lambdatransport.NewHandler(svc)

	lambda.Start(h.Solve)
}
