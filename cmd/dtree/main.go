// Command dtree solves a decision tree given as DOT or generated from an
// action scenario and prints the optimal strategy and the amount rows.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/awmpietro/golang-decision-tree-engine/internal/app"
	"github.com/awmpietro/golang-decision-tree-engine/internal/config"
	"github.com/awmpietro/golang-decision-tree-engine/internal/dtree"
	"github.com/awmpietro/golang-decision-tree-engine/internal/dtree/cache"
	"github.com/awmpietro/golang-decision-tree-engine/internal/scenario"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		fmt.Fprintf(os.Stderr, "dtree: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("dtree", flag.ContinueOnError)
	fs.SetOutput(stderr)
	scenarioPath := fs.String("scenario", "", "scenario file (yaml, json or hcl)")
	dotPath := fs.String("dot", "", "decision tree in DOT format")
	format := fs.String("format", "table", "output format: table, csv, json or yaml")
	requireSuccess := fs.Bool("require-success", false, "only list paths ending in a success")
	maximize := fs.Bool("maximize", false, "maximize instead of minimize the expected amount")
	emitDOT := fs.Bool("emit-dot", false, "include the solved tree as DOT")
	logLevel := fs.String("log-level", "warn", "log level: debug, info, warn or error")
	maxNodes := fs.Int("max-nodes", config.DefaultMaxNodes, "refuse trees with more nodes than this, 0 for no limit")
	if err := fs.Parse(args); err != nil {
		return err
	}

	write, ok := writers[*format]
	if !ok {
		return fmt.Errorf("invalid output format: %s", *format)
	}

	logger, err := config.NewLogger(config.Logging{Level: *logLevel, Format: "console"})
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	req := app.SolveRequest{Maximize: *maximize, RequireSuccess: *requireSuccess, RenderDOT: *emitDOT}
	switch {
	case *scenarioPath != "" && *dotPath != "":
		return errors.New("give either -scenario or -dot, not both")
	case *scenarioPath != "":
		if req.Scenario, err = scenario.Load(*scenarioPath); err != nil {
			return err
		}
		logger.Debug("scenario_loaded", zap.String("path", *scenarioPath), zap.String("name", req.Scenario.Name))
	case *dotPath != "":
		raw, err := os.ReadFile(*dotPath)
		if err != nil {
			return fmt.Errorf("failed to read DOT file %s: %w", *dotPath, err)
		}
		req.TreeDOT = string(raw)
	default:
		return errors.New("one of -scenario or -dot is required")
	}

	svc := app.NewService(
		dtree.NewCompiler(),
		cache.NewInMemory[*dtree.Solution](1),
		app.WithLogger(logger),
		app.WithDepthObserver(dtree.NewDepthLatencyLogger(logger)),
		app.WithMaxNodes(*maxNodes),
	)
	res, err := svc.Solve(req)
	if err != nil {
		return err
	}
	return write(stdout, res)
}
