package app

import (
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/awmpietro/golang-decision-tree-engine/internal/actions"
	"github.com/awmpietro/golang-decision-tree-engine/internal/dtree"
	"github.com/awmpietro/golang-decision-tree-engine/internal/dtree/cache"
)

type Compiler interface {
	Compile(dot string) (*dtree.Tree, error)
}

type Cache interface {
	GetOrCompute(key string, fn func() (*dtree.Solution, error)) (*dtree.Solution, error)
}

type Service struct {
	compiler Compiler
	cache    Cache
	observer dtree.DepthObserver
	logger   *zap.Logger
	maxNodes int
}

type ServiceOption func(*Service)

func WithLogger(logger *zap.Logger) ServiceOption {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithDepthObserver(observer dtree.DepthObserver) ServiceOption {
	return func(s *Service) {
		s.observer = observer
	}
}

// WithMaxNodes rejects trees larger than n nodes with ErrConfiguration.
// Generated trees stop growing at the limit. n <= 0 means no limit.
func WithMaxNodes(n int) ServiceOption {
	return func(s *Service) {
		s.maxNodes = n
	}
}

func NewService(compiler Compiler, cache Cache, opts ...ServiceOption) *Service {
	s := &Service{compiler: compiler, cache: cache, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Solve builds (or reuses) the solved tree for req and reads the requested
// results off it. Identical requests share one cached Solution.
func (s *Service) Solve(req SolveRequest) (*SolveResult, error) {
	start := time.Now()

	key, build, err := s.source(req)
	if err != nil {
		return nil, err
	}
	objective := req.objective()
	hash := cache.Key(key, objective.String())

	sol, err := s.cache.GetOrCompute(hash, func() (*dtree.Solution, error) {
		tree, err := build()
		if err != nil {
			return nil, err
		}
		s.logger.Debug("tree_built", zap.String("hash", hash), zap.Int("nodes", tree.Len()), zap.Int("max_depth", tree.MaxDepth()))
		return dtree.NewSolver(
			dtree.WithObjective(objective),
			dtree.WithDepthObserver(s.observer),
		).Solve(tree)
	})
	if err != nil {
		s.logger.Info("solve_failed", zap.String("hash", hash), zap.Error(err))
		return nil, err
	}

	res, err := s.result(sol, req)
	if err != nil {
		return nil, err
	}
	res.Hash = hash

	s.logger.Debug("solved",
		zap.String("hash", hash),
		zap.Stringer("objective", objective),
		zap.Float64("expected_amount", res.ExpectedAmount),
		zap.Int("rows", len(res.Rows)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return res, nil
}

func (r SolveRequest) objective() dtree.Objective {
	if r.Maximize || (r.Scenario != nil && r.Scenario.Maximize) {
		return dtree.Maximize
	}
	return dtree.Minimize
}

// source returns the cache key part identifying the tree and how to build
// it.
func (s *Service) source(req SolveRequest) (string, func() (*dtree.Tree, error), error) {
	switch {
	case req.TreeDOT != "" && req.Scenario != nil:
		return "", nil, fmt.Errorf("%w: give either tree_dot or scenario, not both", dtree.ErrConfiguration)
	case req.TreeDOT != "":
		return "dot:" + req.TreeDOT, func() (*dtree.Tree, error) {
			tree, err := s.compiler.Compile(req.TreeDOT)
			if err != nil {
				return nil, err
			}
			if s.maxNodes > 0 && tree.Len() > s.maxNodes {
				return nil, fmt.Errorf("%w: tree has %d nodes, limit is %d", dtree.ErrConfiguration, tree.Len(), s.maxNodes)
			}
			return tree, nil
		}, nil
	case req.Scenario != nil:
		if err := req.Scenario.Validate(); err != nil {
			return "", nil, err
		}
		raw, err := json.Marshal(req.Scenario)
		if err != nil {
			return "", nil, fmt.Errorf("%w: scenario: %v", dtree.ErrConfiguration, err)
		}
		spec := req.Scenario
		return "scenario:" + string(raw), func() (*dtree.Tree, error) {
			return spec.Tree(actions.MaxNodes(s.maxNodes))
		}, nil
	default:
		return "", nil, fmt.Errorf("%w: tree_dot or scenario is required", dtree.ErrConfiguration)
	}
}

func (s *Service) result(sol *dtree.Solution, req SolveRequest) (*SolveResult, error) {
	expected, err := sol.RootExpectedAmount()
	if err != nil {
		return nil, err
	}

	pathIDs, err := sol.OptimalPath()
	if err != nil {
		return nil, err
	}
	path := make([]string, 0, len(pathIDs))
	for _, id := range pathIDs {
		n, err := sol.Node(id)
		if err != nil {
			return nil, err
		}
		path = append(path, n.NodeName())
	}

	rows, err := sol.Amounts(req.RequireSuccess)
	if err != nil {
		return nil, err
	}

	res := &SolveResult{
		Objective:      sol.Objective(),
		ExpectedAmount: expected,
		OptimalPath:    path,
		Rows:           rows,
		Columns:        dtree.Columns(rows),
		Nodes:          sol.Len(),
	}
	if req.RenderDOT {
		if res.DOT, err = dtree.Render(sol); err != nil {
			return nil, err
		}
	}
	return res, nil
}
