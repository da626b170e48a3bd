package eval

import (
	"fmt"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// Env is what a can_try expression sees: the action being considered and
// the period it would start in.
type Env struct {
	Name          string  `expr:"name"`
	Period        int     `expr:"period"`
	PSuccess      float64 `expr:"p_success"`
	InitCost      float64 `expr:"init_cost"`
	Duration      float64 `expr:"duration"`
	CostInflation float64 `expr:"cost_inflation"`
	Cost          float64 `expr:"cost"`
}

// Predicate is a compiled can_try expression. The zero value and an empty
// expression admit everything.
type Predicate struct {
	source  string
	program *vm.Program
}

// Compile validates cond and type-checks it against Env. Unknown variables
// and non-bool results are compile errors.
func Compile(cond string) (*Predicate, error) {
	cond = strings.TrimSpace(cond)
	if cond == "" {
		return &Predicate{}, nil
	}

	if err := Validate(cond); err != nil {
		return nil, fmt.Errorf("invalid expression %q: %w", cond, err)
	}

	program, err := expr.Compile(cond, expr.Env(Env{}), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("invalid expression %q: %w", cond, err)
	}

	return &Predicate{source: cond, program: program}, nil
}

func (p *Predicate) Eval(env Env) (bool, error) {
	if p == nil || p.program == nil {
		return true, nil
	}

	out, err := expr.Run(p.program, env)
	if err != nil {
		return false, err
	}

	b, ok := out.(bool)
	if !ok {
		return false, fmt.Errorf("cond must evaluate to bool (got %T)", out)
	}

	return b, nil
}

func (p *Predicate) String() string {
	if p == nil {
		return ""
	}
	return p.source
}

// Eval compiles and runs cond once.
func Eval(cond string, env Env) (bool, error) {
	p, err := Compile(cond)
	if err != nil {
		return false, err
	}
	return p.Eval(env)
}
