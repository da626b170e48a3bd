package eval

import (
	"fmt"
	"strings"

	"github.com/expr-lang/expr/ast"
	"github.com/expr-lang/expr/parser"
)

// Validate rejects anything beyond comparisons, logic and arithmetic over
// the Env fields: no function calls, builtins, member access or literals
// of collections.
func Validate(cond string) error {
	cond = strings.TrimSpace(cond)
	if cond == "" {
		return nil
	}

	illegalChars := []rune{'{', '}', '[', ']', ';', ':', '?', '@', '#', '$', '\\'}
	for _, ch := range illegalChars {
		if strings.ContainsRune(cond, ch) {
			return fmt.Errorf("illegal character %q", ch)
		}
	}

	tree, err := parser.Parse(cond)
	if err != nil {
		return err
	}
	v := &restrictedVisitor{}
	ast.Walk(&tree.Node, v)
	return v.err
}

type restrictedVisitor struct {
	err error
}

func (v *restrictedVisitor) Visit(node *ast.Node) {
	if v.err != nil {
		return
	}
	switch n := (*node).(type) {
	case *ast.CallNode:
		v.err = fmt.Errorf("function calls are not allowed (found %s)", n.Callee.String())
	case *ast.BuiltinNode:
		v.err = fmt.Errorf("function calls are not allowed (found %q(...))", n.Name)
	case *ast.MemberNode, *ast.ChainNode:
		v.err = fmt.Errorf("member access is not allowed")
	case *ast.PointerNode, *ast.PredicateNode:
		v.err = fmt.Errorf("predicates are not allowed")
	}
}
