package dtree

import (
	"errors"
	"fmt"
)

var (
	// ErrStructure reports a violation of the single-root/single-parent shape,
	// an illegal edge kind or a reference to a node that is not in the tree.
	ErrStructure = errors.New("tree structure violation")

	// ErrDuplicateName reports a name collision at construction time.
	ErrDuplicateName = errors.New("duplicate node name")

	// ErrAmbiguousName reports a lookup matching more than one node.
	ErrAmbiguousName = errors.New("ambiguous node name")

	// ErrNotSolved reports access to solve results that do not exist yet.
	ErrNotSolved = errors.New("tree not solved")

	// ErrConfiguration reports invalid probabilities, costs or limits.
	ErrConfiguration = errors.New("invalid configuration")
)

// AmbiguousNameError carries the matches of an ambiguous lookup.
type AmbiguousNameError struct {
	Name    string
	Matches []NodeID
}

func (e *AmbiguousNameError) Error() string {
	return fmt.Sprintf("%s: %q matches %d nodes, give a depth", ErrAmbiguousName, e.Name, len(e.Matches))
}

func (e *AmbiguousNameError) Unwrap() error { return ErrAmbiguousName }

func structureErr(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrStructure, fmt.Sprintf(format, args...))
}

func configErr(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrConfiguration, fmt.Sprintf(format, args...))
}

// ValidProbability reports whether p lies in [0,1]. NaN is rejected.
func ValidProbability(p float64) bool {
	return p >= 0 && p <= 1
}
