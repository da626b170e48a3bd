package dtree

import "fmt"

// NodeID addresses a node inside the arena of a single Tree.
type NodeID int

// NoParent marks a decision node inserted as the root.
const NoParent NodeID = -1

// AnyDepth disables the depth filter of lookups.
const AnyDepth = 0

type Kind uint8

const (
	KindDecision Kind = iota + 1
	KindChance
	KindAmount
)

func (k Kind) String() string {
	switch k {
	case KindDecision:
		return "decision"
	case KindChance:
		return "chance"
	case KindAmount:
		return "amount"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Node is implemented by Decision, Chance and Amount only.
type Node interface {
	Kind() Kind
	NodeName() string
	NodeDepth() int
	sealed()
}

// Decision is a choice point among Chance children.
type Decision struct {
	Name  string
	Depth int
}

// Chance is one option of a Decision: it costs (or earns) Amount and
// succeeds with probability PSuccess.
type Chance struct {
	Name     string
	Depth    int
	PSuccess float64
	Amount   float64
}

// Amount is a terminal outcome under a Chance node, reached with Probability.
type Amount struct {
	Name        string
	Depth       int
	Probability float64
}

func (Decision) Kind() Kind { return KindDecision }
func (Chance) Kind() Kind   { return KindChance }
func (Amount) Kind() Kind   { return KindAmount }

func (d Decision) NodeName() string { return d.Name }
func (c Chance) NodeName() string   { return c.Name }
func (a Amount) NodeName() string   { return a.Name }

func (d Decision) NodeDepth() int { return d.Depth }
func (c Chance) NodeDepth() int   { return c.Depth }
func (a Amount) NodeDepth() int   { return a.Depth }

func (Decision) sealed() {}
func (Chance) sealed()   {}
func (Amount) sealed()   {}

// PFailure is 1 - PSuccess.
func (c Chance) PFailure() float64 { return 1 - c.PSuccess }
