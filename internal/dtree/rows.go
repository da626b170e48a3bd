package dtree

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// Step is one option on the path to an amount node.
type Step struct {
	Choice         string
	Amount         float64
	ExpectedAmount float64
}

// Row describes the path to one amount node. Its tabular form is
// choice_i, amount_i, expected_amount_i for i = 1..len(Steps).
type Row struct {
	Leaf        string
	Probability float64
	TotalAmount float64
	Steps       []Step
}

// Cell is one named value of a Row.
type Cell struct {
	Name  string
	Value any
}

func columnNames(i int) (choice, amount, expected string) {
	n := strconv.Itoa(i)
	return "choice_" + n, "amount_" + n, "expected_amount_" + n
}

// Cells returns the row's columns in order.
func (r Row) Cells() []Cell {
	cells := make([]Cell, 0, 3*len(r.Steps))
	for i, s := range r.Steps {
		choice, amount, expected := columnNames(i + 1)
		cells = append(cells,
			Cell{Name: choice, Value: s.Choice},
			Cell{Name: amount, Value: s.Amount},
			Cell{Name: expected, Value: s.ExpectedAmount},
		)
	}
	return cells
}

// Get returns the value of a column, if the row is long enough to have it.
func (r Row) Get(column string) (any, bool) {
	for _, c := range r.Cells() {
		if c.Name == column {
			return c.Value, true
		}
	}
	return nil, false
}

// MarshalJSON writes the row as an object with its columns in order.
func (r Row) MarshalJSON() ([]byte, error) {
	var b bytes.Buffer
	b.WriteByte('{')
	for i, c := range r.Cells() {
		if i > 0 {
			b.WriteByte(',')
		}
		k, err := json.Marshal(c.Name)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(c.Value)
		if err != nil {
			return nil, err
		}
		b.Write(k)
		b.WriteByte(':')
		b.Write(v)
	}
	b.WriteByte('}')
	return b.Bytes(), nil
}

// Columns returns the header covering every row. Rows shorter than the
// longest path simply lack the trailing columns.
func Columns(rows []Row) []string {
	longest := 0
	for _, r := range rows {
		longest = max(longest, len(r.Steps))
	}
	out := make([]string, 0, 3*longest)
	for i := 1; i <= longest; i++ {
		choice, amount, expected := columnNames(i)
		out = append(out, choice, amount, expected)
	}
	return out
}
