package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gopkg.in/yaml.v3"

	"github.com/awmpietro/golang-decision-tree-engine/internal/app"
	"github.com/awmpietro/golang-decision-tree-engine/internal/dtree"
	"github.com/awmpietro/golang-decision-tree-engine/internal/transport/solvedto"
)

type writer func(io.Writer, *app.SolveResult) error

var writers = map[string]writer{
	"table": writeTable,
	"csv":   writeCSV,
	"json":  writeJSON,
	"yaml":  writeYAML,
}

// writeTable prints a human-readable summary followed by one line per row.
func writeTable(w io.Writer, res *app.SolveResult) error {
	p := message.NewPrinter(language.English)
	_, _ = p.Fprintf(w, "objective:       %s\n", res.Objective)
	_, _ = p.Fprintf(w, "expected amount: %.2f\n", res.ExpectedAmount)
	_, _ = p.Fprintf(w, "optimal path:    %s\n", strings.Join(res.OptimalPath, " -> "))
	_, _ = p.Fprintf(w, "nodes:           %d\n", res.Nodes)
	if len(res.Rows) > 0 {
		fmt.Fprintln(w)
		tw := tabwriter.NewWriter(w, 0, 0, 1, ' ', 0)
		fmt.Fprintln(tw, strings.Join(res.Columns, "\t|\t"))
		for _, row := range res.Rows {
			cells := row.Cells()
			out := make([]string, len(res.Columns))
			for i := range out {
				if i < len(cells) {
					out[i] = tableValue(p, cells[i].Value)
				}
			}
			fmt.Fprintln(tw, strings.Join(out, "\t|\t"))
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}
	if res.DOT != "" {
		fmt.Fprintln(w)
		fmt.Fprint(w, res.DOT)
	}
	return nil
}

func tableValue(p *message.Printer, v any) string {
	if f, ok := v.(float64); ok {
		return p.Sprintf("%.2f", f)
	}
	return fmt.Sprint(v)
}

// writeCSV prints only the rows, under the column header.
func writeCSV(w io.Writer, res *app.SolveResult) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(res.Columns); err != nil {
		return err
	}
	for _, row := range res.Rows {
		cells := row.Cells()
		record := make([]string, len(res.Columns))
		for i := range record {
			if i < len(cells) {
				record[i] = csvValue(cells[i].Value)
			}
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func csvValue(v any) string {
	if f, ok := v.(float64); ok {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return fmt.Sprint(v)
}

func writeJSON(w io.Writer, res *app.SolveResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(solvedto.FromResult(res))
}

type yamlResult struct {
	Objective      string    `yaml:"objective"`
	ExpectedAmount float64   `yaml:"expected_amount"`
	OptimalPath    []string  `yaml:"optimal_path"`
	Nodes          int       `yaml:"nodes"`
	Columns        []string  `yaml:"columns"`
	Rows           []yamlRow `yaml:"rows"`
	DOT            string    `yaml:"dot,omitempty"`
}

// yamlRow keeps the column order of dtree.Row.
type yamlRow dtree.Row

func (r yamlRow) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, c := range dtree.Row(r).Cells() {
		key := &yaml.Node{}
		key.SetString(c.Name)
		val := &yaml.Node{}
		if err := val.Encode(c.Value); err != nil {
			return nil, err
		}
		node.Content = append(node.Content, key, val)
	}
	return node, nil
}

func writeYAML(w io.Writer, res *app.SolveResult) error {
	out := yamlResult{
		Objective:      res.Objective.String(),
		ExpectedAmount: res.ExpectedAmount,
		OptimalPath:    res.OptimalPath,
		Nodes:          res.Nodes,
		Columns:        res.Columns,
		Rows:           make([]yamlRow, 0, len(res.Rows)),
		DOT:            res.DOT,
	}
	for _, r := range res.Rows {
		out.Rows = append(out.Rows, yamlRow(r))
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(out); err != nil {
		return err
	}
	return enc.Close()
}
