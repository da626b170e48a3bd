package scenario

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/spf13/viper"

	"github.com/awmpietro/golang-decision-tree-engine/internal/dtree"
)

// Load reads a scenario file. The extension picks the format: .yaml, .yml
// and .json go through viper, .hcl through the HCL decoder.
func Load(path string) (*Spec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading scenario file, %w", err)
	}
	return Parse(data, strings.TrimPrefix(filepath.Ext(path), "."), path)
}

// Parse decodes data written in format ("yaml", "yml", "json" or "hcl").
// filename only labels diagnostics.
func Parse(data []byte, format, filename string) (*Spec, error) {
	var (
		spec *Spec
		err  error
	)
	switch strings.ToLower(format) {
	case "hcl":
		spec, err = parseHCL(data, filename)
	case "yaml", "yml", "json":
		spec, err = parseViper(data, strings.ToLower(format))
	default:
		return nil, fmt.Errorf("%w: unsupported scenario format %q", dtree.ErrConfiguration, format)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", dtree.ErrConfiguration, err)
	}
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	return spec, nil
}

func parseViper(data []byte, format string) (*Spec, error) {
	v := viper.New()
	v.SetConfigType(format)
	if err := v.ReadConfig(bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("error reading scenario, %s", err)
	}

	var spec Spec
	if err := v.Unmarshal(&spec); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}
	return &spec, nil
}

type hclScenario struct {
	Name                 *string     `hcl:"name,optional"`
	MaxDepth             int         `hcl:"max_depth"`
	Maximize             *bool       `hcl:"maximize,optional"`
	CanTry               *string     `hcl:"can_try,optional"`
	AllowNoAction        *bool       `hcl:"allow_no_action,optional"`
	AllowMultipleActions *bool       `hcl:"allow_multiple_actions,optional"`
	KeepUncertainFinal   *bool       `hcl:"keep_uncertain_final,optional"`
	Actions              []hclAction `hcl:"action,block"`
}

type hclAction struct {
	Name          string   `hcl:"name,label"`
	PSuccess      float64  `hcl:"p_success"`
	InitCost      float64  `hcl:"init_cost"`
	Duration      *float64 `hcl:"duration,optional"`
	CostInflation *float64 `hcl:"cost_inflation,optional"`
}

func parseHCL(data []byte, filename string) (*Spec, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(data, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %s", filename, diags.Error())
	}

	var root hclScenario
	diags = gohcl.DecodeBody(file.Body, nil, &root)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL file %s: %s", filename, diags.Error())
	}

	spec := &Spec{
		Name:                 deref(root.Name),
		MaxDepth:             root.MaxDepth,
		Maximize:             deref(root.Maximize),
		CanTry:               deref(root.CanTry),
		AllowNoAction:        root.AllowNoAction,
		AllowMultipleActions: root.AllowMultipleActions,
		KeepUncertainFinal:   deref(root.KeepUncertainFinal),
	}
	for _, a := range root.Actions {
		spec.Actions = append(spec.Actions, ActionSpec{
			Name:          a.Name,
			PSuccess:      a.PSuccess,
			InitCost:      a.InitCost,
			Duration:      deref(a.Duration),
			CostInflation: a.CostInflation,
		})
	}
	return spec, nil
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}
