package dtree

import (
	"fmt"
	"strconv"
	"strings"
)

// Param is one key=value pair of a node's parameter list.
type Param struct {
	Key   string
	Value float64
}

// ParseParams reads a comma separated key=value list such as
// "p_success=0.7,amount=50". Values must be numbers, except for the kind key
// which ParseKind handles.
func ParseParams(raw string) (map[string]float64, string, error) {
	raw = strings.TrimSpace(raw)
	out := map[string]float64{}
	kind := ""
	if raw == "" {
		return out, kind, nil
	}

	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		kv := strings.SplitN(part, "=", 2)
		if len(kv) != 2 {
			return nil, "", fmt.Errorf("invalid parameter %q (expected key=value)", part)
		}

		key := strings.TrimSpace(kv[0])
		if key == "" {
			return nil, "", fmt.Errorf("empty key in parameter %q", part)
		}
		valRaw := strings.TrimSpace(kv[1])

		if key == "kind" {
			kind = valRaw
			continue
		}
		val, err := strconv.ParseFloat(valRaw, 64)
		if err != nil {
			return nil, "", fmt.Errorf("parameter %q: %q is not a number", key, valRaw)
		}
		out[key] = val
	}

	return out, kind, nil
}

// FormatParams is the inverse of ParseParams for an ordered list.
func FormatParams(params ...Param) string {
	parts := make([]string, 0, len(params))
	for _, p := range params {
		parts = append(parts, p.Key+"="+strconv.FormatFloat(p.Value, 'g', -1, 64))
	}
	return strings.Join(parts, ",")
}

// ParseKind maps a Graphviz shape or an explicit kind name to a node kind.
func ParseKind(s string) (Kind, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "decision", "box", "square", "rect", "rectangle":
		return KindDecision, true
	case "chance", "ellipse", "oval", "circle":
		return KindChance, true
	case "amount", "hexagon":
		return KindAmount, true
	default:
		return 0, false
	}
}
