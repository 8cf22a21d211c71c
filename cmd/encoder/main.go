// Command encoder reads the toml-test tagged-JSON form on stdin and
// writes the equivalent TOML document on stdout.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strconv"

	"github.com/lava-sh/toml"
)

func main() {
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error reading stdin: %v\n", err)
		os.Exit(1)
	}

	var input map[string]any
	if err := json.Unmarshal(data, &input); err != nil {
		fmt.Fprintf(os.Stderr, "error parsing JSON: %v\n", err)
		os.Exit(1)
	}

	root, err := buildTable(input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	out, err := toml.Encode(root)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	fmt.Print(out)
}

func buildTable(m map[string]any) (*toml.Table, error) {
	t := toml.NewTable()
	for _, k := range sortedKeys(m) {
		v, err := buildValue(m[k])
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", k, err)
		}
		t.Set(k, v)
	}
	return t, nil
}

func buildValue(v any) (*toml.Value, error) {
	switch val := v.(type) {
	case map[string]any:
		if isTaggedValue(val) {
			return buildTagged(val["type"].(string), fmt.Sprint(val["value"]))
		}
		t, err := buildTable(val)
		if err != nil {
			return nil, err
		}
		return toml.NewTableValue(t), nil
	case []any:
		elems := make([]*toml.Value, 0, len(val))
		for _, el := range val {
			ev, err := buildValue(el)
			if err != nil {
				return nil, err
			}
			elems = append(elems, ev)
		}
		return toml.NewArray(elems...), nil
	default:
		return nil, fmt.Errorf("unexpected JSON value %v", v)
	}
}

func isTaggedValue(m map[string]any) bool {
	_, hasType := m["type"]
	_, hasValue := m["value"]
	return hasType && hasValue && len(m) == 2
}

func buildTagged(typ, val string) (*toml.Value, error) {
	switch typ {
	case "string":
		return toml.NewString(val), nil
	case "integer":
		n, err := strconv.ParseInt(val, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("bad integer %q: %w", val, err)
		}
		return toml.NewInteger(n), nil
	case "float":
		return toml.NewFloat(parseFloat(val)), nil
	case "bool":
		return toml.NewBool(val == "true"), nil
	case "datetime", "datetime-local", "date-local", "time-local":
		return buildDatetime(val)
	}
	return nil, fmt.Errorf("unknown tagged type %q", typ)
}

// buildDatetime runs the tagged text through the TOML parser so the
// harness shares the library's datetime grammar.
func buildDatetime(text string) (*toml.Value, error) {
	root, err := toml.Parse([]byte("v = " + text + "\n"))
	if err != nil {
		return nil, fmt.Errorf("bad datetime %q: %w", text, err)
	}
	v, ok := root.Get("v")
	if !ok {
		return nil, fmt.Errorf("bad datetime %q", text)
	}
	dt, ok := v.AsDatetime()
	if !ok {
		return nil, fmt.Errorf("bad datetime %q", text)
	}
	return toml.NewDatetime(dt), nil
}

func parseFloat(val string) float64 {
	switch val {
	case "inf", "+inf", "Inf", "+Inf":
		return math.Inf(1)
	case "-inf", "-Inf":
		return math.Inf(-1)
	case "nan", "+nan", "-nan", "NaN":
		return math.NaN()
	}
	f, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return math.NaN()
	}
	return f
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
