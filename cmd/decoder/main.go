// Command decoder reads a TOML document on stdin and writes the
// toml-test tagged-JSON form on stdout. It exists so the toml-test
// suite can drive the parser.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/lava-sh/toml"
)

func main() {
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error reading stdin: %v\n", err)
		os.Exit(1)
	}

	version := toml.V1_0_0
	if os.Getenv("TOML_VERSION") == "1.1.0" {
		version = toml.V1_1_0
	}

	root, err := toml.ParseWith(data, toml.ParseOptions{Version: version})
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	jsonBytes, err := json.Marshal(tableToTagged(root))
	if err != nil {
		fmt.Fprintf(os.Stderr, "error marshaling JSON: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(string(jsonBytes))
}

func tableToTagged(t *toml.Table) map[string]any {
	out := make(map[string]any, t.Len())
	for _, k := range t.Keys() {
		v, _ := t.Get(k)
		out[k] = valueToTagged(v)
	}
	return out
}

func valueToTagged(v *toml.Value) any {
	switch v.Kind() {
	case toml.KindString:
		s, _ := v.AsString()
		return tagged("string", s)
	case toml.KindInteger:
		n, _ := v.AsInteger()
		return tagged("integer", strconv.FormatInt(n, 10))
	case toml.KindFloat:
		f, _ := v.AsFloat()
		return tagged("float", formatFloat(f))
	case toml.KindBool:
		b, _ := v.AsBool()
		return tagged("bool", strconv.FormatBool(b))
	case toml.KindDatetime, toml.KindLocalDatetime, toml.KindLocalDate, toml.KindLocalTime:
		dt, _ := v.AsDatetime()
		return tagged(datetimeTag(v.Kind()), normalizeDatetime(dt))
	case toml.KindArray:
		elems, _ := v.AsArray()
		out := make([]any, 0, len(elems))
		for _, el := range elems {
			out = append(out, valueToTagged(el))
		}
		return out
	default:
		t, _ := v.AsTable()
		return tableToTagged(t)
	}
}

func tagged(typ, val string) map[string]string {
	return map[string]string{"type": typ, "value": val}
}

func datetimeTag(k toml.Kind) string {
	switch k {
	case toml.KindLocalDatetime:
		return "datetime-local"
	case toml.KindLocalDate:
		return "date-local"
	case toml.KindLocalTime:
		return "time-local"
	default:
		return "datetime"
	}
}

// normalizeDatetime renders a datetime in the canonical form the suite
// compares against, with omitted seconds expanded to :00.
func normalizeDatetime(dt toml.Datetime) string {
	dt.SecondsOmitted = false
	return dt.String()
}

func formatFloat(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "+inf"
	case math.IsInf(f, -1):
		return "-inf"
	case math.IsNaN(f):
		return "nan"
	}
	result := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(result, ".eE") {
		result += ".0"
	}
	return result
}
