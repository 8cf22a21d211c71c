package main

import (
	"encoding/json"
	"fmt"
	"math"
	"os"

	"github.com/spf13/cobra"

	"github.com/lava-sh/toml"
)

var checkCmd = &cobra.Command{
	Use:   "check [file]",
	Short: "Parse a TOML document and report the first error",
	Args:  cobra.MaximumNArgs(1),
	Run:   checkRun,
}

var (
	fmtPretty bool
	fmtInline []string

	fmtCmd = &cobra.Command{
		Use:   "fmt [file]",
		Short: "Reformat a TOML document",
		Long: "Reformat a TOML document. The output uses block headers for\n" +
			"nested tables except paths named with --inline, which render as\n" +
			"inline { } literals.",
		Args: cobra.MaximumNArgs(1),
		Run:  fmtRun,
	}
)

var jsonCmd = &cobra.Command{
	Use:   "json [file]",
	Short: "Convert a TOML document to JSON",
	Args:  cobra.MaximumNArgs(1),
	Run:   jsonRun,
}

func init() {
	fmtCmd.Flags().BoolVar(&fmtPretty, "pretty", false, "one array element per line, blank lines between tables")
	fmtCmd.Flags().StringArrayVar(&fmtInline, "inline", nil, "dotted table path to render inline (repeatable)")
}

func parseArg(args []string) (*toml.Table, error) {
	name := ""
	if len(args) > 0 {
		name = args[0]
	}
	data, err := readInput(name)
	if err != nil {
		return nil, err
	}
	return toml.ParseWith(data, toml.ParseOptions{Version: toml.Version(tomlVersion)})
}

func checkRun(cmd *cobra.Command, args []string) {
	if _, err := parseArg(args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Println("ok")
}

func fmtRun(cmd *cobra.Command, args []string) {
	root, err := parseArg(args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	out, err := toml.EncodeWith(root, toml.EncodeOptions{
		Pretty:       fmtPretty,
		InlineTables: fmtInline,
		Version:      toml.Version(tomlVersion),
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Print(out)
}

func jsonRun(cmd *cobra.Command, args []string) {
	root, err := parseArg(args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	out, err := json.MarshalIndent(tableToJSON(root), "", "  ")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Println(string(out))
}

func tableToJSON(t *toml.Table) map[string]any {
	out := make(map[string]any, t.Len())
	for _, k := range t.Keys() {
		v, _ := t.Get(k)
		out[k] = valueToJSON(v)
	}
	return out
}

// valueToJSON maps TOML values onto JSON ones. Datetimes become their
// TOML text, and non-finite floats become strings since JSON has no
// spelling for them.
func valueToJSON(v *toml.Value) any {
	switch v.Kind() {
	case toml.KindString:
		s, _ := v.AsString()
		return s
	case toml.KindInteger:
		n, _ := v.AsInteger()
		return n
	case toml.KindFloat:
		f, _ := v.AsFloat()
		if math.IsInf(f, 0) || math.IsNaN(f) {
			return fmt.Sprint(f)
		}
		return f
	case toml.KindBool:
		b, _ := v.AsBool()
		return b
	case toml.KindDatetime, toml.KindLocalDatetime, toml.KindLocalDate, toml.KindLocalTime:
		dt, _ := v.AsDatetime()
		return dt.String()
	case toml.KindArray:
		elems, _ := v.AsArray()
		out := make([]any, 0, len(elems))
		for _, el := range elems {
			out = append(out, valueToJSON(el))
		}
		return out
	default:
		t, _ := v.AsTable()
		return tableToJSON(t)
	}
}
