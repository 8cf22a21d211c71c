// Command tomlv is a TOML Swiss army knife: it validates documents,
// reformats them, and converts them to JSON.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "tomlv",
	Short: "tomlv validates, formats, and converts TOML documents",
	Long: "tomlv validates, formats, and converts TOML documents.\n" +
		"It supports TOML 1.0.0 (the default) and 1.1.0.",
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

var tomlVersion string

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&tomlVersion, "toml-version", "1.0.0", "TOML version to parse with (1.0.0 or 1.1.0)")
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(fmtCmd)
	rootCmd.AddCommand(jsonCmd)
}

// readInput returns the content of the named file, or stdin when name
// is empty or "-".
func readInput(name string) ([]byte, error) {
	if name == "" || name == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(name)
}
