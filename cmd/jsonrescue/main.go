// Command jsonrescue extracts and repairs a schema-shaped JSON payload from
// a text file or stdin and prints the decoded result.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	jsonrescue "github.com/juburr/jsonrescue"
	"github.com/juburr/jsonrescue/internal/extract"
	"github.com/juburr/jsonrescue/internal/repair"
)

var (
	schemaPath string
	verbose    bool
	repairOnly bool
)

var rootCmd = &cobra.Command{
	Use:   "jsonrescue",
	Short: "Extract a schema-conforming JSON value from noisy text",
}

var parseCmd = &cobra.Command{
	Use:   "parse [file]",
	Short: "Parse a file (or stdin) and print the recovered JSON value",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runParse,
}

func init() {
	parseCmd.Flags().StringVar(&schemaPath, "schema", "", "path to a YAML/JSON schema file (required unless --repair-only is set)")
	parseCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log parse diagnostics to stderr")
	parseCmd.Flags().BoolVar(&repairOnly, "repair-only", false, "print each extracted candidate's repaired text instead of the decoded value")

	rootCmd.AddCommand(parseCmd)
}

func runParse(cmd *cobra.Command, args []string) error {
	input, err := readInput(args)
	if err != nil {
		return err
	}

	if repairOnly {
		return dumpRepairedCandidates(cmd, input)
	}

	if schemaPath == "" {
		return fmt.Errorf("--schema is required unless --repair-only is set")
	}
	schema, err := loadSchemaFile(schemaPath)
	if err != nil {
		return err
	}

	opts := []jsonrescue.Option{}
	if verbose {
		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
		opts = append(opts, jsonrescue.WithLogger(logger))
	}

	p := jsonrescue.New(schema, opts...)
	value, err := p.Parse(input)
	if err != nil {
		return fmt.Errorf("parse failed: %w", err)
	}

	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	return encoder.Encode(value)
}

// dumpRepairedCandidates prints each extracted candidate alongside its
// repaired text, without attempting to decode or validate it. Useful for
// diagnosing why a schema-less payload still fails to parse.
func dumpRepairedCandidates(cmd *cobra.Command, input string) error {
	candidates := extract.Extract(input)
	out := cmd.OutOrStdout()
	for i, candidate := range candidates {
		fmt.Fprintf(out, "--- candidate %d ---\n%s\n", i, candidate)
		fmt.Fprintf(out, "--- repaired %d ---\n%s\n\n", i, repair.Repair(candidate))
	}
	return nil
}

func readInput(args []string) (string, error) {
	if len(args) == 0 {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(data), nil
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", args[0], err)
	}
	return string(data), nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
