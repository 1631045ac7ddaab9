package cli

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
	"github.com/spf13/cobra"

	"github.com/ppiankov/storybook/internal/model"
)

var schemaReport bool

// schemaCmd represents the schema command
var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the JSON Schema of the parse output",
	Long: `Schema prints the JSON Schema describing the parse result
(stories and diagnostics). With --report it describes the full
report written by "parse --json", including summary and book sections.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := json.MarshalIndent(outputSchema(schemaReport), "", "  ")
		if err != nil {
			return fmt.Errorf("encode schema: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(schemaCmd)
	schemaCmd.Flags().BoolVar(&schemaReport, "report", false, "describe the full report instead of the parse result")
}

// outputSchema reflects the JSON shape of the parse output
func outputSchema(report bool) *jsonschema.Schema {
	r := &jsonschema.Reflector{}
	if report {
		return r.Reflect(&model.Report{})
	}
	return r.Reflect(&model.ParseResult{})
}
