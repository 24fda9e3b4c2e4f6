package cli

import (
	"fmt"
	"strings"

	"estimator/internal/service"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

// NewSchemaCmd creates the schema command
func NewSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "List the feature slots in model order",
		RunE: func(cmd *cobra.Command, args []string) error {
			cc, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			names := service.FeatureNames()
			out := cmd.OutOrStdout()

			if cc.OutputFormat == "json" {
				return writeJSON(out, map[string]any{"features": names, "count": len(names)})
			}

			var buf strings.Builder
			table := tablewriter.NewWriter(&buf)
			table.Header([]string{"Slot", "Feature"})
			for i, name := range names {
				table.Append([]string{fmt.Sprintf("%d", i+1), name})
			}
			table.Render()
			fmt.Fprint(out, buf.String())
			return nil
		},
	}
}
