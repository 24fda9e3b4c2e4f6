package cli

import (
	"fmt"

	"estimator/internal/service"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// InspectReport summarizes the loaded artifacts
type InspectReport struct {
	Source           string              `json:"source"`
	ModelServer      string              `json:"model_server,omitempty"`
	ModelLoaded      bool                `json:"model_loaded"`
	Model            string              `json:"model,omitempty"`
	ExpectedFeatures int                 `json:"expected_features"`
	BuiltFeatures    int                 `json:"built_features"`
	ModelError       string              `json:"model_error,omitempty"`
	EncodersLoaded   bool                `json:"encoders_loaded"`
	Vocabularies     []VocabularySummary `json:"vocabularies,omitempty"`
	EncodersError    string              `json:"encoders_error,omitempty"`
}

// VocabularySummary is the label count of one categorical field
type VocabularySummary struct {
	Field  string `json:"field"`
	Labels int    `json:"labels"`
}

// Ready reports whether a server started with these artifacts could predict
func (r InspectReport) Ready() bool {
	return r.ModelLoaded && r.EncodersLoaded && r.ExpectedFeatures == r.BuiltFeatures
}

// NewInspectCmd creates the inspect command
func NewInspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect",
		Short: "Load the configured artifacts and report whether they are servable",
		RunE: func(cmd *cobra.Command, args []string) error {
			cc, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			bundle, src, err := cc.loadBundle(cmd.Context())
			if err != nil {
				return err
			}

			report := InspectReport{
				Source:        src.Describe(),
				ModelServer:   cc.Config.Artifacts.ModelServerURL,
				BuiltFeatures: service.FeatureCount,
			}
			if bundle.Model != nil {
				report.ModelLoaded = true
				report.Model = bundle.Model.Name()
				report.ExpectedFeatures = bundle.Model.ExpectedFeatures()
			} else if bundle.ModelErr != nil {
				report.ModelError = bundle.ModelErr.Error()
			}
			if bundle.Vocabulary != nil {
				report.EncodersLoaded = true
				for _, field := range bundle.Vocabulary.Fields() {
					v, _ := bundle.Vocabulary.Field(field)
					report.Vocabularies = append(report.Vocabularies, VocabularySummary{Field: field, Labels: v.Len()})
				}
			} else if bundle.VocabularyErr != nil {
				report.EncodersError = bundle.VocabularyErr.Error()
			}

			out := cmd.OutOrStdout()
			if cc.OutputFormat == "json" {
				if err := writeJSON(out, report); err != nil {
					return err
				}
			} else {
				printReport(cmd, report)
			}

			if !report.Ready() {
				return fmt.Errorf("artifacts are not servable")
			}
			return nil
		},
	}
}

func printReport(cmd *cobra.Command, r InspectReport) {
	out := cmd.OutOrStdout()
	ok, bad := color.GreenString("✅"), color.RedString("❌")

	fmt.Fprintf(out, "Source: %s\n", r.Source)
	if r.ModelServer != "" {
		fmt.Fprintf(out, "Model server: %s\n", r.ModelServer)
	}
	if r.ModelLoaded {
		fmt.Fprintf(out, "%s Model %s expects %d features\n", ok, r.Model, r.ExpectedFeatures)
	} else {
		fmt.Fprintf(out, "%s Model not loaded: %s\n", bad, r.ModelError)
	}
	if r.ModelLoaded && r.ExpectedFeatures != r.BuiltFeatures {
		fmt.Fprintf(out, "%s Feature mismatch: builder produces %d\n", bad, r.BuiltFeatures)
	}
	if r.EncodersLoaded {
		fmt.Fprintf(out, "%s Encoders loaded:", ok)
		for _, v := range r.Vocabularies {
			fmt.Fprintf(out, " %s(%d)", v.Field, v.Labels)
		}
		fmt.Fprintln(out)
	} else {
		fmt.Fprintf(out, "%s Encoders not loaded: %s\n", bad, r.EncodersError)
	}
}
