package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"estimator/internal/model"
	"estimator/internal/service"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

type predictOptions struct {
	inputFile string
	explain   bool

	city         string
	propertyType string
	bedrooms     int
	bathrooms    int
	area         float64
	age          int
	floor        int
	totalFloors  int
	furnishing   string
	parking      string
	facing       string
}

// NewPredictCmd creates the predict command
func NewPredictCmd() *cobra.Command {
	opts := &predictOptions{}

	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Estimate the price of one property",
		Long: `Estimate the price of one property. Fields come from --input (a JSON object)
and are overridden by explicit flags. Unset fields take the same defaults as the server.`,
		Example: `  estimator predict --city Mumbai --property-type Apartment --bedrooms 3 --area 1200
  estimator predict --input listing.json --explain`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPredict(cmd, opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.inputFile, "input", "i", "", "JSON file with the listing fields (- for stdin)")
	f.BoolVar(&opts.explain, "explain", false, "print the feature vector instead of scoring it")
	f.StringVar(&opts.city, "city", "", "city (required unless in --input)")
	f.StringVar(&opts.propertyType, "property-type", "", "property type (required unless in --input)")
	f.IntVar(&opts.bedrooms, "bedrooms", model.DefaultBedrooms, "number of bedrooms")
	f.IntVar(&opts.bathrooms, "bathrooms", model.DefaultBathrooms, "number of bathrooms")
	f.Float64Var(&opts.area, "area", model.DefaultAreaSqft, "area in square feet")
	f.IntVar(&opts.age, "age", model.DefaultAge, "age of the property in years")
	f.IntVar(&opts.floor, "floor", model.DefaultFloor, "floor number")
	f.IntVar(&opts.totalFloors, "total-floors", model.DefaultTotalFloors, "floors in the building")
	f.StringVar(&opts.furnishing, "furnishing", model.DefaultFurnishing, "furnishing status")
	f.StringVar(&opts.parking, "parking", model.DefaultParking, "parking available (Yes/No)")
	f.StringVar(&opts.facing, "facing", model.DefaultFacing, "facing direction")

	return cmd
}

func runPredict(cmd *cobra.Command, opts *predictOptions) error {
	cc, err := GetCLIContext(cmd)
	if err != nil {
		return err
	}

	raw, err := opts.rawInput(cmd)
	if err != nil {
		return err
	}

	bundle, _, err := cc.loadBundle(cmd.Context())
	if err != nil {
		return err
	}
	estimator := service.NewEstimatorService(
		service.Runtime{Model: bundle.Model, Vocabulary: bundle.Vocabulary},
		nil, nil, cc.Logger,
	)
	out := cmd.OutOrStdout()

	if opts.explain {
		if bundle.VocabularyErr != nil {
			return fmt.Errorf("cannot encode categories: %w", bundle.VocabularyErr)
		}
		in, named, err := estimator.Explain(raw)
		if err != nil {
			return err
		}
		if cc.OutputFormat == "json" {
			return writeJSON(out, map[string]any{"input": in, "features": named})
		}
		return renderFeatures(out, named)
	}

	resp, err := estimator.Predict(cmd.Context(), raw)
	if err != nil {
		if bundle.ModelErr != nil {
			return fmt.Errorf("%w: %v", err, bundle.ModelErr)
		}
		if bundle.VocabularyErr != nil {
			return fmt.Errorf("%w: %v", err, bundle.VocabularyErr)
		}
		return err
	}

	if cc.OutputFormat == "json" {
		return writeJSON(out, resp)
	}
	fmt.Fprintf(out, "%s %s\n", color.New(color.Bold).Sprint("Estimated price:"), color.GreenString(resp.Price))
	fmt.Fprintf(out, "  %s, %s, %.0f sqft (%d features)\n",
		resp.Details.City, resp.Details.PropertyType, resp.Details.AreaSqft, resp.Details.FeaturesCount)
	return nil
}

// rawInput merges the --input file with flags the user set explicitly.
// Flags left at their defaults are omitted so validation applies the defaults.
func (o *predictOptions) rawInput(cmd *cobra.Command) (model.RawInput, error) {
	raw := model.RawInput{}

	if o.inputFile != "" {
		var r io.Reader
		if o.inputFile == "-" {
			r = cmd.InOrStdin()
		} else {
			f, err := os.Open(o.inputFile)
			if err != nil {
				return nil, fmt.Errorf("failed to open input: %w", err)
			}
			defer f.Close()
			r = f
		}
		if err := json.NewDecoder(r).Decode(&raw); err != nil {
			return nil, fmt.Errorf("failed to parse input %s: %w", o.inputFile, err)
		}
	}

	flags := cmd.Flags()
	set := func(flag, field string, value any) {
		if flags.Changed(flag) {
			raw[field] = value
		}
	}
	set("city", model.FieldCity, o.city)
	set("property-type", model.FieldPropertyType, o.propertyType)
	set("bedrooms", model.FieldBedrooms, o.bedrooms)
	set("bathrooms", model.FieldBathrooms, o.bathrooms)
	set("area", model.FieldAreaSqft, o.area)
	set("age", model.FieldAge, o.age)
	set("floor", model.FieldFloor, o.floor)
	set("total-floors", model.FieldTotalFloors, o.totalFloors)
	set("furnishing", model.FieldFurnishing, o.furnishing)
	set("parking", model.FieldParking, o.parking)
	set("facing", model.FieldFacing, o.facing)

	return raw, nil
}

func renderFeatures(w io.Writer, named []model.NamedFeature) error {
	var buf strings.Builder
	table := tablewriter.NewWriter(&buf)
	table.Header([]string{"Slot", "Feature", "Value"})
	for i, f := range named {
		table.Append([]string{fmt.Sprintf("%d", i+1), f.Name, formatValue(f.Value)})
	}
	table.Render()

	fmt.Fprint(w, buf.String())
	fmt.Fprintf(w, "\nTotal features: %d\n", len(named))
	return nil
}

func formatValue(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%g", v)
}
