// Package cli implements the estimator command-line tool.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"estimator/internal/artifact"
	"estimator/internal/config"
	"estimator/internal/logging"
	"estimator/internal/service"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// Build-time variables injected via ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// RootOptions holds global CLI flags
type RootOptions struct {
	LogLevel     string
	OutputFormat string
	Timeout      time.Duration
	ArtifactDir  string
}

// CLIContext carries initialized dependencies through the command tree
type CLIContext struct {
	Config       *config.Config
	Logger       *zap.Logger
	OutputFormat string
	Timeout      time.Duration
}

type cliContextKey struct{}

// NewRootCommand creates the root command with all subcommands registered
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:     "estimator",
		Short:   "Property price estimator",
		Long:    "Estimate residential property prices from listing attributes, and inspect\nthe model artifacts and audit database the estimator server uses.",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, GitCommit, BuildDate),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return persistentPreRun(cmd, opts)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&opts.LogLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	pf.StringVarP(&opts.OutputFormat, "output", "o", "text", "output format (text, json)")
	pf.DurationVar(&opts.Timeout, "timeout", 30*time.Second, "global operation timeout")
	pf.StringVar(&opts.ArtifactDir, "artifact-dir", "", "artifact directory (overrides ARTIFACT_DIR)")

	cmd.AddCommand(
		NewPredictCmd(),
		NewSchemaCmd(),
		NewInspectCmd(),
		NewMigrateCmd(),
	)
	return cmd
}

func persistentPreRun(cmd *cobra.Command, opts *RootOptions) error {
	if opts.OutputFormat != "text" && opts.OutputFormat != "json" {
		return fmt.Errorf("unsupported output format %q (want text or json)", opts.OutputFormat)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if opts.ArtifactDir != "" {
		cfg.Artifacts.Dir = opts.ArtifactDir
	}

	// Logs go to stderr so command output stays machine readable
	logger, err := logging.New(config.LoggingConfig{Level: opts.LogLevel, Format: "console", Output: "stderr"})
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(context.WithValue(ctx, cliContextKey{}, &CLIContext{
		Config:       cfg,
		Logger:       logger,
		OutputFormat: opts.OutputFormat,
		Timeout:      opts.Timeout,
	}))
	return nil
}

// GetCLIContext extracts the CLIContext set up by the root command
func GetCLIContext(cmd *cobra.Command) (*CLIContext, error) {
	if cmd.Context() == nil {
		return nil, fmt.Errorf("command context not initialized")
	}
	cc, ok := cmd.Context().Value(cliContextKey{}).(*CLIContext)
	if !ok || cc == nil {
		return nil, fmt.Errorf("command context not initialized")
	}
	return cc, nil
}

// Execute runs the root command
func Execute(ctx context.Context) error {
	return NewRootCommand().ExecuteContext(ctx)
}

// loadBundle loads artifacts the same way the server does
func (cc *CLIContext) loadBundle(ctx context.Context) (artifact.Bundle, artifact.Source, error) {
	src, err := artifact.NewSource(cc.Config)
	if err != nil {
		return artifact.Bundle{}, nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, cc.Timeout)
	defer cancel()
	return artifact.Load(ctx, cc.Config.Artifacts, src, service.FeatureNames(), cc.Logger), src, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
