package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"replygraph/internal/config"
	"replygraph/internal/ingest"
	"replygraph/internal/logging"
	"replygraph/internal/paramstore"
	"replygraph/internal/theme"
	"replygraph/internal/xclient"
)

var version = "dev"

var cfgPath string

var rootCmd = &cobra.Command{
	Use:   "replygraph",
	Short: "Map who a Twitter/X account replies to",
	Long: `replygraph fetches an account's recent replies, resolves the profiles it
engaged with and groups them into an engagement graph.

Examples:
  replygraph init
  replygraph search --username jack
  replygraph graph --username jack --server http://127.0.0.1:8080
  replygraph serve`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		if cmd.Name() == "init" {
			return nil
		}
		return logging.Setup(loadedLevel(), os.Stderr)
	},
	Run: func(cmd *cobra.Command, _ []string) {
		theme.PrintBanner(cmd.OutOrStdout())
		_ = cmd.Help()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "./replygraph.yaml", "config path")
	rootCmd.Version = version
	rootCmd.AddCommand(initCmd, searchCmd, graphCmd, serveCmd, mcpCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// loadedLevel peeks at the configured log level; a broken config is reported
// later by the command itself.
func loadedLevel() string {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return config.Default().Logger.Level
	}
	return cfg.Logger.Level
}

// loadConfig reads configuration and resolves the bearer token from SSM when
// only a parameter name was given.
func loadConfig(ctx context.Context) (config.Config, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return cfg, err
	}
	if cfg.Credentials.BearerToken == "" && cfg.Credentials.BearerTokenParam != "" {
		store, err := paramstore.NewFromEnvironment(ctx)
		if err != nil {
			return cfg, err
		}
		if err := cfg.ResolveSecrets(ctx, store); err != nil {
			return cfg, err
		}
	}
	if cfg.Credentials.BearerToken == "" {
		logging.Warn("missing_bearer_token", map[string]any{"env": "REPLYGRAPH_BEARER_TOKEN"})
	}
	return cfg, nil
}

func newPipeline(cfg config.Config) *ingest.Pipeline {
	return ingest.NewPipeline(xclient.New(cfg), cfg.Pipeline)
}
