package main

import (
	"context"
	"os"
	"strconv"

	"github.com/aws/aws-lambda-go/lambda"

	"replygraph/internal/api"
	"replygraph/internal/config"
	"replygraph/internal/ingest"
	"replygraph/internal/lambdaapi"
	"replygraph/internal/logging"
	"replygraph/internal/paramstore"
	"replygraph/internal/xclient"
)

func main() {
	ctx := context.Background()

	// ---- Configuration (env only) ----
	cfg, err := config.Load(os.Getenv("REPLYGRAPH_CONFIG"))
	if err != nil {
		fatal("failed to load config", err)
	}
	cfg.Pipeline.MaxPages = envInt("REPLYGRAPH_MAX_PAGES", cfg.Pipeline.MaxPages)
	cfg.Pipeline.BatchSize = envInt("REPLYGRAPH_BATCH_SIZE", cfg.Pipeline.BatchSize)
	if err := logging.Setup(cfg.Logger.Level, os.Stdout); err != nil {
		fatal("failed to set up logging", err)
	}

	// ---- Secrets ----
	if cfg.Credentials.BearerToken == "" {
		store, err := paramstore.NewFromEnvironment(ctx)
		if err != nil {
			fatal("failed to create SSM client", err)
		}
		if err := cfg.ResolveSecrets(ctx, store); err != nil {
			fatal("failed to resolve bearer token", err)
		}
	}

	// ---- Handler ----
	pipeline := ingest.NewPipeline(xclient.New(cfg), cfg.Pipeline)
	h, err := lambdaapi.NewHandler(api.NewService(pipeline))
	if err != nil {
		fatal("failed to create handler", err)
	}

	lambda.Start(h.Handle)
}

func fatal(msg string, err error) {
	logging.Error(msg, map[string]any{"err": err.Error()})
	os.Exit(1)
}

func envInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		return def
	}
	return n
}
