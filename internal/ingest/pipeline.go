package ingest

import (
	"context"
	"errors"
	"time"

	"replygraph/internal/config"
	"replygraph/internal/logging"
	"replygraph/internal/metrics"
	"replygraph/internal/model"
	"replygraph/internal/util"
	"replygraph/internal/xclient"
)

// Pipeline runs resolve, paginate, batch lookup and normalize for one username.
// It keeps no state between runs.
type Pipeline struct {
	client xclient.Client
	opts   config.Pipeline
	norm   Normalizer
}

func NewPipeline(client xclient.Client, opts config.Pipeline) *Pipeline {
	return &Pipeline{client: client, opts: opts, norm: Normalizer{Now: time.Now}}
}

// WithClock returns a copy of p that stamps missing fields using now.
func (p *Pipeline) WithClock(now func() time.Time) *Pipeline {
	cp := *p
	cp.norm = Normalizer{Now: now}
	return &cp
}

// Run executes the pipeline. Errors from the resolver or paginator abort the
// run; profile lookup failures never do.
func (p *Pipeline) Run(ctx context.Context, username string) (model.SearchResult, error) {
	username = util.NormalizeHandle(username)
	if username == "" {
		return model.SearchResult{}, xclient.ErrEmptyUsername
	}

	start := time.Now()
	metrics.PipelineRuns.Inc()
	defer metrics.ObservePipelineDuration(start)

	replies, err := CollectReplies(ctx, p.client, username, ReplyOptions{
		MaxPages:       p.opts.MaxPages,
		InterPageDelay: p.opts.InterPageDelay,
	})
	if err != nil {
		return model.SearchResult{}, failed(username, err)
	}

	ids := CollectUserIDs(replies.Records)
	lookup := FetchProfiles(ctx, p.client, ids, BatchOptions{
		BatchSize:       p.opts.BatchSize,
		InterBatchDelay: p.opts.InterBatchDelay,
	})
	// A cancelled batch leaves lookup partial.
	if err := ctx.Err(); err != nil {
		return model.SearchResult{}, failed(username, err)
	}

	engagements, summary := p.norm.Normalize(replies.Records, lookup, username, replies.Profile)
	logging.Info("pipeline_done", map[string]any{
		"username":    username,
		"replies":     len(replies.Records),
		"lookups":     len(ids),
		"engagements": len(engagements),
		"duration_ms": time.Since(start).Milliseconds(),
	})
	return model.SearchResult{Engagements: engagements, User: summary}, nil
}

func failed(username string, err error) error {
	kind := errorKind(err)
	metrics.PipelineErrors.WithLabelValues(kind).Inc()
	logging.Error("pipeline_failed", map[string]any{"username": username, "kind": kind, "error": err.Error()})
	return err
}

func errorKind(err error) string {
	var ue *xclient.UpstreamError
	switch {
	case errors.Is(err, xclient.ErrUserNotFound):
		return "not_found"
	case errors.Is(err, xclient.ErrQuotaExhausted):
		return "quota"
	case errors.Is(err, xclient.ErrProfileUnavailable):
		return "profile_unavailable"
	case errors.Is(err, xclient.ErrRequestTimeout):
		return "timeout"
	case errors.As(err, &ue):
		return "upstream_status"
	case errors.Is(err, context.Canceled):
		return "canceled"
	default:
		return "other"
	}
}
