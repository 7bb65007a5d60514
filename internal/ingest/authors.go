package ingest

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"replygraph/internal/logging"
	"replygraph/internal/metrics"
	"replygraph/internal/model"
	"replygraph/internal/xclient"
)

const DefaultBatchSize = 10

type BatchOptions struct {
	BatchSize       int
	InterBatchDelay time.Duration
}

// ProfileLookup indexes fetched profiles by screen name and by the id they
// were requested under. Screen-name keys win on collision.
type ProfileLookup map[string]model.User

// Find tries the screen name first, then the id.
func (l ProfileLookup) Find(screenName, id string) (model.User, bool) {
	if screenName != "" {
		if u, ok := l[screenName]; ok {
			return u, true
		}
	}
	if id != "" {
		if u, ok := l[id]; ok {
			return u, true
		}
	}
	return model.User{}, false
}

// CollectUserIDs gathers the distinct reply-target and mention ids in first-seen order.
func CollectUserIDs(tweets []model.Tweet) []string {
	seen := make(map[string]struct{})
	var ids []string
	add := func(id string) {
		if id == "" {
			return
		}
		if _, ok := seen[id]; ok {
			return
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	for _, t := range tweets {
		if t.InReplyToUserID != nil {
			add(*t.InReplyToUserID)
		}
		for _, m := range t.Entities.UserMentions {
			add(m.IDStr)
		}
	}
	return ids
}

type lookupResult struct {
	user model.User
	ok   bool
}

// FetchProfiles looks ids up in groups of BatchSize. Lookups within a group run
// concurrently; groups run one after another with InterBatchDelay between
// them. A failed lookup is logged and skipped, so this never fails; a
// cancelled context ends it early with whatever was gathered.
func FetchProfiles(ctx context.Context, client xclient.Client, ids []string, opts BatchOptions) ProfileLookup {
	size := opts.BatchSize
	if size <= 0 {
		size = DefaultBatchSize
	}

	byID := make(map[string]model.User, len(ids))
	byName := make(map[string]model.User, len(ids))

	for start := 0; start < len(ids); start += size {
		if start > 0 {
			if err := sleep(ctx, opts.InterBatchDelay); err != nil {
				break
			}
		}
		group := ids[start:min(start+size, len(ids))]
		results := make([]lookupResult, len(group))

		var g errgroup.Group
		g.SetLimit(len(group))
		for i, id := range group {
			g.Go(func() error {
				u, err := client.GetUserByID(ctx, id)
				if err != nil {
					metrics.ProfileLookupFailures.Inc()
					logging.Warn("profile_lookup_failed", map[string]any{"user_id": id, "error": err.Error()})
					return nil
				}
				results[i] = lookupResult{user: u, ok: true}
				return nil
			})
		}
		_ = g.Wait()

		for i, r := range results {
			if !r.ok {
				continue
			}
			byID[group[i]] = r.user
			if r.user.ScreenName != "" {
				byName[r.user.ScreenName] = r.user
			}
		}
	}

	out := make(ProfileLookup, len(byID)+len(byName))
	for k, v := range byID {
		out[k] = v
	}
	for k, v := range byName {
		out[k] = v
	}
	return out
}
