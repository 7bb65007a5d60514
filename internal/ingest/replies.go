package ingest

import (
	"context"
	"fmt"
	"time"

	"replygraph/internal/logging"
	"replygraph/internal/metrics"
	"replygraph/internal/model"
	"replygraph/internal/xclient"
)

const DefaultMaxPages = 4

type ReplyOptions struct {
	MaxPages       int
	InterPageDelay time.Duration
	// Cursor resumes pagination from a previously returned next_cursor.
	Cursor string
}

// Replies is the paginator output: reply records in feed order plus the
// resolved profile of the searched account.
type Replies struct {
	Records []model.Tweet
	Profile model.User
}

// CollectReplies resolves username and walks its tweets-and-replies feed,
// keeping records that carry a reply-target user. It stops after MaxPages
// pages or when the feed has no further cursor. Any page failure aborts the
// whole collection.
func CollectReplies(ctx context.Context, client xclient.Client, username string, opts ReplyOptions) (Replies, error) {
	profile, err := client.GetUserByUsername(ctx, username)
	if err != nil {
		return Replies{}, err
	}
	userID := profile.UserID()

	maxPages := opts.MaxPages
	if maxPages <= 0 {
		maxPages = DefaultMaxPages
	}

	var records []model.Tweet
	cursor := opts.Cursor
	for page := 1; ; page++ {
		p, err := client.GetTweetsAndReplies(ctx, userID, cursor)
		if err != nil {
			return Replies{}, fmt.Errorf("page %d: %w", page, err)
		}
		metrics.PagesFetched.Inc()
		kept := 0
		for _, t := range p.Tweets {
			if t.IsReply() {
				records = append(records, t)
				kept++
			}
		}
		logging.Debug("replies_page", map[string]any{"user_id": userID, "page": page, "records": len(p.Tweets), "replies": kept})

		cursor = p.NextCursor
		if cursor == "" || page >= maxPages {
			break
		}
		if err := sleep(ctx, opts.InterPageDelay); err != nil {
			return Replies{}, err
		}
	}
	return Replies{Records: records, Profile: profile}, nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
