package ingest

import (
	"context"
	"errors"
	"sync"
	"time"

	"replygraph/internal/model"
	"replygraph/internal/xclient"
)

// fakeClient serves canned profiles and pages and records every call.
type fakeClient struct {
	mu sync.Mutex

	profile    model.User
	profileErr error
	pages      map[string]xclient.Page // keyed by cursor
	pageErr    map[string]error
	users      map[string]model.User
	userErrs   map[string]error

	// onLookup runs at the start of every GetUserByID call.
	onLookup func(id string)

	cursors  []string
	pageAt   []time.Time
	lookedUp []string
}

func (f *fakeClient) GetUserByUsername(_ context.Context, _ string) (model.User, error) {
	return f.profile, f.profileErr
}

func (f *fakeClient) GetUserByID(_ context.Context, id string) (model.User, error) {
	if f.onLookup != nil {
		f.onLookup(id)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lookedUp = append(f.lookedUp, id)
	if err := f.userErrs[id]; err != nil {
		return model.User{}, err
	}
	u, ok := f.users[id]
	if !ok {
		return model.User{}, &xclient.UpstreamError{Endpoint: "user_by_id", Status: 404}
	}
	return u, nil
}

func (f *fakeClient) GetTweetsAndReplies(_ context.Context, _ string, cursor string) (xclient.Page, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cursors = append(f.cursors, cursor)
	f.pageAt = append(f.pageAt, time.Now())
	if err := f.pageErr[cursor]; err != nil {
		return xclient.Page{}, err
	}
	p, ok := f.pages[cursor]
	if !ok {
		return xclient.Page{}, errors.New("unexpected cursor " + cursor)
	}
	return p, nil
}

func ptr(s string) *string { return &s }

func reply(id, target string) model.Tweet {
	return model.Tweet{IDStr: id, InReplyToUserID: ptr(target)}
}
