package ingest

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"replygraph/internal/model"
)

func TestCollectUserIDsDedupes(t *testing.T) {
	tweets := []model.Tweet{
		{InReplyToUserID: ptr("1"), Entities: model.Entities{UserMentions: []model.Mention{{IDStr: "2"}, {IDStr: "1"}}}},
		{InReplyToUserID: ptr(""), Entities: model.Entities{UserMentions: []model.Mention{{IDStr: "3"}, {IDStr: ""}}}},
	}
	assert.Equal(t, []string{"1", "2", "3"}, CollectUserIDs(tweets))
}

func TestFetchProfilesSkipsFailures(t *testing.T) {
	f := &fakeClient{
		users: map[string]model.User{
			"1": {IDStr: "1", ScreenName: "alice"},
			"2": {IDStr: "2", ScreenName: "carol"},
			"4": {IDStr: "4"},
		},
		userErrs: map[string]error{"3": errors.New("timeout")},
	}
	ids := []string{"1", "2", "3", "4", "5"}
	lookup := FetchProfiles(context.Background(), f, ids, BatchOptions{BatchSize: 2})

	assert.ElementsMatch(t, ids, f.lookedUp)
	for _, id := range []string{"1", "2", "4"} {
		_, ok := lookup[id]
		assert.True(t, ok, id)
	}
	assert.NotContains(t, lookup, "3")
	assert.NotContains(t, lookup, "5")
	assert.Equal(t, "1", lookup["alice"].IDStr)
	assert.Len(t, lookup, 5)
}

func TestFetchProfilesEmpty(t *testing.T) {
	f := &fakeClient{}
	assert.Empty(t, FetchProfiles(context.Background(), f, nil, BatchOptions{}))
	assert.Empty(t, f.lookedUp)
}

func TestFetchProfilesStopsOnCancel(t *testing.T) {
	f := &fakeClient{users: map[string]model.User{"1": {IDStr: "1"}, "2": {IDStr: "2"}}}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	lookup := FetchProfiles(ctx, f, []string{"1", "2"}, BatchOptions{BatchSize: 1})
	assert.Len(t, f.lookedUp, 1, "only the first group runs")
	assert.Len(t, lookup, 1)
}

func TestProfileLookupPrefersScreenName(t *testing.T) {
	l := ProfileLookup{
		"alice": {IDStr: "1", Name: "by name"},
		"1":     {IDStr: "1", Name: "by id"},
		"9":     {IDStr: "9", Name: "only id"},
	}
	u, ok := l.Find("alice", "1")
	assert.True(t, ok)
	assert.Equal(t, "by name", u.Name)

	u, ok = l.Find("unknown", "9")
	assert.True(t, ok)
	assert.Equal(t, "only id", u.Name)

	_, ok = l.Find("", "")
	assert.False(t, ok)
}

type lookupSpan struct {
	start, end time.Time
}

// timedClient records when each profile lookup ran and how many overlapped.
type timedClient struct {
	fakeClient
	delay time.Duration

	inFlight atomic.Int32
	peak     atomic.Int32

	mu    sync.Mutex
	spans map[string]lookupSpan
}

func (c *timedClient) GetUserByID(_ context.Context, id string) (model.User, error) {
	n := c.inFlight.Add(1)
	for {
		p := c.peak.Load()
		if n <= p || c.peak.CompareAndSwap(p, n) {
			break
		}
	}
	start := time.Now()
	time.Sleep(c.delay)
	end := time.Now()
	c.inFlight.Add(-1)

	c.mu.Lock()
	c.spans[id] = lookupSpan{start: start, end: end}
	c.mu.Unlock()
	return model.User{IDStr: id, ScreenName: "user" + id}, nil
}

func TestFetchProfilesGroupsRunOneAfterAnother(t *testing.T) {
	const (
		batch = 10
		pause = 50 * time.Millisecond
	)
	c := &timedClient{delay: 30 * time.Millisecond, spans: make(map[string]lookupSpan)}
	ids := make([]string, 25)
	for i := range ids {
		ids[i] = strconv.Itoa(i)
	}

	lookup := FetchProfiles(context.Background(), c, ids, BatchOptions{BatchSize: batch, InterBatchDelay: pause})

	require.Len(t, c.spans, len(ids))
	assert.Len(t, lookup, 2*len(ids))
	assert.LessOrEqual(t, c.peak.Load(), int32(batch))
	assert.Greater(t, c.peak.Load(), int32(1), "lookups within a group overlap")

	for g := 1; g*batch < len(ids); g++ {
		var lastEnd, firstStart time.Time
		for _, id := range ids[(g-1)*batch : g*batch] {
			if e := c.spans[id].end; e.After(lastEnd) {
				lastEnd = e
			}
		}
		for _, id := range ids[g*batch : min((g+1)*batch, len(ids))] {
			if s := c.spans[id].start; firstStart.IsZero() || s.Before(firstStart) {
				firstStart = s
			}
		}
		assert.GreaterOrEqual(t, firstStart.Sub(lastEnd), pause, "group %d started before group %d joined", g, g-1)
	}
}

func TestFetchProfilesNoDelayAfterLastGroup(t *testing.T) {
	c := &timedClient{spans: make(map[string]lookupSpan)}
	start := time.Now()
	FetchProfiles(context.Background(), c, []string{"1", "2"}, BatchOptions{BatchSize: 2, InterBatchDelay: 5 * time.Second})
	assert.Less(t, time.Since(start), time.Second)
}
