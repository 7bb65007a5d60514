package ingest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"replygraph/internal/model"
	"replygraph/internal/xclient"
)

func TestCollectRepliesFiltersAndFollowsCursor(t *testing.T) {
	f := &fakeClient{
		profile: model.User{IDStr: "100", ScreenName: "bob"},
		pages: map[string]xclient.Page{
			"":   {Tweets: []model.Tweet{reply("1", "5"), {IDStr: "2"}}, NextCursor: "c1"},
			"c1": {Tweets: []model.Tweet{reply("3", "6")}},
		},
	}
	got, err := CollectReplies(context.Background(), f, "bob", ReplyOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"", "c1"}, f.cursors)
	require.Len(t, got.Records, 2)
	assert.Equal(t, "1", got.Records[0].IDStr)
	assert.Equal(t, "3", got.Records[1].IDStr)
	assert.Equal(t, "bob", got.Profile.ScreenName)
}

func TestCollectRepliesStopsAtMaxPages(t *testing.T) {
	f := &fakeClient{
		profile: model.User{IDStr: "100"},
		pages: map[string]xclient.Page{
			"":   {Tweets: []model.Tweet{reply("1", "5")}, NextCursor: "c1"},
			"c1": {Tweets: []model.Tweet{reply("2", "5")}, NextCursor: "c2"},
			"c2": {Tweets: []model.Tweet{reply("3", "5")}, NextCursor: "c3"},
			"c3": {Tweets: []model.Tweet{reply("4", "5")}, NextCursor: "c4"},
		},
	}
	got, err := CollectReplies(context.Background(), f, "bob", ReplyOptions{MaxPages: 4})
	require.NoError(t, err)
	assert.Len(t, f.cursors, 4)
	assert.Len(t, got.Records, 4)
}

func TestCollectRepliesResumesFromCursor(t *testing.T) {
	f := &fakeClient{
		profile: model.User{IDStr: "100"},
		pages:   map[string]xclient.Page{"c9": {Tweets: []model.Tweet{reply("1", "5")}}},
	}
	_, err := CollectReplies(context.Background(), f, "bob", ReplyOptions{Cursor: "c9"})
	require.NoError(t, err)
	assert.Equal(t, []string{"c9"}, f.cursors)
}

func TestCollectRepliesPageFailureDiscardsEverything(t *testing.T) {
	f := &fakeClient{
		profile: model.User{IDStr: "100"},
		pages: map[string]xclient.Page{
			"": {Tweets: []model.Tweet{reply("1", "5")}, NextCursor: "c1"},
		},
		pageErr: map[string]error{"c1": xclient.ErrQuotaExhausted},
	}
	got, err := CollectReplies(context.Background(), f, "bob", ReplyOptions{})
	assert.ErrorIs(t, err, xclient.ErrQuotaExhausted)
	assert.Empty(t, got.Records)
}

func TestCollectRepliesResolverFailure(t *testing.T) {
	f := &fakeClient{profileErr: xclient.ErrUserNotFound}
	_, err := CollectReplies(context.Background(), f, "ghost", ReplyOptions{})
	assert.ErrorIs(t, err, xclient.ErrUserNotFound)
	assert.Empty(t, f.cursors, "no page fetched after failed resolve")
}

func TestCollectRepliesEmptyFeed(t *testing.T) {
	f := &fakeClient{
		profile: model.User{IDStr: "100"},
		pages:   map[string]xclient.Page{"": {}},
	}
	got, err := CollectReplies(context.Background(), f, "bob", ReplyOptions{})
	require.NoError(t, err)
	assert.Empty(t, got.Records)
}

func TestCollectRepliesSleepsOnlyBetweenPages(t *testing.T) {
	const pause = 200 * time.Millisecond
	f := &fakeClient{
		profile: model.User{IDStr: "100"},
		pages: map[string]xclient.Page{
			"":   {Tweets: []model.Tweet{reply("1", "5")}, NextCursor: "c1"},
			"c1": {Tweets: []model.Tweet{reply("2", "5")}, NextCursor: "c2"},
		},
	}
	_, err := CollectReplies(context.Background(), f, "bob", ReplyOptions{MaxPages: 2, InterPageDelay: pause})
	done := time.Now()
	require.NoError(t, err)

	require.Len(t, f.pageAt, 2)
	assert.GreaterOrEqual(t, f.pageAt[1].Sub(f.pageAt[0]), pause)
	assert.Less(t, done.Sub(f.pageAt[1]), pause, "no pause after the last allowed page")
}

func TestCollectRepliesNoSleepWithoutCursor(t *testing.T) {
	f := &fakeClient{
		profile: model.User{IDStr: "100"},
		pages:   map[string]xclient.Page{"": {Tweets: []model.Tweet{reply("1", "5")}}},
	}
	start := time.Now()
	_, err := CollectReplies(context.Background(), f, "bob", ReplyOptions{InterPageDelay: 5 * time.Second})
	require.NoError(t, err)
	assert.Less(t, time.Since(start), time.Second)
}
