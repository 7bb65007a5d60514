package model

import (
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTweetDecodeReplyField(t *testing.T) {
	var recs []Tweet
	body := `[
		{"id_str":"1","in_reply_to_user_id_str":"42"},
		{"id_str":"2","in_reply_to_user_id_str":null},
		{"id_str":"3"},
		{"id_str":"4","in_reply_to_user_id_str":""}
	]`
	require.NoError(t, json.Unmarshal([]byte(body), &recs))
	assert.True(t, recs[0].IsReply())
	assert.False(t, recs[1].IsReply())
	assert.False(t, recs[2].IsReply())
	assert.True(t, recs[3].IsReply())
}

func TestTweetBodyFallback(t *testing.T) {
	assert.Equal(t, "full", Tweet{FullText: "full", Text: "short"}.Body())
	assert.Equal(t, "short", Tweet{Text: "short"}.Body())
	assert.Equal(t, "", Tweet{}.Body())
}

func TestTweetRetweetedStatus(t *testing.T) {
	var rec Tweet
	require.NoError(t, json.Unmarshal([]byte(`{"retweeted_status":null}`), &rec))
	assert.Nil(t, rec.RetweetedStatus)
	require.NoError(t, json.Unmarshal([]byte(`{"retweeted_status":{"id_str":"9"}}`), &rec))
	assert.NotNil(t, rec.RetweetedStatus)
}

func TestUserID(t *testing.T) {
	assert.Equal(t, "7", User{IDStr: "7", ID: 8}.UserID())
	assert.Equal(t, "8", User{ID: 8}.UserID())
	assert.Equal(t, "", User{}.UserID())
}

func TestSidecarSerializesAbsentAsNull(t *testing.T) {
	b, err := json.Marshal(Sidecar{})
	require.NoError(t, err)
	var m map[string]any
	require.NoError(t, json.Unmarshal(b, &m))
	for _, k := range []string{"in_reply_to_user_id", "in_reply_to_screen_name", "quoted_status_id", "replied_to_profile"} {
		v, ok := m[k]
		assert.True(t, ok, k)
		assert.Nil(t, v, k)
	}
}

func TestEngagementValidate(t *testing.T) {
	assert.NoError(t, Engagement{TweetID: "1"}.Validate())
	assert.Error(t, Engagement{}.Validate())
	assert.Error(t, Engagement{TweetID: "1", Metrics: Metrics{Likes: -1}}.Validate())
	assert.Error(t, Engagement{TweetID: "1", Raw: Sidecar{UserMentions: []MentionProfile{{IDStr: "5"}}}}.Validate())
}
