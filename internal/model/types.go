package model

import (
	"errors"
	"strconv"
)

// User is the subset of a social data API user object the pipeline reads.
type User struct {
	ID              int64  `json:"id"`
	IDStr           string `json:"id_str"`
	ScreenName      string `json:"screen_name"`
	Name            string `json:"name"`
	Description     string `json:"description"`
	FollowersCount  int    `json:"followers_count"`
	Verified        bool   `json:"verified"`
	ProfileImageURL string `json:"profile_image_url_https"`
}

// UserID prefers the string id, falling back to the numeric one.
func (u User) UserID() string {
	if u.IDStr != "" {
		return u.IDStr
	}
	if u.ID != 0 {
		return strconv.FormatInt(u.ID, 10)
	}
	return ""
}

// Mention is an entry of a tweet's entities.user_mentions list.
type Mention struct {
	IDStr      string `json:"id_str"`
	Name       string `json:"name"`
	ScreenName string `json:"screen_name"`
	Indices    []int  `json:"indices,omitempty"`
}

type Entities struct {
	UserMentions []Mention `json:"user_mentions"`
}

// StatusRef is an embedded reference to another status.
type StatusRef struct {
	IDStr string `json:"id_str"`
}

// Tweet is a raw activity record as returned by the tweets-and-replies feed.
type Tweet struct {
	IDStr               string     `json:"id_str"`
	FullText            string     `json:"full_text"`
	Text                string     `json:"text"`
	CreatedAt           string     `json:"tweet_created_at"`
	FavoriteCount       int        `json:"favorite_count"`
	RetweetCount        int        `json:"retweet_count"`
	ReplyCount          int        `json:"reply_count"`
	QuoteCount          int        `json:"quote_count"`
	ViewsCount          int        `json:"views_count"`
	InReplyToStatusID   string     `json:"in_reply_to_status_id_str"`
	InReplyToUserID     *string    `json:"in_reply_to_user_id_str"`
	InReplyToScreenName string     `json:"in_reply_to_screen_name"`
	RetweetedStatus     *StatusRef `json:"retweeted_status"`
	QuotedStatusID      string     `json:"quoted_status_id_str"`
	Entities            Entities   `json:"entities"`
}

// IsReply reports whether the record carries a reply-target user field.
// An empty string still counts; only an absent or null field does not.
func (t Tweet) IsReply() bool { return t.InReplyToUserID != nil }

// Body returns full_text, then text, then "".
func (t Tweet) Body() string {
	if t.FullText != "" {
		return t.FullText
	}
	return t.Text
}

// Metrics are the counters carried on a normalized engagement.
type Metrics struct {
	Likes       int `json:"likes"`
	Retweets    int `json:"retweets"`
	Replies     int `json:"replies"`
	Impressions int `json:"impressions"`
}

// MentionProfile is a mention enriched with whatever the profile lookup knew.
type MentionProfile struct {
	IDStr           string  `json:"id_str"`
	Name            string  `json:"name"`
	ScreenName      string  `json:"screen_name"`
	ProfileImageURL *string `json:"profile_image_url_https"`
	FollowersCount  int     `json:"followers_count"`
	Verified        bool    `json:"verified"`
}

// RepliedProfile describes the account a reply was aimed at.
type RepliedProfile struct {
	ProfileImageURL *string `json:"profile_image_url_https"`
	FollowersCount  int     `json:"followers_count"`
	Name            *string `json:"name"`
	Verified        bool    `json:"verified"`
}

// Sidecar keeps the reply context and enriched mentions next to an engagement.
// Absent values serialize as null.
type Sidecar struct {
	InReplyToUserID     *string          `json:"in_reply_to_user_id"`
	InReplyToScreenName *string          `json:"in_reply_to_screen_name"`
	Retweeted           bool             `json:"retweeted"`
	QuotedStatusID      *string          `json:"quoted_status_id"`
	UserMentions        []MentionProfile `json:"user_mentions"`
	RepliedToProfile    *RepliedProfile  `json:"replied_to_profile"`
}

// ReplyTargetID returns the reply-target user id or "".
func (s Sidecar) ReplyTargetID() string { return deref(s.InReplyToUserID) }

// ReplyTargetScreenName returns the reply-target handle or "".
func (s Sidecar) ReplyTargetScreenName() string { return deref(s.InReplyToScreenName) }

// Quoted reports whether the engagement quotes another status.
func (s Sidecar) Quoted() bool { return deref(s.QuotedStatusID) != "" }

// Engagement is the normalized form of one reply record.
type Engagement struct {
	TweetID   string  `json:"tweet_id"`
	Text      string  `json:"text"`
	CreatedAt string  `json:"created_at"`
	Metrics   Metrics `json:"metrics"`
	Raw       Sidecar `json:"raw"`
}

var (
	errMissingTweetID   = errors.New("engagement without tweet_id")
	errNegativeMetric   = errors.New("engagement with negative metric")
	errAnonymousMention = errors.New("mention without screen_name")
)

// Validate checks the invariants a consumer relies on after decoding.
func (e Engagement) Validate() error {
	if e.TweetID == "" {
		return errMissingTweetID
	}
	m := e.Metrics
	if m.Likes < 0 || m.Retweets < 0 || m.Replies < 0 || m.Impressions < 0 {
		return errNegativeMetric
	}
	for _, mp := range e.Raw.UserMentions {
		if mp.ScreenName == "" {
			return errAnonymousMention
		}
	}
	return nil
}

// UserSummary describes the searched account.
type UserSummary struct {
	Username             string `json:"username"`
	DisplayName          string `json:"display_name,omitempty"`
	FollowersCount       int    `json:"followers_count"`
	TotalTweetsProcessed int    `json:"total_tweets_processed"`
	ProfileImageURL      string `json:"profile_image_url,omitempty"`
	Verified             bool   `json:"verified"`
}

// SearchResult is the payload of a successful search.
type SearchResult struct {
	Engagements []Engagement `json:"engagements"`
	User        UserSummary  `json:"user"`
}

// Optional returns nil for "" and a pointer to s otherwise.
func Optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
