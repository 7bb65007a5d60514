package ingest

import (
	"strconv"
	"time"

	"replygraph/internal/model"
)

const isoMillis = "2006-01-02T15:04:05.000Z"

// Normalizer turns raw reply records into engagements. Now stamps records
// that lack an id or a creation time.
type Normalizer struct {
	Now func() time.Time
}

// Normalize uses the wall clock.
func Normalize(tweets []model.Tweet, lookup ProfileLookup, username string, profile model.User) ([]model.Engagement, model.UserSummary) {
	return Normalizer{Now: time.Now}.Normalize(tweets, lookup, username, profile)
}

func (n Normalizer) Normalize(tweets []model.Tweet, lookup ProfileLookup, username string, profile model.User) ([]model.Engagement, model.UserSummary) {
	now := time.Now
	if n.Now != nil {
		now = n.Now
	}

	out := make([]model.Engagement, 0, len(tweets))
	for _, t := range tweets {
		out = append(out, normalizeOne(t, lookup, now))
	}

	summary := model.UserSummary{
		Username:             profile.ScreenName,
		DisplayName:          profile.Name,
		FollowersCount:       profile.FollowersCount,
		TotalTweetsProcessed: len(out),
		ProfileImageURL:      profile.ProfileImageURL,
		Verified:             profile.Verified,
	}
	if summary.Username == "" {
		summary.Username = username
	}
	return out, summary
}

func normalizeOne(t model.Tweet, lookup ProfileLookup, now func() time.Time) model.Engagement {
	id := t.IDStr
	if id == "" {
		id = strconv.FormatInt(now().UnixMilli(), 10)
	}
	created := t.CreatedAt
	if created == "" {
		created = now().UTC().Format(isoMillis)
	}

	var replyTarget string
	if t.InReplyToUserID != nil {
		replyTarget = *t.InReplyToUserID
	}

	mentions := make([]model.MentionProfile, 0, len(t.Entities.UserMentions))
	for _, m := range t.Entities.UserMentions {
		mp := model.MentionProfile{IDStr: m.IDStr, Name: m.Name, ScreenName: m.ScreenName}
		if p, ok := lookup.Find(m.ScreenName, m.IDStr); ok {
			mp.ProfileImageURL = model.Optional(p.ProfileImageURL)
			mp.FollowersCount = p.FollowersCount
			mp.Verified = p.Verified
		}
		mentions = append(mentions, mp)
	}

	var replied *model.RepliedProfile
	if t.InReplyToScreenName != "" {
		if p, ok := lookup.Find(t.InReplyToScreenName, replyTarget); ok {
			replied = &model.RepliedProfile{
				ProfileImageURL: model.Optional(p.ProfileImageURL),
				FollowersCount:  p.FollowersCount,
				Name:            model.Optional(p.Name),
				Verified:        p.Verified,
			}
		}
	}

	return model.Engagement{
		TweetID:   id,
		Text:      t.Body(),
		CreatedAt: created,
		Metrics: model.Metrics{
			Likes:       t.FavoriteCount,
			Retweets:    t.RetweetCount,
			Replies:     t.ReplyCount,
			Impressions: t.ViewsCount,
		},
		Raw: model.Sidecar{
			InReplyToUserID:     model.Optional(replyTarget),
			InReplyToScreenName: model.Optional(t.InReplyToScreenName),
			Retweeted:           t.RetweetedStatus != nil,
			QuotedStatusID:      model.Optional(t.QuotedStatusID),
			UserMentions:        mentions,
			RepliedToProfile:    replied,
		},
	}
}
