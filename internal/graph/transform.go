package graph

import (
	"net/url"
	"strings"

	"replygraph/internal/model"
	"replygraph/internal/util"
)

const avatarService = "https://unavatar.io/x/"

// AvatarURL is the public avatar-by-handle fallback.
func AvatarURL(handle string) string {
	return avatarService + url.PathEscape(handle)
}

// Classify assigns exactly one type, checking reply, then retweet, then mention.
func Classify(e model.Engagement) EngagementType {
	switch {
	case strings.HasPrefix(e.Text, "@") || e.Raw.ReplyTargetID() != "":
		return TypeReply
	case e.Raw.Retweeted || e.Raw.Quoted():
		return TypeRetweet
	default:
		return TypeMention
	}
}

// ExtractMentions prefers the structured mention list and only scans the text
// when that list yields nothing.
func ExtractMentions(e model.Engagement) []string {
	var handles []string
	for _, m := range e.Raw.UserMentions {
		if m.ScreenName != "" {
			handles = append(handles, m.ScreenName)
		}
	}
	if len(handles) == 0 {
		handles = util.ExtractHandles(e.Text)
	}
	return util.Dedupe(handles)
}

// Transform groups engagements by counterpart. It is pure: equal input gives
// equal keys, entries and order.
func Transform(engagements []model.Engagement, origin string, user UserData) Graph {
	if user.ScreenName == "" {
		user.ScreenName = origin
	}
	g := Graph{Origin: origin, User: user, Engagements: make(map[string][]Entry)}

	for _, e := range engagements {
		typ := Classify(e)
		mentions := ExtractMentions(e)
		for _, h := range mentions {
			if util.SameHandle(h, origin) {
				continue
			}
			g.add(h, entryFor(e, h, typ))
		}

		target := e.Raw.ReplyTargetScreenName()
		if target == "" || util.SameHandle(target, origin) || contains(mentions, target) {
			continue
		}
		g.add(target, entryFor(e, target, TypeReply))
	}
	return g
}

func entryFor(e model.Engagement, handle string, typ EngagementType) Entry {
	out := Entry{
		TweetID:     e.TweetID,
		EngagedWith: handle,
		Type:        typ,
		Content:     e.Text,
	}
	var image *string
	found := false
	for _, m := range e.Raw.UserMentions {
		if m.ScreenName == handle {
			image, out.Followers, out.Verified = m.ProfileImageURL, m.FollowersCount, m.Verified
			found = true
			break
		}
	}
	if rp := e.Raw.RepliedToProfile; !found && rp != nil && e.Raw.ReplyTargetScreenName() == handle {
		image, out.Followers, out.Verified = rp.ProfileImageURL, rp.FollowersCount, rp.Verified
	}
	if image != nil && *image != "" {
		out.ProfileImage = *image
	} else {
		out.ProfileImage = AvatarURL(handle)
	}
	return out
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
