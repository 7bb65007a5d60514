package graph

import (
	"sort"

	"replygraph/internal/model"
)

type EngagementType string

const (
	TypeReply   EngagementType = "reply"
	TypeRetweet EngagementType = "retweet"
	TypeMention EngagementType = "mention"
)

// Entry is one interaction between the origin and a counterpart.
type Entry struct {
	TweetID      string         `json:"tweet_id"`
	EngagedWith  string         `json:"engaged_with"`
	Type         EngagementType `json:"engagement_type"`
	Content      string         `json:"content"`
	ProfileImage string         `json:"engaged_user_profile_image"`
	Followers    int            `json:"followers"`
	Description  string         `json:"description"`
	Verified     bool           `json:"verified"`
}

// UserData describes the origin node.
type UserData struct {
	Name            string `json:"name"`
	Description     string `json:"description"`
	FollowersCount  int    `json:"followers_count"`
	ProfileImageURL string `json:"profile_image_url"`
	Verified        bool   `json:"verified"`
	ScreenName      string `json:"screen_name"`
}

// UserFromSummary adapts the search summary into origin node data.
func UserFromSummary(s model.UserSummary) UserData {
	return UserData{
		Name:            s.DisplayName,
		FollowersCount:  s.FollowersCount,
		ProfileImageURL: s.ProfileImageURL,
		Verified:        s.Verified,
		ScreenName:      s.Username,
	}
}

// Graph maps each counterpart handle to its interactions with Origin.
// Keys are case-sensitive; Order holds them in first-seen order.
type Graph struct {
	Origin      string             `json:"origin"`
	User        UserData           `json:"user"`
	Engagements map[string][]Entry `json:"engagements"`
	Order       []string           `json:"order,omitempty"`
}

// Keys returns the counterpart keys in Order, followed by any keys Order
// does not mention in sorted order.
func (g Graph) Keys() []string {
	keys := make([]string, 0, len(g.Engagements))
	seen := make(map[string]struct{}, len(g.Engagements))
	for _, k := range g.Order {
		if _, ok := g.Engagements[k]; !ok {
			continue
		}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		keys = append(keys, k)
	}
	var rest []string
	for k := range g.Engagements {
		if _, ok := seen[k]; !ok {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	return append(keys, rest...)
}

func (g *Graph) add(key string, e Entry) {
	if _, ok := g.Engagements[key]; !ok {
		g.Order = append(g.Order, key)
	}
	g.Engagements[key] = append(g.Engagements[key], e)
}
