package graph

import (
	"fmt"
	"sort"
)

const notAvailable = "N/A"

type Stats struct {
	TotalUsers        int    `json:"total_users"`
	TotalEngagements  int    `json:"total_engagements"`
	VerifiedCount     int    `json:"verified_count"`
	TopEngagementType string `json:"top_engagement_type"`
	MostConnected     string `json:"most_connected"`
}

// Summarize computes the headline numbers shown beside a graph. A counterpart
// counts as verified when its first entry is. Ties go to whichever was seen first.
func Summarize(g Graph) Stats {
	s := Stats{TopEngagementType: notAvailable, MostConnected: notAvailable}

	type count struct {
		key string
		n   int
	}
	var types []count
	typeIdx := make(map[string]int)
	var users []count

	for _, k := range g.Keys() {
		entries := g.Engagements[k]
		s.TotalUsers++
		s.TotalEngagements += len(entries)
		if len(entries) > 0 && entries[0].Verified {
			s.VerifiedCount++
		}
		users = append(users, count{k, len(entries)})
		for _, e := range entries {
			t := string(e.Type)
			if t == "" {
				t = "unknown"
			}
			i, ok := typeIdx[t]
			if !ok {
				i = len(types)
				typeIdx[t] = i
				types = append(types, count{key: t})
			}
			types[i].n++
		}
	}

	sort.SliceStable(types, func(i, j int) bool { return types[i].n > types[j].n })
	sort.SliceStable(users, func(i, j int) bool { return users[i].n > users[j].n })
	if len(types) > 0 {
		s.TopEngagementType = fmt.Sprintf("%s (%d)", types[0].key, types[0].n)
	}
	if len(users) > 0 {
		s.MostConnected = fmt.Sprintf("%s (%d)", users[0].key, users[0].n)
	}
	return s
}
