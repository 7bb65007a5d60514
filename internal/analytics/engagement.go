package analytics

import (
	"sort"
	"time"

	"replygraph/internal/graph"
	"replygraph/internal/model"
)

// HourlyEngagement aggregates engagements into per-hour UTC buckets keyed by
// interaction type. Records whose created_at does not parse are skipped.
func HourlyEngagement(engagements []model.Engagement) map[time.Time]map[string]int {
	buckets := make(map[time.Time]map[string]int)
	for _, e := range engagements {
		ts, err := time.Parse(time.RFC3339Nano, e.CreatedAt)
		if err != nil {
			continue
		}
		key := ts.UTC().Truncate(time.Hour)
		if _, ok := buckets[key]; !ok {
			buckets[key] = make(map[string]int)
		}
		buckets[key][string(graph.Classify(e))]++
	}
	return buckets
}

// SortedBucketKeys returns sorted hour keys.
func SortedBucketKeys(m map[time.Time]map[string]int) []time.Time {
	keys := make([]time.Time, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Before(keys[j]) })
	return keys
}
