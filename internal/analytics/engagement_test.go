package analytics

import (
	"testing"
	"time"

	"replygraph/internal/model"
)

func TestHourlyEngagement(t *testing.T) {
	target := "9"
	engs := []model.Engagement{
		{CreatedAt: "2024-05-01T10:15:00.000Z", Text: "@a hi"},
		{CreatedAt: "2024-05-01T10:59:59Z", Text: "yo", Raw: model.Sidecar{InReplyToUserID: &target}},
		{CreatedAt: "2024-05-01T11:00:00+02:00", Text: "via @b", Raw: model.Sidecar{Retweeted: true}},
		{CreatedAt: "garbage", Text: "@c"},
	}
	b := HourlyEngagement(engs)
	keys := SortedBucketKeys(b)
	if len(keys) != 2 {
		t.Fatalf("expected 2 buckets, got %d", len(keys))
	}
	nine := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	ten := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	if !keys[0].Equal(nine) || !keys[1].Equal(ten) {
		t.Fatalf("unexpected keys %v", keys)
	}
	if b[ten]["reply"] != 2 {
		t.Fatalf("expected 2 replies at 10:00, got %d", b[ten]["reply"])
	}
	if b[nine]["retweet"] != 1 {
		t.Fatalf("expected 1 retweet at 09:00, got %d", b[nine]["retweet"])
	}
}
