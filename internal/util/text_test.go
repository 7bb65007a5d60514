package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractHandles(t *testing.T) {
	assert.Equal(t, []string{"alice", "bob_2"}, ExtractHandles("hey @alice and @bob_2!"))
	assert.Nil(t, ExtractHandles("no handles here, mail me at x @ y"))
}

func TestDedupeKeepsOrder(t *testing.T) {
	assert.Equal(t, []string{"b", "a", "B"}, Dedupe([]string{"b", "a", "b", "B", "a"}))
	assert.Empty(t, Dedupe(nil))
}

func TestNormalizeHandle(t *testing.T) {
	assert.Equal(t, "bob", NormalizeHandle("  @bob "))
	assert.Equal(t, "bob", NormalizeHandle("bob"))
	assert.Equal(t, "@bob", NormalizeHandle("@@bob"))
	assert.Equal(t, "", NormalizeHandle(" @ "))
}

func TestSameHandle(t *testing.T) {
	assert.True(t, SameHandle("Bob", "bob"))
	assert.False(t, SameHandle("bob", "bobby"))
}

func TestTruncateAndWhitespace(t *testing.T) {
	assert.Equal(t, "héll…", Truncate("héllo world", 4))
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "a b c", NormalizeWhitespace("  a \n b\t c "))
}
