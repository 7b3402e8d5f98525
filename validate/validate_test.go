package validate

import (
	"encoding/json"
	"testing"

	"github.com/pevans/newsorder/newsfeed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func itemsAt(timestamps ...int64) []newsfeed.Item {
	items := make([]newsfeed.Item, len(timestamps))
	for i, ts := range timestamps {
		items[i] = newsfeed.Item{
			ID:               string(rune('a' + i)),
			Title:            "Story",
			TimestampSeconds: ts,
		}
	}
	return items
}

// TestCheck_TiesThenDescending verifies equal neighbours are tolerated
func TestCheck_TiesThenDescending(t *testing.T) {
	verdict := Check(itemsAt(100, 100, 99, 50))

	assert.True(t, verdict.Pass)
}

// TestCheck_FirstAscendingPair verifies the violation index and pair
func TestCheck_FirstAscendingPair(t *testing.T) {
	items := itemsAt(100, 101, 99)

	verdict := Check(items)

	assert.False(t, verdict.Pass)
	assert.Equal(t, 0, verdict.Index)
	assert.Equal(t, items[0], verdict.Left)
	assert.Equal(t, items[1], verdict.Right)
}

// TestCheck_StopsAtFirstViolation verifies later violations are not
// reported
func TestCheck_StopsAtFirstViolation(t *testing.T) {
	verdict := Check(itemsAt(10, 9, 12, 8, 20))

	assert.False(t, verdict.Pass)
	assert.Equal(t, 1, verdict.Index)
	assert.Equal(t, int64(9), verdict.Left.TimestampSeconds)
	assert.Equal(t, int64(12), verdict.Right.TimestampSeconds)
}

// TestCheck_Vacuous verifies empty and single sequences pass
func TestCheck_Vacuous(t *testing.T) {
	assert.True(t, Check(nil).Pass)
	assert.True(t, Check(itemsAt()).Pass)
	assert.True(t, Check(itemsAt(42)).Pass)
}

// TestCheck_Idempotent verifies repeated checks agree and leave the input
// untouched
func TestCheck_Idempotent(t *testing.T) {
	items := itemsAt(5, 7, 3)
	snapshot := append([]newsfeed.Item(nil), items...)

	first := Check(items)
	second := Check(items)

	assert.Equal(t, first, second)
	assert.Equal(t, snapshot, items)
}

// TestVerdict_String verifies human output for both outcomes
func TestVerdict_String(t *testing.T) {
	assert.Contains(t, Check(itemsAt(2, 1)).String(), "PASS")

	failing := Check(itemsAt(1, 2))
	assert.Contains(t, failing.String(), "FAIL")
	assert.Contains(t, failing.Describe(), "item 0 (id=a")
	assert.Contains(t, failing.Describe(), "item 1 (id=b")
	assert.Empty(t, Check(nil).Describe())
}

// TestVerdict_JSONKeepsZeroIndex verifies a violation at the first pair
// still carries its index
func TestVerdict_JSONKeepsZeroIndex(t *testing.T) {
	data, err := json.Marshal(Check(itemsAt(100, 101)))
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, false, decoded["pass"])
	assert.Contains(t, decoded, "index")
	assert.Equal(t, float64(0), decoded["index"])
}
