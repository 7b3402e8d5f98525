// Package validate certifies that a sequence of items runs newest to oldest.
package validate

import (
	"fmt"

	"github.com/pevans/newsorder/newsfeed"
)

// Verdict is the outcome of an ordering check. When Pass is false, Left and
// Right are the adjacent items at Index and Index+1 that are out of order.
type Verdict struct {
	Pass  bool          `json:"pass"`
	Index int           `json:"index"`
	Left  newsfeed.Item `json:"left,omitzero"`
	Right newsfeed.Item `json:"right,omitzero"`
}

// Check scans adjacent pairs and stops at the first item that is newer than
// its predecessor. Equal timestamps are accepted and no secondary key is
// consulted. Empty and single-item sequences pass.
func Check(items []newsfeed.Item) Verdict {
	for i := 0; i+1 < len(items); i++ {
		left, right := items[i], items[i+1]
		if left.TimestampSeconds < right.TimestampSeconds {
			return Verdict{Index: i, Left: left, Right: right}
		}
	}
	return Verdict{Pass: true}
}

// String renders the verdict for humans.
func (v Verdict) String() string {
	if v.Pass {
		return "PASS: items are sorted newest to oldest"
	}
	return fmt.Sprintf("FAIL: %s", v.Describe())
}

// Describe explains the violation. It is empty for a passing verdict.
func (v Verdict) Describe() string {
	if v.Pass {
		return ""
	}
	return fmt.Sprintf(
		"item %d (id=%s, %s, %q) is older than item %d (id=%s, %s, %q)",
		v.Index, v.Left.ID, v.Left.ISOTimestamp(), v.Left.Title,
		v.Index+1, v.Right.ID, v.Right.ISOTimestamp(), v.Right.Title,
	)
}
