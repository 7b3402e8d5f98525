package newsfeed

import "time"

// Item is one accepted listing entry. Items are only built from rows with a
// non-empty title and a resolved timestamp, and are never modified after
// they enter a collection.
type Item struct {
	ID               string `json:"id"`
	Title            string `json:"title"`
	URL              string `json:"url"`
	TimestampSeconds int64  `json:"timestamp_seconds"`
	AgeText          string `json:"age_text,omitempty"`
}

// Time returns the item's timestamp as a UTC time.
func (i Item) Time() time.Time {
	return time.Unix(i.TimestampSeconds, 0).UTC()
}

// ISOTimestamp formats the timestamp with second precision.
func (i Item) ISOTimestamp() string {
	return i.Time().Format(time.RFC3339)
}
