package discovery

import (
	"iter"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/pevans/newsorder/agetime"
	"github.com/pevans/newsorder/newsfeed"
	"github.com/pevans/newsorder/scraper"
)

// RawRow is one listing entry as read from the page, before any timestamp
// resolution or filtering. AbsoluteTime and AgeText come from the metadata
// row that follows the entry's header row and may be empty.
type RawRow struct {
	ID           string
	Title        string
	Link         string
	AbsoluteTime string
	AgeText      string
}

// normalizeText collapses runs of whitespace into single spaces.
func normalizeText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// ExtractRows reads every entry matching the row selector, in document order.
// The page is read only.
func ExtractRows(doc *goquery.Document, config scraper.ListConfig) []RawRow {
	var rows []RawRow

	doc.Find(config.RowSelector).Each(func(_ int, s *goquery.Selection) {
		row := RawRow{
			ID: strings.TrimSpace(s.AttrOr(config.IDAttribute, "")),
		}

		title := s.Find(config.TitleSelector).First()
		row.Title = normalizeText(title.Text())
		row.Link = strings.TrimSpace(title.AttrOr("href", ""))

		// Entries are split over two rows: the header row with the title
		// and the following row with the metadata.
		age := s.Next().Find(config.AgeSelector).First()
		if age.Length() > 0 {
			row.AbsoluteTime = strings.TrimSpace(age.AttrOr(config.AbsoluteAttribute, ""))
			row.AgeText = normalizeText(age.Text())
		}

		rows = append(rows, row)
	})

	return rows
}

// ToItem resolves a row's timestamp and builds the item. ok is false when the
// title is empty or no timestamp could be resolved.
func ToItem(row RawRow, now time.Time) (newsfeed.Item, bool) {
	if row.Title == "" {
		return newsfeed.Item{}, false
	}

	ms, ok := agetime.Resolve(row.AbsoluteTime, row.AgeText, now)
	if !ok {
		return newsfeed.Item{}, false
	}

	return newsfeed.Item{
		ID:               row.ID,
		Title:            row.Title,
		URL:              row.Link,
		TimestampSeconds: agetime.ToSeconds(ms),
		AgeText:          row.AgeText,
	}, true
}

// Items yields the accepted items of rows in order. Rows are resolved as the
// sequence is consumed, so a caller that stops early does no further work.
// Items are not deduplicated.
func Items(rows []RawRow, now time.Time) iter.Seq[newsfeed.Item] {
	return func(yield func(newsfeed.Item) bool) {
		for _, row := range rows {
			item, ok := ToItem(row, now)
			if !ok {
				continue
			}
			if !yield(item) {
				return
			}
		}
	}
}
