package discovery

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/pevans/newsorder/scraper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

// listingRow renders one entry the way the listing does: a header row with
// the title followed by a metadata row with the age.
func listingRow(id, title, href, absolute, age string) string {
	return fmt.Sprintf(`
<tr class="athing submission" id="%s">
  <td class="title"><span class="titleline"><a href="%s">%s</a> <span class="sitebit">(example.com)</span></span></td>
</tr>
<tr>
  <td class="subtext"><span class="subline"><span class="score">1 point</span> by someone
    <span class="age" title="%s"><a href="item?id=%s">%s</a></span></span></td>
</tr>
<tr class="spacer"></tr>`, id, href, title, absolute, id, age)
}

// listingPage wraps rows into a page, with a "More" link when next is set.
func listingPage(next string, rows ...string) string {
	var b strings.Builder
	b.WriteString(`<html><body><table id="hnmain"><tr><td><table class="itemlist">`)
	for _, row := range rows {
		b.WriteString(row)
	}
	if next != "" {
		fmt.Fprintf(&b, `<tr class="morespace"></tr><tr><td class="title"><a href="%s" class="morelink" rel="next">More</a></td></tr>`, next)
	}
	b.WriteString(`</table></td></tr></table></body></html>`)
	return b.String()
}

func parseDoc(t *testing.T, html string) *goquery.Document {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

// TestExtractRows_ReadsHeaderAndMetadataRows verifies fields come from the
// header row and its following sibling
func TestExtractRows_ReadsHeaderAndMetadataRows(t *testing.T) {
	doc := parseDoc(t, listingPage("",
		listingRow("101", "First  story", "https://example.com/a", "2024-06-15T11:00:00 1718449200", "1 hour ago"),
		listingRow("100", "Second story", "item?id=100", "", "2 hours ago"),
	))

	rows := ExtractRows(doc, *scraper.NewListConfig())

	require.Len(t, rows, 2)
	assert.Equal(t, RawRow{
		ID:           "101",
		Title:        "First story",
		Link:         "https://example.com/a",
		AbsoluteTime: "2024-06-15T11:00:00 1718449200",
		AgeText:      "1 hour ago",
	}, rows[0])
	assert.Equal(t, "100", rows[1].ID)
	assert.Equal(t, "item?id=100", rows[1].Link)
	assert.Empty(t, rows[1].AbsoluteTime)
	assert.Equal(t, "2 hours ago", rows[1].AgeText)
}

// TestExtractRows_MissingMetadataRow verifies a row without a sibling keeps
// empty time fields
func TestExtractRows_MissingMetadataRow(t *testing.T) {
	doc := parseDoc(t, `<table>
<tr class="athing" id="7"><td><span class="titleline"><a href="/x">Lonely</a></span></td></tr>
</table>`)

	rows := ExtractRows(doc, *scraper.NewListConfig())

	require.Len(t, rows, 1)
	assert.Equal(t, "Lonely", rows[0].Title)
	assert.Empty(t, rows[0].AbsoluteTime)
	assert.Empty(t, rows[0].AgeText)
}

// TestExtractRows_EmptyPage verifies no rows on a page without entries
func TestExtractRows_EmptyPage(t *testing.T) {
	doc := parseDoc(t, listingPage(""))

	assert.Empty(t, ExtractRows(doc, *scraper.NewListConfig()))
}

// TestToItem_PrefersAbsoluteTime verifies the absolute attribute wins
func TestToItem_PrefersAbsoluteTime(t *testing.T) {
	item, ok := ToItem(RawRow{
		ID:           "1",
		Title:        "Story",
		Link:         "/s",
		AbsoluteTime: "2024-01-01T00:00:00 1704067200",
		AgeText:      "3 hours ago",
	}, testNow)

	require.True(t, ok)
	assert.Equal(t, int64(1704067200), item.TimestampSeconds)
	assert.Equal(t, "3 hours ago", item.AgeText)
	assert.Equal(t, "2024-01-01T00:00:00Z", item.ISOTimestamp())
}

// TestToItem_RelativeAge verifies relative text is floored to seconds
func TestToItem_RelativeAge(t *testing.T) {
	now := testNow.Add(750 * time.Millisecond)

	item, ok := ToItem(RawRow{ID: "1", Title: "Story", AgeText: "2 hours ago"}, now)

	require.True(t, ok)
	assert.Equal(t, testNow.Unix()-7200, item.TimestampSeconds)
}

// TestToItem_RejectsEmptyTitle verifies entries without a title are dropped
func TestToItem_RejectsEmptyTitle(t *testing.T) {
	_, ok := ToItem(RawRow{ID: "1", AgeText: "1 hour ago"}, testNow)
	assert.False(t, ok)
}

// TestToItem_RejectsUnresolvedTime verifies entries without a usable time
// are dropped
func TestToItem_RejectsUnresolvedTime(t *testing.T) {
	_, ok := ToItem(RawRow{ID: "1", Title: "Story", AgeText: "banana"}, testNow)
	assert.False(t, ok)
}

// TestItems_FiltersAndKeepsOrder verifies rejected rows are skipped and
// order and duplicates are preserved
func TestItems_FiltersAndKeepsOrder(t *testing.T) {
	rows := []RawRow{
		{ID: "3", Title: "C", AgeText: "1 minute ago"},
		{ID: "x", Title: "", AgeText: "1 minute ago"},
		{ID: "2", Title: "B", AgeText: "whenever"},
		{ID: "1", Title: "A", AgeText: "5 minutes ago"},
		{ID: "1", Title: "A", AgeText: "5 minutes ago"},
	}

	var ids []string
	for item := range Items(rows, testNow) {
		assert.NotEmpty(t, item.Title)
		ids = append(ids, item.ID)
	}

	assert.Equal(t, []string{"3", "1", "1"}, ids)
}

// TestItems_StopsEarly verifies the sequence honours an early break
func TestItems_StopsEarly(t *testing.T) {
	rows := []RawRow{
		{ID: "1", Title: "A", AgeText: "1 minute ago"},
		{ID: "2", Title: "B", AgeText: "2 minutes ago"},
		{ID: "3", Title: "C", AgeText: "3 minutes ago"},
	}

	count := 0
	for range Items(rows, testNow) {
		count++
		if count == 2 {
			break
		}
	}

	assert.Equal(t, 2, count)
}
