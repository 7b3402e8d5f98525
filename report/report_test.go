package report

import (
	"bytes"
	"encoding/xml"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pevans/newsorder/newsfeed"
	"github.com/pevans/newsorder/validate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var startedAt = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

func sampleItems() []newsfeed.Item {
	return []newsfeed.Item{
		{ID: "41000003", Title: `Show HN: a "quoted", comma title`, URL: "https://example.com/a", TimestampSeconds: 1718452800, AgeText: "1 minute ago"},
		{ID: "41000002", Title: "Plain title", URL: "item?id=41000002", TimestampSeconds: 1718452740, AgeText: "2 minutes ago"},
		{ID: "41000001", Title: "Third", URL: "https://example.com/c", TimestampSeconds: 1718452800, AgeText: "1 minute ago"},
	}
}

func sampleRun(verdict *validate.Verdict) Run {
	return Run{
		ID:         "0b8f6c3e-1111-4222-8333-444455556666",
		StartURL:   "https://news.ycombinator.com/newest",
		Target:     3,
		Hops:       1,
		StartedAt:  startedAt,
		FinishedAt: startedAt.Add(1500 * time.Millisecond),
		Verdict:    verdict,
		Items:      sampleItems(),
	}
}

// TestCSV_RoundTrip verifies id, title and timestamp survive a write and
// read
func TestCSV_RoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleItems()))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "index,timestamp,title,url,id", lines[0])
	assert.True(t, strings.HasPrefix(lines[2], "1,2024-06-15T11:59:00Z,Plain title,"))

	items, err := ReadCSV(&buf)
	require.NoError(t, err)
	require.Len(t, items, 3)
	for i, want := range sampleItems() {
		assert.Equal(t, want.ID, items[i].ID)
		assert.Equal(t, want.Title, items[i].Title)
		assert.Equal(t, want.ISOTimestamp(), items[i].ISOTimestamp())
	}
}

// TestReadCSV_Errors verifies malformed input is rejected
func TestReadCSV_Errors(t *testing.T) {
	_, err := ReadCSV(strings.NewReader(""))
	assert.Error(t, err)

	_, err = ReadCSV(strings.NewReader("a,b,c,d,e\n"))
	assert.Error(t, err)

	_, err = ReadCSV(strings.NewReader("index,timestamp,title,url,id\n0,yesterday,t,u,i\n"))
	assert.ErrorContains(t, err, "invalid timestamp")
}

// decodeJUnit parses a report back into the suite
func decodeJUnit(t *testing.T, data []byte) junitTestSuite {
	var suites junitTestSuites
	require.NoError(t, xml.Unmarshal(data, &suites))
	require.Len(t, suites.Suites, 1)
	require.Len(t, suites.Suites[0].Cases, 1)
	return suites.Suites[0]
}

// TestWriteJUnit_Pass verifies a passing run has no failure
func TestWriteJUnit_Pass(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJUnit(&buf, sampleRun(&validate.Verdict{Pass: true})))

	suite := decodeJUnit(t, buf.Bytes())
	assert.Equal(t, 0, suite.Failures)
	assert.Equal(t, "1.500", suite.Time)
	assert.Nil(t, suite.Cases[0].Failure)
	assert.Equal(t, JUnitCaseName, suite.Cases[0].Name)
}

// TestWriteJUnit_OrderViolation verifies the failing pair is in CDATA
func TestWriteJUnit_OrderViolation(t *testing.T) {
	verdict := validate.Check(sampleItems())
	require.False(t, verdict.Pass)

	var buf bytes.Buffer
	require.NoError(t, WriteJUnit(&buf, sampleRun(&verdict)))

	assert.Contains(t, buf.String(), "<![CDATA[Items out of order at index 1:")
	suite := decodeJUnit(t, buf.Bytes())
	assert.Equal(t, 1, suite.Failures)
	failure := suite.Cases[0].Failure
	require.NotNil(t, failure)
	assert.Equal(t, "OrderViolation", failure.Type)
	assert.Contains(t, buf.String(), "id=41000002")
	assert.Contains(t, buf.String(), "id=41000001")
}

// TestWriteJUnit_RunError verifies infrastructure errors fail the case
func TestWriteJUnit_RunError(t *testing.T) {
	run := sampleRun(nil)
	run.Error = "insufficient items: collected 3 of 100"
	run.ErrorKind = "InsufficientItems"

	var buf bytes.Buffer
	require.NoError(t, WriteJUnit(&buf, run))

	failure := decodeJUnit(t, buf.Bytes()).Cases[0].Failure
	require.NotNil(t, failure)
	assert.Equal(t, "InsufficientItems", failure.Type)
	assert.Contains(t, buf.String(), "collected 3 of 3 items")
}

// TestJSON_Snapshot verifies the run snapshot can be read back
func TestJSON_Snapshot(t *testing.T) {
	verdict := validate.Check(sampleItems())
	path := filepath.Join(t.TempDir(), "run.json")

	require.NoError(t, WriteJSON(path, sampleRun(&verdict)))
	run, err := ReadJSON(path)

	require.NoError(t, err)
	assert.Equal(t, "0b8f6c3e-1111-4222-8333-444455556666", run.ID)
	require.NotNil(t, run.Verdict)
	assert.False(t, run.Verdict.Pass)
	assert.Equal(t, 1, run.Verdict.Index)
	assert.Len(t, run.Items, 3)
	assert.False(t, run.Passed())
}

// TestWriteSummary_Violation verifies the pair and the verdict are printed
func TestWriteSummary_Violation(t *testing.T) {
	verdict := validate.Check(sampleItems())

	var buf bytes.Buffer
	require.NoError(t, WriteSummary(&buf, sampleRun(&verdict)))

	out := buf.String()
	assert.Contains(t, out, "41000002")
	assert.Contains(t, out, "41000001")
	assert.Contains(t, out, "FAIL:")
	assert.Contains(t, out, "3/3")
}

// TestWriteSummary_Error verifies an error run prints the error
func TestWriteSummary_Error(t *testing.T) {
	run := sampleRun(nil)
	run.Items = nil
	run.Error = "navigation timeout: context deadline exceeded"

	var buf bytes.Buffer
	require.NoError(t, WriteSummary(&buf, run))

	assert.Contains(t, buf.String(), "ERROR: navigation timeout")
}

// TestSummaryIndexes verifies which rows the summary selects
func TestSummaryIndexes(t *testing.T) {
	items := make([]newsfeed.Item, 10)

	pass := Run{Items: items, Verdict: &validate.Verdict{Pass: true}}
	assert.Equal(t, []int{0, 1, 2, 7, 8, 9}, summaryIndexes(pass))

	fail := Run{Items: items, Verdict: &validate.Verdict{Index: 0}}
	assert.Equal(t, []int{0, 1, 2}, summaryIndexes(fail))

	tail := Run{Items: items, Verdict: &validate.Verdict{Index: 8}}
	assert.Equal(t, []int{7, 8, 9}, summaryIndexes(tail))
}
