package report

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// JUnitCaseName is the single test case every report carries.
const JUnitCaseName = "items are sorted newest to oldest"

type junitTestSuites struct {
	XMLName xml.Name         `xml:"testsuites"`
	Suites  []junitTestSuite `xml:"testsuite"`
}

type junitTestSuite struct {
	Name       string          `xml:"name,attr"`
	ID         string          `xml:"id,attr"`
	Tests      int             `xml:"tests,attr"`
	Failures   int             `xml:"failures,attr"`
	Errors     int             `xml:"errors,attr"`
	Time       string          `xml:"time,attr"`
	Timestamp  string          `xml:"timestamp,attr"`
	Properties []junitProperty `xml:"properties>property"`
	Cases      []junitTestCase `xml:"testcase"`
}

type junitProperty struct {
	Name  string `xml:"name,attr"`
	Value string `xml:"value,attr"`
}

type junitTestCase struct {
	ClassName string        `xml:"classname,attr"`
	Name      string        `xml:"name,attr"`
	Time      string        `xml:"time,attr"`
	Failure   *junitFailure `xml:"failure,omitempty"`
}

type junitFailure struct {
	Message string `xml:"message,attr"`
	Type    string `xml:"type,attr"`
	Body    string `xml:",cdata"`
}

// WriteJUnit writes a JUnit XML report with one test case. The case fails
// when the run did not pass; an order violation carries the offending pair,
// a run error carries the error.
func WriteJUnit(w io.Writer, run Run) error {
	seconds := fmt.Sprintf("%.3f", run.Duration().Seconds())

	testCase := junitTestCase{
		ClassName: "newsorder",
		Name:      JUnitCaseName,
		Time:      seconds,
	}

	suite := junitTestSuite{
		Name:      "newsorder",
		ID:        run.ID,
		Tests:     1,
		Time:      seconds,
		Timestamp: run.StartedAt.UTC().Format("2006-01-02T15:04:05"),
		Properties: []junitProperty{
			{Name: "start_url", Value: run.StartURL},
			{Name: "target", Value: fmt.Sprint(run.Target)},
			{Name: "collected", Value: fmt.Sprint(len(run.Items))},
			{Name: "hops", Value: fmt.Sprint(run.Hops)},
		},
	}

	switch {
	case run.Error != "":
		kind := run.ErrorKind
		if kind == "" {
			kind = "Error"
		}
		testCase.Failure = &junitFailure{
			Message: run.Error,
			Type:    kind,
			Body:    fmt.Sprintf("%s\ncollected %d of %d items", run.Error, len(run.Items), run.Target),
		}
		suite.Failures = 1
	case run.Verdict == nil:
		testCase.Failure = &junitFailure{
			Message: "no verdict",
			Type:    "Error",
			Body:    "the run finished without an ordering verdict",
		}
		suite.Failures = 1
	case !run.Verdict.Pass:
		v := run.Verdict
		var body strings.Builder
		fmt.Fprintf(&body, "Items out of order at index %d:\n", v.Index)
		fmt.Fprintf(&body, "  [%d] %s id=%s %q %s\n", v.Index, v.Left.ISOTimestamp(), v.Left.ID, v.Left.Title, v.Left.URL)
		fmt.Fprintf(&body, "  [%d] %s id=%s %q %s\n", v.Index+1, v.Right.ISOTimestamp(), v.Right.ID, v.Right.Title, v.Right.URL)
		testCase.Failure = &junitFailure{
			Message: v.Describe(),
			Type:    "OrderViolation",
			Body:    body.String(),
		}
		suite.Failures = 1
	}

	suite.Cases = []junitTestCase{testCase}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return fmt.Errorf("failed to write junit header: %w", err)
	}

	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(junitTestSuites{Suites: []junitTestSuite{suite}}); err != nil {
		return fmt.Errorf("failed to encode junit report: %w", err)
	}

	_, err := io.WriteString(w, "\n")
	return err
}
