package junit

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/drone/drone-ctrf/ctrf"
	"github.com/drone/drone-ctrf/internal/diag"
	"github.com/drone/drone-ctrf/xmltree"
)

// Format is the report format name used in errors.
const Format = "JUnit"

const (
	unknownSuite = "Unknown Suite"
	unknownTest  = "Unknown Test"
)

// Extract walks a parsed JUnit report rooted at testsuites. Testcases of
// nested suites are collected in document order and keep the name of their
// top-level suite.
func Extract(root *xmltree.Node, log logrus.FieldLogger) (*Extraction, error) {
	if root == nil || root.Name() != "testsuites" {
		return nil, &ctrf.MalformedReportError{Format: Format, Reason: "missing testsuites"}
	}

	c := diag.NewCollector(log)
	ext := &Extraction{}
	for _, suite := range root.Children("testsuite") {
		ext.Cases = collect(c, suite.AttrOr("name", unknownSuite), suite, ext.Cases)
	}
	ext.Diagnostics = c.Entries()
	return ext, nil
}

func collect(c *diag.Collector, suiteName string, suite *xmltree.Node, cases []Case) []Case {
	for _, child := range suite.Elements() {
		switch child.Name() {
		case "testcase":
			cases = append(cases, extractCase(c, suiteName, child))
		case "testsuite":
			cases = collect(c, suiteName, child, cases)
		}
	}
	return cases
}

func extractCase(c *diag.Collector, suiteName string, tc *xmltree.Node) Case {
	out := Case{
		Suite: suiteName,
		Name:  tc.AttrOr("name", unknownTest),
	}

	if v, ok := tc.Attr("time"); ok {
		ms, err := SecondsToMillis(v)
		if err != nil {
			c.Default("testcase", "time", "%v for %q, using 0", err, out.Name)
		}
		out.DurationMS = ms
	}

	failure := tc.Child("failure")
	if failure == nil {
		failure = tc.Child("error")
	}
	if failure != nil {
		out.Failed = true
		out.Message = failureText(failure)
	}
	out.Skipped = tc.Child("skipped") != nil
	return out
}

// failureText returns the text of a failure or error element. Inline text
// is used whether or not the element also carries attributes; the message
// attribute is only used when there is no text.
func failureText(n *xmltree.Node) *string {
	text := n.Text()
	if text == "" {
		text = strings.TrimSpace(n.AttrOr("message", ""))
	}
	if text == "" {
		return nil
	}
	return &text
}

// SecondsToMillis converts a fractional seconds string to milliseconds,
// rounding half away from zero. Invalid, negative or out of range values
// yield 0 and an error.
func SecondsToMillis(value string) (int64, error) {
	secs, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil || math.IsNaN(secs) || math.IsInf(secs, 0) {
		return 0, fmt.Errorf("invalid time %q", value)
	}
	if secs < 0 {
		return 0, fmt.Errorf("negative time %q", value)
	}
	ms := math.Round(secs * 1000)
	if ms >= math.MaxInt64 {
		return 0, fmt.Errorf("invalid time %q", value)
	}
	return int64(ms), nil
}
