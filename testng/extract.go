package testng

import (
	"errors"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/drone/drone-ctrf/ctrf"
	"github.com/drone/drone-ctrf/internal/datetime"
	"github.com/drone/drone-ctrf/internal/diag"
	"github.com/drone/drone-ctrf/xmltree"
)

// Format is the report format name used in errors.
const Format = "TestNG"

const (
	unknownTest   = "Unknown Test"
	unknownMethod = "Unknown Method"
	beforeSuite   = "beforeSuite"
)

var errNoAttributes = errors.New("test-method has no attributes")

// Extract walks a parsed TestNG report. A missing testng-results root or
// suite element is fatal; every other problem is recorded as a diagnostic
// and extraction continues.
func Extract(root *xmltree.Node, log logrus.FieldLogger) (*Extraction, error) {
	if root == nil || root.Name() != "testng-results" {
		return nil, &ctrf.MalformedReportError{Format: Format, Reason: "missing testng-results"}
	}
	suites := root.Children("suite")
	if len(suites) == 0 {
		return nil, &ctrf.MalformedReportError{Format: Format, Reason: "missing suite"}
	}

	c := diag.NewCollector(log)
	ext := &Extraction{
		Summary: SuiteSummary{
			Name:    suites[0].AttrOr("name", ""),
			Total:   countAttr(c, root, "total"),
			Passed:  countAttr(c, root, "passed"),
			Failed:  countAttr(c, root, "failed"),
			Skipped: countAttr(c, root, "skipped"),
			Ignored: countAttr(c, root, "ignored"),
			Start:   suiteTime(c, suites[0], "started-at"),
			End:     suiteTime(c, suites[0], "finished-at"),
		},
	}

	if m := findMethod(suites[0], beforeSuite); m != nil {
		if v, ok := m.Attr("started-at"); ok && v != "" {
			ext.Summary.Start = datetime.Millis(c, "test-method", "started-at", v)
		}
	}

	for _, suite := range suites {
		for _, test := range suite.Children("test") {
			testName := test.AttrOr("name", unknownTest)
			for _, class := range test.Children("class") {
				for _, method := range class.Children("test-method") {
					if isConfig(method) {
						c.Logger().WithField("Method", method.AttrOr("name", unknownMethod)).Debug("Skipping configuration method")
						continue
					}
					tc, err := extractMethod(c, testName, method)
					if err != nil {
						c.Drop("test-method", err)
						continue
					}
					ext.Cases = append(ext.Cases, tc)
				}
			}
		}
	}

	ext.Diagnostics = c.Entries()
	return ext, nil
}

func extractMethod(c *diag.Collector, testName string, method *xmltree.Node) (Case, error) {
	if !method.HasAttrs() {
		return Case{}, errNoAttributes
	}

	tc := Case{
		Name:       testName + ": " + method.AttrOr("name", unknownMethod),
		Status:     strings.ToLower(method.AttrOr("status", "other")),
		DurationMS: durationAttr(c, method),
		Start:      optionalTime(c, method, "started-at"),
		End:        optionalTime(c, method, "finished-at"),
	}

	exc := method.Child("exception")
	if exc == nil {
		exc = method.Child("failure")
	}
	if exc != nil {
		tc.Message = optionalText(exc.Child("message"))
		tc.Trace = optionalText(exc.Child("full-stacktrace"))
	}
	return tc, nil
}

// isConfig reports whether method is a setup or teardown hook.
func isConfig(method *xmltree.Node) bool {
	for _, attr := range []string{"is-config", "is_config"} {
		if v, ok := method.Attr(attr); ok && v == "true" {
			return true
		}
	}
	return false
}

func findMethod(suite *xmltree.Node, name string) *xmltree.Node {
	for _, test := range suite.Children("test") {
		for _, class := range test.Children("class") {
			for _, method := range class.Children("test-method") {
				if v, _ := method.Attr("name"); v == name {
					return method
				}
			}
		}
	}
	return nil
}

func countAttr(c *diag.Collector, n *xmltree.Node, name string) int {
	v, ok := n.Attr(name)
	if !ok {
		return 0
	}
	count, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		c.Default("testng-results", name, "invalid count %q, using 0", v)
		return 0
	}
	return count
}

func durationAttr(c *diag.Collector, method *xmltree.Node) int64 {
	v, ok := method.Attr("duration-ms")
	if !ok {
		return 0
	}
	ms, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
	if err != nil || ms < 0 {
		c.Default("test-method", "duration-ms", "invalid duration %q for %q, using 0", v, method.AttrOr("name", unknownMethod))
		return 0
	}
	return ms
}

func suiteTime(c *diag.Collector, suite *xmltree.Node, name string) int64 {
	v, ok := suite.Attr(name)
	if !ok || v == "" {
		c.Default("suite", name, "suite has no %s attribute, using epoch", name)
		return 0
	}
	return datetime.Millis(c, "suite", name, v)
}

func optionalTime(c *diag.Collector, n *xmltree.Node, name string) *int64 {
	v, ok := n.Attr(name)
	if !ok || v == "" {
		return nil
	}
	ms := datetime.Millis(c, n.Name(), name, v)
	return &ms
}

func optionalText(n *xmltree.Node) *string {
	if n == nil {
		return nil
	}
	text := n.Text()
	if text == "" {
		return nil
	}
	return &text
}
