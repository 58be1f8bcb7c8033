package junit

import "github.com/drone/drone-ctrf/internal/diag"

// Case is a testcase leaf extracted from a JUnit report, tagged with the
// name of the top-level suite it was found under.
type Case struct {
	Suite      string
	Name       string
	DurationMS int64
	// Failed is set when a failure or error element is present.
	Failed  bool
	Message *string
	Skipped bool
}

// Extraction is the result of walking a JUnit report tree.
type Extraction struct {
	Cases       []Case
	Diagnostics []diag.Diagnostic
}
