package testng

import "github.com/drone/drone-ctrf/internal/diag"

// Case is a test method extracted from a TestNG report. Optional values are
// nil when the report does not carry them.
type Case struct {
	Name       string
	Status     string
	DurationMS int64
	Start      *int64
	End        *int64
	Message    *string
	Trace      *string
}

// SuiteSummary holds the totals TestNG reports about itself on the
// testng-results element, with the boundaries and name of the first suite.
// The counts are not recomputed from the extracted cases.
type SuiteSummary struct {
	Name    string
	Total   int
	Passed  int
	Failed  int
	Skipped int
	Ignored int
	Start   int64
	End     int64
}

// Extraction is the result of walking a TestNG report tree.
type Extraction struct {
	Summary     SuiteSummary
	Cases       []Case
	Diagnostics []diag.Diagnostic
}
