package plugin

import "github.com/drone/drone-ctrf/ctrf"

// Report formats accepted in Args.ReportFormat. An empty format is detected
// from the root element of each report.
const (
	FormatTestNG = "testng"
	FormatJUnit  = "junit"
)

// Threshold modes accepted in Args.ThresholdMode. Zero disables thresholds.
const (
	ThresholdModeNone       = 0
	ThresholdModeAbsolute   = 1
	ThresholdModePercentage = 2
)

// Result is the outcome of converting a single report file.
type Result struct {
	File    string
	Output  string
	Format  string
	Summary ctrf.Summary
}
