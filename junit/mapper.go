package junit

import "github.com/drone/drone-ctrf/ctrf"

// DefaultToolName is the tool name used when the caller gives none.
const DefaultToolName = "junit-to-ctrf"

// Map converts an extraction into a CTRF report. Summary counts are tallied
// from the mapped tests; JUnit has no suite level timing, so start and stop
// stay at zero.
func Map(ext *Extraction, opts ctrf.Options) *ctrf.Report {
	tests := make([]ctrf.Test, 0, len(ext.Cases))
	for _, tc := range ext.Cases {
		tests = append(tests, mapCase(tc))
	}
	return ctrf.NewReport(opts.ToolOr(DefaultToolName), ctrf.Tally(tests), tests, opts.Environment)
}

// MapStatus derives the CTRF status of a testcase from its child elements.
// A failure or error wins over a skipped marker.
func MapStatus(tc Case) ctrf.Status {
	switch {
	case tc.Failed:
		return ctrf.StatusFailed
	case tc.Skipped:
		return ctrf.StatusSkipped
	default:
		return ctrf.StatusPassed
	}
}

func mapCase(tc Case) ctrf.Test {
	t := ctrf.Test{
		Name:     tc.Suite + ": " + tc.Name,
		Status:   MapStatus(tc),
		Duration: tc.DurationMS,
	}
	if t.Status == ctrf.StatusFailed && tc.Message != nil {
		t.Message = *tc.Message
	}
	return t
}
