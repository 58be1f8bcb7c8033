package testng

import "github.com/drone/drone-ctrf/ctrf"

// DefaultToolName is the tool name used when the caller gives none.
const DefaultToolName = "TestNG"

// Map converts an extraction into a CTRF report. Summary counts are the
// totals TestNG reported, with "ignored" counted as other.
func Map(ext *Extraction, opts ctrf.Options) *ctrf.Report {
	tests := make([]ctrf.Test, 0, len(ext.Cases))
	for _, tc := range ext.Cases {
		tests = append(tests, mapCase(tc))
	}

	summary := ctrf.Summary{
		Tests:   ext.Summary.Total,
		Passed:  ext.Summary.Passed,
		Failed:  ext.Summary.Failed,
		Skipped: ext.Summary.Skipped,
		Other:   ext.Summary.Ignored,
		Start:   ext.Summary.Start,
		Stop:    ext.Summary.End,
	}
	return ctrf.NewReport(opts.ToolOr(DefaultToolName), summary, tests, opts.Environment)
}

// MapStatus maps a lower-cased TestNG status onto the CTRF states.
func MapStatus(status string) ctrf.Status {
	switch status {
	case "pass":
		return ctrf.StatusPassed
	case "fail":
		return ctrf.StatusFailed
	case "skip":
		return ctrf.StatusSkipped
	default:
		return ctrf.StatusOther
	}
}

func mapCase(tc Case) ctrf.Test {
	t := ctrf.Test{
		Name:     tc.Name,
		Status:   MapStatus(tc.Status),
		Duration: tc.DurationMS,
	}
	if tc.Start != nil {
		t.Start = *tc.Start
	}
	if tc.End != nil {
		t.Stop = *tc.End
	}
	if t.Status == ctrf.StatusFailed {
		if tc.Message != nil {
			t.Message = *tc.Message
		}
		if tc.Trace != nil {
			t.Trace = *tc.Trace
		}
	}
	return t
}
