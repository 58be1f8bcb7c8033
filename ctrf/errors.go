package ctrf

import "fmt"

// MalformedReportError reports well-formed XML that lacks a structurally
// required element.
type MalformedReportError struct {
	Format string
	Reason string
}

func (e *MalformedReportError) Error() string {
	return fmt.Sprintf("malformed %s report: %s", e.Format, e.Reason)
}
