package ctrf

import (
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
)

// RenderSummary prints the summary counts of a report as a table.
func RenderSummary(w io.Writer, report *Report) {
	s := report.Results.Summary

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Tool", "Tests", "Passed", "Failed", "Skipped", "Pending", "Other"})
	table.SetAutoFormatHeaders(false)
	table.Append([]string{
		report.Results.Tool.Name,
		strconv.Itoa(s.Tests),
		strconv.Itoa(s.Passed),
		strconv.Itoa(s.Failed),
		strconv.Itoa(s.Skipped),
		strconv.Itoa(s.Pending),
		strconv.Itoa(s.Other),
	})
	table.Render()
}
