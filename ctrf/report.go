// Package ctrf holds the Common Test Report Format output schema and the
// helpers shared by the report converters.
package ctrf

// Status is the normalized state of a single test.
type Status string

const (
	StatusPassed  Status = "passed"
	StatusFailed  Status = "failed"
	StatusSkipped Status = "skipped"
	StatusPending Status = "pending"
	StatusOther   Status = "other"
)

// Report is the root of a CTRF document.
type Report struct {
	Results Results `json:"results"`
}

// Results carries everything the converters produce.
type Results struct {
	Tool        Tool              `json:"tool"`
	Summary     Summary           `json:"summary"`
	Tests       []Test            `json:"tests"`
	Environment map[string]string `json:"environment,omitempty"`
}

// Tool names the producer of the original report.
type Tool struct {
	Name string `json:"name"`
}

// Summary holds test counts per status and the run boundaries in Unix
// milliseconds.
type Summary struct {
	Tests   int   `json:"tests"`
	Passed  int   `json:"passed"`
	Failed  int   `json:"failed"`
	Pending int   `json:"pending"`
	Skipped int   `json:"skipped"`
	Other   int   `json:"other"`
	Start   int64 `json:"start"`
	Stop    int64 `json:"stop"`
}

// Test is a single normalized test result. Message and Trace are only set on
// failed tests.
type Test struct {
	Name     string `json:"name"`
	Status   Status `json:"status"`
	Duration int64  `json:"duration"`
	Start    int64  `json:"start,omitempty"`
	Stop     int64  `json:"stop,omitempty"`
	Message  string `json:"message,omitempty"`
	Trace    string `json:"trace,omitempty"`
}

// Options are the caller supplied parts of a report.
type Options struct {
	ToolName    string
	Environment map[string]string
}

// ToolOr returns the configured tool name, or def when none was given.
func (o Options) ToolOr(def string) string {
	if o.ToolName != "" {
		return o.ToolName
	}
	return def
}

// NewReport assembles a report. An empty environment is left out of the
// document.
func NewReport(tool string, summary Summary, tests []Test, env map[string]string) *Report {
	if tests == nil {
		tests = []Test{}
	}
	if len(env) == 0 {
		env = nil
	}
	return &Report{
		Results: Results{
			Tool:        Tool{Name: tool},
			Summary:     summary,
			Tests:       tests,
			Environment: env,
		},
	}
}

// Tally counts tests by status. Start and Stop are left at zero.
func Tally(tests []Test) Summary {
	s := Summary{Tests: len(tests)}
	for _, t := range tests {
		switch t.Status {
		case StatusPassed:
			s.Passed++
		case StatusFailed:
			s.Failed++
		case StatusSkipped:
			s.Skipped++
		case StatusPending:
			s.Pending++
		default:
			s.Other++
		}
	}
	return s
}

// Add returns the element-wise sum of two summaries. The run boundaries
// span both.
func (s Summary) Add(o Summary) Summary {
	sum := Summary{
		Tests:   s.Tests + o.Tests,
		Passed:  s.Passed + o.Passed,
		Failed:  s.Failed + o.Failed,
		Pending: s.Pending + o.Pending,
		Skipped: s.Skipped + o.Skipped,
		Other:   s.Other + o.Other,
		Start:   s.Start,
		Stop:    s.Stop,
	}
	if sum.Start == 0 || (o.Start != 0 && o.Start < sum.Start) {
		sum.Start = o.Start
	}
	if o.Stop > sum.Stop {
		sum.Stop = o.Stop
	}
	return sum
}
