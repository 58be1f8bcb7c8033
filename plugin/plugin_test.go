package plugin

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/sirupsen/logrus"

	"github.com/drone/drone-ctrf/ctrf"
)

// LogEntry captures a single log entry.
type LogEntry struct {
	Level   logrus.Level
	Message string
	Fields  logrus.Fields
}

// MockLogHook is a hook to capture log entries.
type MockLogHook struct {
	Entries []LogEntry
}

// Fire is called for each log entry.
func (hook *MockLogHook) Fire(entry *logrus.Entry) error {
	hook.Entries = append(hook.Entries, LogEntry{
		Level:   entry.Level,
		Message: entry.Message,
		Fields:  entry.Data,
	})
	return nil
}

// Levels returns the log levels supported by the hook.
func (hook *MockLogHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

// NewMockLogHook creates a new instance of MockLogHook.
func NewMockLogHook() *MockLogHook {
	return &MockLogHook{}
}

func copyFixture(t *testing.T, dir, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("..", "testdata", name))
	if err != nil {
		t.Fatalf("failed to read fixture %s: %v", name, err)
	}
	dst := filepath.Join(dir, name)
	if err := os.WriteFile(dst, data, 0o600); err != nil {
		t.Fatalf("failed to copy fixture %s: %v", name, err)
	}
	return dst
}

func readReport(t *testing.T, path string) ctrf.Report {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read report %s: %v", path, err)
	}
	var report ctrf.Report
	if err := json.Unmarshal(data, &report); err != nil {
		t.Fatalf("failed to decode report %s: %v", path, err)
	}
	return report
}

func TestLocateFiles(t *testing.T) {
	tests := []struct {
		name     string
		pattern  string
		expected []string
		err      string
	}{
		{
			name:    "ValidPatternWithFiles",
			pattern: "../testdata/*.xml",
			expected: []string{
				filepath.FromSlash("../testdata/invalid-suite.xml"),
				filepath.FromSlash("../testdata/invalid.xml"),
				filepath.FromSlash("../testdata/junit-report.xml"),
				filepath.FromSlash("../testdata/junit-single-suite.xml"),
				filepath.FromSlash("../testdata/testng-report.xml"),
			},
		},
		{
			name:     "NoFilesMatchPattern",
			pattern:  "../testdata/*.log",
			expected: nil,
		},
		{
			name:     "InvalidPattern",
			pattern:  "[invalidpattern",
			expected: nil,
			err:      "failed to search for files",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result, err := locateFiles(tc.pattern)

			sort.Strings(result)
			sort.Strings(tc.expected)

			if diff := cmp.Diff(tc.expected, result); diff != "" {
				t.Errorf("locateFiles() mismatch (-want +got):\n%s", diff)
			}

			if tc.err != "" {
				if err == nil || !strings.Contains(err.Error(), tc.err) {
					t.Errorf("locateFiles() expected error %v, got %v", tc.err, err)
				}
			} else if err != nil {
				t.Errorf("locateFiles() unexpected error: %v", err)
			}
		})
	}
}

// TestProcessFile tests the processFile function with various cases
func TestProcessFile(t *testing.T) {
	tests := []struct {
		name      string
		filePath  string
		format    string
		expected  Result
		expectErr bool
		errMsg    string
	}{
		{
			name:     "DetectedTestNGReport",
			filePath: "../testdata/testng-report.xml",
			expected: Result{
				Format:  FormatTestNG,
				Summary: ctrf.Summary{Tests: 5, Passed: 3, Failed: 1, Skipped: 1, Start: 1704103200000, Stop: 1704103210000},
			},
		},
		{
			name:     "DetectedJUnitReport",
			filePath: "../testdata/junit-report.xml",
			expected: Result{
				Format:  FormatJUnit,
				Summary: ctrf.Summary{Tests: 5, Passed: 2, Failed: 2, Skipped: 1},
			},
		},
		{
			name:      "ForcedFormatMismatch",
			filePath:  "../testdata/junit-report.xml",
			format:    "TestNG",
			expectErr: true,
			errMsg:    "missing testng-results",
		},
		{
			name:      "NonExistentFile",
			filePath:  "../testdata/nonexistent.xml",
			expectErr: true,
			errMsg:    "failed to read file",
		},
		{
			name:      "InvalidXMLFile",
			filePath:  "../testdata/invalid.xml",
			expectErr: true,
			errMsg:    "failed to parse XML",
		},
		{
			name:      "IncorrectXMLStructure",
			filePath:  "../testdata/invalid-suite.xml",
			expectErr: true,
			errMsg:    "missing suite",
		},
		{
			name:      "UnknownRoot",
			filePath:  "../testdata/junit-single-suite.xml",
			expectErr: true,
			errMsg:    "unable to detect report format",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			output := filepath.Join(t.TempDir(), "out", "report.json")
			result, err := processFile(tc.filePath, output, tc.format, ctrf.Options{})

			if tc.expectErr {
				if err == nil || !strings.Contains(err.Error(), tc.errMsg) {
					t.Errorf("processFile() expected error %q but got %v", tc.errMsg, err)
				}
				if _, statErr := os.Stat(output); !os.IsNotExist(statErr) {
					t.Errorf("processFile() wrote %s despite failing", output)
				}
				return
			}
			if err != nil {
				t.Fatalf("processFile() unexpected error: %v", err)
			}

			tc.expected.File = tc.filePath
			tc.expected.Output = output
			if diff := cmp.Diff(tc.expected, result); diff != "" {
				t.Errorf("processFile() mismatch (-want +got):\n%s", diff)
			}

			report := readReport(t, output)
			if diff := cmp.Diff(tc.expected.Summary, report.Results.Summary); diff != "" {
				t.Errorf("written summary mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

// TestValidateInputs tests the ValidateInputs function with various cases
func TestValidateInputs(t *testing.T) {
	tests := []struct {
		name      string
		args      Args
		expectErr bool
		errMsg    string
	}{
		{
			name: "ValidInputs",
			args: Args{
				ReportFilenamePattern: "testdata/*.xml",
				FailedFails:           1,
				ThresholdMode:         ThresholdModeAbsolute,
			},
		},
		{
			name: "ThresholdsDisabled",
			args: Args{ReportFilenamePattern: "testdata/*.xml", ReportFormat: "JUnit"},
		},
		{
			name:      "MissingReportFilenamePattern",
			args:      Args{FailedFails: 1, ThresholdMode: ThresholdModeAbsolute},
			expectErr: true,
			errMsg:    "missing required parameter",
		},
		{
			name:      "InvalidThresholdMode",
			args:      Args{ReportFilenamePattern: "testdata/*.xml", ThresholdMode: 3},
			expectErr: true,
			errMsg:    "invalid ThresholdMode",
		},
		{
			name:      "InvalidReportFormat",
			args:      Args{ReportFilenamePattern: "testdata/*.xml", ReportFormat: "nunit"},
			expectErr: true,
			errMsg:    "invalid ReportFormat",
		},
		{
			name:      "NegativeThreshold",
			args:      Args{ReportFilenamePattern: "testdata/*.xml", UnstableSkips: -1, ThresholdMode: ThresholdModePercentage},
			expectErr: true,
			errMsg:    "must be non-negative",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateInputs(tc.args)
			if tc.expectErr {
				if err == nil || !strings.Contains(err.Error(), tc.errMsg) {
					t.Errorf("ValidateInputs() expected error %q, got %v", tc.errMsg, err)
				}
			} else if err != nil {
				t.Errorf("ValidateInputs() unexpected error: %v", err)
			}
		})
	}
}

func TestValidateThresholds(t *testing.T) {
	summary := ctrf.Summary{Tests: 10, Passed: 6, Failed: 3, Skipped: 1}

	tests := []struct {
		name   string
		args   Args
		errMsg string
	}{
		{name: "Disabled", args: Args{FailedFails: 1}},
		{name: "AbsoluteWithinLimits", args: Args{ThresholdMode: ThresholdModeAbsolute, FailedFails: 3, FailedSkips: 1}},
		{name: "AbsoluteFailsExceeded", args: Args{ThresholdMode: ThresholdModeAbsolute, FailedFails: 2}, errMsg: "number of failed tests (3) exceeded the failure threshold (2)"},
		{name: "AbsoluteZeroLimitsNotEnforced", args: Args{ThresholdMode: ThresholdModeAbsolute}},
		{name: "PercentageWithinLimits", args: Args{ThresholdMode: ThresholdModePercentage, FailedFails: 30, FailedSkips: 10}},
		{name: "PercentageSkipsExceeded", args: Args{ThresholdMode: ThresholdModePercentage, FailedSkips: 5}, errMsg: "skip rate (10.00%) exceeded the threshold (5.00%)"},
		{name: "UnstableIgnoredWhileJobPasses", args: Args{ThresholdMode: ThresholdModeAbsolute, UnstableFails: 1}},
		{name: "UnstableAppliedWhenJobFailed", args: Args{ThresholdMode: ThresholdModeAbsolute, UnstableFails: 1, JobStatus: "FAILED"}, errMsg: "build marked as failed"},
		{name: "UnstablePercentage", args: Args{ThresholdMode: ThresholdModePercentage, UnstableFails: 20, JobStatus: "failed"}, errMsg: "unstable threshold"},
		{name: "InvalidMode", args: Args{ThresholdMode: 9}, errMsg: "invalid ThresholdMode"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := validateThresholds(summary, tc.args)
			if tc.errMsg == "" {
				if err != nil {
					t.Errorf("validateThresholds() unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tc.errMsg) {
				t.Errorf("validateThresholds() expected error %q, got %v", tc.errMsg, err)
			}
		})
	}

	if err := validateThresholds(ctrf.Summary{}, Args{ThresholdMode: ThresholdModePercentage, FailedFails: 1}); err != nil {
		t.Errorf("validateThresholds() with no tests should pass, got %v", err)
	}
}

func TestOutputPaths(t *testing.T) {
	dir := t.TempDir()
	output := filepath.Join(dir, "ctrf", "ctrf-report.json")

	single, err := outputPaths(output, []string{"a/testng-results.xml"})
	if err != nil {
		t.Fatalf("outputPaths() unexpected error: %v", err)
	}
	if diff := cmp.Diff([]string{output}, single); diff != "" {
		t.Errorf("outputPaths() single mismatch (-want +got):\n%s", diff)
	}

	many, err := outputPaths(output, []string{"a/TEST-one.xml", "b/TEST-one.xml", "c/two.xml"})
	if err != nil {
		t.Fatalf("outputPaths() unexpected error: %v", err)
	}
	expected := []string{
		filepath.Join(dir, "ctrf", "TEST-one.json"),
		filepath.Join(dir, "ctrf", "TEST-one-2.json"),
		filepath.Join(dir, "ctrf", "two.json"),
	}
	if diff := cmp.Diff(expected, many); diff != "" {
		t.Errorf("outputPaths() many mismatch (-want +got):\n%s", diff)
	}
}

func TestExec(t *testing.T) {
	dir := t.TempDir()
	copyFixture(t, dir, "testng-report.xml")
	envFile := filepath.Join(dir, "build.env")
	if err := os.WriteFile(envFile, []byte("BUILD_NUMBER=42\nBRANCH=dev\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	output := filepath.Join(dir, "ctrf", "ctrf-report.json")

	args := Args{
		ReportFilenamePattern: filepath.Join(dir, "*.xml"),
		OutputPath:            output,
		ToolName:              "testng-7",
		Environment:           []string{"BRANCH=main"},
		EnvironmentFile:       envFile,
		FailedFails:           1,
		ThresholdMode:         ThresholdModeAbsolute,
	}

	if err := Exec(context.Background(), args); err != nil {
		t.Fatalf("Exec() unexpected error: %v", err)
	}

	report := readReport(t, output)
	if report.Results.Tool.Name != "testng-7" {
		t.Errorf("Tool name = %q, want testng-7", report.Results.Tool.Name)
	}
	expectedEnv := map[string]string{"BRANCH": "main", "BUILD_NUMBER": "42"}
	if diff := cmp.Diff(expectedEnv, report.Results.Environment); diff != "" {
		t.Errorf("Environment mismatch (-want +got):\n%s", diff)
	}
	if len(report.Results.Tests) != 5 {
		t.Errorf("expected 5 tests, got %d", len(report.Results.Tests))
	}
}

func TestExecMultipleReports(t *testing.T) {
	dir := t.TempDir()
	copyFixture(t, dir, "testng-report.xml")
	copyFixture(t, dir, "junit-report.xml")

	hook := NewMockLogHook()
	prevHooks := logrus.StandardLogger().ReplaceHooks(make(logrus.LevelHooks))
	t.Cleanup(func() { logrus.StandardLogger().ReplaceHooks(prevHooks) })
	logrus.AddHook(hook)

	args := Args{
		ReportFilenamePattern: filepath.Join(dir, "*.xml"),
		OutputPath:            filepath.Join(dir, "out", "ctrf-report.json"),
		FailedFails:           3,
		ThresholdMode:         ThresholdModeAbsolute,
	}
	if err := Exec(context.Background(), args); err != nil {
		t.Fatalf("Exec() unexpected error: %v", err)
	}

	junitReport := readReport(t, filepath.Join(dir, "out", "junit-report.json"))
	testngReport := readReport(t, filepath.Join(dir, "out", "testng-report.json"))
	if junitReport.Results.Tool.Name != "junit-to-ctrf" || testngReport.Results.Tool.Name != "TestNG" {
		t.Errorf("unexpected tool names %q and %q", junitReport.Results.Tool.Name, testngReport.Results.Tool.Name)
	}

	var found bool
	for _, entry := range hook.Entries {
		if entry.Message == "Converted 2 report(s)" {
			found = true
			if entry.Fields["Failed"] != 3 || entry.Fields["Tests"] != 10 {
				t.Errorf("unexpected aggregate fields: %v", entry.Fields)
			}
		}
	}
	if !found {
		t.Error("expected an aggregate summary log entry")
	}

	args.FailedFails = 2
	if err := Exec(context.Background(), args); err == nil || !strings.Contains(err.Error(), "exceeded the failure threshold") {
		t.Errorf("Exec() expected threshold failure, got %v", err)
	}
}

func TestExecNoFiles(t *testing.T) {
	args := Args{ReportFilenamePattern: filepath.Join(t.TempDir(), "*.xml")}

	if err := Exec(context.Background(), args); err != nil {
		t.Errorf("Exec() unexpected error without FailIfNoResults: %v", err)
	}

	args.FailIfNoResults = true
	if err := Exec(context.Background(), args); err == nil || !strings.Contains(err.Error(), "no report files found") {
		t.Errorf("Exec() expected missing files error, got %v", err)
	}
}

func TestExecRejectsMissingRoot(t *testing.T) {
	dir := t.TempDir()
	copyFixture(t, dir, "junit-report.xml")
	output := filepath.Join(dir, "ctrf", "ctrf-report.json")

	args := Args{
		ReportFilenamePattern: filepath.Join(dir, "*.xml"),
		ReportFormat:          FormatTestNG,
		OutputPath:            output,
	}
	err := Exec(context.Background(), args)
	if err == nil || !strings.Contains(err.Error(), "missing testng-results") {
		t.Fatalf("Exec() expected missing root error, got %v", err)
	}
	if _, statErr := os.Stat(output); !os.IsNotExist(statErr) {
		t.Errorf("Exec() wrote %s despite failing", output)
	}
}
