package plugin

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/drone/drone-ctrf/ctrf"
	"github.com/drone/drone-ctrf/junit"
	"github.com/drone/drone-ctrf/testng"
	"github.com/drone/drone-ctrf/xmltree"
)

// Args represents the plugin's configurable arguments.
type Args struct {
	ReportFilenamePattern string   `envconfig:"PLUGIN_REPORT_FILENAME_PATTERN"`
	ReportFormat          string   `envconfig:"PLUGIN_REPORT_FORMAT"`
	OutputPath            string   `envconfig:"PLUGIN_OUTPUT_PATH"`
	ToolName              string   `envconfig:"PLUGIN_TOOL_NAME"`
	Environment           []string `envconfig:"PLUGIN_ENVIRONMENT"`
	EnvironmentFile       string   `envconfig:"PLUGIN_ENVIRONMENT_FILE"`
	FailedFails           int      `envconfig:"PLUGIN_FAILED_FAILS"`
	FailedSkips           int      `envconfig:"PLUGIN_FAILED_SKIPS"`
	UnstableFails         int      `envconfig:"PLUGIN_UNSTABLE_FAILS"`
	UnstableSkips         int      `envconfig:"PLUGIN_UNSTABLE_SKIPS"`
	JobStatus             string   `envconfig:"PLUGIN_JOB_STATUS"`
	ThresholdMode         int      `envconfig:"PLUGIN_THRESHOLD_MODE"`
	FailIfNoResults       bool     `envconfig:"PLUGIN_FAIL_IF_NO_RESULTS"`
	Level                 string   `envconfig:"PLUGIN_LOG_LEVEL"`
}

// ValidateInputs ensures the user inputs meet the plugin requirements.
func ValidateInputs(args Args) error {
	if args.ReportFilenamePattern == "" {
		return errors.New("missing required parameter: ReportFilenamePattern. Please specify the pattern to locate the TestNG or JUnit report files")
	}
	switch strings.ToLower(args.ReportFormat) {
	case "", FormatTestNG, FormatJUnit:
	default:
		return fmt.Errorf("invalid ReportFormat %q. It must be %q, %q or empty for auto-detection", args.ReportFormat, FormatTestNG, FormatJUnit)
	}
	if args.FailedFails < 0 || args.FailedSkips < 0 || args.UnstableFails < 0 || args.UnstableSkips < 0 {
		return errors.New("threshold values must be non-negative. Check the configured values for failed and skipped tests")
	}
	switch args.ThresholdMode {
	case ThresholdModeNone, ThresholdModeAbsolute, ThresholdModePercentage:
	default:
		return errors.New("invalid ThresholdMode value. It must be 0 (disabled), 1 (absolute) or 2 (percentage). Check the configuration")
	}
	return nil
}

// Exec converts every report matching the pattern to CTRF, writes the
// results and validates the configured thresholds against their totals.
func Exec(ctx context.Context, args Args) error {
	files, err := locateFiles(args.ReportFilenamePattern)
	if err != nil {
		logrus.WithError(err).Error("Error locating files")
		return errors.New("failed to locate files: " + err.Error())
	}

	if len(files) == 0 {
		if args.FailIfNoResults {
			return errors.New("no report files found. Check the report file pattern")
		}
		logrus.Warn("No report files found, continuing execution as FailIfNoResults is false")
		return nil
	}

	opts, err := reportOptions(args)
	if err != nil {
		logrus.WithError(err).Error("Error loading environment properties")
		return err
	}

	outputs, err := outputPaths(args.OutputPath, files)
	if err != nil {
		return err
	}

	var total ctrf.Summary
	for i, file := range files {
		result, err := processFile(file, outputs[i], args.ReportFormat, opts)
		if err != nil {
			logrus.WithField("File", file).WithError(err).Error("Error processing file")
			return errors.New("failed to process file: " + err.Error())
		}
		total = total.Add(result.Summary)
	}

	logrus.WithFields(summaryFields(total)).Infof("Converted %d report(s)", len(files))

	if err := validateThresholds(total, args); err != nil {
		logrus.WithFields(summaryFields(total)).Error(err.Error())
		return err
	}
	return nil
}

// locateFiles identifies files matching the given pattern.
func locateFiles(pattern string) ([]string, error) {
	matches, err := filepath.Glob(pattern)
	if err != nil {
		logrus.WithError(err).WithField("Pattern", pattern).Error("Error occurred while searching for files")
		return nil, errors.New("failed to search for files: " + err.Error())
	}
	return matches, nil
}

// outputPaths picks the destination of each report. A single report goes to
// the configured path; several reports are written next to it, one file per
// report named after its source.
func outputPaths(output string, files []string) ([]string, error) {
	resolved, err := ctrf.ResolveOutputPath(output)
	if err != nil {
		return nil, err
	}
	if len(files) == 1 {
		return []string{resolved}, nil
	}

	dir := filepath.Dir(resolved)
	seen := make(map[string]int, len(files))
	paths := make([]string, 0, len(files))
	for _, file := range files {
		base := strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
		seen[base]++
		if n := seen[base]; n > 1 {
			base = fmt.Sprintf("%s-%d", base, n)
		}
		paths = append(paths, filepath.Join(dir, base+".json"))
	}
	return paths, nil
}

func reportOptions(args Args) (ctrf.Options, error) {
	env := ctrf.ParseEnvironment(args.Environment, logrus.StandardLogger())
	if args.EnvironmentFile != "" {
		var err error
		if env, err = ctrf.LoadEnvironmentFile(args.EnvironmentFile, env); err != nil {
			return ctrf.Options{}, err
		}
	}
	return ctrf.Options{ToolName: args.ToolName, Environment: env}, nil
}

// processFile converts a single report and writes it to output.
func processFile(file, output, format string, opts ctrf.Options) (Result, error) {
	logrus.Infof("Processing file: %s", file)

	root, err := xmltree.Load(file)
	if err != nil {
		return Result{}, err
	}
	if format == "" {
		if format, err = detectFormat(root); err != nil {
			return Result{}, err
		}
	}

	log := logrus.WithField("File", file)
	var report *ctrf.Report
	switch strings.ToLower(format) {
	case FormatTestNG:
		report, _, err = testng.ConvertTree(root, opts, log)
	case FormatJUnit:
		report, _, err = junit.ConvertTree(root, opts, log)
	default:
		err = fmt.Errorf("unsupported report format %q", format)
	}
	if err != nil {
		return Result{}, err
	}

	if err := ctrf.Write(output, report); err != nil {
		return Result{}, err
	}

	s := report.Results.Summary
	logrus.WithFields(summaryFields(s)).Infof("Wrote %s", output)
	return Result{File: file, Output: output, Format: strings.ToLower(format), Summary: s}, nil
}

// detectFormat infers the report format from its root element.
func detectFormat(root *xmltree.Node) (string, error) {
	switch root.Name() {
	case "testng-results":
		return FormatTestNG, nil
	case "testsuites":
		return FormatJUnit, nil
	default:
		return "", fmt.Errorf("unable to detect report format from root element <%s>", root.Name())
	}
}

func summaryFields(s ctrf.Summary) logrus.Fields {
	return logrus.Fields{
		"Tests":   s.Tests,
		"Passed":  s.Passed,
		"Failed":  s.Failed,
		"Skipped": s.Skipped,
		"Pending": s.Pending,
		"Other":   s.Other,
	}
}
