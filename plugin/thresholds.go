package plugin

import (
	"fmt"
	"strings"

	"github.com/drone/drone-ctrf/ctrf"
)

// validateThresholds checks the aggregate summary against the configured
// failure and skip limits. The unstable limits only apply when the job has
// already been marked as failed.
func validateThresholds(s ctrf.Summary, args Args) error {
	switch args.ThresholdMode {
	case ThresholdModeNone:
		return nil
	case ThresholdModeAbsolute:
		if err := checkAbsolute(s, args.FailedFails, args.FailedSkips, ""); err != nil {
			return fmt.Errorf("absolute threshold validation failed: %w", err)
		}
		if strings.EqualFold(args.JobStatus, "failed") {
			if err := checkAbsolute(s, args.UnstableFails, args.UnstableSkips, "unstable "); err != nil {
				return fmt.Errorf("build marked as failed: %w", err)
			}
		}
	case ThresholdModePercentage:
		if err := checkPercentage(s, args.FailedFails, args.FailedSkips, ""); err != nil {
			return fmt.Errorf("percentage threshold validation failed: %w", err)
		}
		if strings.EqualFold(args.JobStatus, "failed") {
			if err := checkPercentage(s, args.UnstableFails, args.UnstableSkips, "unstable "); err != nil {
				return fmt.Errorf("build marked as failed: %w", err)
			}
		}
	default:
		return fmt.Errorf("invalid ThresholdMode: %d, expected 0 (disabled), 1 (absolute) or 2 (percentage)", args.ThresholdMode)
	}
	return nil
}

// checkAbsolute compares raw counts. A zero limit is not enforced.
func checkAbsolute(s ctrf.Summary, fails, skips int, kind string) error {
	if fails > 0 && s.Failed > fails {
		return fmt.Errorf("number of failed tests (%d) exceeded the %sfailure threshold (%d)", s.Failed, kind, fails)
	}
	if skips > 0 && s.Skipped > skips {
		return fmt.Errorf("number of skipped tests (%d) exceeded the %sskip threshold (%d)", s.Skipped, kind, skips)
	}
	return nil
}

// checkPercentage compares rates against the total number of tests.
func checkPercentage(s ctrf.Summary, fails, skips int, kind string) error {
	if s.Tests == 0 {
		return nil
	}

	failureRate := float64(s.Failed) / float64(s.Tests) * 100
	skipRate := float64(s.Skipped) / float64(s.Tests) * 100

	if fails > 0 && failureRate > float64(fails) {
		return fmt.Errorf("failure rate (%.2f%%) exceeded the %sthreshold (%.2f%%)", failureRate, kind, float64(fails))
	}
	if skips > 0 && skipRate > float64(skips) {
		return fmt.Errorf("skip rate (%.2f%%) exceeded the %sthreshold (%.2f%%)", skipRate, kind, float64(skips))
	}
	return nil
}
