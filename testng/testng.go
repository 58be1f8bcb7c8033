// Package testng converts TestNG XML reports (testng-results.xml) into CTRF.
package testng

import (
	"github.com/sirupsen/logrus"

	"github.com/drone/drone-ctrf/ctrf"
	"github.com/drone/drone-ctrf/internal/diag"
	"github.com/drone/drone-ctrf/xmltree"
)

// Convert loads the TestNG report at path and maps it to CTRF. The returned
// diagnostics list every non-fatal problem met on the way.
func Convert(path string, opts ctrf.Options, log logrus.FieldLogger) (*ctrf.Report, []diag.Diagnostic, error) {
	root, err := xmltree.Load(path)
	if err != nil {
		return nil, nil, err
	}
	return ConvertTree(root, opts, log)
}

// ConvertTree maps an already parsed TestNG report to CTRF.
func ConvertTree(root *xmltree.Node, opts ctrf.Options, log logrus.FieldLogger) (*ctrf.Report, []diag.Diagnostic, error) {
	ext, err := Extract(root, log)
	if err != nil {
		return nil, nil, err
	}
	return Map(ext, opts), ext.Diagnostics, nil
}
