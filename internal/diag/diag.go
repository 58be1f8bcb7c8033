// Package diag collects the non-fatal problems found while extracting a
// report. Every diagnostic is logged and kept so callers can inspect them.
package diag

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// Kind classifies a non-fatal problem.
type Kind string

const (
	// FieldDefault means a missing or unparsable value was replaced by a default.
	FieldDefault Kind = "field-default"
	// CaseDropped means a single test case could not be processed and was left out.
	CaseDropped Kind = "case-dropped"
)

// Diagnostic is one recorded problem.
type Diagnostic struct {
	Kind    Kind
	Level   logrus.Level
	Element string
	Field   string
	Message string
}

// Collector logs and accumulates diagnostics.
type Collector struct {
	log     logrus.FieldLogger
	entries []Diagnostic
}

// NewCollector returns a Collector writing to log. A nil log falls back to
// the standard logrus logger.
func NewCollector(log logrus.FieldLogger) *Collector {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Collector{log: log}
}

// Logger returns the logger diagnostics are written to.
func (c *Collector) Logger() logrus.FieldLogger {
	return c.log
}

// Default records a FieldDefault diagnostic at warning level.
func (c *Collector) Default(element, field, format string, args ...any) {
	c.record(Diagnostic{
		Kind:    FieldDefault,
		Level:   logrus.WarnLevel,
		Element: element,
		Field:   field,
		Message: fmt.Sprintf(format, args...),
	})
}

// DefaultError records a FieldDefault diagnostic at error level.
func (c *Collector) DefaultError(element, field, format string, args ...any) {
	c.record(Diagnostic{
		Kind:    FieldDefault,
		Level:   logrus.ErrorLevel,
		Element: element,
		Field:   field,
		Message: fmt.Sprintf(format, args...),
	})
}

// Drop records that the element could not be processed because of err.
func (c *Collector) Drop(element string, err error) {
	c.record(Diagnostic{
		Kind:    CaseDropped,
		Level:   logrus.WarnLevel,
		Element: element,
		Message: err.Error(),
	})
}

// Entries returns every diagnostic recorded so far.
func (c *Collector) Entries() []Diagnostic {
	return c.entries
}

func (c *Collector) record(d Diagnostic) {
	c.entries = append(c.entries, d)

	logger := c.log.WithField("Kind", string(d.Kind))
	if d.Element != "" {
		logger = logger.WithField("Element", d.Element)
	}
	if d.Field != "" {
		logger = logger.WithField("Field", d.Field)
	}
	switch d.Level {
	case logrus.ErrorLevel:
		logger.Error(d.Message)
	default:
		logger.Warn(d.Message)
	}
}
