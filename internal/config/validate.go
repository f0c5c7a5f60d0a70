package config

import "strings"

// FormatErrors folds a parse's accumulated errors into a single
// multi-line report, logged and emitted as one notification rather
// than one message per error.
func FormatErrors(errs []error) string {
	if len(errs) == 0 {
		return ""
	}
	lines := make([]string, 0, len(errs)+1)
	lines = append(lines, "configuration errors:")
	for _, err := range errs {
		lines = append(lines, "  - "+err.Error())
	}
	return strings.Join(lines, "\n")
}
