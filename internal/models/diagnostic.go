package models

import "strings"

// Severity classifies a static-analysis finding.
type Severity string

const (
	SeverityError   Severity = "Error"
	SeverityWarning Severity = "Warning"
	SeverityInfo    Severity = "Info"
)

// ParseSeverity maps a tool-reported severity onto the three known kinds.
// The second return value is false for anything else, and such findings
// are dropped by callers.
func ParseSeverity(s string) (Severity, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "error":
		return SeverityError, true
	case "warning":
		return SeverityWarning, true
	case "info":
		return SeverityInfo, true
	default:
		return "", false
	}
}

// Diagnostic is one static-analysis finding.
type Diagnostic struct {
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
}

// DiagnosticCounts tallies diagnostics per severity.
type DiagnosticCounts struct {
	Errors   int `json:"errors"`
	Warnings int `json:"warnings"`
	Infos    int `json:"infos"`
}

// CountDiagnostics tallies diags per severity.
func CountDiagnostics(diags []Diagnostic) DiagnosticCounts {
	var c DiagnosticCounts
	for _, d := range diags {
		switch d.Severity {
		case SeverityError:
			c.Errors++
		case SeverityWarning:
			c.Warnings++
		case SeverityInfo:
			c.Infos++
		}
	}
	return c
}
