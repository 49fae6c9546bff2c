package toolchain

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/thomas-vilte/repocheck/internal/models"
	"github.com/thomas-vilte/repocheck/internal/regex"
)

// Lines splits output on CR and LF and drops empty lines.
func Lines(output string) []string {
	return strings.FieldsFunc(output, func(r rune) bool {
		return r == '\n' || r == '\r'
	})
}

// SectionAfter returns the first capture group of marker matched against
// output, or "" when the marker is absent.
func SectionAfter(marker *regexp.Regexp, output string) string {
	m := marker.FindStringSubmatch(output)
	if len(m) < 2 {
		return ""
	}
	return m[1]
}

// ParseDurationMs reads values such as "< 1 ms", "12.5 ms" or "15".
// Unparsable input yields 0.
func ParseDurationMs(s string) float64 {
	clean := strings.TrimSpace(strings.ReplaceAll(strings.ReplaceAll(s, "<", ""), " ms", ""))
	v, err := strconv.ParseFloat(clean, 64)
	if err != nil || v < 0 {
		return 0
	}
	return v
}

// ParseOutcomes matches every line of section against the passed pattern,
// then the failed one. Both patterns must expose a "name" group; a "time"
// group is optional. Unmatched lines produce nothing.
func ParseOutcomes(section string, passed, failed *regexp.Regexp) []models.TestOutcome {
	var outcomes []models.TestOutcome
	for _, line := range Lines(section) {
		if m := passed.FindStringSubmatch(line); m != nil {
			outcomes = append(outcomes, outcome(passed, m, true))
			continue
		}
		if m := failed.FindStringSubmatch(line); m != nil {
			outcomes = append(outcomes, outcome(failed, m, false))
		}
	}
	return outcomes
}

func outcome(re *regexp.Regexp, m []string, ok bool) models.TestOutcome {
	return models.TestOutcome{
		Name:       regex.Named(re, m, "name"),
		Passed:     ok,
		DurationMs: ParseDurationMs(regex.Named(re, m, "time")),
	}
}

// Dedupe drops diagnostics with the same message and severity as an earlier one.
func Dedupe(diags []models.Diagnostic) []models.Diagnostic {
	seen := make(map[models.Diagnostic]struct{}, len(diags))
	out := make([]models.Diagnostic, 0, len(diags))
	for _, d := range diags {
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		out = append(out, d)
	}
	return out
}
