// Package scoring reduces build, quality and test results to a 0-100 score.
package scoring

import (
	"math"

	"github.com/thomas-vilte/repocheck/internal/models"
)

const (
	MaxScore = 100
	MinScore = 0
)

// Penalty per diagnostic, by severity.
var severityWeights = map[models.Severity]int{
	models.SeverityError:   35,
	models.SeverityWarning: 20,
	models.SeverityInfo:    10,
}

// Build is binary: 100 when every unit compiled, 0 otherwise.
func Build(result models.BuildResult) int {
	if result.Success {
		return MaxScore
	}
	return MinScore
}

// Quality starts at 100 and subtracts a fixed penalty per diagnostic.
func Quality(diags []models.Diagnostic) int {
	score := MaxScore
	for _, d := range diags {
		score -= severityWeights[d.Severity]
	}
	return clamp(score)
}

// Tests is the rounded percentage of passing outcomes. No outcomes at all
// scores 100: a missing test suite and an unrecognised runner output are
// indistinguishable here.
func Tests(outcomes []models.TestOutcome) int {
	passed, failed := models.CountOutcomes(outcomes)
	total := passed + failed
	if total == 0 {
		return MaxScore
	}
	return clamp(int(math.Round(float64(MaxScore) * float64(passed) / float64(total))))
}

func clamp(score int) int {
	return max(MinScore, min(MaxScore, score))
}
