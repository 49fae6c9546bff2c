package models

// TestOutcome is the result of one test case.
type TestOutcome struct {
	Name       string  `json:"name"`
	Passed     bool    `json:"passed"`
	DurationMs float64 `json:"duration_ms"`
}

// CountOutcomes returns the number of passed and failed outcomes.
func CountOutcomes(outcomes []TestOutcome) (passed, failed int) {
	for _, o := range outcomes {
		if o.Passed {
			passed++
		} else {
			failed++
		}
	}
	return passed, failed
}
