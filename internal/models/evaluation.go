package models

// EvaluationKind names one of the three verify operations.
type EvaluationKind string

const (
	EvaluationCompilation EvaluationKind = "compilation"
	EvaluationQuality     EvaluationKind = "quality"
	EvaluationTests       EvaluationKind = "tests"
)

// Report is the detailed result of one evaluation. Score is always within
// [0,100]; exactly one of Build, Diagnostics or Tests is populated
// depending on Kind. Degraded is set when some unit could not be run at all
// and Unevaluated names those units; such a report is never cached.
type Report struct {
	Kind        EvaluationKind    `json:"kind"`
	Owner       string            `json:"owner,omitempty"`
	Repo        string            `json:"repo,omitempty"`
	Branch      string            `json:"branch,omitempty"`
	SHA         string            `json:"sha,omitempty"`
	Language    Language          `json:"language"`
	Score       int               `json:"score"`
	Build       *BuildResult      `json:"build,omitempty"`
	Diagnostics []Diagnostic      `json:"diagnostics,omitempty"`
	Counts      *DiagnosticCounts `json:"counts,omitempty"`
	Tests       []TestOutcome     `json:"tests,omitempty"`
	Passed      int               `json:"passed,omitempty"`
	Failed      int               `json:"failed,omitempty"`
	Degraded    bool              `json:"degraded,omitempty"`
	Unevaluated []string          `json:"unevaluated,omitempty"`
	Cached      bool              `json:"cached,omitempty"`
}
