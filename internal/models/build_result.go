package models

// BuildResult is the outcome of a build strategy. FailedUnits carries the
// identifiers of the build units that did not compile, in completion order.
type BuildResult struct {
	Success     bool     `json:"success"`
	FailedUnits []string `json:"failed_units,omitempty"`
}
