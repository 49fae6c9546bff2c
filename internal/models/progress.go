package models

// ProgressStage identifies a step of the evaluation pipeline.
type ProgressStage string

const (
	ProgressResolve  ProgressStage = "resolve_commit"
	ProgressPrepare  ProgressStage = "prepare_checkout"
	ProgressDetect   ProgressStage = "detect_language"
	ProgressExecute  ProgressStage = "execute_strategy"
	ProgressComplete ProgressStage = "complete"
)

// Progress is emitted by the orchestrator as an evaluation advances.
type Progress struct {
	Stage  ProgressStage
	Detail string // e.g., commit SHA, checkout path or detected language
}
