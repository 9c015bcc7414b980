package models

type EvaluationSource string

const (
	SourceRemote    EvaluationSource = "remote"
	SourceHeuristic EvaluationSource = "heuristic"
)

// EvaluationOutcome records which evaluator produced a result. Only Result
// leaves the analysis pipeline.
type EvaluationOutcome struct {
	Source EvaluationSource
	Result *AnalysisResult
}
