package services

import (
	"errors"
	"fmt"
)

// ErrPoolStopped is returned by AnalysisPool.Submit once the pool is stopped.
var ErrPoolStopped = errors.New("analysis pool is stopped")

// ReadError means the document bytes could not be read. It aborts the analysis.
type ReadError struct {
	Document string
	Err      error
}

func (e *ReadError) Error() string {
	if e.Document == "" {
		return fmt.Sprintf("failed to read document: %v", e.Err)
	}
	return fmt.Sprintf("failed to read document %q: %v", e.Document, e.Err)
}

func (e *ReadError) Unwrap() error {
	return e.Err
}

// Stages at which a remote evaluation can fail.
const (
	StageDisabled = "disabled"
	StageRequest  = "request"
	StageResponse = "response"
	StageParse    = "parse"
	StageSchema   = "schema"
)

// RemoteEvaluationError is any failure of the remote evaluator. The analyzer
// recovers from it by falling back to the heuristic evaluator.
type RemoteEvaluationError struct {
	Stage string
	Err   error
}

func (e *RemoteEvaluationError) Error() string {
	return fmt.Sprintf("remote evaluation failed at %s: %v", e.Stage, e.Err)
}

func (e *RemoteEvaluationError) Unwrap() error {
	return e.Err
}

func remoteError(stage string, err error) error {
	var remoteErr *RemoteEvaluationError
	if errors.As(err, &remoteErr) {
		return err
	}
	return &RemoteEvaluationError{Stage: stage, Err: err}
}
