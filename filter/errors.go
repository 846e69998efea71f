package filter

import (
	"fmt"
)

type (
	// CompilationError is returned by Compile
	CompilationError struct {
		Expression string
		Reason     string
		Err        error
	}

	// EvaluationError is returned when a filter fails on one record
	EvaluationError struct {
		Expression string
		RecordID   string
		Err        error
	}
)

func (e *CompilationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("compilation error in '%s': %s: %v", e.Expression, e.Reason, e.Err)
	}
	return fmt.Sprintf("compilation error in '%s': %s", e.Expression, e.Reason)
}

func (e *CompilationError) Unwrap() error { return e.Err }

func (e *EvaluationError) Error() string {
	if e.RecordID == "" {
		return fmt.Sprintf("evaluation error for filter '%s': %v", e.Expression, e.Err)
	}
	return fmt.Sprintf("evaluation error for filter '%s' on record '%s': %v", e.Expression, e.RecordID, e.Err)
}

func (e *EvaluationError) Unwrap() error { return e.Err }
