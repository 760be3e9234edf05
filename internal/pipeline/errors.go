package pipeline

import "fmt"

// StepError represents a failure that stopped the pipeline at a step
type StepError struct {
	Step    string
	Message string
	Cause   error
}

func (e *StepError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s failed: %s: %v", e.Step, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s failed: %s", e.Step, e.Message)
}

func (e *StepError) Unwrap() error {
	return e.Cause
}
