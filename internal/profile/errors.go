// Package profile loads, merges and validates user profiles and job-search parameters.
package profile

import "fmt"

// MalformedInputError reports input that could not be parsed as JSON at all.
// No pipeline step may run after one of these.
type MalformedInputError struct {
	Source string // file path, flag name, or "(inline)"
	Cause  error
}

func (e *MalformedInputError) Error() string {
	return fmt.Sprintf("malformed JSON in %s: %v", e.Source, e.Cause)
}

func (e *MalformedInputError) Unwrap() error {
	return e.Cause
}

// LoadError represents a failure reading an input file
type LoadError struct {
	Message string
	Cause   error
}

func (e *LoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("load error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("load error: %s", e.Message)
}

func (e *LoadError) Unwrap() error {
	return e.Cause
}
