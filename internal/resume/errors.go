// Package resume builds the resume document from a profile and writes it as
// DOCX or plain text.
package resume

import "fmt"

// RenderError represents a failure to serialize a resume document.
type RenderError struct {
	Format  string
	Message string
	Cause   error
}

func (e *RenderError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s render error: %s: %v", e.Format, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s render error: %s", e.Format, e.Message)
}

func (e *RenderError) Unwrap() error {
	return e.Cause
}

// InspectError represents a failure to read a resume back.
type InspectError struct {
	Path  string
	Cause error
}

func (e *InspectError) Error() string {
	return fmt.Sprintf("failed to read resume %s: %v", e.Path, e.Cause)
}

func (e *InspectError) Unwrap() error {
	return e.Cause
}
