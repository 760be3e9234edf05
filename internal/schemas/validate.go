// Package schemas provides JSON Schema shape validation for job-search documents.
package schemas

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed job_search.schema.json
var jobSearchSchema []byte

// Root names a definition inside job_search.schema.json that a document can be checked against.
type Root string

const (
	// RootConfig is a full document with user_profile and job_search_params
	RootConfig Root = "jobSearchConfig"
	// RootProfile is a profile-only document
	RootProfile Root = "userProfile"
	// RootParams is a job_search_params object on its own
	RootParams Root = "jobSearchParams"
)

// ValidationError represents a validation failure listing every offending field
type ValidationError struct {
	Errors []FieldError
}

// FieldError represents a single validation error at a specific field
type FieldError struct {
	Field   string
	Message string
}

// SchemaLoadError represents errors loading or parsing the schema itself
type SchemaLoadError struct {
	Path    string
	Message string
	Cause   error
}

func (e *SchemaLoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to load schema %s: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("failed to load schema %s: %s", e.Path, e.Message)
}

func (e *SchemaLoadError) Unwrap() error {
	return e.Cause
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("validation failed:\n")
	for i, err := range ve.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s: %s\n", i+1, err.Field, err.Message))
	}
	return sb.String()
}

// Add appends a field error
func (ve *ValidationError) Add(field, message string) {
	ve.Errors = append(ve.Errors, FieldError{Field: field, Message: message})
}

// ErrOrNil returns ve when it holds at least one error, nil otherwise.
func (ve *ValidationError) ErrOrNil() error {
	if ve == nil || len(ve.Errors) == 0 {
		return nil
	}
	return ve
}

var (
	compiled   = make(map[Root]*gojsonschema.Schema)
	compiledMu sync.Mutex
)

// schemaFor compiles (once) a schema whose root is the named definition.
func schemaFor(root Root) (*gojsonschema.Schema, error) {
	compiledMu.Lock()
	defer compiledMu.Unlock()

	if s, ok := compiled[root]; ok {
		return s, nil
	}

	var doc map[string]any
	if err := json.Unmarshal(jobSearchSchema, &doc); err != nil {
		return nil, &SchemaLoadError{Path: "job_search.schema.json", Message: "invalid schema JSON", Cause: err}
	}
	defs, _ := doc["definitions"].(map[string]any)
	if _, ok := defs[string(root)]; !ok {
		return nil, &SchemaLoadError{Path: "job_search.schema.json", Message: fmt.Sprintf("unknown root %q", root)}
	}

	rootDoc := map[string]any{
		"definitions": defs,
		"$ref":        "#/definitions/" + string(root),
	}
	s, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(rootDoc))
	if err != nil {
		return nil, &SchemaLoadError{Path: "job_search.schema.json", Message: "schema compilation failed", Cause: err}
	}
	compiled[root] = s
	return s, nil
}

// ValidateDocument checks raw JSON bytes against the named root definition.
// The caller is expected to have already confirmed the bytes are valid JSON.
func ValidateDocument(root Root, data []byte) error {
	return validate(root, gojsonschema.NewBytesLoader(data))
}

// ValidateValue checks an already-decoded value (e.g. a map built from CLI flags).
func ValidateValue(root Root, v any) error {
	return validate(root, gojsonschema.NewGoLoader(v))
}

func validate(root Root, doc gojsonschema.JSONLoader) error {
	schema, err := schemaFor(root)
	if err != nil {
		return err
	}

	result, err := schema.Validate(doc)
	if err != nil {
		return &SchemaLoadError{
			Path:    string(root),
			Message: "document could not be loaded for validation",
			Cause:   err,
		}
	}

	if result.Valid() {
		return nil
	}

	validationErr := &ValidationError{
		Errors: make([]FieldError, 0, len(result.Errors())),
	}
	for _, desc := range result.Errors() {
		validationErr.Add(fieldPath(desc), desc.Description())
	}
	return validationErr
}

// fieldPath converts gojsonschema's dotted context ("experience.0.title") into
// the bracketed form used everywhere else ("experience[0].title").
// For "required" errors the missing property is appended to the path.
func fieldPath(desc gojsonschema.ResultError) string {
	field := desc.Field()
	if field == "(root)" {
		field = ""
	}
	if desc.Type() == "required" {
		if prop, ok := desc.Details()["property"].(string); ok && prop != "" {
			if field == "" {
				field = prop
			} else {
				field = field + "." + prop
			}
		}
	}
	if field == "" {
		return "(root)"
	}

	parts := strings.Split(field, ".")
	var sb strings.Builder
	for i, part := range parts {
		if _, err := strconv.Atoi(part); err == nil && i > 0 {
			sb.WriteString("[" + part + "]")
			continue
		}
		if i > 0 {
			sb.WriteString(".")
		}
		sb.WriteString(part)
	}
	return sb.String()
}

// Prefix prepends prefix to every field path. A "(root)" path becomes the prefix itself.
func (ve *ValidationError) Prefix(prefix string) *ValidationError {
	out := &ValidationError{Errors: make([]FieldError, 0, len(ve.Errors))}
	for _, fe := range ve.Errors {
		field := fe.Field
		switch {
		case field == "(root)":
			field = strings.TrimSuffix(prefix, ".")
		case strings.HasPrefix(field, "["):
			field = strings.TrimSuffix(prefix, ".") + field
		default:
			field = prefix + field
		}
		out.Errors = append(out.Errors, FieldError{Field: field, Message: fe.Message})
	}
	return out
}
