package schemas

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fields(t *testing.T, err error) []string {
	t.Helper()
	var ve *ValidationError
	require.True(t, errors.As(err, &ve), "want *ValidationError, got %T: %v", err, err)
	out := make([]string, 0, len(ve.Errors))
	for _, fe := range ve.Errors {
		out = append(out, fe.Field)
	}
	return out
}

func TestValidateDocument_ValidConfig(t *testing.T) {
	doc := `{
		"user_profile": {
			"name": "Jane",
			"email": "jane@example.com",
			"phone": null,
			"skills": ["Go"],
			"experience": [{"title": "Dev", "company": "Acme", "duration": "2020-2024", "description": "Built things",
				"projects": [{"name": "P", "description": "D", "technologies": ["Go"]}]}],
			"education": [{"degree": "BSc", "school": "MIT", "year": "2019"}]
		},
		"job_search_params": {"search_term": "Go", "location": "Remote", "results_wanted": 10, "fine_tune_search_string": null}
	}`
	assert.NoError(t, ValidateDocument(RootConfig, []byte(doc)))
}

func TestValidateDocument_ConfigWithoutParams(t *testing.T) {
	doc := `{"user_profile": {"name": "A", "email": "a@b.com"}}`
	assert.NoError(t, ValidateDocument(RootConfig, []byte(doc)))
}

func TestValidateDocument_MissingProfile(t *testing.T) {
	err := ValidateDocument(RootConfig, []byte(`{"job_search_params": {}}`))
	require.Error(t, err)
	assert.Contains(t, fields(t, err), "user_profile")
}

func TestValidateDocument_MissingRequiredFields(t *testing.T) {
	err := ValidateDocument(RootProfile, []byte(`{"skills": []}`))
	require.Error(t, err)

	got := fields(t, err)
	assert.Contains(t, got, "name")
	assert.Contains(t, got, "email")
}

func TestValidateDocument_NestedPathsUseBrackets(t *testing.T) {
	doc := `{
		"name": "A",
		"email": "a@b.com",
		"experience": [
			{"title": "Dev", "company": "Acme", "duration": "2020", "description": "x"},
			{"company": "Beta", "duration": "2021", "description": "y"}
		]
	}`
	err := ValidateDocument(RootProfile, []byte(doc))
	require.Error(t, err)
	assert.Equal(t, []string{"experience[1].title"}, fields(t, err))
}

func TestValidateDocument_WrongTypes(t *testing.T) {
	doc := `{
		"user_profile": {"name": "A", "email": "a@b.com", "skills": "Go, Rust"},
		"job_search_params": {"results_wanted": "ten"}
	}`
	err := ValidateDocument(RootConfig, []byte(doc))
	require.Error(t, err)

	got := fields(t, err)
	assert.Contains(t, got, "user_profile.skills")
	assert.Contains(t, got, "job_search_params.results_wanted")
}

func TestValidateValue_Map(t *testing.T) {
	v := map[string]any{
		"name":   "A",
		"email":  "a@b.com",
		"skills": []string{"Python", "Go"},
	}
	assert.NoError(t, ValidateValue(RootProfile, v))

	v["certifications"] = 42
	err := ValidateValue(RootProfile, v)
	require.Error(t, err)
	assert.Equal(t, []string{"certifications"}, fields(t, err))
}

func TestValidateValue_Params(t *testing.T) {
	assert.NoError(t, ValidateValue(RootParams, map[string]any{"results_wanted": 5}))

	err := ValidateValue(RootParams, map[string]any{"results_wanted": 2.5})
	require.Error(t, err)
	assert.Equal(t, []string{"results_wanted"}, fields(t, err))
}

func TestValidate_UnknownRoot(t *testing.T) {
	err := ValidateValue(Root("nope"), map[string]any{})
	require.Error(t, err)

	var loadErr *SchemaLoadError
	assert.True(t, errors.As(err, &loadErr))
	assert.Contains(t, err.Error(), "unknown root")
}

func TestValidationError_Error(t *testing.T) {
	ve := &ValidationError{}
	ve.Add("email", "is invalid")
	ve.Add("results_wanted", "must be at most 100")

	msg := ve.Error()
	assert.Contains(t, msg, "validation failed:")
	assert.Contains(t, msg, "1. email: is invalid")
	assert.Contains(t, msg, "2. results_wanted: must be at most 100")
}

func TestValidationError_ErrOrNil(t *testing.T) {
	var nilErr *ValidationError
	assert.NoError(t, nilErr.ErrOrNil())
	assert.NoError(t, (&ValidationError{}).ErrOrNil())

	ve := &ValidationError{}
	ve.Add("name", "must not be empty")
	assert.Error(t, ve.ErrOrNil())
}

func TestValidationError_Prefix(t *testing.T) {
	ve := &ValidationError{Errors: []FieldError{
		{Field: "(root)", Message: "wrong type"},
		{Field: "email", Message: "bad"},
		{Field: "[0].title", Message: "missing"},
	}}

	got := ve.Prefix("user_profile.")
	assert.Equal(t, "user_profile", got.Errors[0].Field)
	assert.Equal(t, "user_profile.email", got.Errors[1].Field)
	assert.Equal(t, "user_profile[0].title", got.Errors[2].Field)

	// original untouched
	assert.Equal(t, "email", ve.Errors[1].Field)
}
