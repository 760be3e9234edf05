package profile

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/jonathan/job-search/internal/schemas"
	"github.com/jonathan/job-search/internal/types"
)

// inlineSource names JSON that did not come from a file
const inlineSource = "(inline)"

// LoadConfig reads a document holding both user_profile and job_search_params
// and returns the validated configuration.
func LoadConfig(path string) (*types.JobSearchConfig, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}
	return parseConfig(path, data)
}

// ParseConfig parses and validates a full configuration document.
func ParseConfig(data []byte) (*types.JobSearchConfig, error) {
	return parseConfig(inlineSource, data)
}

func parseConfig(source string, data []byte) (*types.JobSearchConfig, error) {
	if _, err := decodeJSON(source, data); err != nil {
		return nil, err
	}
	if err := schemas.ValidateDocument(schemas.RootConfig, data); err != nil {
		return nil, err
	}

	cfg := types.JobSearchConfig{JobSearchParams: types.DefaultSearchParams()}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, &MalformedInputError{Source: source, Cause: err}
	}
	cfg.UserProfile.Normalize()

	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadProfile reads a profile-only document and returns the validated profile.
func LoadProfile(path string) (*types.UserProfile, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}
	return parseProfile(path, data)
}

// ParseProfile parses and validates a profile-only document.
func ParseProfile(data []byte) (*types.UserProfile, error) {
	return parseProfile(inlineSource, data)
}

func parseProfile(source string, data []byte) (*types.UserProfile, error) {
	if _, err := decodeJSON(source, data); err != nil {
		return nil, err
	}
	if err := schemas.ValidateDocument(schemas.RootProfile, data); err != nil {
		return nil, err
	}

	var p types.UserProfile
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, &MalformedInputError{Source: source, Cause: err}
	}
	p.Normalize()

	if err := ValidateProfile(&p); err != nil {
		return nil, err
	}
	return &p, nil
}

// LoadDocument reads a JSON file into a generic map, for callers that merge
// flag overrides before validating.
func LoadDocument(path string) (map[string]any, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}
	return decodeObject(path, data)
}

// ParseJSONArg interprets arg as a path to a JSON file, falling back to
// parsing it as inline JSON when no such file exists.
func ParseJSONArg(arg string) (map[string]any, error) {
	if _, err := os.Stat(arg); err == nil {
		return LoadDocument(arg)
	}
	return decodeObject(inlineSource, []byte(arg))
}

func decodeObject(source string, data []byte) (map[string]any, error) {
	raw, err := decodeJSON(source, data)
	if err != nil {
		return nil, err
	}
	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, &MalformedInputError{
			Source: source,
			Cause:  fmt.Errorf("expected a JSON object, got %T", raw),
		}
	}
	return obj, nil
}

func decodeJSON(source string, data []byte) (any, error) {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &MalformedInputError{Source: source, Cause: err}
	}
	return raw, nil
}

func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{
			Message: fmt.Sprintf("failed to read file %s", path),
			Cause:   err,
		}
	}
	return data, nil
}
