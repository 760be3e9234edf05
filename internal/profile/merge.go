package profile

import (
	"encoding/json"
	"strings"

	"github.com/jonathan/job-search/internal/schemas"
	"github.com/jonathan/job-search/internal/types"
)

// Top-level keys of a configuration document
const (
	KeyUserProfile     = "user_profile"
	KeyJobSearchParams = "job_search_params"
)

// Overrides holds values supplied through individual CLI flags.
// Only keys that were explicitly set are present; they replace the
// corresponding keys of the base document.
type Overrides struct {
	Profile map[string]any
	Params  map[string]any
}

// SetProfile records a user_profile override
func (o *Overrides) SetProfile(key string, v any) {
	if o.Profile == nil {
		o.Profile = make(map[string]any)
	}
	o.Profile[key] = v
}

// SetParam records a job_search_params override
func (o *Overrides) SetParam(key string, v any) {
	if o.Params == nil {
		o.Params = make(map[string]any)
	}
	o.Params[key] = v
}

// Input is a validated pipeline input. A nil member was not supplied at all
// and is left for the pipeline to fill with its fallback.
type Input struct {
	Profile *types.UserProfile
	Params  *types.JobSearchParams
}

// Merge returns a copy of base with the overrides applied on top.
// base itself is not modified.
func Merge(base map[string]any, o Overrides) map[string]any {
	merged := make(map[string]any, len(base))
	for k, v := range base {
		merged[k] = v
	}
	merged[KeyUserProfile] = mergeSection(base[KeyUserProfile], o.Profile)
	merged[KeyJobSearchParams] = mergeSection(base[KeyJobSearchParams], o.Params)
	if merged[KeyUserProfile] == nil {
		delete(merged, KeyUserProfile)
	}
	if merged[KeyJobSearchParams] == nil {
		delete(merged, KeyJobSearchParams)
	}
	return merged
}

func mergeSection(base any, overrides map[string]any) any {
	if len(overrides) == 0 {
		return base
	}
	section := make(map[string]any)
	if m, ok := base.(map[string]any); ok {
		for k, v := range m {
			section[k] = v
		}
	}
	for k, v := range overrides {
		section[k] = v
	}
	return section
}

// BuildInput applies overrides to base, then shape-checks and validates each
// supplied section. Errors from both sections are reported together.
// When a profile is supplied without parameters, parameters take their field defaults.
func BuildInput(base map[string]any, o Overrides) (*Input, error) {
	merged := Merge(base, o)
	all := &schemas.ValidationError{}
	in := &Input{}

	if raw, ok := supplied(merged[KeyUserProfile]); ok {
		var p types.UserProfile
		if err := decodeSection(raw, schemas.RootProfile, KeyUserProfile, &p, all); err != nil {
			return nil, err
		}
		if len(all.Errors) == 0 {
			p.Normalize()
			if err := collect(ValidateProfile(&p), KeyUserProfile, all); err != nil {
				return nil, err
			}
			in.Profile = &p
		}
	}

	if raw, ok := supplied(merged[KeyJobSearchParams]); ok {
		params := types.DefaultSearchParams()
		before := len(all.Errors)
		if err := decodeSection(raw, schemas.RootParams, KeyJobSearchParams, &params, all); err != nil {
			return nil, err
		}
		if len(all.Errors) == before {
			if err := collect(ValidateParams(&params), KeyJobSearchParams, all); err != nil {
				return nil, err
			}
			in.Params = &params
		}
	}

	if err := all.ErrOrNil(); err != nil {
		return nil, err
	}

	if in.Profile != nil && in.Params == nil {
		params := types.DefaultSearchParams()
		in.Params = &params
	}
	return in, nil
}

// BuildFromDocument applies overrides to a full configuration document and
// validates the result exactly as LoadConfig does. A missing or incomplete
// user_profile is reported, never replaced by the fallback profile.
func BuildFromDocument(source string, doc map[string]any, o Overrides) (*Input, error) {
	data, err := json.Marshal(Merge(doc, o))
	if err != nil {
		return nil, &MalformedInputError{Source: source, Cause: err}
	}
	cfg, err := parseConfig(source, data)
	if err != nil {
		return nil, err
	}
	return &Input{Profile: &cfg.UserProfile, Params: &cfg.JobSearchParams}, nil
}

// supplied reports whether a section is present. An empty object is present
// and validated like any other.
func supplied(v any) (any, bool) {
	return v, v != nil
}

// decodeSection shape-checks raw and decodes it into out. Shape errors are
// appended to all; any other failure is returned.
func decodeSection(raw any, root schemas.Root, key string, out any, all *schemas.ValidationError) error {
	before := len(all.Errors)
	if err := collect(schemas.ValidateValue(root, raw), key, all); err != nil {
		return err
	}
	if len(all.Errors) > before {
		return nil
	}

	data, err := json.Marshal(raw)
	if err != nil {
		return &MalformedInputError{Source: key, Cause: err}
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &MalformedInputError{Source: key, Cause: err}
	}
	return nil
}

// collect folds a *schemas.ValidationError into all under key; other errors are returned.
func collect(err error, key string, all *schemas.ValidationError) error {
	if err == nil {
		return nil
	}
	ve, ok := err.(*schemas.ValidationError)
	if !ok {
		return err
	}
	all.Errors = append(all.Errors, ve.Prefix(key+".").Errors...)
	return nil
}

// ParseList splits comma-separated flag text, trimming each element and
// dropping empty ones. Order is preserved.
func ParseList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// ParseJSONArray parses a JSON-fragment flag (experience, education).
// A parse failure is reported as a *MalformedInputError naming the flag.
func ParseJSONArray(flag, s string) ([]any, error) {
	var arr []any
	if err := json.Unmarshal([]byte(s), &arr); err != nil {
		return nil, &MalformedInputError{Source: "--" + flag, Cause: err}
	}
	return arr, nil
}
