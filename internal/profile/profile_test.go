package profile

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/job-search/internal/schemas"
	"github.com/jonathan/job-search/internal/types"
)

func fieldPaths(t *testing.T, err error) []string {
	t.Helper()
	var ve *schemas.ValidationError
	require.True(t, errors.As(err, &ve), "want *schemas.ValidationError, got %T: %v", err, err)
	paths := make([]string, 0, len(ve.Errors))
	for _, fe := range ve.Errors {
		paths = append(paths, fe.Field)
	}
	return paths
}

func TestParseConfig_RoundTrip(t *testing.T) {
	docs := map[string]types.JobSearchConfig{
		"example": ExampleConfig(),
		"minimal": {
			UserProfile:     types.UserProfile{Name: "A", Email: "a@b.com"},
			JobSearchParams: types.DefaultSearchParams(),
		},
	}

	for name, cfg := range docs {
		t.Run(name, func(t *testing.T) {
			data, err := json.MarshalIndent(cfg, "", "  ")
			require.NoError(t, err)

			first, err := ParseConfig(data)
			require.NoError(t, err)

			again, err := json.MarshalIndent(first, "", "  ")
			require.NoError(t, err)
			second, err := ParseConfig(again)
			require.NoError(t, err)

			assert.Equal(t, first, second)
			assert.JSONEq(t, string(again), mustMarshal(t, second))
		})
	}
}

func mustMarshal(t *testing.T, v any) string {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return string(data)
}

func TestParseConfig_ResultsWantedRange(t *testing.T) {
	for _, n := range []int{-5, 0, 101, 1000} {
		doc := fmt.Sprintf(`{"user_profile":{"name":"A","email":"a@b.com"},"job_search_params":{"results_wanted":%d}}`, n)
		_, err := ParseConfig([]byte(doc))
		require.Error(t, err, "results_wanted=%d", n)
		assert.Equal(t, []string{"job_search_params.results_wanted"}, fieldPaths(t, err))
	}

	for _, n := range []int{1, 10, 50, 100} {
		doc := fmt.Sprintf(`{"user_profile":{"name":"A","email":"a@b.com"},"job_search_params":{"results_wanted":%d}}`, n)
		cfg, err := ParseConfig([]byte(doc))
		require.NoError(t, err, "results_wanted=%d", n)
		assert.Equal(t, n, cfg.JobSearchParams.ResultsWanted, "never clamped")
	}
}

func TestParseProfile_Email(t *testing.T) {
	invalid := []string{"plainaddress", "missing-at.com", "a@", "@b.com", ""}
	for _, email := range invalid {
		doc := fmt.Sprintf(`{"name":"A","email":%q}`, email)
		_, err := ParseProfile([]byte(doc))
		require.Error(t, err, email)
		assert.Equal(t, []string{"email"}, fieldPaths(t, err), email)
	}

	valid := []string{"a@b.com", "first.last+tag@example.co.uk", "x_y@sub.domain.org"}
	for _, email := range valid {
		doc := fmt.Sprintf(`{"name":"A","email":%q}`, email)
		_, err := ParseProfile([]byte(doc))
		assert.NoError(t, err, email)
	}
}

func TestParseConfig_ReportsEveryError(t *testing.T) {
	doc := `{
		"user_profile": {
			"name": "  ",
			"email": "nope",
			"experience": [{"title": "", "company": "Acme", "duration": "2020", "description": "x"}],
			"education": [{"degree": "BSc", "school": "", "year": "2019"}]
		},
		"job_search_params": {"results_wanted": 0}
	}`
	_, err := ParseConfig([]byte(doc))
	require.Error(t, err)

	assert.ElementsMatch(t, []string{
		"user_profile.name",
		"user_profile.email",
		"user_profile.experience[0].title",
		"user_profile.education[0].school",
		"job_search_params.results_wanted",
	}, fieldPaths(t, err))
}

func TestParseConfig_DefaultsParams(t *testing.T) {
	cfg, err := ParseConfig([]byte(`{"user_profile":{"name":"A","email":"a@b.com"}}`))
	require.NoError(t, err)

	assert.Equal(t, types.JobSearchParams{
		SearchTerm:    "Software Developer",
		Location:      "Remote",
		ResultsWanted: 10,
	}, cfg.JobSearchParams)
	assert.Nil(t, cfg.JobSearchParams.FineTuneSearchString)
	assert.Equal(t, []string{}, cfg.UserProfile.Skills)
}

func TestParseConfig_Malformed(t *testing.T) {
	_, err := ParseConfig([]byte(`{"user_profile": `))
	require.Error(t, err)

	var malformed *MalformedInputError
	require.True(t, errors.As(err, &malformed))
	assert.Equal(t, inlineSource, malformed.Source)
}

func TestLoadConfig_Errors(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.json"))
	var loadErr *LoadError
	assert.True(t, errors.As(err, &loadErr))

	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o644))
	_, err = LoadConfig(path)
	var malformed *MalformedInputError
	require.True(t, errors.As(err, &malformed))
	assert.Equal(t, path, malformed.Source)
}

func TestBuildInput_ProfileOnlyGetsDefaultParams(t *testing.T) {
	base := map[string]any{KeyUserProfile: map[string]any{"name": "A", "email": "a@b.com"}}

	in, err := BuildInput(base, Overrides{})
	require.NoError(t, err)
	require.NotNil(t, in.Profile)
	require.NotNil(t, in.Params)
	assert.Equal(t, types.DefaultSearchParams(), *in.Params)
}

func TestBuildInput_NothingSupplied(t *testing.T) {
	in, err := BuildInput(nil, Overrides{})
	require.NoError(t, err)
	assert.Nil(t, in.Profile)
	assert.Nil(t, in.Params)
}

func TestBuildInput_OverridesWin(t *testing.T) {
	base := map[string]any{
		KeyUserProfile: map[string]any{
			"name":     "A",
			"email":    "a@b.com",
			"location": "Paris",
			"skills":   []any{"Java"},
		},
		KeyJobSearchParams: map[string]any{"location": "Paris", "results_wanted": 20.0},
	}

	var o Overrides
	o.SetProfile("location", "Lisbon")
	o.SetProfile("skills", ParseList("Go, Rust"))
	o.SetParam("location", "Remote")

	in, err := BuildInput(base, o)
	require.NoError(t, err)

	assert.Equal(t, "Lisbon", types.Deref(in.Profile.Location))
	assert.Equal(t, []string{"Go", "Rust"}, in.Profile.Skills)
	assert.Equal(t, "Remote", in.Params.Location)
	assert.Equal(t, 20, in.Params.ResultsWanted)
	assert.Equal(t, types.DefaultSearchTerm, in.Params.SearchTerm)

	// base is not modified
	assert.Equal(t, "Paris", base[KeyUserProfile].(map[string]any)["location"])
}

func TestBuildInput_ErrorsFromBothSections(t *testing.T) {
	var o Overrides
	o.SetProfile("name", "A")
	o.SetProfile("email", "bad")
	o.SetParam("results_wanted", 0)

	_, err := BuildInput(nil, o)
	require.Error(t, err)
	assert.ElementsMatch(t, []string{"user_profile.email", "job_search_params.results_wanted"}, fieldPaths(t, err))
}

func TestBuildInput_ShapeErrors(t *testing.T) {
	base := map[string]any{KeyUserProfile: map[string]any{"name": "A", "email": "a@b.com", "skills": "Go"}}

	_, err := BuildInput(base, Overrides{})
	require.Error(t, err)
	assert.Equal(t, []string{"user_profile.skills"}, fieldPaths(t, err))
}

func TestBuildInput_EmptyProfileSectionIsValidated(t *testing.T) {
	_, err := BuildInput(map[string]any{KeyUserProfile: map[string]any{}}, Overrides{})
	require.Error(t, err)
	assert.ElementsMatch(t, []string{"user_profile.name", "user_profile.email"}, fieldPaths(t, err))
}

func TestBuildFromDocument(t *testing.T) {
	tests := []struct {
		name       string
		doc        map[string]any
		overrides  Overrides
		wantFields []string
	}{
		{
			name:       "profile-only document",
			doc:        map[string]any{"name": "A", "email": "a@b.com"},
			wantFields: []string{"user_profile"},
		},
		{
			name:       "empty profile section",
			doc:        map[string]any{KeyUserProfile: map[string]any{}},
			wantFields: []string{"user_profile.name", "user_profile.email"},
		},
		{
			name:       "no document at all",
			doc:        nil,
			wantFields: []string{"user_profile"},
		},
		{
			name:      "flags complete the profile",
			doc:       map[string]any{KeyUserProfile: map[string]any{"name": "A"}},
			overrides: Overrides{Profile: map[string]any{"email": "a@b.com"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in, err := BuildFromDocument("config.json", tt.doc, tt.overrides)
			if tt.wantFields != nil {
				require.Error(t, err)
				assert.ElementsMatch(t, tt.wantFields, fieldPaths(t, err))
				return
			}
			require.NoError(t, err)
			require.NotNil(t, in.Profile)
			require.NotNil(t, in.Params)
			assert.Equal(t, "a@b.com", in.Profile.Email)
			assert.Equal(t, types.DefaultSearchParams(), *in.Params)
		})
	}
}

func TestBuildFromDocument_RuleErrors(t *testing.T) {
	doc := map[string]any{
		KeyUserProfile:     map[string]any{"name": "A", "email": "nope"},
		KeyJobSearchParams: map[string]any{"results_wanted": 0},
	}
	_, err := BuildFromDocument("config.json", doc, Overrides{})
	require.Error(t, err)
	assert.ElementsMatch(t, []string{"user_profile.email", "job_search_params.results_wanted"}, fieldPaths(t, err))
}

func TestMerge_EmptyOverridesKeepBase(t *testing.T) {
	base := map[string]any{KeyUserProfile: map[string]any{"name": "A"}, "extra": true}
	merged := Merge(base, Overrides{})
	assert.Equal(t, base, merged)
}

func TestParseList(t *testing.T) {
	assert.Equal(t, []string{"Python", "Go", "Rust"}, ParseList("Python, Go , Rust"))
	assert.Equal(t, []string{"AWS"}, ParseList(" AWS ,, "))
	assert.Equal(t, []string{}, ParseList(""))
}

func TestParseJSONArray(t *testing.T) {
	arr, err := ParseJSONArray("education", `[{"degree":"BSc","school":"MIT","year":"2019"}]`)
	require.NoError(t, err)
	assert.Len(t, arr, 1)

	_, err = ParseJSONArray("experience", `{"title": "not an array"}`)
	var malformed *MalformedInputError
	require.True(t, errors.As(err, &malformed))
	assert.Equal(t, "--experience", malformed.Source)

	_, err = ParseJSONArray("education", `[oops`)
	assert.Error(t, err)
}

func TestParseJSONArg(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.json")
	require.NoError(t, WriteJSON(path, ExampleProfile()))

	fromFile, err := ParseJSONArg(path)
	require.NoError(t, err)
	assert.Equal(t, "Jane Smith", fromFile["name"])

	inline, err := ParseJSONArg(`{"name": "Inline", "email": "i@example.com"}`)
	require.NoError(t, err)
	assert.Equal(t, "Inline", inline["name"])

	_, err = ParseJSONArg(`["not", "an", "object"]`)
	var malformed *MalformedInputError
	assert.True(t, errors.As(err, &malformed))

	_, err = ParseJSONArg("no-such-file.json")
	assert.True(t, errors.As(err, &malformed))
}

func TestWriteJSON_Indentation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	require.NoError(t, WriteJSON(path, map[string]any{"a": []int{1}}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"a\": [\n    1\n  ]\n}\n", string(data))
}

func TestExamples_AreValid(t *testing.T) {
	cfg := ExampleConfig()
	assert.NoError(t, Validate(&cfg))

	p := ExampleProfile()
	assert.NoError(t, ValidateProfile(&p))

	fallback := types.FallbackProfile()
	assert.NoError(t, ValidateProfile(&fallback))
}
