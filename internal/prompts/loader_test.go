package prompts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet_ValidPrompt(t *testing.T) {
	ClearCache()

	prompt, err := Get(AnalysisFile, "skills-gap")
	require.NoError(t, err)
	assert.Contains(t, prompt, "{{.JobListings}}")
}

func TestGet_InvalidFile(t *testing.T) {
	ClearCache()

	_, err := Get("nonexistent.json", "some-key")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read prompt file")
}

func TestGet_InvalidKey(t *testing.T) {
	ClearCache()

	_, err := Get(ResumeFile, "nonexistent-key")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestMustGet_Panics(t *testing.T) {
	ClearCache()

	assert.Panics(t, func() {
		MustGet("nonexistent.json", "some-key")
	})
}

func TestFormat(t *testing.T) {
	out := Format("Hello {{.Name}}, {{.Name}} wants {{.Role}}", map[string]string{"Name": "Jane"})
	assert.Equal(t, "Hello Jane, Jane wants {{.Role}}", out)
}

func TestRender_AllFilled(t *testing.T) {
	ClearCache()

	out, err := Render(PoemFile, "write-poem", map[string]string{"SentenceCount": "3"})
	require.NoError(t, err)
	assert.Contains(t, out, "exactly 3 sentences")
}

func TestRender_ReportsMissingPlaceholder(t *testing.T) {
	ClearCache()

	_, err := Render(PoemFile, "write-poem", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "{{.SentenceCount}}")
}

func TestAllFilesParse(t *testing.T) {
	ClearCache()

	expected := map[string][]string{
		AnalysisFile: {"profile-only", "skills-gap", "system"},
		ResumeFile:   {"system", "tailor-summary"},
		PoemFile:     {"system", "write-poem"},
	}
	for file, keys := range expected {
		t.Run(file, func(t *testing.T) {
			got, err := List(file)
			require.NoError(t, err)
			assert.Equal(t, keys, got)
		})
	}
}

func TestFormat_ValuesAreNotRescanned(t *testing.T) {
	data := map[string]string{
		"Listings": "Uses {{.Summary}} and {{.Title}} in html/template",
		"Summary":  "Go developer",
	}
	for i := 0; i < 20; i++ {
		out := Format("{{.Summary}}\n{{.Listings}}", data)
		assert.Equal(t, "Go developer\nUses {{.Summary}} and {{.Title}} in html/template", out)
	}
}

func TestPlaceholders(t *testing.T) {
	assert.Equal(t, []string{"Name", "Role"}, Placeholders("{{.Name}} {{.Role}} {{.Name}}"))
	assert.Empty(t, Placeholders("no placeholders"))
}

func TestRender_TemplateTextInValues(t *testing.T) {
	ClearCache()

	template, err := Get(AnalysisFile, "skills-gap")
	require.NoError(t, err)

	data := make(map[string]string)
	for _, name := range Placeholders(template) {
		data[name] = "x"
	}
	data["JobListings"] = "Templates like {{.Title}} in Go html/template"

	out, err := Render(AnalysisFile, "skills-gap", data)
	require.NoError(t, err)
	assert.Contains(t, out, "Templates like {{.Title}} in Go html/template")
}
