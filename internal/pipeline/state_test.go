package pipeline

import (
	"bytes"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/job-search/internal/types"
)

func TestNewState_Fallbacks(t *testing.T) {
	st := NewState(nil, nil)

	assert.Equal(t, StageStart, st.Stage)
	assert.NotEqual(t, uuid.Nil, st.RunID)
	assert.Equal(t, "John Doe", st.Profile.Name)
	assert.Equal(t, types.FallbackSearchTerm, st.Params.SearchTerm)
	assert.Equal(t, types.DefaultLocation, st.Params.Location)
	assert.Equal(t, 10, st.Params.ResultsWanted)
	assert.Equal(t, []string{WarnNoProfile, WarnNoParams}, st.Warnings)
	assert.Empty(t, st.JobListings)
	assert.Empty(t, st.SkillsAnalysis)
	assert.Empty(t, st.ResumePath)
}

func TestNewState_SuppliedInput(t *testing.T) {
	profile := types.UserProfile{Name: "A", Email: "a@b.com"}
	params := types.DefaultSearchParams()

	st := NewState(&profile, &params)

	assert.Equal(t, "A", st.Profile.Name)
	assert.Equal(t, types.DefaultSearchTerm, st.Params.SearchTerm)
	assert.Empty(t, st.Warnings)

	// The state holds its own copy.
	profile.Name = "changed"
	assert.Equal(t, "A", st.Profile.Name)
}

func TestState_Advance(t *testing.T) {
	st := NewState(nil, nil)

	for _, next := range []Stage{StageSearching, StageAnalyzing, StageGenerating, StageDone} {
		require.NoError(t, st.advance(next))
		assert.Equal(t, next, st.Stage)
	}

	err := st.advance(StageDone + 1)
	var tErr *TransitionError
	require.ErrorAs(t, err, &tErr)
	assert.Equal(t, StageDone, tErr.From)
}

func TestState_AdvanceRejectsSkipsAndCycles(t *testing.T) {
	tests := []struct {
		name string
		from Stage
		to   Stage
	}{
		{"skip searching", StageStart, StageAnalyzing},
		{"skip analysis", StageSearching, StageGenerating},
		{"back to start", StageAnalyzing, StageStart},
		{"stay", StageGenerating, StageGenerating},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := &State{Stage: tt.from}
			err := st.advance(tt.to)
			assert.Error(t, err)
			assert.Equal(t, tt.from, st.Stage)
		})
	}
}

func TestStage_String(t *testing.T) {
	assert.Equal(t, "start", StageStart.String())
	assert.Equal(t, "done", StageDone.String())
	assert.Equal(t, "stage(9)", Stage(9).String())
}

func TestParsePolicy(t *testing.T) {
	tests := []struct {
		in      string
		want    ScrapeFailurePolicy
		wantErr bool
	}{
		{"", PolicyDegrade, false},
		{"degrade", PolicyDegrade, false},
		{" ABORT ", PolicyAbort, false},
		{"retry", "", true},
	}
	for _, tt := range tests {
		got, err := ParsePolicy(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestSummary_Print(t *testing.T) {
	var buf bytes.Buffer
	s := &Summary{
		UserName:      "Jane",
		SearchTerm:    "Go Developer",
		Location:      "Remote",
		ResumePath:    "/work/personalized_resume.docx",
		JobListingsOK: true,
		JobCount:      3,
	}
	s.Print(&buf)

	rule := "=================================================="
	want := "\n" + rule + "\nFLOW SUMMARY:\n" + rule + "\n" +
		"User: Jane\nSearch Term: Go Developer\nLocation: Remote\n" +
		"Job Listings: 3\nResume Output: /work/personalized_resume.docx\n" + rule + "\n"
	assert.Equal(t, want, buf.String())
}
