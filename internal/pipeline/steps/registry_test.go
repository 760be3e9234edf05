package steps

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dbpkg "github.com/jonathan/job-search/internal/db"
)

func TestStepRegistry(t *testing.T) {
	require.Len(t, StepRegistry, len(Order))
	for _, stepName := range Order {
		def, ok := StepRegistry[stepName]
		require.True(t, ok, "Step %s should be in registry", stepName)
		assert.Equal(t, stepName, def.Name)
		assert.NotEmpty(t, def.Category)
		assert.NotEmpty(t, def.Description)
	}
}

func TestStepRegistryCategories(t *testing.T) {
	categories := map[string]string{
		CollectUserInfo:            dbpkg.CategoryInput,
		SearchAndAnalyzeJobs:       dbpkg.CategoryDiscovery,
		GeneratePersonalizedResume: dbpkg.CategoryResume,
		FinalizeResults:            dbpkg.CategoryReport,
	}
	for stepName, category := range categories {
		assert.Equal(t, category, StepRegistry[stepName].Category, "Step %s should be in category %s", stepName, category)
	}
}

func TestStepRegistry_LinearChain(t *testing.T) {
	assert.Empty(t, StepRegistry[Order[0]].Dependencies)
	for i := 1; i < len(Order); i++ {
		assert.Equal(t, []string{Order[i-1]}, StepRegistry[Order[i]].Dependencies,
			"step %s should depend only on %s", Order[i], Order[i-1])
	}
}

func TestValidateOrder(t *testing.T) {
	tests := []struct {
		name    string
		order   []string
		wantErr string
	}{
		{name: "declared order", order: Order},
		{name: "prefix", order: []string{CollectUserInfo, SearchAndAnalyzeJobs}},
		{
			name:    "skips a step",
			order:   []string{CollectUserInfo, GeneratePersonalizedResume},
			wantErr: "missing dependencies",
		},
		{
			name:    "reversed",
			order:   []string{SearchAndAnalyzeJobs, CollectUserInfo},
			wantErr: "missing dependencies",
		},
		{
			name:    "duplicate",
			order:   []string{CollectUserInfo, CollectUserInfo},
			wantErr: "more than once",
		},
		{
			name:    "unknown",
			order:   []string{"plot_flow"},
			wantErr: "unknown step",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateOrder(tt.order)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestDependencyError(t *testing.T) {
	err := ValidateDependencies(map[string]bool{}, FinalizeResults)

	var depErr *DependencyError
	require.ErrorAs(t, err, &depErr)
	assert.Equal(t, FinalizeResults, depErr.Step)
	assert.Equal(t, []string{GeneratePersonalizedResume}, depErr.MissingDependencies)
}

func TestIndex(t *testing.T) {
	assert.Equal(t, 1, Index(CollectUserInfo))
	assert.Equal(t, 4, Index(FinalizeResults))
	assert.Equal(t, 0, Index("missing"))
}
