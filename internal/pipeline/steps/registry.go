// Package steps declares the job-search pipeline steps and the dependency
// edge between each step and the one before it.
package steps

import (
	"fmt"

	dbpkg "github.com/jonathan/job-search/internal/db"
)

// Step names, in execution order
const (
	CollectUserInfo            = "collect_user_info"
	SearchAndAnalyzeJobs       = "search_and_analyze_jobs"
	GeneratePersonalizedResume = "generate_personalized_resume"
	FinalizeResults            = "finalize_results"
)

// StepDefinition defines metadata for a pipeline step
type StepDefinition struct {
	Name         string
	Category     string
	Description  string
	Dependencies []string
}

// StepRegistry holds all step definitions
var StepRegistry = map[string]StepDefinition{
	CollectUserInfo: {
		Name:         CollectUserInfo,
		Category:     dbpkg.CategoryInput,
		Description:  "Collecting user information",
		Dependencies: []string{},
	},
	SearchAndAnalyzeJobs: {
		Name:         SearchAndAnalyzeJobs,
		Category:     dbpkg.CategoryDiscovery,
		Description:  "Searching and analyzing job listings",
		Dependencies: []string{CollectUserInfo},
	},
	GeneratePersonalizedResume: {
		Name:         GeneratePersonalizedResume,
		Category:     dbpkg.CategoryResume,
		Description:  "Generating personalized resume",
		Dependencies: []string{SearchAndAnalyzeJobs},
	},
	FinalizeResults: {
		Name:         FinalizeResults,
		Category:     dbpkg.CategoryReport,
		Description:  "Finalizing results",
		Dependencies: []string{GeneratePersonalizedResume},
	},
}

// Order is the execution order of the pipeline.
var Order = []string{CollectUserInfo, SearchAndAnalyzeJobs, GeneratePersonalizedResume, FinalizeResults}

// DependencyError represents a step scheduled before one of its dependencies
type DependencyError struct {
	Step                string
	MissingDependencies []string
}

func (e *DependencyError) Error() string {
	return fmt.Sprintf("step %s: missing dependencies: %v", e.Step, e.MissingDependencies)
}

// Get returns the definition of a registered step.
func Get(name string) (StepDefinition, error) {
	def, ok := StepRegistry[name]
	if !ok {
		return StepDefinition{}, fmt.Errorf("unknown step: %s", name)
	}
	return def, nil
}

// Index returns the 1-based position of a step in Order, or 0 if absent.
func Index(name string) int {
	for i, s := range Order {
		if s == name {
			return i + 1
		}
	}
	return 0
}

// ValidateDependencies checks that every dependency of stepName is in completed.
func ValidateDependencies(completed map[string]bool, stepName string) error {
	def, err := Get(stepName)
	if err != nil {
		return err
	}

	var missing []string
	for _, dep := range def.Dependencies {
		if !completed[dep] {
			missing = append(missing, dep)
		}
	}
	if len(missing) > 0 {
		return &DependencyError{Step: stepName, MissingDependencies: missing}
	}
	return nil
}

// ValidateOrder walks order and checks that every step runs after its
// dependencies and that no step appears twice.
func ValidateOrder(order []string) error {
	completed := make(map[string]bool, len(order))
	for _, name := range order {
		if completed[name] {
			return fmt.Errorf("step %s listed more than once", name)
		}
		if err := ValidateDependencies(completed, name); err != nil {
			return err
		}
		completed[name] = true
	}
	return nil
}
