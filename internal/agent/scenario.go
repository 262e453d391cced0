// Package agent implements the three reasoning stages of the pipeline:
// combining source data into a unified context, generating test scenarios
// from it, and summarizing the result.
package agent

import (
	"fmt"
	"strings"
)

// Category classifies a test scenario.
type Category string

const (
	CategoryFunctional     Category = "Functional"
	CategoryIntegration    Category = "Integration"
	CategoryUserExperience Category = "UserExperience"
	CategoryData           Category = "Data"
	CategorySecurity       Category = "Security"
	CategoryPerformance    Category = "Performance"
)

// Categories lists all valid categories in their canonical order.
var Categories = []Category{
	CategoryFunctional,
	CategoryIntegration,
	CategoryUserExperience,
	CategoryData,
	CategorySecurity,
	CategoryPerformance,
}

// ParseCategory normalizes a model-supplied category string. The model tends
// to emit "User Experience" with a space; both spellings are accepted.
func ParseCategory(s string) (Category, bool) {
	normalized := strings.ReplaceAll(strings.TrimSpace(s), " ", "")
	for _, c := range Categories {
		if strings.EqualFold(normalized, string(c)) {
			return c, true
		}
	}
	return "", false
}

// Priority ranks a test scenario.
type Priority string

const (
	PriorityHigh   Priority = "High"
	PriorityMedium Priority = "Medium"
	PriorityLow    Priority = "Low"
)

// Priorities lists all valid priorities from most to least urgent.
var Priorities = []Priority{PriorityHigh, PriorityMedium, PriorityLow}

// ParsePriority normalizes a model-supplied priority string.
func ParsePriority(s string) (Priority, bool) {
	for _, p := range Priorities {
		if strings.EqualFold(strings.TrimSpace(s), string(p)) {
			return p, true
		}
	}
	return "", false
}

// Scenario is one validated high-level test scenario.
type Scenario struct {
	ID          string   `json:"id"`
	Category    Category `json:"category"`
	Description string   `json:"scenario"`
	Priority    Priority `json:"priority"`
}

// ScenarioSet is an ordered list of scenarios. ID order equals creation
// order; IDs are assigned sequentially by the generator.
type ScenarioSet []Scenario

// FormatID renders the nth (1-based) scenario ID: TS001, TS002, …
func FormatID(n int) string {
	return fmt.Sprintf("TS%03d", n)
}

// SummaryReport is a read-only view over a ScenarioSet: deterministic counts
// plus a model-written coverage narrative. Narrative may be empty when the
// narrative call failed; the counts are always populated.
type SummaryReport struct {
	TotalScenarios int
	ByCategory     map[Category]int
	ByPriority     map[Priority]int
	Narrative      string
}

// Summarize computes the deterministic portion of a SummaryReport.
func Summarize(scenarios ScenarioSet) SummaryReport {
	report := SummaryReport{
		TotalScenarios: len(scenarios),
		ByCategory:     make(map[Category]int),
		ByPriority:     make(map[Priority]int),
	}
	for _, s := range scenarios {
		report.ByCategory[s.Category]++
		report.ByPriority[s.Priority]++
	}
	return report
}
