package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"scenariogen/internal/llm"
)

// ErrNoScenarios is returned when the reasoning call yields zero valid
// scenarios. An empty set is fatal to the run.
var ErrNoScenarios = errors.New("no valid scenarios generated")

// Soft cardinality target. Sets outside this range are logged, never retried.
const (
	targetMinScenarios = 15
	targetMaxScenarios = 25
)

// Generator produces a validated ScenarioSet from a unified context.
type Generator struct {
	client llm.Client
	logger *zap.Logger
}

// NewGenerator creates a generator stage.
func NewGenerator(client llm.Client, logger *zap.Logger) *Generator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Generator{client: client, logger: logger.Named("generator")}
}

// Generate builds the request from the context, parses the response into
// scenarios, drops invalid records, and re-assigns sequential IDs so that ID
// order always equals creation order.
func (g *Generator) Generate(ctx context.Context, unifiedContext string) (ScenarioSet, error) {
	prompt := fmt.Sprintf("## COMBINED ANALYSIS DATA:\n%s\n\n%s", unifiedContext, generatorInstructions)

	response, err := g.client.CompleteWithSystem(ctx, generatorSystemPrompt, prompt)
	if err != nil {
		return nil, fmt.Errorf("scenario generation failed: %w", err)
	}

	scenarios, dropped := parseScenarios(response)
	if dropped > 0 {
		g.logger.Warn("dropped invalid scenario records", zap.Int("dropped", dropped))
	}
	if len(scenarios) == 0 {
		return nil, fmt.Errorf("%w: response had no parseable records", ErrNoScenarios)
	}

	for i := range scenarios {
		scenarios[i].ID = FormatID(i + 1)
	}

	if len(scenarios) < targetMinScenarios || len(scenarios) > targetMaxScenarios {
		g.logger.Warn("scenario count outside target range",
			zap.Int("count", len(scenarios)),
			zap.Int("target_min", targetMinScenarios),
			zap.Int("target_max", targetMaxScenarios))
	}

	g.logger.Info("generated scenarios", zap.Int("count", len(scenarios)))
	return scenarios, nil
}

// rawScenario is the untrusted wire shape of a model-emitted record.
type rawScenario struct {
	ID       string `json:"id"`
	Category string `json:"category"`
	Scenario string `json:"scenario"`
	Priority string `json:"priority"`
}

// parseScenarios extracts scenario records from a model response. It tries
// the JSON array contract first and falls back to line-based text parsing.
// Invalid records are dropped and counted, never fatal here.
func parseScenarios(response string) (ScenarioSet, int) {
	start := strings.Index(response, "[")
	end := strings.LastIndex(response, "]")
	if start >= 0 && end > start {
		var raw []rawScenario
		if err := json.Unmarshal([]byte(response[start:end+1]), &raw); err == nil {
			return validateRaw(raw)
		}
	}
	return parseTextScenarios(response)
}

func validateRaw(raw []rawScenario) (ScenarioSet, int) {
	var (
		scenarios ScenarioSet
		dropped   int
	)
	for _, r := range raw {
		category, okCat := ParseCategory(r.Category)
		priority, okPri := ParsePriority(r.Priority)
		description := strings.TrimSpace(r.Scenario)
		if !okCat || !okPri || description == "" {
			dropped++
			continue
		}
		scenarios = append(scenarios, Scenario{
			Category:    category,
			Description: description,
			Priority:    priority,
		})
	}
	return scenarios, dropped
}

// parseTextScenarios is the fallback for responses that ignored the JSON
// contract: one scenario per non-empty line that looks like a test statement,
// with category and priority inferred from keywords.
func parseTextScenarios(response string) (ScenarioSet, int) {
	var scenarios ScenarioSet
	for _, line := range strings.Split(response, "\n") {
		line = strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(line), "-*0123456789. "))
		if line == "" {
			continue
		}
		lower := strings.ToLower(line)
		if !strings.Contains(lower, "verify") && !strings.Contains(lower, "test") &&
			!strings.Contains(lower, "validate") && !strings.Contains(lower, "ensure") {
			continue
		}
		scenarios = append(scenarios, Scenario{
			Category:    inferCategory(lower),
			Description: line,
			Priority:    inferPriority(lower),
		})
	}
	return scenarios, 0
}

func inferCategory(text string) Category {
	switch {
	case containsAny(text, "integration", "api", "service"):
		return CategoryIntegration
	case containsAny(text, "ui", "interface", "experience", "accessibility"):
		return CategoryUserExperience
	case containsAny(text, "data", "database", "storage"):
		return CategoryData
	case containsAny(text, "security", "access", "auth", "permission"):
		return CategorySecurity
	case containsAny(text, "performance", "load", "speed", "latency"):
		return CategoryPerformance
	default:
		return CategoryFunctional
	}
}

func inferPriority(text string) Priority {
	switch {
	case containsAny(text, "critical", "core", "main", "primary", "blocker"):
		return PriorityHigh
	case containsAny(text, "minor", "cosmetic", "trivial"):
		return PriorityLow
	default:
		return PriorityMedium
	}
}

func containsAny(text string, keywords ...string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}
