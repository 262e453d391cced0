package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"scenariogen/internal/llm"
)

// Analyzer produces a SummaryReport for a generated ScenarioSet. The counts
// are computed locally; only the narrative needs a reasoning call, and its
// failure degrades to an empty narrative instead of failing the run.
type Analyzer struct {
	client llm.Client
	logger *zap.Logger
}

// NewAnalyzer creates an analyzer stage.
func NewAnalyzer(client llm.Client, logger *zap.Logger) *Analyzer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Analyzer{client: client, logger: logger.Named("analyzer")}
}

// Analyze aggregates the scenario set and asks the model for a coverage
// narrative. The input set is never mutated.
func (a *Analyzer) Analyze(ctx context.Context, scenarios ScenarioSet, unifiedContext string) (SummaryReport, error) {
	report := Summarize(scenarios)

	narrative, err := a.generateNarrative(ctx, scenarios, unifiedContext)
	if err != nil {
		a.logger.Warn("narrative generation failed, continuing with counts only", zap.Error(err))
		return report, nil
	}

	report.Narrative = narrative
	a.logger.Info("summary report ready",
		zap.Int("scenarios", report.TotalScenarios),
		zap.Int("narrative_len", len(narrative)))
	return report, nil
}

func (a *Analyzer) generateNarrative(ctx context.Context, scenarios ScenarioSet, unifiedContext string) (string, error) {
	scenariosJSON, err := json.MarshalIndent(scenarios, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode scenarios: %w", err)
	}

	prompt := fmt.Sprintf("## ORIGINAL ANALYSIS:\n%s\n\n## GENERATED TEST SCENARIOS:\n%s\n\n%s",
		unifiedContext, scenariosJSON, analyzerInstructions)

	narrative, err := a.client.CompleteWithSystem(ctx, analyzerSystemPrompt, prompt)
	if err != nil {
		return "", err
	}
	narrative = strings.TrimSpace(narrative)
	if narrative == "" {
		return "", llm.ErrEmptyCompletion
	}
	return narrative, nil
}
