package agent

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"scenariogen/internal/llm"
	"scenariogen/internal/source"
)

// ErrNoInputs is returned when Combine is called with zero inputs.
var ErrNoInputs = errors.New("no data sources to combine")

// sectionHeaders maps each source kind to its prompt section. Section order
// is fixed so identical input sets always build identical prompts.
var sectionOrder = []struct {
	kind   source.Kind
	header string
}{
	{source.KindConfluence, "### PRD / REQUIREMENTS:"},
	{source.KindImage, "### UI/FEATURE IMAGES ANALYSIS:"},
	{source.KindExcel, "### IMPACT AREAS DATA:"},
}

// Combiner merges the loaded data sources into a single unified analysis via
// one reasoning call.
type Combiner struct {
	client llm.Client
	logger *zap.Logger
}

// NewCombiner creates a combiner stage.
func NewCombiner(client llm.Client, logger *zap.Logger) *Combiner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Combiner{client: client, logger: logger.Named("combiner")}
}

// Combine validates that at least one input is present, builds the request
// deterministically from whichever inputs exist, and returns the unified
// context. A failed or empty reasoning call is fatal.
func (c *Combiner) Combine(ctx context.Context, inputs []source.Input) (string, error) {
	if len(inputs) == 0 {
		return "", ErrNoInputs
	}

	prompt := c.buildPrompt(inputs)
	c.logger.Info("combining data sources",
		zap.Int("sources", len(inputs)),
		zap.Int("prompt_len", len(prompt)))

	analysis, err := c.client.CompleteWithSystem(ctx, combinerSystemPrompt, prompt)
	if err != nil {
		return "", fmt.Errorf("combining data sources failed: %w", err)
	}
	analysis = strings.TrimSpace(analysis)
	if analysis == "" {
		return "", fmt.Errorf("combining data sources failed: %w", llm.ErrEmptyCompletion)
	}

	c.logger.Info("combined analysis ready", zap.Int("chars", len(analysis)))
	return analysis, nil
}

func (c *Combiner) buildPrompt(inputs []source.Input) string {
	byKind := make(map[source.Kind][]string)
	for _, in := range inputs {
		byKind[in.Kind] = append(byKind[in.Kind], in.Text)
	}

	var b strings.Builder
	b.WriteString(combinerInstructions)
	b.WriteString("\n\n## PROVIDED DATA SOURCES:\n")
	for _, section := range sectionOrder {
		texts := byKind[section.kind]
		if len(texts) == 0 {
			continue
		}
		b.WriteString("\n")
		b.WriteString(section.header)
		b.WriteString("\n")
		b.WriteString(strings.Join(texts, "\n\n"))
		b.WriteString("\n")
	}
	return b.String()
}
