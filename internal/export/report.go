package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"scenariogen/internal/agent"
)

// WriteReport writes the markdown analysis report next to the workbook and
// returns its path.
func (w *Writer) WriteReport(scenarios agent.ScenarioSet, summary agent.SummaryReport, workbookPath string) (string, error) {
	base := strings.TrimSuffix(workbookPath, filepath.Ext(workbookPath))
	reportPath := base + "_analysis_report.md"

	content := renderReport(scenarios, summary, time.Now())
	if err := os.WriteFile(reportPath, []byte(content), 0644); err != nil {
		return "", fmt.Errorf("%w: write analysis report: %v", ErrExportFailed, err)
	}

	w.logger.Info("analysis report written", zap.String("path", reportPath))
	return reportPath, nil
}

func renderReport(scenarios agent.ScenarioSet, summary agent.SummaryReport, now time.Time) string {
	var b strings.Builder
	b.WriteString("# Test Scenario Analysis Report\n\n")
	fmt.Fprintf(&b, "Generated: %s\n\n", now.Format("2006-01-02 15:04:05"))

	b.WriteString("## Statistics\n\n")
	fmt.Fprintf(&b, "- Total scenarios: %d\n\n", summary.TotalScenarios)

	b.WriteString("### By Category\n\n")
	for _, c := range agent.Categories {
		if n := summary.ByCategory[c]; n > 0 {
			fmt.Fprintf(&b, "- %s: %d\n", c, n)
		}
	}
	b.WriteString("\n### By Priority\n\n")
	for _, p := range agent.Priorities {
		if n := summary.ByPriority[p]; n > 0 {
			fmt.Fprintf(&b, "- %s: %d\n", p, n)
		}
	}

	b.WriteString("\n## Coverage Analysis\n\n")
	if summary.Narrative != "" {
		b.WriteString(summary.Narrative)
		b.WriteString("\n")
	} else {
		b.WriteString("No narrative was produced for this run.\n")
	}

	b.WriteString("\n## Scenarios\n\n")
	b.WriteString("| ID | Category | Scenario | Priority |\n")
	b.WriteString("|----|----------|----------|----------|\n")
	for _, s := range scenarios {
		desc := strings.ReplaceAll(s.Description, "|", "\\|")
		fmt.Fprintf(&b, "| %s | %s | %s | %s |\n", s.ID, s.Category, desc, s.Priority)
	}
	return b.String()
}
