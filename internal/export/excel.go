// Package export writes run artifacts: the scenario workbook and the
// markdown analysis report that accompanies it.
package export

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"scenariogen/internal/agent"
)

// ErrExportFailed is wrapped around every artifact write failure.
var ErrExportFailed = errors.New("export failed")

const (
	scenarioSheet = "Test_Scenarios"
	summarySheet  = "Summary"
)

// Writer persists scenario sets as Excel workbooks. Workbook writes are
// atomic: the file is built in a temp file next to the destination and
// renamed into place, so a failed write leaves nothing behind.
type Writer struct {
	logger *zap.Logger
}

// NewWriter creates an artifact writer.
func NewWriter(logger *zap.Logger) *Writer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Writer{logger: logger.Named("export")}
}

// WriteWorkbook writes the scenario workbook to destPath and returns the
// path written. Identical inputs produce identical rows.
func (w *Writer) WriteWorkbook(scenarios agent.ScenarioSet, summary agent.SummaryReport, destPath string) (string, error) {
	dir := filepath.Dir(destPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("%w: create output directory: %v", ErrExportFailed, err)
	}

	f, err := w.buildWorkbook(scenarios, summary)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrExportFailed, err)
	}
	defer f.Close()

	tmp, err := os.CreateTemp(dir, ".scengen-*.xlsx")
	if err != nil {
		return "", fmt.Errorf("%w: create temp file: %v", ErrExportFailed, err)
	}
	tmpName := tmp.Name()

	if err := f.Write(tmp); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return "", fmt.Errorf("%w: write workbook: %v", ErrExportFailed, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("%w: close temp file: %v", ErrExportFailed, err)
	}
	if err := os.Rename(tmpName, destPath); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("%w: move workbook into place: %v", ErrExportFailed, err)
	}

	w.logger.Info("workbook written",
		zap.String("path", destPath),
		zap.Int("scenarios", len(scenarios)))
	return destPath, nil
}

func (w *Writer) buildWorkbook(scenarios agent.ScenarioSet, summary agent.SummaryReport) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := f.SetSheetName("Sheet1", scenarioSheet); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(summarySheet); err != nil {
		return nil, err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}

	if err := f.SetSheetRow(scenarioSheet, "A1", &[]interface{}{"ID", "Category", "Scenario", "Priority"}); err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(scenarioSheet, "A1", "D1", headerStyle); err != nil {
		return nil, err
	}
	for i, s := range scenarios {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		row := []interface{}{s.ID, string(s.Category), s.Description, string(s.Priority)}
		if err := f.SetSheetRow(scenarioSheet, cell, &row); err != nil {
			return nil, err
		}
	}
	f.SetColWidth(scenarioSheet, "A", "A", 10)
	f.SetColWidth(scenarioSheet, "B", "B", 18)
	f.SetColWidth(scenarioSheet, "C", "C", 90)
	f.SetColWidth(scenarioSheet, "D", "D", 10)

	if err := w.fillSummarySheet(f, summary, headerStyle); err != nil {
		return nil, err
	}
	return f, nil
}

// fillSummarySheet writes the counts in fixed enum order so identical runs
// produce identical sheets.
func (w *Writer) fillSummarySheet(f *excelize.File, summary agent.SummaryReport, headerStyle int) error {
	rows := [][]interface{}{
		{"Total Scenarios", summary.TotalScenarios},
		{},
		{"By Category"},
	}
	for _, c := range agent.Categories {
		rows = append(rows, []interface{}{string(c), summary.ByCategory[c]})
	}
	rows = append(rows, []interface{}{}, []interface{}{"By Priority"})
	for _, p := range agent.Priorities {
		rows = append(rows, []interface{}{string(p), summary.ByPriority[p]})
	}
	if summary.Narrative != "" {
		rows = append(rows, []interface{}{}, []interface{}{"Analysis"}, []interface{}{summary.Narrative})
	}

	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		r := row
		if err := f.SetSheetRow(summarySheet, cell, &r); err != nil {
			return err
		}
	}
	f.SetColWidth(summarySheet, "A", "A", 24)
	f.SetColWidth(summarySheet, "B", "B", 12)
	return f.SetCellStyle(summarySheet, "A1", "A1", headerStyle)
}
