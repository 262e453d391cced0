package source

import (
	"context"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// ExcelLoader reads impact-area data from a spreadsheet and renders it as
// text for the combining prompt.
type ExcelLoader struct {
	logger *zap.Logger
}

// NewExcelLoader creates a spreadsheet loader.
func NewExcelLoader(logger *zap.Logger) *ExcelLoader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExcelLoader{logger: logger.Named("excel")}
}

// SheetNames returns all sheet names in the workbook.
func (l *ExcelLoader) SheetNames(path string) ([]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()
	return f.GetSheetList(), nil
}

// Load reads the named sheet (or the first sheet when sheet is empty) and
// returns the impact-area rows as formatted text.
func (l *ExcelLoader) Load(ctx context.Context, path, sheet string) (Input, error) {
	if err := ctx.Err(); err != nil {
		return Input{}, newLoadError(KindExcel, "cancelled: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return Input{}, newLoadError(KindExcel, "failed to open workbook %s: %v", path, err)
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return Input{}, newLoadError(KindExcel, "workbook %s has no sheets", path)
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return Input{}, newLoadError(KindExcel, "failed to read sheet %q: %v", sheet, err)
	}

	headers, entries := splitRows(rows)
	if len(entries) == 0 {
		return Input{}, newLoadError(KindExcel, "sheet %q contains no data rows", sheet)
	}

	l.logger.Info("loaded impact areas",
		zap.String("path", path),
		zap.String("sheet", sheet),
		zap.Int("rows", len(entries)),
		zap.Int("columns", len(headers)))

	return Input{
		Kind: KindExcel,
		Name: sheet,
		Text: renderImpactAreas(sheet, headers, entries),
	}, nil
}

// splitRows separates the header row from data rows, dropping rows that are
// entirely empty.
func splitRows(rows [][]string) (headers []string, entries [][]string) {
	for _, row := range rows {
		if rowEmpty(row) {
			continue
		}
		if headers == nil {
			headers = row
			continue
		}
		entries = append(entries, row)
	}
	return headers, entries
}

func rowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func renderImpactAreas(sheet string, headers []string, entries [][]string) string {
	var b strings.Builder
	b.WriteString("=== IMPACTED AREAS ===\n")
	fmt.Fprintf(&b, "Sheet: %s | Rows: %d | Columns: %d\n", sheet, len(entries), len(headers))
	fmt.Fprintf(&b, "Columns: %s\n\n", strings.Join(headers, ", "))

	for i, row := range entries {
		fmt.Fprintf(&b, "Entry %d:\n", i+1)
		for j, cell := range row {
			cell = strings.TrimSpace(cell)
			if cell == "" {
				continue
			}
			header := fmt.Sprintf("Column %d", j+1)
			if j < len(headers) && strings.TrimSpace(headers[j]) != "" {
				header = strings.TrimSpace(headers[j])
			}
			fmt.Fprintf(&b, "  - %s: %s\n", header, cell)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
