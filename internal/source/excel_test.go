package source

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

func writeWorkbook(t *testing.T, sheet string, rows [][]interface{}) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	if sheet != "Sheet1" {
		_, err := f.NewSheet(sheet)
		require.NoError(t, err)
		require.NoError(t, f.DeleteSheet("Sheet1"))
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}

	path := filepath.Join(t.TempDir(), "impact.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestExcelLoader_Load(t *testing.T) {
	path := writeWorkbook(t, "Impact Areas", [][]interface{}{
		{"Area", "Component", "Notes"},
		{"Backend", "Profile API", "validation"},
		{"Frontend", "Editor form", ""},
		{"Database", "work_experience", "schema change"},
	})

	loader := NewExcelLoader(zap.NewNop())
	input, err := loader.Load(context.Background(), path, "")
	require.NoError(t, err)

	assert.Equal(t, KindExcel, input.Kind)
	assert.Equal(t, "Impact Areas", input.Name)
	assert.Contains(t, input.Text, "=== IMPACTED AREAS ===")
	assert.Contains(t, input.Text, "Rows: 3")
	assert.Contains(t, input.Text, "Columns: Area, Component, Notes")
	assert.Contains(t, input.Text, "Entry 1:")
	assert.Contains(t, input.Text, "- Component: Profile API")
	assert.Contains(t, input.Text, "Entry 3:")
}

func TestExcelLoader_NamedSheet(t *testing.T) {
	path := writeWorkbook(t, "Sheet1", [][]interface{}{
		{"Area"},
		{"Backend"},
	})

	loader := NewExcelLoader(nil)
	input, err := loader.Load(context.Background(), path, "Sheet1")
	require.NoError(t, err)
	assert.Contains(t, input.Text, "Backend")
}

func TestExcelLoader_SkipsEmptyRows(t *testing.T) {
	path := writeWorkbook(t, "Sheet1", [][]interface{}{
		{"", ""},
		{"Area", "Component"},
		{"", ""},
		{"Backend", "API"},
	})

	loader := NewExcelLoader(zap.NewNop())
	input, err := loader.Load(context.Background(), path, "")
	require.NoError(t, err)
	assert.Contains(t, input.Text, "Rows: 1")
	assert.Contains(t, input.Text, "- Area: Backend")
}

func TestExcelLoader_MissingFile(t *testing.T) {
	loader := NewExcelLoader(zap.NewNop())
	_, err := loader.Load(context.Background(), filepath.Join(t.TempDir(), "nope.xlsx"), "")
	var loadErr *LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, KindExcel, loadErr.Source)
}

func TestExcelLoader_EmptySheet(t *testing.T) {
	path := writeWorkbook(t, "Sheet1", [][]interface{}{
		{"Area", "Component"},
	})

	loader := NewExcelLoader(zap.NewNop())
	_, err := loader.Load(context.Background(), path, "")
	var loadErr *LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Contains(t, loadErr.Error(), "no data rows")
}

func TestExcelLoader_SheetNames(t *testing.T) {
	path := writeWorkbook(t, "Impact Areas", [][]interface{}{
		{"Area"},
		{"Backend"},
	})

	loader := NewExcelLoader(zap.NewNop())
	names, err := loader.SheetNames(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Impact Areas"}, names)
}
