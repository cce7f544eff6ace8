package compare

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/ryabkov82/rate-comparer/internal/sheet"
)

// rowsReader отдаёт строки из памяти через sheet.Reader.
type rowsReader struct {
	rows []sheet.Row
	i    int
	err  error
}

func (r *rowsReader) Next() bool {
	if r.i >= len(r.rows) {
		return false
	}
	r.i++
	return true
}

func (r *rowsReader) Row() sheet.Row { return r.rows[r.i-1] }
func (r *rowsReader) Err() error     { return r.err }
func (r *rowsReader) Close() error   { return nil }

func txt(s string) sheet.Cell             { return sheet.TextCell(s) }
func num(v float64) sheet.Cell            { return sheet.NumberCell(v) }
func mkRow(cells ...sheet.Cell) sheet.Row { return sheet.Row(cells) }

// writeWorkbook сохраняет rows в dir/name; nil - ячейки нет.
func writeWorkbook(t *testing.T, dir, name string, rows [][]any) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	for r, cells := range rows {
		for c, v := range cells {
			if v == nil {
				continue
			}
			ref, err := excelize.CoordinatesToCellName(c+1, r+1)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue("Sheet1", ref, v))
		}
	}

	path := filepath.Join(dir, name)
	require.NoError(t, f.SaveAs(path))
	return path
}

// readReport возвращает первый лист отчёта сырыми значениями.
func readReport(t *testing.T, path string) [][]string {
	t.Helper()

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetList()[0], excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	return rows
}
