package sheet

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// xlsxReader читает строки потоком через Rows. Тип ячейки поток не отдаёт,
// поэтому для неоднозначных значений вызывается GetCellType; первый такой
// вызов загружает лист целиком, и дальше память растёт с размером листа.
type xlsxReader struct {
	path   string
	f      *excelize.File
	sheet  string
	rows   *excelize.Rows
	rowNum int
	cur    Row
	err    error
}

func openXLSX(path string) (*xlsxReader, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnreadableFile, path, err)
	}

	sheetList := f.GetSheetList()
	if len(sheetList) == 0 {
		_ = f.Close()
		return nil, fmt.Errorf("%w: %s: в книге нет листов", ErrUnreadableFile, path)
	}

	rows, err := f.Rows(sheetList[0])
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("%w: %s: %v", ErrUnreadableFile, path, err)
	}

	return &xlsxReader{path: path, f: f, sheet: sheetList[0], rows: rows}, nil
}

func (r *xlsxReader) Next() bool {
	if r.err != nil {
		return false
	}
	if !r.rows.Next() {
		if err := r.rows.Error(); err != nil {
			r.err = fmt.Errorf("%w: %s: %v", ErrUnreadableFile, r.path, err)
		}
		return false
	}
	r.rowNum++

	values, err := r.rows.Columns(excelize.Options{RawCellValue: true})
	if err != nil {
		r.err = fmt.Errorf("%w: %s строка %d: %v", ErrUnreadableFile, r.path, r.rowNum, err)
		return false
	}

	r.cur = make(Row, len(values))
	for i, v := range values {
		if !needsType(v) {
			r.cur[i] = TextCell(v)
			continue
		}
		r.cur[i] = classify(v, r.cellType(i+1))
	}
	return true
}

func (r *xlsxReader) cellType(col int) excelize.CellType {
	ref, err := excelize.CoordinatesToCellName(col, r.rowNum)
	if err != nil {
		return excelize.CellTypeUnset
	}
	t, err := r.f.GetCellType(r.sheet, ref)
	if err != nil {
		return excelize.CellTypeUnset
	}
	return t
}

// needsType сообщает, что без типа ячейки raw не классифицировать.
func needsType(raw string) bool {
	if raw == "" || strings.HasPrefix(raw, "#") {
		return true
	}
	_, err := strconv.ParseFloat(raw, 64)
	return err == nil
}

func (r *xlsxReader) Row() Row { return r.cur }

func (r *xlsxReader) Err() error { return r.err }

func (r *xlsxReader) Close() error {
	rowsErr := r.rows.Close()
	if err := r.f.Close(); err != nil {
		return err
	}
	return rowsErr
}

// classify сопоставляет сырому значению и типу ячейки Cell. Строковые ячейки
// остаются Text, даже если похожи на число; ячейки без типа (так хранятся
// числа) становятся Number, если разбираются как число.
func classify(value string, t excelize.CellType) Cell {
	switch t {
	case excelize.CellTypeError:
		return Cell{Kind: Error, Text: value}
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString,
		excelize.CellTypeFormula, excelize.CellTypeBool, excelize.CellTypeDate:
		return TextCell(value)
	}

	if value == "" {
		return Cell{}
	}
	if n, err := strconv.ParseFloat(value, 64); err == nil {
		return Cell{Kind: Number, Text: value, Number: n}
	}
	return TextCell(value)
}
