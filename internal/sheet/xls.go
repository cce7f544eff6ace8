package sheet

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/extrame/xls"
)

// xlsReader читает старые книги BIFF. Формат отдаёт каждую ячейку строкой,
// числа распознаются разбором. Пустая строка означает отсутствие ячейки:
// библиотека не отличает пропущенную ячейку от пустой.
type xlsReader struct {
	file *os.File
	rows [][]string
	next int
	cur  Row
}

func openXLS(path string) (*xlsReader, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnreadableFile, path, err)
	}

	wb, err := xls.OpenReader(file, "utf-8")
	if err != nil || wb == nil {
		_ = file.Close()
		if err == nil {
			err = errors.New("нет потока Workbook")
		}
		return nil, fmt.Errorf("%w: %s: %v", ErrUnreadableFile, path, err)
	}

	ws := wb.GetSheet(0)
	if ws == nil {
		_ = file.Close()
		return nil, fmt.Errorf("%w: %s: в книге нет листов", ErrUnreadableFile, path)
	}

	// ReadAllCells останавливается, набрав max строк, поэтому читается только
	// первый лист. Лист из одной строки (MaxRow == 0) библиотека отдаёт пустым.
	rows := wb.ReadAllCells(int(ws.MaxRow) + 1)
	return &xlsReader{file: file, rows: rows}, nil
}

func (r *xlsReader) Next() bool {
	if r.next >= len(r.rows) {
		return false
	}
	values := r.rows[r.next]
	r.next++

	r.cur = make(Row, len(values))
	for i, v := range values {
		r.cur[i] = parseCell(v)
	}
	return true
}

func (r *xlsReader) Row() Row { return r.cur }

func (r *xlsReader) Err() error { return nil }

func (r *xlsReader) Close() error { return r.file.Close() }

func parseCell(s string) Cell {
	if s == "" {
		return Cell{}
	}
	if n, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
		return Cell{Kind: Number, Text: s, Number: n}
	}
	return TextCell(s)
}
