package compare

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
)

const DefaultSheetName = "Rates Comparison"

// KeyLayout задаёт, как ключ раскладывается по колонкам отчёта.
type KeyLayout string

const (
	// KeyJoined - одна колонка "Key" со значением "proc+mod+mod2".
	KeyJoined KeyLayout = "joined"
	// KeySplit - отдельные колонки Proc, Mod и Mod2, такой отчёт снова
	// читается через RowExtractor.
	KeySplit KeyLayout = "split"
)

func ParseKeyLayout(s string) (KeyLayout, error) {
	switch KeyLayout(strings.ToLower(s)) {
	case KeyJoined, "":
		return KeyJoined, nil
	case KeySplit:
		return KeySplit, nil
	}
	return "", fmt.Errorf("неизвестная раскладка ключа %q", s)
}

const (
	minColWidth = 10
	maxColWidth = 255
)

// ReportWriter строит отчёт по Table и сохраняет его книгой из одного листа.
type ReportWriter struct {
	SheetName string
	Layout    KeyLayout
	Absent    AbsentPolicy

	MaxColWidths map[int]int
}

func NewReportWriter(layout KeyLayout, absent AbsentPolicy) *ReportWriter {
	return &ReportWriter{
		SheetName:    DefaultSheetName,
		Layout:       layout,
		Absent:       absent,
		MaxColWidths: make(map[int]int),
	}
}

// Render строит прямоугольный отчёт: строка заголовков, затем по строке на
// ключ в порядке таблицы. Ячейки без данных - nil (пусто) или 0, в
// зависимости от AbsentPolicy.
func (w *ReportWriter) Render(t *Table) [][]any {
	var header []any
	if w.Layout == KeySplit {
		header = []any{"Proc", "Mod", "Mod2"}
	} else {
		header = []any{"Key"}
	}
	keyCols := len(header)
	for _, p := range t.Periods {
		header = append(header, p.Label)
	}

	out := make([][]any, 0, len(t.Keys)+1)
	out = append(out, header)

	for _, k := range t.Keys {
		row := make([]any, len(header))
		if w.Layout == KeySplit {
			row[0], row[1], row[2] = k.ProcCode, k.Modifier, k.Modifier2
		} else {
			row[0] = k.String()
		}
		values := t.Values[k]
		for i, p := range t.Periods {
			if v, ok := values[p]; ok {
				row[keyCols+i] = v
			} else if w.Absent == AbsentZero {
				row[keyCols+i] = 0.0
			}
		}
		out = append(out, row)
	}
	return out
}

// Write строит отчёт по t и заменяет файл path. Книга пишется во временный
// файл рядом с path и переименовывается на место; любая ошибка оборачивает
// ErrWrite, прежний отчёт при этом не трогается.
func (w *ReportWriter) Write(path string, t *Table) error {
	rows := w.Render(t)
	w.measure(rows)

	f := excelize.NewFile()
	defer f.Close()

	sheet := w.SheetName
	if sheet == "" {
		sheet = DefaultSheetName
	}
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return fmt.Errorf("%w: имя листа %q: %v", ErrWrite, sheet, err)
	}

	sw, err := f.NewStreamWriter(sheet)
	if err != nil {
		return fmt.Errorf("%w: ошибка создания StreamWriter: %v", ErrWrite, err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("%w: стиль заголовков: %v", ErrWrite, err)
	}

	for col := 0; col < len(rows[0]); col++ {
		if err := sw.SetColWidth(col+1, col+1, float64(w.MaxColWidths[col])); err != nil {
			return fmt.Errorf("%w: ширина колонки: %v", ErrWrite, err)
		}
	}

	for i, row := range rows {
		cells := row
		if i == 0 {
			cells = make([]any, len(row))
			for j, v := range row {
				cells[j] = excelize.Cell{Value: v, StyleID: headerStyle}
			}
		}
		ref, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := sw.SetRow(ref, cells); err != nil {
			return fmt.Errorf("%w: строка %d: %v", ErrWrite, i+1, err)
		}
	}
	if err := sw.Flush(); err != nil {
		return fmt.Errorf("%w: ошибка финального flush: %v", ErrWrite, err)
	}

	return saveAtomic(f, path)
}

// measure запоминает самое широкое значение в каждой колонке.
func (w *ReportWriter) measure(rows [][]any) {
	if w.MaxColWidths == nil {
		w.MaxColWidths = make(map[int]int)
	}
	for _, row := range rows {
		for col, v := range row {
			if v == nil {
				continue
			}
			width := utf8.RuneCountInString(fmt.Sprint(v)) + 2
			if width < minColWidth {
				width = minColWidth
			}
			if width > maxColWidth {
				width = maxColWidth
			}
			if width > w.MaxColWidths[col] {
				w.MaxColWidths[col] = width
			}
		}
	}
}

// Временные файлы скрыты, поэтому FindInputFiles их не подхватывает.
const tempReportPattern = ".report-*.xlsx"

func saveAtomic(f *excelize.File, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}

	tmp, err := os.CreateTemp(dir, tempReportPattern)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}
	tmpName := tmp.Name()

	if _, err := f.WriteTo(tmp); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("%w: %s: %v", ErrWrite, path, err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("%w: %s: %v", ErrWrite, path, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("%w: %s: %v", ErrWrite, path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("%w: %s: %v", ErrWrite, path, err)
	}
	return nil
}
