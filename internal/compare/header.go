package compare

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/cases"

	"github.com/ryabkov82/rate-comparer/internal/sheet"
)

// ColumnMode задаёт, как трактуется идентификатор колонки.
type ColumnMode string

const (
	// ColumnAuto сначала ищет заголовок, затем пробует букву колонки.
	ColumnAuto   ColumnMode = "auto"
	ColumnName   ColumnMode = "name"
	ColumnLetter ColumnMode = "letter"
)

func ParseColumnMode(s string) (ColumnMode, error) {
	switch ColumnMode(strings.ToLower(s)) {
	case ColumnAuto, "":
		return ColumnAuto, nil
	case ColumnName:
		return ColumnName, nil
	case ColumnLetter:
		return ColumnLetter, nil
	}
	return "", fmt.Errorf("неизвестный режим колонки %q", s)
}

var columnLetter = regexp.MustCompile(`^[A-Za-z]$`)

// ResolveColumn возвращает индекс (с нуля) колонки id в строке заголовков.
// Имя сравнивается точно, после обрезки пробелов и без учёта регистра. Буква
// разрешается по позиции, даже если заголовок короче.
func ResolveColumn(header sheet.Row, id string, mode ColumnMode) (int, error) {
	id = strings.TrimSpace(id)

	switch mode {
	case ColumnLetter:
		return letterIndex(id)
	case ColumnName:
		if i, ok := findHeader(header, id); ok {
			return i, nil
		}
		return -1, fmt.Errorf("%w: %q", ErrColumnNotFound, id)
	default:
		if i, ok := findHeader(header, id); ok {
			return i, nil
		}
		if columnLetter.MatchString(id) {
			return letterIndex(id)
		}
		return -1, fmt.Errorf("%w: %q", ErrColumnNotFound, id)
	}
}

func findHeader(header sheet.Row, id string) (int, bool) {
	if id == "" {
		return -1, false
	}
	fold := cases.Fold()
	want := fold.String(id)
	for i, c := range header {
		if c.Kind != sheet.Text {
			continue
		}
		if fold.String(strings.TrimSpace(c.Text)) == want {
			return i, true
		}
	}
	return -1, false
}

func letterIndex(id string) (int, error) {
	if !columnLetter.MatchString(id) {
		return -1, fmt.Errorf("%w: %q - не буква колонки A-Z", ErrInvalidColumnName, id)
	}
	n, err := excelize.ColumnNameToNumber(strings.ToUpper(id))
	if err != nil {
		return -1, fmt.Errorf("%w: %v", ErrInvalidColumnName, err)
	}
	return n - 1, nil
}

// HeaderLabels перечисляет непустые текстовые ячейки заголовка по порядку.
// Для пустого заголовка возвращается пустой (не nil) срез.
func HeaderLabels(header sheet.Row) []string {
	labels := make([]string, 0, len(header))
	for _, c := range header {
		if c.Kind != sheet.Text {
			continue
		}
		if s := strings.TrimSpace(c.Text); s != "" {
			labels = append(labels, s)
		}
	}
	return labels
}
