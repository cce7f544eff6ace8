package compare

import (
	"iter"

	"github.com/ryabkov82/rate-comparer/internal/sheet"
)

// Ячейки ключа - всегда первые три колонки.
const (
	procColumn = iota
	modColumn
	mod2Column
)

// Reading - один тариф из одной строки данных.
type Reading struct {
	Key   RateKey
	Value float64
	Row   int // номер строки листа с единицы
}

// RowExtractor читает тарифы из одной найденной колонки.
type RowExtractor struct {
	column  int
	norm    normalizer
	skipped int
}

func NewRowExtractor(column int, kc KeyCase) *RowExtractor {
	return &RowExtractor{column: column, norm: newNormalizer(kc)}
}

// Extract возвращает показание строки данных. false означает, что нет одной
// из ячеек ключа или тариф не число.
func (e *RowExtractor) Extract(row sheet.Row) (RateKey, float64, bool) {
	proc, mod, mod2 := row.At(procColumn), row.At(modColumn), row.At(mod2Column)
	if !proc.Present() || !mod.Present() || !mod2.Present() {
		return RateKey{}, 0, false
	}
	rate := row.At(e.column)
	if rate.Kind != sheet.Number {
		return RateKey{}, 0, false
	}
	return e.norm.key(proc.Text, mod.Text, mod2.Text), rate.Number, true
}

// Readings лениво отдаёт показания всех оставшихся строк r; строка
// заголовков должна быть уже прочитана. Пустые строки пропускаются молча,
// некорректные учитываются в Skipped. После обхода проверьте r.Err.
func (e *RowExtractor) Readings(r sheet.Reader) iter.Seq[Reading] {
	return func(yield func(Reading) bool) {
		rowNum := 1
		for r.Next() {
			rowNum++
			row := r.Row()
			if row.Empty() {
				continue
			}
			key, v, ok := e.Extract(row)
			if !ok {
				e.skipped++
				continue
			}
			if !yield(Reading{Key: key, Value: v, Row: rowNum}) {
				return
			}
		}
	}
}

// Skipped - сколько непустых строк отброшено.
func (e *RowExtractor) Skipped() int { return e.skipped }
