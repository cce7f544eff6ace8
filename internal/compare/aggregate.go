package compare

import (
	"fmt"
	"iter"
	"slices"
	"strings"

	"github.com/ryabkov82/rate-comparer/internal/period"
)

// AbsentPolicy определяет, что выводится для ключа без данных за период.
type AbsentPolicy string

const (
	AbsentBlank AbsentPolicy = "blank"
	AbsentZero  AbsentPolicy = "zero"
)

// ParseAbsentPolicy разбирает s. Пустое значение берёт умолчание стратегии:
// blank для pattern и zero для keyword.
func ParseAbsentPolicy(s string, strategy period.Strategy) (AbsentPolicy, error) {
	switch AbsentPolicy(strings.ToLower(s)) {
	case AbsentBlank:
		return AbsentBlank, nil
	case AbsentZero:
		return AbsentZero, nil
	case "":
		if strategy == period.StrategyKeyword {
			return AbsentZero, nil
		}
		return AbsentBlank, nil
	}
	return "", fmt.Errorf("неизвестная политика пустых значений %q", s)
}

// Aggregator сводит показания всех файлов запуска в разреженную матрицу
// ключ x период. Ключи хранятся в порядке первого появления.
type Aggregator struct {
	periods period.Extractor
	order   []RateKey
	values  map[RateKey]map[period.Period]float64
	seen    []period.Period
}

func NewAggregator(periods period.Extractor) *Aggregator {
	return &Aggregator{
		periods: periods,
		values:  make(map[RateKey]map[period.Period]float64),
	}
}

// Fold записывает показания под период p и возвращает их число. Более
// позднее показание для того же ключа и периода заменяет прежнее.
func (a *Aggregator) Fold(p period.Period, readings iter.Seq[Reading]) int {
	n := 0
	for r := range readings {
		row, ok := a.values[r.Key]
		if !ok {
			row = make(map[period.Period]float64)
			a.values[r.Key] = row
			a.order = append(a.order, r.Key)
		}
		row[p] = r.Value
		n++
	}
	if n > 0 && !slices.Contains(a.seen, p) {
		a.seen = append(a.seen, p)
	}
	return n
}

// Value возвращает тариф ключа k за период p.
func (a *Aggregator) Value(k RateKey, p period.Period) (float64, bool) {
	v, ok := a.values[k][p]
	return v, ok
}

// Len - число различных ключей.
func (a *Aggregator) Len() int { return len(a.order) }

// Periods возвращает упорядоченные колонки отчёта (см. period.Extractor.Order).
func (a *Aggregator) Periods() []period.Period {
	return a.periods.Order(a.seen)
}

// Table снимает копию агрегата для вывода.
func (a *Aggregator) Table() *Table {
	values := make(map[RateKey]map[period.Period]float64, len(a.values))
	for k, row := range a.values {
		cp := make(map[period.Period]float64, len(row))
		for p, v := range row {
			cp[p] = v
		}
		values[k] = cp
	}
	return &Table{
		Periods: a.Periods(),
		Keys:    slices.Clone(a.order),
		Values:  values,
	}
}

// Table - итог сравнения: строка на ключ, колонка на период.
type Table struct {
	Periods []period.Period
	Keys    []RateKey
	Values  map[RateKey]map[period.Period]float64
}
