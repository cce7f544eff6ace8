// Package period определяет отчётный период по имени входного файла.
//
// За один запуск используется ровно одна стратегия:
//
//   - pattern: первое вхождение "<буквы>[-_ .]<4 цифры>" в имени превращается
//     в "<буквы>-<цифры>" (например "Jan-2024"). Имя без такого вхождения
//     даёт ErrNoPeriodMatch.
//   - keyword: в имени без учёта регистра ищется трёхбуквенное сокращение
//     месяца, периодом служит его индекс с нуля. Имя без месяца молча
//     относится к январю (индекс 0); отличить этот случай можно через
//     MonthLookup.
package period

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
)

var ErrNoPeriodMatch = errors.New("в имени файла не найден период")

type Strategy string

const (
	StrategyPattern Strategy = "pattern"
	StrategyKeyword Strategy = "keyword"
)

// Months - канонические сокращения месяцев по порядку.
var Months = [12]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

// Period - колонка сравнительной таблицы. Index - номер месяца для
// стратегии keyword и -1 для pattern.
type Period struct {
	Label string
	Index int
}

func (p Period) String() string {
	return p.Label
}

// Extractor сопоставляет имени файла период и упорядочивает периоды запуска.
type Extractor interface {
	Strategy() Strategy
	Extract(name string) (Period, error)
	Order(observed []Period) []Period
}

// MonthLookup реализуют экстракторы, которые умеют сообщить, был ли месяц
// действительно найден в имени.
type MonthLookup interface {
	Lookup(name string) (int, bool)
}

// New возвращает экстрактор для стратегии s.
func New(s Strategy) (Extractor, error) {
	switch s {
	case StrategyPattern, "":
		return NewPatternExtractor(), nil
	case StrategyKeyword:
		return KeywordExtractor{}, nil
	default:
		return nil, fmt.Errorf("неизвестная стратегия периода %q", s)
	}
}

type PatternExtractor struct {
	re *regexp.Regexp
}

func NewPatternExtractor() *PatternExtractor {
	return &PatternExtractor{re: regexp.MustCompile(`([a-zA-Z]+)[-_ .]?(\d{4})`)}
}

func (e *PatternExtractor) Strategy() Strategy { return StrategyPattern }

func (e *PatternExtractor) Extract(name string) (Period, error) {
	m := e.re.FindStringSubmatch(filepath.Base(name))
	if m == nil {
		return Period{}, fmt.Errorf("%w: %s", ErrNoPeriodMatch, name)
	}
	return Period{Label: m[1] + "-" + m[2], Index: -1}, nil
}

// Order сортирует метки как обычные строки, поэтому сокращённые месяцы идут
// не по хронологии: "Dec-2023" < "Feb-2024" < "Jan-2024".
func (e *PatternExtractor) Order(observed []Period) []Period {
	out := uniq(observed)
	slices.SortStableFunc(out, func(a, b Period) int {
		return strings.Compare(a.Label, b.Label)
	})
	return out
}

type KeywordExtractor struct{}

func (KeywordExtractor) Strategy() Strategy { return StrategyKeyword }

// Lookup возвращает первый (в календарном порядке) месяц, найденный в имени.
func (KeywordExtractor) Lookup(name string) (int, bool) {
	lower := strings.ToLower(filepath.Base(name))
	for i, m := range Months {
		if strings.Contains(lower, strings.ToLower(m)) {
			return i, true
		}
	}
	return 0, false
}

// Extract не возвращает ошибок: имя без месяца даёт январь.
func (k KeywordExtractor) Extract(name string) (Period, error) {
	i, _ := k.Lookup(name)
	return Month(i), nil
}

// Order всегда отдаёт все двенадцать месяцев.
func (KeywordExtractor) Order([]Period) []Period {
	out := make([]Period, len(Months))
	for i := range Months {
		out[i] = Month(i)
	}
	return out
}

// Month возвращает период keyword по индексу месяца с нуля.
func Month(i int) Period {
	return Period{Label: Months[i], Index: i}
}

func uniq(in []Period) []Period {
	seen := make(map[Period]struct{}, len(in))
	out := make([]Period, 0, len(in))
	for _, p := range in {
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out
}
