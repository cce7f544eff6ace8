// Package sheet читает первый лист табличного файла как типизированные ячейки.
//
// Неожиданное содержимое ячеек не приводит ни к панике, ни к ошибке: всё, что
// не текст и не число, отдаётся как Blank или Error, и вызывающий считает
// такую ячейку отсутствующей.
package sheet

import (
	"strconv"
	"strings"
)

type Kind int

const (
	Blank Kind = iota
	Text
	Number
	Error
)

func (k Kind) String() string {
	switch k {
	case Text:
		return "text"
	case Number:
		return "number"
	case Error:
		return "error"
	default:
		return "blank"
	}
}

// Cell - ячейка листа. Text хранит исходный текст для всех видов, кроме
// Blank; Number имеет смысл только для Number.
type Cell struct {
	Kind   Kind
	Text   string
	Number float64
}

// Present сообщает, есть ли в ячейке пригодное значение.
func (c Cell) Present() bool {
	return c.Kind == Text || c.Kind == Number
}

// String возвращает обрезанный текст ячейки со значением.
func (c Cell) String() string {
	if !c.Present() {
		return ""
	}
	return strings.TrimSpace(c.Text)
}

func TextCell(s string) Cell {
	return Cell{Kind: Text, Text: s}
}

func NumberCell(v float64) Cell {
	return Cell{Kind: Number, Text: strconv.FormatFloat(v, 'f', -1, 64), Number: v}
}

// Row - строка листа; ячейки за её концом считаются Blank.
type Row []Cell

func (r Row) At(i int) Cell {
	if i < 0 || i >= len(r) {
		return Cell{}
	}
	return r[i]
}

// Empty сообщает, что в строке нет ни одного непустого значения.
func (r Row) Empty() bool {
	for _, c := range r {
		if c.Kind != Blank && strings.TrimSpace(c.Text) != "" {
			return false
		}
	}
	return true
}

// Reader обходит строки первого листа по порядку, начиная с заголовка.
// Контракт как у bufio.Scanner: Next до false, затем проверить Err.
type Reader interface {
	Next() bool
	Row() Row
	Err() error
	Close() error
}
