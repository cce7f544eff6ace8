// Package compare строит отчёт сравнения тарифов: находит выбранную колонку
// тарифа в каждой месячной книге, извлекает тарифы по ключам, сводит их в
// одну таблицу ключ x период и записывает её.
package compare

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"slices"

	"github.com/ryabkov82/rate-comparer/internal/period"
	"github.com/ryabkov82/rate-comparer/internal/sheet"
)

// Причины пропуска файла для Recorder.
const (
	ReasonNoPeriod   = "no_period"
	ReasonColumn     = "column"
	ReasonUnreadable = "unreadable"
)

// Recorder наблюдает за ходом запуска.
type Recorder interface {
	FileProcessed(readings, skippedRows int)
	FileSkipped(reason string)
	ReportWritten(keys, periods int)
}

type nopRecorder struct{}

func (nopRecorder) FileProcessed(int, int) {}
func (nopRecorder) FileSkipped(string)     {}
func (nopRecorder) ReportWritten(int, int) {}

type Options struct {
	Column     string
	ColumnMode ColumnMode
	Periods    period.Extractor
	KeyCase    KeyCase
	Absent     AbsentPolicy
	Layout     KeyLayout
	SheetName  string
	Logger     *slog.Logger
	Recorder   Recorder
}

// FileResult описывает результат обработки одного входного файла.
type FileResult struct {
	Path        string `json:"path"`
	Period      string `json:"period,omitempty"`
	Readings    int    `json:"readings"`
	SkippedRows int    `json:"skipped_rows"`
	Error       string `json:"error,omitempty"`
}

type Result struct {
	OutputPath string       `json:"output_file"`
	Processed  []FileResult `json:"processed"`
	Skipped    []FileResult `json:"skipped,omitempty"`
	Keys       int          `json:"keys"`
	Periods    int          `json:"periods"`
}

// Comparer выполняет сравнение. Между запусками состояние не хранится.
type Comparer struct {
	opts Options
	log  *slog.Logger
	rec  Recorder
}

func New(opts Options) *Comparer {
	if opts.Periods == nil {
		opts.Periods = period.NewPatternExtractor()
	}
	if opts.Absent == "" {
		opts.Absent, _ = ParseAbsentPolicy("", opts.Periods.Strategy())
	}
	if opts.Layout == "" {
		opts.Layout = KeyJoined
	}
	if opts.ColumnMode == "" {
		opts.ColumnMode = ColumnAuto
	}
	if opts.KeyCase == "" {
		opts.KeyCase = KeyCasePreserve
	}
	c := &Comparer{opts: opts, log: opts.Logger, rec: opts.Recorder}
	if c.log == nil {
		c.log = slog.Default()
	}
	if c.rec == nil {
		c.rec = nopRecorder{}
	}
	return c
}

// CompareDir сравнивает все таблицы, лежащие непосредственно в dir. Прежний
// отчёт, сохранённый в ту же папку, входным файлом не считается.
func (c *Comparer) CompareDir(dir, outPath string) (*Result, error) {
	found, err := FindInputFiles(dir)
	if err != nil {
		return nil, err
	}
	files := withoutReport(found, outPath)
	if len(files) < len(found) {
		c.log.Info("Файл отчёта исключён из входных", slog.String("file", outPath))
	}
	return c.CompareFiles(files, outPath)
}

// CompareFiles сводит files по порядку и пишет отчёт в outPath. Проблемный
// файл логируется и пропускается; ошибкой возвращается только сбой записи
// отчёта.
func (c *Comparer) CompareFiles(files []string, outPath string) (*Result, error) {
	if len(files) == 0 {
		return nil, ErrNoInputFiles
	}

	agg, res := c.Aggregate(files)
	table := agg.Table()

	w := NewReportWriter(c.opts.Layout, c.opts.Absent)
	if c.opts.SheetName != "" {
		w.SheetName = c.opts.SheetName
	}
	if err := w.Write(outPath, table); err != nil {
		return nil, err
	}

	res.OutputPath = outPath
	res.Keys = len(table.Keys)
	res.Periods = len(table.Periods)
	c.rec.ReportWritten(res.Keys, res.Periods)
	c.log.Info("Отчёт сравнения сформирован",
		slog.String("output", outPath),
		slog.Int("keys", res.Keys),
		slog.Int("periods", res.Periods),
		slog.Int("files_processed", len(res.Processed)),
		slog.Int("files_skipped", len(res.Skipped)))
	return res, nil
}

// Aggregate сводит files в новый Aggregator, ничего не записывая.
func (c *Comparer) Aggregate(files []string) (*Aggregator, *Result) {
	agg := NewAggregator(c.opts.Periods)
	res := &Result{}

	for _, path := range files {
		fr, err := c.foldFile(agg, path)
		if err != nil {
			fr.Error = err.Error()
			res.Skipped = append(res.Skipped, fr)
			c.rec.FileSkipped(skipReason(err))
			c.log.Warn("Файл пропущен", slog.String("file", path), slog.String("error", err.Error()))
			continue
		}
		res.Processed = append(res.Processed, fr)
		c.rec.FileProcessed(fr.Readings, fr.SkippedRows)
		c.log.Info("Файл обработан",
			slog.String("file", path),
			slog.String("period", fr.Period),
			slog.Int("readings", fr.Readings),
			slog.Int("skipped_rows", fr.SkippedRows))
	}
	return agg, res
}

// foldFile читает книгу целиком и только потом трогает agg, поэтому сбой
// чтения посреди файла ничего не добавляет в таблицу.
func (c *Comparer) foldFile(agg *Aggregator, path string) (FileResult, error) {
	fr := FileResult{Path: path}

	p, err := c.opts.Periods.Extract(filepath.Base(path))
	if err != nil {
		return fr, err
	}
	if lk, ok := c.opts.Periods.(period.MonthLookup); ok {
		if _, found := lk.Lookup(path); !found {
			c.log.Warn("В имени файла нет месяца, используется январь", slog.String("file", path))
		}
	}
	fr.Period = p.Label

	r, err := sheet.Open(path)
	if err != nil {
		return fr, err
	}
	defer r.Close()

	if !r.Next() {
		if err := r.Err(); err != nil {
			return fr, err
		}
		return fr, fmt.Errorf("%w: %q: нет строки заголовков", ErrColumnNotFound, c.opts.Column)
	}
	col, err := ResolveColumn(r.Row(), c.opts.Column, c.opts.ColumnMode)
	if err != nil {
		return fr, err
	}

	x := NewRowExtractor(col, c.opts.KeyCase)
	readings := slices.Collect(x.Readings(r))
	if err := r.Err(); err != nil {
		return fr, err
	}

	fr.Readings = agg.Fold(p, slices.Values(readings))
	fr.SkippedRows = x.Skipped()
	return fr, nil
}

func skipReason(err error) string {
	switch {
	case errors.Is(err, period.ErrNoPeriodMatch):
		return ReasonNoPeriod
	case errors.Is(err, ErrColumnNotFound), errors.Is(err, ErrInvalidColumnName):
		return ReasonColumn
	default:
		return ReasonUnreadable
	}
}

// ListHeaders возвращает заголовки первой таблицы в dir, не считая отчёта
// report. Для папки без таблиц или файла без заголовков список пуст.
func ListHeaders(dir, report string) ([]string, error) {
	found, err := FindInputFiles(dir)
	if err != nil {
		return nil, err
	}
	files := withoutReport(found, report)
	if len(files) == 0 {
		return []string{}, nil
	}
	header, err := sheet.Header(files[0])
	if err != nil {
		return nil, err
	}
	return HeaderLabels(header), nil
}
