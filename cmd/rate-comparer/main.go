package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/ryabkov82/rate-comparer/internal/compare"
	"github.com/ryabkov82/rate-comparer/internal/config"
	"github.com/ryabkov82/rate-comparer/internal/logging"
	"github.com/ryabkov82/rate-comparer/internal/metrics"
)

type Output struct {
	Success        bool                 `json:"success"`
	RunID          string               `json:"run_id,omitempty"`
	OutputFile     string               `json:"output_file,omitempty"`
	Headers        []string             `json:"headers,omitempty"`
	FilesProcessed int                  `json:"files_processed"`
	FilesSkipped   int                  `json:"files_skipped"`
	Skipped        []compare.FileResult `json:"skipped,omitempty"`
	Keys           int                  `json:"keys"`
	Periods        int                  `json:"periods"`
	Error          string               `json:"error,omitempty"`
	Duration       string               `json:"duration"`
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	start := time.Now()

	cfg, err := config.ParseFlags(args, stderr)
	if err != nil {
		emitJSON(stdout, Output{
			Error:    fmt.Sprintf("Ошибка конфигурации: %v", err),
			Duration: time.Since(start).String(),
		})
		return 2
	}

	base, err := logging.New(cfg.Logging, stderr)
	if err != nil {
		emitJSON(stdout, Output{
			Error:    fmt.Sprintf("Ошибка конфигурации: %v", err),
			Duration: time.Since(start).String(),
		})
		return 2
	}
	logger, runID := logging.WithRun(base)

	if cfg.ListHeaders {
		headers, err := compare.ListHeaders(cfg.InputDir, cfg.OutputPath)
		if err != nil {
			logger.Error("Ошибка чтения заголовков", slog.String("dir", cfg.InputDir), slog.String("error", err.Error()))
			emitJSON(stdout, Output{
				RunID:    runID,
				Error:    fmt.Sprintf("Ошибка чтения заголовков: %v", err),
				Duration: time.Since(start).String(),
			})
			return 1
		}
		emitJSON(stdout, Output{
			Success:  true,
			RunID:    runID,
			Headers:  headers,
			Duration: time.Since(start).String(),
		})
		return 0
	}

	opts, err := cfg.CompareOptions()
	if err != nil {
		emitJSON(stdout, Output{
			RunID:    runID,
			Error:    fmt.Sprintf("Ошибка конфигурации: %v", err),
			Duration: time.Since(start).String(),
		})
		return 2
	}
	m := metrics.New()
	opts.Logger = logger
	opts.Recorder = m

	logger.Info("Запуск сравнения тарифов",
		slog.String("input_dir", cfg.InputDir),
		slog.String("column", cfg.Column),
		slog.String("period_strategy", string(opts.Periods.Strategy())),
		slog.String("output", cfg.OutputPath))

	res, err := compare.New(opts).CompareDir(cfg.InputDir, cfg.OutputPath)
	writeMetrics(logger, m, cfg.MetricsFile)
	if err != nil {
		logger.Error("Ошибка сравнения", slog.String("error", err.Error()))
		emitJSON(stdout, Output{
			RunID:    runID,
			Error:    fmt.Sprintf("Ошибка сравнения: %v", err),
			Duration: time.Since(start).String(),
		})
		return 1
	}

	emitJSON(stdout, Output{
		Success:        true,
		RunID:          runID,
		OutputFile:     res.OutputPath,
		FilesProcessed: len(res.Processed),
		FilesSkipped:   len(res.Skipped),
		Skipped:        res.Skipped,
		Keys:           res.Keys,
		Periods:        res.Periods,
		Duration:       time.Since(start).String(),
	})
	return 0
}

func writeMetrics(logger *slog.Logger, m *metrics.Metrics, path string) {
	if path == "" {
		return
	}
	if err := m.WriteTextfile(path); err != nil {
		logger.Warn("Ошибка записи метрик", slog.String("path", path), slog.String("error", err.Error()))
	}
}

func emitJSON(w io.Writer, out Output) {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		log.Fatalf("Ошибка вывода JSON: %v", err)
	}
}
