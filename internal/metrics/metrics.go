// Package metrics считает, что сделал запуск сравнения. После запуска
// счётчики можно записать textfile-ом для node_exporter.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics реализует compare.Recorder на собственном реестре.
type Metrics struct {
	registry *prometheus.Registry

	files       *prometheus.CounterVec
	readings    prometheus.Counter
	skippedRows prometheus.Counter
	keys        prometheus.Gauge
	periods     prometheus.Gauge
	lastSuccess prometheus.Gauge
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		files: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ratecompare_files_total",
			Help: "Входные файлы по результату обработки.",
		}, []string{"outcome"}),
		readings: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ratecompare_readings_total",
			Help: "Тарифы, попавшие в сравнение.",
		}),
		skippedRows: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ratecompare_skipped_rows_total",
			Help: "Строки данных, пропущенные из-за пустого ключа или нечислового тарифа.",
		}),
		keys: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "ratecompare_report_keys",
			Help: "Строк в последнем записанном отчёте.",
		}),
		periods: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "ratecompare_report_periods",
			Help: "Колонок периодов в последнем записанном отчёте.",
		}),
		lastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "ratecompare_last_success_timestamp_seconds",
			Help: "Unix-время последней успешной записи отчёта.",
		}),
	}
	m.registry.MustRegister(m.files, m.readings, m.skippedRows, m.keys, m.periods, m.lastSuccess)
	return m
}

func (m *Metrics) FileProcessed(readings, skippedRows int) {
	m.files.WithLabelValues("processed").Inc()
	m.readings.Add(float64(readings))
	m.skippedRows.Add(float64(skippedRows))
}

// FileSkipped учитывает пропущенный файл по причине.
func (m *Metrics) FileSkipped(reason string) {
	m.files.WithLabelValues(reason).Inc()
}

func (m *Metrics) ReportWritten(keys, periods int) {
	m.keys.Set(float64(keys))
	m.periods.Set(float64(periods))
	m.lastSuccess.SetToCurrentTime()
}

// WriteTextfile пишет все метрики в path в текстовом формате.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("ошибка записи файла метрик: %w", err)
	}
	return nil
}
