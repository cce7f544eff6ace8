package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	"github.com/ryabkov82/rate-comparer/internal/compare"
	"github.com/ryabkov82/rate-comparer/internal/period"
)

// EnvPrefix - префикс переменных окружения, например RATECOMPARE_COLUMN.
const EnvPrefix = "RATECOMPARE"

const (
	DefaultOutput    = "ComparisonReport.xlsx"
	DefaultSheetName = compare.DefaultSheetName
	outputSubdir     = "output"
)

type Config struct {
	InputDir       string        `yaml:"dir" envconfig:"DIR"`
	Column         string        `yaml:"column" envconfig:"COLUMN"`
	ColumnMode     string        `yaml:"column_mode" envconfig:"COLUMN_MODE"`
	PeriodStrategy string        `yaml:"period_strategy" envconfig:"PERIOD_STRATEGY"`
	Absent         string        `yaml:"absent" envconfig:"ABSENT"`
	KeyCase        string        `yaml:"key_case" envconfig:"KEY_CASE"`
	KeyLayout      string        `yaml:"key_layout" envconfig:"KEY_LAYOUT"`
	OutputPath     string        `yaml:"out" envconfig:"OUT"`
	OutputSubdir   bool          `yaml:"output_subdir" envconfig:"OUTPUT_SUBDIR"`
	SheetName      string        `yaml:"sheet_name" envconfig:"SHEET_NAME"`
	MetricsFile    string        `yaml:"metrics_file" envconfig:"METRICS_FILE"`
	ListHeaders    bool          `yaml:"-" ignored:"true"`
	Logging        LoggingConfig `yaml:"log" envconfig:"LOG"`
}

type LoggingConfig struct {
	Level  string `yaml:"level" envconfig:"LEVEL"`
	Format string `yaml:"format" envconfig:"FORMAT"`
}

// Default возвращает Config со значениями по умолчанию.
func Default() Config {
	return Config{
		ColumnMode:     "auto",
		PeriodStrategy: "pattern",
		KeyCase:        "preserve",
		KeyLayout:      "joined",
		OutputPath:     DefaultOutput,
		SheetName:      DefaultSheetName,
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// ParseFlags собирает конфигурацию запуска: умолчания, затем YAML-файл из
// -config, затем переменные RATECOMPARE_*, затем явно заданные флаги.
func ParseFlags(args []string, stderr io.Writer) (*Config, error) {
	fs := flag.NewFlagSet("rate-comparer", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var flags Config
	var configPath string
	fs.StringVar(&configPath, "config", "", "YAML-файл конфигурации")
	fs.StringVar(&flags.InputDir, "dir", "", "папка с месячными файлами тарифов")
	fs.StringVar(&flags.Column, "column", "", "колонка тарифа: заголовок или буква колонки")
	fs.StringVar(&flags.ColumnMode, "column-mode", "", "режим колонки: auto, name или letter")
	fs.StringVar(&flags.PeriodStrategy, "period", "", "период из имени файла: pattern (Jan-2024) или keyword (jan)")
	fs.StringVar(&flags.Absent, "absent", "", "пустые значения: blank или zero (по умолчанию зависит от -period)")
	fs.StringVar(&flags.KeyCase, "key-case", "", "регистр ключа: preserve или upper")
	fs.StringVar(&flags.KeyLayout, "key-layout", "", "колонки ключа: joined или split")
	fs.StringVar(&flags.OutputPath, "out", "", "результирующий файл")
	fs.BoolVar(&flags.OutputSubdir, "output-subdir", false, "сохранять отчёт в <dir>/output")
	fs.StringVar(&flags.SheetName, "sheet", "", "имя листа отчёта")
	fs.StringVar(&flags.MetricsFile, "metrics-file", "", "файл метрик запуска в текстовом формате Prometheus")
	fs.BoolVar(&flags.ListHeaders, "list-headers", false, "вывести заголовки первого файла и выйти")
	fs.StringVar(&flags.Logging.Level, "log-level", "", "уровень логирования: debug, info, warn, error")
	fs.StringVar(&flags.Logging.Format, "log-format", "", "формат логов: json или text")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	cfg, err := Load(configPath)
	if err != nil {
		return nil, err
	}

	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	cfg.override(flags, set)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// Нормализация путей
	cfg.InputDir = filepath.Clean(cfg.InputDir)
	cfg.OutputPath = cfg.ResolveOutputPath()

	return cfg, nil
}

// Load читает умолчания, необязательный YAML-файл path и переменные
// окружения. Пустой path не ошибка.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("ошибка чтения файла конфигурации: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("ошибка разбора файла конфигурации %s: %w", path, err)
		}
	}

	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("ошибка чтения переменных окружения: %w", err)
	}
	return &cfg, nil
}

func (c *Config) override(f Config, set map[string]bool) {
	strs := []struct {
		name string
		dst  *string
		val  string
	}{
		{"dir", &c.InputDir, f.InputDir},
		{"column", &c.Column, f.Column},
		{"column-mode", &c.ColumnMode, f.ColumnMode},
		{"period", &c.PeriodStrategy, f.PeriodStrategy},
		{"absent", &c.Absent, f.Absent},
		{"key-case", &c.KeyCase, f.KeyCase},
		{"key-layout", &c.KeyLayout, f.KeyLayout},
		{"out", &c.OutputPath, f.OutputPath},
		{"sheet", &c.SheetName, f.SheetName},
		{"metrics-file", &c.MetricsFile, f.MetricsFile},
		{"log-level", &c.Logging.Level, f.Logging.Level},
		{"log-format", &c.Logging.Format, f.Logging.Format},
	}
	for _, s := range strs {
		if set[s.name] {
			*s.dst = s.val
		}
	}
	if set["output-subdir"] {
		c.OutputSubdir = f.OutputSubdir
	}
	if set["list-headers"] {
		c.ListHeaders = f.ListHeaders
	}
}

// Validate проверяет обязательные поля и допустимые значения опций.
func (c *Config) Validate() error {
	if c.InputDir == "" {
		return errors.New("необходимо указать папку с файлами через -dir")
	}
	if c.Column == "" && !c.ListHeaders {
		return errors.New("необходимо указать колонку тарифа через -column")
	}
	if c.OutputPath == "" {
		return errors.New("путь к отчёту не может быть пустым")
	}
	_, err := c.CompareOptions()
	return err
}

// CompareOptions переводит конфигурацию в опции сравнения. Logger и
// Recorder заполняет вызывающий.
func (c *Config) CompareOptions() (compare.Options, error) {
	var (
		opts compare.Options
		err  error
	)
	opts.Column = c.Column
	opts.SheetName = c.SheetName
	if opts.Periods, err = period.New(period.Strategy(strings.ToLower(c.PeriodStrategy))); err != nil {
		return opts, err
	}
	if opts.ColumnMode, err = compare.ParseColumnMode(c.ColumnMode); err != nil {
		return opts, err
	}
	if opts.Absent, err = compare.ParseAbsentPolicy(c.Absent, opts.Periods.Strategy()); err != nil {
		return opts, err
	}
	if opts.KeyCase, err = compare.ParseKeyCase(c.KeyCase); err != nil {
		return opts, err
	}
	if opts.Layout, err = compare.ParseKeyLayout(c.KeyLayout); err != nil {
		return opts, err
	}
	return opts, nil
}

// ResolveOutputPath кладёт относительный путь отчёта в <dir>/output, если
// задан OutputSubdir.
func (c *Config) ResolveOutputPath() string {
	out := filepath.Clean(c.OutputPath)
	if c.OutputSubdir && !filepath.IsAbs(out) {
		return filepath.Join(c.InputDir, outputSubdir, out)
	}
	return out
}
