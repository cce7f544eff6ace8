package compare

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/ryabkov82/rate-comparer/internal/sheet"
)

// FindInputFiles перечисляет таблицы непосредственно в dir, по имени.
// Подпапки, lock-файлы Office ("~$...") и скрытые файлы пропускаются.
func FindInputFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения папки %s: %w", dir, err)
	}

	var files []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, "~$") || strings.HasPrefix(name, ".") {
			continue
		}
		if !sheet.Supported(name) {
			continue
		}
		files = append(files, filepath.Join(dir, name))
	}
	slices.Sort(files)
	return files, nil
}

// withoutReport убирает из files сам отчёт, если он лежит среди входных.
func withoutReport(files []string, report string) []string {
	if report == "" {
		return files
	}
	reportAbs, err := filepath.Abs(report)
	if err != nil {
		reportAbs = filepath.Clean(report)
	}
	reportInfo, statErr := os.Stat(report)

	out := files[:0:0]
	for _, path := range files {
		abs, err := filepath.Abs(path)
		if err != nil {
			abs = filepath.Clean(path)
		}
		if abs == reportAbs {
			continue
		}
		if statErr == nil {
			if info, err := os.Stat(path); err == nil && os.SameFile(info, reportInfo) {
				continue
			}
		}
		out = append(out, path)
	}
	return out
}
