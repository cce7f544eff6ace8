package sheet

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

var ErrUnreadableFile = errors.New("не удалось прочитать таблицу")

// Supported сообщает, умеет ли Open читать файл с таким расширением.
func Supported(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx", ".xlsm", ".xls":
		return true
	}
	return false
}

// Open открывает path на чтение. Вызывающий обязан закрыть Reader.
func Open(path string) (Reader, error) {
	var (
		r   Reader
		err error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		r, err = openXLSX(path)
	case ".xls":
		r, err = openXLS(path)
	default:
		err = fmt.Errorf("%w: %s: неподдерживаемое расширение", ErrUnreadableFile, path)
	}
	if err != nil {
		return nil, err
	}
	return r, nil
}

// Header возвращает первую строку файла path. Для файла без строк
// заголовок пуст.
func Header(path string) (Row, error) {
	r, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	if !r.Next() {
		if err := r.Err(); err != nil {
			return nil, err
		}
		return Row{}, nil
	}
	return r.Row(), nil
}
