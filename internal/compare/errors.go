package compare

import "errors"

var (
	ErrColumnNotFound    = errors.New("колонка не найдена")
	ErrInvalidColumnName = errors.New("некорректное имя колонки")
	ErrNoInputFiles      = errors.New("не найдено ни одного файла таблиц")
	// ErrWrite - единственная ошибка, прерывающая запуск.
	ErrWrite = errors.New("ошибка записи отчёта")
)
