package hold

import "errors"

var (
	// ErrHoldNotFound возвращается, когда активный hold не найден
	ErrHoldNotFound = errors.New("hold not found")

	// ErrHoldConflict возвращается при попытке захватить слот,
	// на который уже есть активный hold (уникальный индекс в БД)
	ErrHoldConflict = errors.New("slot already held")

	// ErrBuildQuery ошибка построения SQL запроса
	ErrBuildQuery = errors.New("failed to build query")

	// ErrExecQuery ошибка выполнения SQL запроса
	ErrExecQuery = errors.New("failed to execute query")

	// ErrScanRow ошибка сканирования строки результата
	ErrScanRow = errors.New("failed to scan row")
)
