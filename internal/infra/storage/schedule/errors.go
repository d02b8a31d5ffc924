package schedule

import "errors"

var (
	// ErrHoursNotFound возвращается, когда для дня недели нет строки расписания
	ErrHoursNotFound = errors.New("schedule.repository: operating hours not found")

	// ErrOverrideNotFound возвращается, когда исключение на дату не найдено
	ErrOverrideNotFound = errors.New("schedule.repository: schedule override not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("schedule.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("schedule.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("schedule.repository: failed to scan row")
)
