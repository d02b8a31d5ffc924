package get_day_timeline

import "errors"

var (
	// ErrBusinessNotFound возвращается, когда бизнес не найден
	ErrBusinessNotFound = errors.New("get_day_timeline: business not found")

	// ErrServiceNotFound возвращается, когда услуга не найдена или не принадлежит бизнесу
	ErrServiceNotFound = errors.New("get_day_timeline: service not found")

	// ErrForbidden возвращается, когда вызывающий не управляет бизнесом
	ErrForbidden = errors.New("get_day_timeline: access denied")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("get_day_timeline: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("get_day_timeline: internal error")
)
