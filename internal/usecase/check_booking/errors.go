package check_booking

import "errors"

var (
	// ErrBusinessNotFound возвращается, когда бизнес не найден или отключен
	ErrBusinessNotFound = errors.New("check_booking: business not found")

	// ErrServiceNotFound возвращается, когда услуга не найдена или не принадлежит бизнесу
	ErrServiceNotFound = errors.New("check_booking: service not found")

	// ErrDateInPast возвращается, когда дата уже прошла
	ErrDateInPast = errors.New("check_booking: date is in the past")

	// ErrDateTooFarInFuture возвращается, когда дата превышает ограничение advance_booking_days
	ErrDateTooFarInFuture = errors.New("check_booking: date is too far in the future")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("check_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("check_booking: internal error")
)
