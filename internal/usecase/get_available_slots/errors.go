package get_available_slots

import "errors"

var (
	// ErrBusinessNotFound возвращается, когда бизнес не найден или отключен
	ErrBusinessNotFound = errors.New("get_available_slots: business not found")

	// ErrServiceNotFound возвращается, когда услуга не найдена, отключена или принадлежит другому бизнесу
	ErrServiceNotFound = errors.New("get_available_slots: service not found")

	// ErrDateInPast возвращается, когда запрошенная дата уже прошла
	ErrDateInPast = errors.New("get_available_slots: date is in the past")

	// ErrDateTooFarInFuture возвращается, когда дата превышает ограничение advance_booking_days
	ErrDateTooFarInFuture = errors.New("get_available_slots: date is too far in the future")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("get_available_slots: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("get_available_slots: internal error")
)
