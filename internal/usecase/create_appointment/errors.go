package create_appointment

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-AppointmentService/internal/slotengine"
)

var (
	// ErrBusinessNotFound возвращается, когда бизнес не найден или отключен
	ErrBusinessNotFound = errors.New("create_appointment: business not found")

	// ErrServiceNotFound возвращается, когда услуга не найдена или не принадлежит бизнесу
	ErrServiceNotFound = errors.New("create_appointment: service not found")

	// ErrDateInPast возвращается, когда дата уже прошла
	ErrDateInPast = errors.New("create_appointment: date is in the past")

	// ErrDateTooFarInFuture возвращается, когда дата превышает ограничение advance_booking_days
	ErrDateTooFarInFuture = errors.New("create_appointment: date is too far in the future")

	// ErrClosedDay возвращается, когда бизнес не работает в указанную дату
	ErrClosedDay = errors.New("create_appointment: business is closed on this date")

	// ErrOutsideHours возвращается, когда время начала вне рабочих часов
	ErrOutsideHours = errors.New("create_appointment: start time is outside operating hours")

	// ErrOverrunsClosing возвращается, когда услуга не успевает закончиться до закрытия
	ErrOverrunsClosing = errors.New("create_appointment: service would end after closing time")

	// ErrDuringBreak возвращается, когда запись пересекается с перерывом
	ErrDuringBreak = errors.New("create_appointment: time overlaps the break")

	// ErrSlotTaken возвращается, когда время уже занято другой записью
	ErrSlotTaken = errors.New("create_appointment: time slot already taken")

	// ErrMisalignedStart возвращается, когда время начала не попадает на сетку слотов
	ErrMisalignedStart = errors.New("create_appointment: start time is not aligned to the slot grid")

	// ErrTooSoon возвращается, когда до начала записи осталось меньше минимального интервала
	ErrTooSoon = errors.New("create_appointment: too late to book this time")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_appointment: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_appointment: internal error")
)

var reasonErrors = map[slotengine.RejectionReason]error{
	slotengine.ReasonClosedDay:       ErrClosedDay,
	slotengine.ReasonOutsideHours:    ErrOutsideHours,
	slotengine.ReasonOverrunsClosing: ErrOverrunsClosing,
	slotengine.ReasonDuringBreak:     ErrDuringBreak,
	slotengine.ReasonConflict:        ErrSlotTaken,
	slotengine.ReasonMisalignedStart: ErrMisalignedStart,
	slotengine.ReasonTooSoon:         ErrTooSoon,
}

// rejectionError оборачивает причину отказа в ошибку use case.
// Причина остается доступной через slotengine.ReasonOf.
func rejectionError(reason slotengine.RejectionReason) error {
	sentinel, ok := reasonErrors[reason]
	if !ok {
		sentinel = ErrInvalidInput
	}
	return fmt.Errorf("%w: %w", sentinel, reason)
}
