package domain

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	StatusPending             AppointmentStatus = "pending"
	StatusConfirmed           AppointmentStatus = "confirmed"
	StatusCompleted           AppointmentStatus = "completed"
	StatusNoShow              AppointmentStatus = "no_show"
	StatusCancelledByCustomer AppointmentStatus = "cancelled_by_customer"
	StatusCancelledByBusiness AppointmentStatus = "cancelled_by_business"
)

var statusTransitions = map[AppointmentStatus][]AppointmentStatus{
	StatusPending:   {StatusConfirmed, StatusCancelledByCustomer, StatusCancelledByBusiness},
	StatusConfirmed: {StatusCompleted, StatusNoShow, StatusCancelledByCustomer, StatusCancelledByBusiness},
}

// IsValid returns true for a known status
func (s AppointmentStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusNoShow,
		StatusCancelledByCustomer, StatusCancelledByBusiness:
		return true
	}
	return false
}

// CanTransitionTo reports whether an appointment in status s may move to next
func (s AppointmentStatus) CanTransitionTo(next AppointmentStatus) bool {
	for _, allowed := range statusTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// BlocksTime returns true if an appointment in this status occupies its interval
func (s AppointmentStatus) BlocksTime() bool {
	return s == StatusPending || s == StatusConfirmed
}

// Appointment is a customer's booking of one service at one business
type Appointment struct {
	ID              int64
	BusinessID      int64
	CustomerID      int64
	ServiceID       int64
	BookingDate     time.Time
	StartTime       types.TimeString
	EndTime         types.TimeString
	DurationMinutes int
	Status          AppointmentStatus

	// Denormalized service data, kept for history when the catalogue changes
	ServiceName  string
	ServicePrice float64
	Notes        *string

	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the appointment still occupies its time
func (a *Appointment) IsActive() bool {
	return a.Status.BlocksTime()
}

// CanBeCancelled returns true if the appointment can be cancelled
func (a *Appointment) CanBeCancelled() bool {
	return a.Status == StatusPending || a.Status == StatusConfirmed
}

// IsCancelled returns true if the appointment has been cancelled by either side
func (a *Appointment) IsCancelled() bool {
	return a.Status == StatusCancelledByCustomer || a.Status == StatusCancelledByBusiness
}

// IsFinished returns true if the appointment is completed or was a no-show
func (a *Appointment) IsFinished() bool {
	return a.Status == StatusCompleted || a.Status == StatusNoShow
}

// BusinessAppointmentsFilter фильтр для получения записей бизнеса
type BusinessAppointmentsFilter struct {
	BusinessID      int64              // Обязательный параметр
	StartDate       *time.Time         // Начало периода (если nil - без ограничения)
	EndDate         *time.Time         // Конец периода включительно (если nil - без ограничения)
	Status          *AppointmentStatus // Фильтр по статусу (опционально)
	IncludeInactive bool               // Включать ли отмененные и завершенные записи
}

// CustomerAppointmentsFilter фильтр для получения записей клиента
type CustomerAppointmentsFilter struct {
	CustomerID int64
	Status     *AppointmentStatus
	FromDate   *time.Time
}
