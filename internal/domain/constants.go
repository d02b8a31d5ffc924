package domain

// Default values
const (
	DefaultSlotGranularityMinutes = 30
)

// Business validation constants
const (
	MinSlotGranularityMinutes   = 5
	MaxSlotGranularityMinutes   = 240 // 4 hours
	MinServiceDurationMinutes   = 5
	MaxServiceDurationMinutes   = 720 // 12 hours
	MaxBusinessNameLength       = 200
	MaxServiceNameLength        = 200
	MaxSlugLength               = 100
	MaxNotesLength              = 500
	MaxCancellationReasonLength = 500
	MaxOverrideReasonLength     = 255
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// ActiveStatuses статусы записей, занимающих время в расписании.
// Используются при подсчете занятых интервалов
var ActiveStatuses = []AppointmentStatus{
	StatusPending,
	StatusConfirmed,
}

// InactiveStatuses статусы записей, которые больше не блокируют время
var InactiveStatuses = []AppointmentStatus{
	StatusCompleted,
	StatusNoShow,
	StatusCancelledByCustomer,
	StatusCancelledByBusiness,
}
