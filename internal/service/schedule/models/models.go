package models

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// Request модели

// DayHours часы работы на один день недели
type DayHours struct {
	DayOfWeek  int              `json:"dayOfWeek" validate:"min=0,max=6"` // 0 - воскресенье
	OpenTime   types.TimeString `json:"openTime,omitempty" validate:"omitempty,hhmm"`
	CloseTime  types.TimeString `json:"closeTime,omitempty" validate:"omitempty,hhmm"`
	BreakStart types.TimeString `json:"breakStart,omitempty" validate:"omitempty,hhmm"`
	BreakEnd   types.TimeString `json:"breakEnd,omitempty" validate:"omitempty,hhmm"`
	IsClosed   bool             `json:"isClosed"`
}

// SetWeeklyHoursRequest запрос на замену недельного расписания.
// Дни, которых нет в списке, считаются выходными
type SetWeeklyHoursRequest struct {
	Days []DayHours `json:"days" validate:"max=7,dive"`
}

// UpsertOverrideRequest запрос на создание или замену исключения на дату
type UpsertOverrideRequest struct {
	Date      time.Time        `json:"-"`
	OpenTime  types.TimeString `json:"openTime,omitempty" validate:"omitempty,hhmm"`
	CloseTime types.TimeString `json:"closeTime,omitempty" validate:"omitempty,hhmm"`
	IsClosed  bool             `json:"isClosed"`
	Reason    *string          `json:"reason,omitempty"`
}

// Response модели

// ScheduleResponse расписание бизнеса
type ScheduleResponse struct {
	BusinessID int64              `json:"businessId"`
	Hours      []DayHours         `json:"hours"`
	Overrides  []OverrideResponse `json:"overrides"`
}

// OverrideResponse исключение расписания на дату
type OverrideResponse struct {
	Date      string           `json:"date"` // "2026-03-08"
	OpenTime  types.TimeString `json:"openTime,omitempty"`
	CloseTime types.TimeString `json:"closeTime,omitempty"`
	IsClosed  bool             `json:"isClosed"`
	Reason    *string          `json:"reason,omitempty"`
}

// Методы конвертации

// ToDomainHours конвертирует день расписания в domain модель
func (d DayHours) ToDomainHours(businessID int64) domain.OperatingHours {
	h := domain.OperatingHours{
		BusinessID: businessID,
		DayOfWeek:  time.Weekday(d.DayOfWeek),
		IsClosed:   d.IsClosed,
	}
	// У выходного дня часы не хранятся
	if !d.IsClosed {
		h.OpenTime = d.OpenTime
		h.CloseTime = d.CloseTime
		h.BreakStart = d.BreakStart
		h.BreakEnd = d.BreakEnd
	}
	return h
}

// ToDomainOverride конвертирует запрос в domain модель
func (r *UpsertOverrideRequest) ToDomainOverride(businessID int64) *domain.ScheduleOverride {
	o := &domain.ScheduleOverride{
		BusinessID: businessID,
		Date:       domain.DateOnly(r.Date),
		IsClosed:   r.IsClosed,
		Reason:     r.Reason,
	}
	if !r.IsClosed {
		o.OpenTime = r.OpenTime
		o.CloseTime = r.CloseTime
	}
	return o
}

// FromDomainHours конвертирует domain модель в DTO
func FromDomainHours(h domain.OperatingHours) DayHours {
	return DayHours{
		DayOfWeek:  int(h.DayOfWeek),
		OpenTime:   h.OpenTime,
		CloseTime:  h.CloseTime,
		BreakStart: h.BreakStart,
		BreakEnd:   h.BreakEnd,
		IsClosed:   h.IsClosed,
	}
}

// FromDomainOverride конвертирует domain модель в DTO
func FromDomainOverride(o domain.ScheduleOverride) OverrideResponse {
	return OverrideResponse{
		Date:      o.Date.Format(domain.DateFormat),
		OpenTime:  o.OpenTime,
		CloseTime: o.CloseTime,
		IsClosed:  o.IsClosed,
		Reason:    o.Reason,
	}
}

// FromDomainSchedule конвертирует расписание в DTO
func FromDomainSchedule(s *domain.Schedule) *ScheduleResponse {
	resp := &ScheduleResponse{
		BusinessID: s.BusinessID,
		Hours:      make([]DayHours, 0, len(s.Hours)),
		Overrides:  make([]OverrideResponse, 0, len(s.Overrides)),
	}
	for _, h := range s.Hours {
		resp.Hours = append(resp.Hours, FromDomainHours(h))
	}
	for _, o := range s.Overrides {
		resp.Overrides = append(resp.Overrides, FromDomainOverride(o))
	}
	return resp
}
