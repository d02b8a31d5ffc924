package get_day_timeline

import (
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	getDayTimeline "github.com/m04kA/SMC-AppointmentService/internal/usecase/get_day_timeline"
)

// TimelineResponse HTTP response model
type TimelineResponse struct {
	Date               string        `json:"date"`
	BusinessID         int64         `json:"businessId"`
	ServiceID          *int64        `json:"serviceId,omitempty"`
	DurationMinutes    int           `json:"durationMinutes"`
	GranularityMinutes int           `json:"granularityMinutes"`
	Window             Window        `json:"window"`
	Slots              []Slot        `json:"slots"`
	Appointments       []Appointment `json:"appointments"`
}

// Window эффективное окно работы на дату
type Window struct {
	IsClosed   bool   `json:"isClosed"`
	OpenTime   string `json:"openTime,omitempty"`
	CloseTime  string `json:"closeTime,omitempty"`
	BreakStart string `json:"breakStart,omitempty"`
	BreakEnd   string `json:"breakEnd,omitempty"`
}

// Slot модель временного слота
type Slot struct {
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Available bool   `json:"available"`
	Reason    string `json:"reason,omitempty"`
}

// Appointment запись на таймлайне
type Appointment struct {
	ID          int64   `json:"id"`
	CustomerID  int64   `json:"customerId"`
	ServiceID   int64   `json:"serviceId"`
	ServiceName string  `json:"serviceName"`
	StartTime   string  `json:"startTime"`
	EndTime     string  `json:"endTime"`
	Status      string  `json:"status"`
	Notes       *string `json:"notes,omitempty"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getDayTimeline.Response) *TimelineResponse {
	slots := make([]Slot, len(resp.Slots))
	for i, s := range resp.Slots {
		slots[i] = Slot{
			StartTime: s.StartTime.String(),
			EndTime:   s.EndTime.String(),
			Available: s.Available,
			Reason:    s.Reason,
		}
	}

	appointments := make([]Appointment, len(resp.Appointments))
	for i, a := range resp.Appointments {
		appointments[i] = Appointment{
			ID:          a.ID,
			CustomerID:  a.CustomerID,
			ServiceID:   a.ServiceID,
			ServiceName: a.ServiceName,
			StartTime:   a.StartTime.String(),
			EndTime:     a.EndTime.String(),
			Status:      a.Status,
			Notes:       a.Notes,
		}
	}

	return &TimelineResponse{
		Date:               resp.Date.Format(domain.DateFormat),
		BusinessID:         resp.BusinessID,
		ServiceID:          resp.ServiceID,
		DurationMinutes:    resp.DurationMinutes,
		GranularityMinutes: resp.GranularityMinutes,
		Window: Window{
			IsClosed:   resp.Window.IsClosed,
			OpenTime:   resp.Window.OpenTime.String(),
			CloseTime:  resp.Window.CloseTime.String(),
			BreakStart: resp.Window.BreakStart.String(),
			BreakEnd:   resp.Window.BreakEnd.String(),
		},
		Slots:        slots,
		Appointments: appointments,
	}
}
