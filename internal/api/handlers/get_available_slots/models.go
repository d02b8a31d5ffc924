package get_available_slots

import (
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	getAvailableSlots "github.com/m04kA/SMC-AppointmentService/internal/usecase/get_available_slots"
)

// AvailableSlotsResponse HTTP response model
type AvailableSlotsResponse struct {
	Date               string `json:"date"`
	BusinessID         int64  `json:"businessId"`
	ServiceID          int64  `json:"serviceId"`
	DurationMinutes    int    `json:"durationMinutes"`
	GranularityMinutes int    `json:"granularityMinutes"`
	IsClosed           bool   `json:"isClosed"`
	Slots              []Slot `json:"slots"`
}

// Slot модель временного слота
type Slot struct {
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Available bool   `json:"available"`
	Reason    string `json:"reason,omitempty"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *AvailableSlotsResponse {
	slots := make([]Slot, len(resp.Slots))
	for i, slot := range resp.Slots {
		slots[i] = Slot{
			StartTime: slot.StartTime.String(),
			EndTime:   slot.EndTime.String(),
			Available: slot.Available,
			Reason:    slot.Reason,
		}
	}

	return &AvailableSlotsResponse{
		Date:               resp.Date.Format(domain.DateFormat),
		BusinessID:         resp.BusinessID,
		ServiceID:          resp.ServiceID,
		DurationMinutes:    resp.DurationMinutes,
		GranularityMinutes: resp.GranularityMinutes,
		IsClosed:           resp.IsClosed,
		Slots:              slots,
	}
}
