package create_appointment

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/slotengine"
	createAppointment "github.com/m04kA/SMC-AppointmentService/internal/usecase/create_appointment"
	"github.com/m04kA/SMC-AppointmentService/pkg/logger"
)

type mockUseCase struct {
	mock.Mock
}

func (m *mockUseCase) Execute(ctx context.Context, req *createAppointment.Request) (*createAppointment.Response, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*createAppointment.Response), args.Error(1)
}

const validBody = `{"businessId":1,"serviceId":2,"date":"2026-03-02","startTime":"10:00"}`

func post(h *Handler, body string, authorized bool) *httptest.ResponseRecorder {
	r := httptest.NewRequest(http.MethodPost, "/appointments", strings.NewReader(body))
	if authorized {
		r = r.WithContext(middleware.WithCaller(r.Context(), domain.Caller{UserID: 7, Role: domain.RoleCustomer}))
	}
	w := httptest.NewRecorder()
	h.Handle(w, r)
	return w
}

func TestHandler_Created(t *testing.T) {
	uc := &mockUseCase{}
	date := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	uc.On("Execute", mock.Anything, &createAppointment.Request{
		CustomerID: 7, BusinessID: 1, ServiceID: 2, Date: date, StartTime: "10:00",
	}).Return(&createAppointment.Response{
		ID: 100, BusinessID: 1, CustomerID: 7, ServiceID: 2, BookingDate: date,
		StartTime: "10:00", EndTime: "11:00", DurationMinutes: 60, Status: "pending", ServiceName: "Стрижка",
	}, nil)

	w := post(NewHandler(uc, logger.Nop()), validBody, true)

	require.Equal(t, http.StatusCreated, w.Code)
	var body AppointmentResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Equal(t, int64(100), body.ID)
	assert.Equal(t, "11:00", body.EndTime)
	assert.Equal(t, "pending", body.Status)
}

func TestHandler_Rejections(t *testing.T) {
	tests := []struct {
		name       string
		reason     slotengine.RejectionReason
		sentinel   error
		wantStatus int
	}{
		{name: "conflict", reason: slotengine.ReasonConflict, sentinel: createAppointment.ErrSlotTaken, wantStatus: http.StatusConflict},
		{name: "closed", reason: slotengine.ReasonClosedDay, sentinel: createAppointment.ErrClosedDay, wantStatus: http.StatusBadRequest},
		{name: "break", reason: slotengine.ReasonDuringBreak, sentinel: createAppointment.ErrDuringBreak, wantStatus: http.StatusBadRequest},
		{name: "overrun", reason: slotengine.ReasonOverrunsClosing, sentinel: createAppointment.ErrOverrunsClosing, wantStatus: http.StatusBadRequest},
		{name: "too soon", reason: slotengine.ReasonTooSoon, sentinel: createAppointment.ErrTooSoon, wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &mockUseCase{}
			uc.On("Execute", mock.Anything, mock.Anything).Return(nil, fmt.Errorf("%w: %w", tt.sentinel, tt.reason))

			w := post(NewHandler(uc, logger.Nop()), validBody, true)

			require.Equal(t, tt.wantStatus, w.Code)
			var body handlers.ErrorResponse
			require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
			assert.Equal(t, tt.reason.String(), body.Reason)
			assert.NotEmpty(t, body.Message)
		})
	}
}

func TestHandler_Errors(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		authorized bool
		ucErr      error
		wantStatus int
	}{
		{name: "unauthorized", body: validBody, wantStatus: http.StatusUnauthorized},
		{name: "bad body", body: `{"businessId":1}`, authorized: true, wantStatus: http.StatusBadRequest},
		{name: "notes too long", body: `{"businessId":1,"serviceId":2,"date":"2026-03-02","startTime":"10:00","notes":"` + strings.Repeat("a", 501) + `"}`, authorized: true, wantStatus: http.StatusBadRequest},
		{name: "business not found", body: validBody, authorized: true, ucErr: createAppointment.ErrBusinessNotFound, wantStatus: http.StatusNotFound},
		{name: "date in past", body: validBody, authorized: true, ucErr: createAppointment.ErrDateInPast, wantStatus: http.StatusBadRequest},
		{name: "internal", body: validBody, authorized: true, ucErr: createAppointment.ErrInternal, wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &mockUseCase{}
			if tt.ucErr != nil {
				uc.On("Execute", mock.Anything, mock.Anything).Return(nil, tt.ucErr)
			}

			w := post(NewHandler(uc, logger.Nop()), tt.body, tt.authorized)

			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}
