package check_booking

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	checkBooking "github.com/m04kA/SMC-AppointmentService/internal/usecase/check_booking"
	"github.com/m04kA/SMC-AppointmentService/pkg/logger"
)

type mockUseCase struct {
	mock.Mock
}

func (m *mockUseCase) Execute(ctx context.Context, req *checkBooking.Request) (*checkBooking.Response, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*checkBooking.Response), args.Error(1)
}

func serve(h *Handler, path, body string) *httptest.ResponseRecorder {
	router := mux.NewRouter()
	router.HandleFunc("/businesses/{businessId}/booking-checks", h.Handle).Methods(http.MethodPost)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, path, strings.NewReader(body)))
	return w
}

func TestHandler_Rejection(t *testing.T) {
	uc := &mockUseCase{}
	date := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	uc.On("Execute", mock.Anything, &checkBooking.Request{
		BusinessID: 3, ServiceID: 4, Date: date, StartTime: "10:30",
	}).Return(&checkBooking.Response{
		OK: false, BusinessID: 3, ServiceID: 4, Date: date, StartTime: "10:30",
		DurationMinutes: 60, Reason: "conflict", Message: "время уже занято",
	}, nil)

	w := serve(NewHandler(uc, logger.Nop()), "/businesses/3/booking-checks",
		`{"serviceId":4,"date":"2026-03-02","startTime":"10:30"}`)

	require.Equal(t, http.StatusOK, w.Code)
	var body CheckBookingResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.False(t, body.OK)
	assert.Equal(t, "conflict", body.Reason)
	assert.Empty(t, body.EndTime)
}

func TestHandler_Errors(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		ucErr      error
		wantStatus int
	}{
		{name: "bad time", body: `{"serviceId":4,"date":"2026-03-02","startTime":"9:00"}`, wantStatus: http.StatusBadRequest},
		{name: "missing service", body: `{"date":"2026-03-02","startTime":"09:00"}`, wantStatus: http.StatusBadRequest},
		{name: "business not found", body: `{"serviceId":4,"date":"2026-03-02","startTime":"09:00"}`, ucErr: checkBooking.ErrBusinessNotFound, wantStatus: http.StatusNotFound},
		{name: "too far", body: `{"serviceId":4,"date":"2026-03-02","startTime":"09:00"}`, ucErr: checkBooking.ErrDateTooFarInFuture, wantStatus: http.StatusBadRequest},
		{name: "internal", body: `{"serviceId":4,"date":"2026-03-02","startTime":"09:00"}`, ucErr: checkBooking.ErrInternal, wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &mockUseCase{}
			if tt.ucErr != nil {
				uc.On("Execute", mock.Anything, mock.Anything).Return(nil, tt.ucErr)
			}

			w := serve(NewHandler(uc, logger.Nop()), "/businesses/3/booking-checks", tt.body)

			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}
