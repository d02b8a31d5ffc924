package cancel_appointment

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/service/appointments"
	"github.com/m04kA/SMC-AppointmentService/internal/service/appointments/models"
	"github.com/m04kA/SMC-AppointmentService/pkg/logger"
)

type mockService struct {
	mock.Mock
}

func (m *mockService) Cancel(ctx context.Context, caller domain.Caller, id int64, req *models.CancelRequest) error {
	return m.Called(ctx, caller, id, req).Error(0)
}

func (m *mockService) GetByID(ctx context.Context, caller domain.Caller, id int64) (*models.AppointmentResponse, error) {
	args := m.Called(ctx, caller, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AppointmentResponse), args.Error(1)
}

var customer = domain.Caller{UserID: 7, Role: domain.RoleCustomer}

func serve(h *Handler, body string) *httptest.ResponseRecorder {
	router := mux.NewRouter()
	router.HandleFunc("/appointments/{appointmentId}/cancel", h.Handle).Methods(http.MethodPatch)
	r := httptest.NewRequest(http.MethodPatch, "/appointments/5/cancel", strings.NewReader(body))
	r = r.WithContext(middleware.WithCaller(r.Context(), customer))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)
	return w
}

func TestHandler_Cancel(t *testing.T) {
	reason := "заболел"
	tests := []struct {
		name    string
		body    string
		wantReq *models.CancelRequest
	}{
		{name: "without body", body: "", wantReq: &models.CancelRequest{}},
		{name: "with reason", body: `{"reason":"заболел"}`, wantReq: &models.CancelRequest{Reason: &reason}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockService{}
			svc.On("Cancel", mock.Anything, customer, int64(5), tt.wantReq).Return(nil)
			svc.On("GetByID", mock.Anything, customer, int64(5)).
				Return(&models.AppointmentResponse{ID: 5, Status: "cancelled_by_customer"}, nil)

			w := serve(NewHandler(svc, logger.Nop()), tt.body)

			assert.Equal(t, http.StatusOK, w.Code)
			assert.Contains(t, w.Body.String(), "cancelled_by_customer")
			svc.AssertExpectations(t)
		})
	}
}

func TestHandler_Errors(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		svcErr     error
		wantStatus int
	}{
		{name: "bad body", body: `{"reason":1}`, wantStatus: http.StatusBadRequest},
		{name: "not found", svcErr: appointments.ErrAppointmentNotFound, wantStatus: http.StatusNotFound},
		{name: "forbidden", svcErr: appointments.ErrAccessDenied, wantStatus: http.StatusForbidden},
		{name: "already cancelled", svcErr: appointments.ErrCannotCancel, wantStatus: http.StatusConflict},
		{name: "internal", svcErr: appointments.ErrInternal, wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockService{}
			if tt.svcErr != nil {
				svc.On("Cancel", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(tt.svcErr)
			}

			w := serve(NewHandler(svc, logger.Nop()), tt.body)

			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}
