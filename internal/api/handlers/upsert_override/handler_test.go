package upsert_override

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/service/schedule"
	"github.com/m04kA/SMC-AppointmentService/internal/service/schedule/models"
	"github.com/m04kA/SMC-AppointmentService/pkg/logger"
)

type mockService struct {
	mock.Mock
}

func (m *mockService) UpsertOverride(ctx context.Context, caller domain.Caller, businessID int64, req *models.UpsertOverrideRequest) (*models.OverrideResponse, error) {
	args := m.Called(ctx, caller, businessID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.OverrideResponse), args.Error(1)
}

var owner = domain.Caller{UserID: 10, Role: domain.RoleBusinessOwner}

func serve(h *Handler, path, body string) *httptest.ResponseRecorder {
	router := mux.NewRouter()
	router.HandleFunc("/businesses/{businessId}/schedule/overrides/{date}", h.Handle).Methods(http.MethodPut)
	r := httptest.NewRequest(http.MethodPut, path, strings.NewReader(body))
	r = r.WithContext(middleware.WithCaller(r.Context(), owner))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)
	return w
}

func TestHandler_DateFromPath(t *testing.T) {
	svc := &mockService{}
	svc.On("UpsertOverride", mock.Anything, owner, int64(1), &models.UpsertOverrideRequest{
		Date: time.Date(2026, 3, 8, 0, 0, 0, 0, time.UTC), IsClosed: true,
	}).Return(&models.OverrideResponse{Date: "2026-03-08", IsClosed: true}, nil)

	w := serve(NewHandler(svc, logger.Nop()), "/businesses/1/schedule/overrides/2026-03-08", `{"isClosed":true}`)

	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestHandler_Errors(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		svcErr     error
		wantStatus int
	}{
		{name: "bad date", path: "/businesses/1/schedule/overrides/08-03-2026", wantStatus: http.StatusBadRequest},
		{name: "invalid", path: "/businesses/1/schedule/overrides/2026-03-08", svcErr: schedule.ErrInvalidInput, wantStatus: http.StatusBadRequest},
		{name: "forbidden", path: "/businesses/1/schedule/overrides/2026-03-08", svcErr: schedule.ErrAccessDenied, wantStatus: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockService{}
			if tt.svcErr != nil {
				svc.On("UpsertOverride", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil, tt.svcErr)
			}

			w := serve(NewHandler(svc, logger.Nop()), tt.path, `{"isClosed":true}`)

			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}
