package admin_list_businesses

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	"github.com/m04kA/SMC-AppointmentService/internal/service/businesses"
	"github.com/m04kA/SMC-AppointmentService/internal/service/businesses/models"
)

const (
	defaultLimit = 50
	maxLimit     = 200
)

const (
	msgMissingUserID = "отсутствует ID пользователя"
	msgInvalidPaging = "некорректные параметры limit/offset"
	msgInvalidFlag   = "некорректное значение activeOnly"
	msgForbidden     = "доступно только администратору платформы"
)

type Handler struct {
	service BusinessService
	logger  Logger
}

func NewHandler(service BusinessService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/admin/businesses
// Query params: activeOnly, limit (по умолчанию 50, не больше 200), offset
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.GetCaller(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	activeOnly, err := handlers.QueryBool(r, "activeOnly")
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidFlag)
		return
	}

	limit, err := queryUint(r, "limit", defaultLimit)
	if err != nil || limit == 0 || limit > maxLimit {
		handlers.RespondBadRequest(w, msgInvalidPaging)
		return
	}
	offset, err := queryUint(r, "offset", 0)
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidPaging)
		return
	}

	result, err := h.service.List(r.Context(), caller, &models.ListRequest{
		ActiveOnly: activeOnly,
		Limit:      limit,
		Offset:     offset,
	})
	if err != nil {
		switch {
		case errors.Is(err, businesses.ErrAccessDenied):
			h.logger.Warn("GET /admin/businesses - Access denied: user_id=%d", caller.UserID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("GET /admin/businesses - Failed to list businesses: error=%v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /admin/businesses - Businesses retrieved: count=%d", len(result.Businesses))
	handlers.RespondJSON(w, http.StatusOK, result)
}

func queryUint(r *http.Request, name string, def uint64) (uint64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	return strconv.ParseUint(raw, 10, 64)
}
