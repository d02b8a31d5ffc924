package get_business_page

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/service/businesses"
)

const (
	msgMissingSlug      = "slug бизнеса обязателен"
	msgBusinessNotFound = "бизнес не найден"
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

// Handle GET /api/v1/businesses/by-slug/{slug}
// Публичная страница бизнеса: данные и активные услуги
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	slug := strings.TrimSpace(mux.Vars(r)["slug"])
	if slug == "" {
		handlers.RespondBadRequest(w, msgMissingSlug)
		return
	}

	page, err := h.service.GetBySlug(r.Context(), slug)
	if err != nil {
		switch {
		case errors.Is(err, businesses.ErrBusinessNotFound):
			h.logger.Warn("GET /businesses/by-slug/{slug} - Business not found: slug=%s", slug)
			handlers.RespondNotFound(w, msgBusinessNotFound)

		default:
			h.logger.Error("GET /businesses/by-slug/{slug} - Failed to get business: slug=%s, error=%v", slug, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /businesses/by-slug/{slug} - Business page retrieved: business_id=%d, services=%d",
		page.Business.ID, len(page.Services))
	handlers.RespondJSON(w, http.StatusOK, page)
}
