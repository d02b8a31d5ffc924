package models

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// Request модели

// CreateBusinessRequest запрос на регистрацию бизнеса администратором платформы
type CreateBusinessRequest struct {
	Slug                   string `json:"slug" validate:"required"`
	Name                   string `json:"name" validate:"required"`
	OwnerID                int64  `json:"ownerId" validate:"required,gt=0"`
	SlotGranularityMinutes *int   `json:"slotGranularityMinutes,omitempty"` // По умолчанию 30
}

// UpdateSettingsRequest запрос на изменение настроек бизнеса.
// Все поля опциональны, обновляются только переданные значения
type UpdateSettingsRequest struct {
	Name                   *string `json:"name,omitempty"`
	SlotGranularityMinutes *int    `json:"slotGranularityMinutes,omitempty"`
}

// CreateServiceRequest запрос на добавление услуги в каталог
type CreateServiceRequest struct {
	Name            string  `json:"name" validate:"required"`
	Description     *string `json:"description,omitempty"`
	DurationMinutes int     `json:"durationMinutes" validate:"required"`
	Price           float64 `json:"price" validate:"gte=0"`
}

// ListRequest запрос на получение списка бизнесов
type ListRequest struct {
	ActiveOnly bool
	Limit      uint64
	Offset     uint64
}

// Response модели

// BusinessResponse ответ с данными бизнеса
type BusinessResponse struct {
	ID                     int64     `json:"id"`
	Slug                   string    `json:"slug"`
	Name                   string    `json:"name"`
	OwnerID                int64     `json:"ownerId"`
	SlotGranularityMinutes int       `json:"slotGranularityMinutes"`
	IsActive               bool      `json:"isActive"`
	CreatedAt              time.Time `json:"createdAt"`
	UpdatedAt              time.Time `json:"updatedAt"`
}

// BusinessListResponse ответ со списком бизнесов
type BusinessListResponse struct {
	Businesses []BusinessResponse `json:"businesses"`
}

// ServiceResponse ответ с данными услуги
type ServiceResponse struct {
	ID              int64   `json:"id"`
	BusinessID      int64   `json:"businessId"`
	Name            string  `json:"name"`
	Description     *string `json:"description,omitempty"`
	DurationMinutes int     `json:"durationMinutes"`
	Price           float64 `json:"price"`
	IsActive        bool    `json:"isActive"`
}

// BusinessPageResponse публичная страница бизнеса с активными услугами
type BusinessPageResponse struct {
	Business BusinessResponse  `json:"business"`
	Services []ServiceResponse `json:"services"`
}

// Методы конвертации

// FromDomainBusiness конвертирует domain модель в DTO
func FromDomainBusiness(b *domain.Business) *BusinessResponse {
	if b == nil {
		return nil
	}
	return &BusinessResponse{
		ID:                     b.ID,
		Slug:                   b.Slug,
		Name:                   b.Name,
		OwnerID:                b.OwnerID,
		SlotGranularityMinutes: b.SlotGranularityMinutes,
		IsActive:               b.IsActive,
		CreatedAt:              b.CreatedAt,
		UpdatedAt:              b.UpdatedAt,
	}
}

// FromDomainService конвертирует domain модель услуги в DTO
func FromDomainService(s *domain.Service) *ServiceResponse {
	if s == nil {
		return nil
	}
	return &ServiceResponse{
		ID:              s.ID,
		BusinessID:      s.BusinessID,
		Name:            s.Name,
		Description:     s.Description,
		DurationMinutes: s.DurationMinutes,
		Price:           s.Price,
		IsActive:        s.IsActive,
	}
}
