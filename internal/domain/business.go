package domain

import "time"

// Business is a tenant: one bookable provider with its own schedule and catalogue
type Business struct {
	ID                     int64
	Slug                   string
	Name                   string
	OwnerID                int64
	SlotGranularityMinutes int
	IsActive               bool
	CreatedAt              time.Time
	UpdatedAt              time.Time
}

// IsOwnedBy returns true if userID is the business owner
func (b *Business) IsOwnedBy(userID int64) bool {
	return b.OwnerID == userID
}

// Service is a catalogue item offered by a business
type Service struct {
	ID              int64
	BusinessID      int64
	Name            string
	Description     *string
	DurationMinutes int
	Price           float64
	IsActive        bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// BelongsTo returns true if the service is offered by the business
func (s *Service) BelongsTo(businessID int64) bool {
	return s.BusinessID == businessID
}

// IsBookable returns true if customers can book the service at the business
func (s *Service) IsBookable(businessID int64) bool {
	return s.IsActive && s.BelongsTo(businessID)
}
