package admin_set_business_active

// SetActiveRequest HTTP request model
type SetActiveRequest struct {
	IsActive *bool `json:"isActive" validate:"required"`
}
