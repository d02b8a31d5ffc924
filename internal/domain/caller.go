package domain

// Role is the platform role of an authenticated user
type Role string

const (
	RoleCustomer      Role = "customer"
	RoleBusinessOwner Role = "business_owner"
	RolePlatformAdmin Role = "platform_admin"
)

// IsValid returns true for a known role
func (r Role) IsValid() bool {
	return r == RoleCustomer || r == RoleBusinessOwner || r == RolePlatformAdmin
}

// Caller is the authenticated identity performing a request
type Caller struct {
	UserID int64
	Role   Role
}

// IsPlatformAdmin returns true for platform administrators
func (c Caller) IsPlatformAdmin() bool {
	return c.Role == RolePlatformAdmin
}

// CanManage returns true if the caller may administer the business:
// its owner or a platform admin
func (c Caller) CanManage(b *Business) bool {
	if c.IsPlatformAdmin() {
		return true
	}
	return c.Role == RoleBusinessOwner && b.IsOwnedBy(c.UserID)
}

// CanView returns true if the caller may read the appointment:
// the customer who made it, the business manager or a platform admin
func (c Caller) CanView(a *Appointment, b *Business) bool {
	return a.CustomerID == c.UserID || c.CanManage(b)
}
