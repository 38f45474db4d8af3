package auth

// Role names a coarse permission bucket assigned by the backend.
type Role string

const (
	RoleAdmin            Role = "admin"
	RoleStaff            Role = "staff"
	RoleInventoryManager Role = "inventory_manager"
)

// User is the authenticated backend user.
type User struct {
	ID        int64    `json:"id"`
	Username  string   `json:"username"`
	Email     string   `json:"email"`
	FirstName string   `json:"first_name,omitempty"`
	LastName  string   `json:"last_name,omitempty"`
	Roles     []string `json:"roles,omitempty"`

	// Legacy flags some backend builds return instead of roles.
	IsStaff     bool `json:"is_staff,omitempty"`
	IsSuperuser bool `json:"is_superuser,omitempty"`
}

// EffectiveRoles normalises the two user shapes the backend is known to
// produce into explicit role names.
func (u User) EffectiveRoles() []Role {
	if len(u.Roles) > 0 {
		roles := make([]Role, 0, len(u.Roles))
		for _, r := range u.Roles {
			roles = append(roles, Role(r))
		}
		return roles
	}
	if u.IsSuperuser {
		return []Role{RoleAdmin}
	}
	if u.IsStaff {
		return []Role{RoleStaff}
	}
	return nil
}

// Credentials is a login request.
type Credentials struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// TokenPair is the backend's answer to a successful login.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}
