package constants

const (
	RoleUser       = "USER"
	RoleHost       = "HOST"
	RoleAdmin      = "ADMIN"
	RoleSuperAdmin = "SUPER_ADMIN"
)

const (
	UserStatusActive   = "ACTIVE"
	UserStatusInactive = "INACTIVE"
	UserStatusBlocked  = "BLOCKED"
)

const (
	ErrNotPermittedRoute = "You are not permitted to view this route!!"
)

// ==========================
// Grouped Role Slices
// ==========================
var (
	AllRoles = []string{
		RoleUser,
		RoleHost,
		RoleAdmin,
		RoleSuperAdmin,
	}

	AdminRoles = []string{
		RoleAdmin,
		RoleSuperAdmin,
	}
)

func IsAdminRole(role string) bool {
	return role == RoleAdmin || role == RoleSuperAdmin
}
