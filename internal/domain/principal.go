package domain

import (
	"fmt"
	"strings"
)

// Role is the access role of an authenticated principal
type Role string

const (
	RoleAdministrator Role = "admin"
	RoleSupervisor    Role = "supervisor"
	RoleTrainee       Role = "pg"
	RoleOther         Role = "other"
)

// ParseRole maps a stored role string onto a known Role.
// Anything unrecognised becomes RoleOther, which sees nothing.
func ParseRole(s string) Role {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "admin", "administrator":
		return RoleAdministrator
	case "supervisor":
		return RoleSupervisor
	case "pg", "trainee", "postgraduate":
		return RoleTrainee
	default:
		return RoleOther
	}
}

// Display returns the human-readable role name.
func (r Role) Display() string {
	switch r {
	case RoleAdministrator:
		return "Admin"
	case RoleSupervisor:
		return "Supervisor"
	case RoleTrainee:
		return "Postgraduate"
	default:
		return "Other"
	}
}

// Principal is an already-authenticated caller of the search subsystem
type Principal struct {
	ID        int64
	Username  string
	Role      Role
	Superuser bool
}

// NewPrincipal creates a new Principal instance
func NewPrincipal(id int64, role Role) Principal {
	return Principal{ID: id, Role: role}
}

// IsAdministrator reports whether the principal sees every record.
func (p Principal) IsAdministrator() bool {
	return p.Superuser || p.Role == RoleAdministrator
}

// IsSupervisor reports whether the principal oversees trainees.
func (p Principal) IsSupervisor() bool {
	return !p.IsAdministrator() && p.Role == RoleSupervisor
}

// IsTrainee reports whether the principal only owns records.
func (p Principal) IsTrainee() bool {
	return !p.IsAdministrator() && p.Role == RoleTrainee
}

func (p Principal) String() string {
	if p.Username != "" {
		return fmt.Sprintf("%s#%d(%s)", p.Username, p.ID, p.Role)
	}
	return fmt.Sprintf("#%d(%s)", p.ID, p.Role)
}

// ValidatePrincipal validates a Principal instance
func ValidatePrincipal(p Principal) error {
	if p.ID <= 0 {
		return fmt.Errorf("principal ID is required")
	}
	if p.Role == "" {
		return fmt.Errorf("principal Role is required")
	}
	return nil
}
