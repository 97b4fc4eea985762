package auth

import "github.com/braiinybear/backoffice-service/internal/models"

// LoginPath is where unauthenticated callers are sent.
const LoginPath = "/login"

// LandingTable maps each role to its dashboard. The gate and the root
// dispatcher both resolve through it.
type LandingTable map[models.UserRole]string

// DefaultLanding is the production role to landing path table.
var DefaultLanding = LandingTable{
	models.RoleAdmin:     "/admin",
	models.RoleSales:     "/sales",
	models.RoleTechnical: "/technical",
	models.RoleHR:        "/hr",
	models.RoleMedia:     "/media",
	models.RoleEmployee:  "/employee",
}

// PathFor returns the landing path for role, or LoginPath for unknown roles.
func (t LandingTable) PathFor(role models.UserRole) string {
	if p, ok := t[role]; ok {
		return p
	}
	return LoginPath
}
