package auth

import "strings"

type Outcome int

const (
	// Allow lets the request through, with or without a session.
	Allow Outcome = iota
	// RedirectToLogin is returned for protected paths without a session.
	RedirectToLogin
	// RedirectToLanding sends a non-admin away from the admin namespace.
	RedirectToLanding
)

// Decision is the gate's verdict for one request.
type Decision struct {
	Outcome  Outcome
	Location string
}

// Gate decides path access from the caller's identity alone.
type Gate struct {
	PublicPaths    []string
	PublicPrefixes []string
	AdminPrefix    string
	Landing        LandingTable
}

// NewGate returns the gate used by the HTTP server.
func NewGate(landing LandingTable) *Gate {
	return &Gate{
		PublicPaths: []string{
			"/",
			"/login",
			"/register",
			"/logo",
			"/favicon.ico",
			"/health",
			"/metrics",
		},
		PublicPrefixes: []string{
			"/api/",
			"/static/",
			"/images/",
			"/logo/",
		},
		AdminPrefix: "/admin",
		Landing:     landing,
	}
}

func (g *Gate) IsPublic(path string) bool {
	for _, p := range g.PublicPaths {
		if path == p {
			return true
		}
	}
	for _, prefix := range g.PublicPrefixes {
		if strings.HasPrefix(path, prefix) || path == strings.TrimSuffix(prefix, "/") {
			return true
		}
	}
	return false
}

func (g *Gate) isAdminPath(path string) bool {
	return path == g.AdminPrefix || strings.HasPrefix(path, g.AdminPrefix+"/")
}

// Decide is a pure function of path and identity; a nil identity means no valid session.
func (g *Gate) Decide(path string, id *Identity) Decision {
	if g.IsPublic(path) {
		return Decision{Outcome: Allow}
	}
	if id == nil {
		return Decision{Outcome: RedirectToLogin, Location: LoginPath}
	}
	if g.isAdminPath(path) && !id.IsAdmin() {
		return Decision{Outcome: RedirectToLanding, Location: g.Landing.PathFor(id.Role)}
	}
	return Decision{Outcome: Allow}
}

// Dispatch resolves the root welcome redirect for id.
func (g *Gate) Dispatch(id *Identity) string {
	if id == nil {
		return LoginPath
	}
	return g.Landing.PathFor(id.Role)
}
