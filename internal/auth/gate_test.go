package auth

import (
	"testing"

	"github.com/braiinybear/backoffice-service/internal/models"
)

func TestGate_Decide(t *testing.T) {
	g := NewGate(DefaultLanding)

	admin := &Identity{ID: "a", Role: models.RoleAdmin}
	sales := &Identity{ID: "s", Role: models.RoleSales}
	unknown := &Identity{ID: "u", Role: "JANITOR"}

	tests := []struct {
		name     string
		path     string
		id       *Identity
		outcome  Outcome
		location string
	}{
		{"root is public", "/", nil, Allow, ""},
		{"api is public", "/api/courses", nil, Allow, ""},
		{"login is public", "/login", nil, Allow, ""},
		{"static asset", "/static/app.js", nil, Allow, ""},
		{"images", "/images/logo.png", nil, Allow, ""},
		{"favicon", "/favicon.ico", nil, Allow, ""},
		{"protected without session", "/sales", nil, RedirectToLogin, "/login"},
		{"admin without session", "/admin/courses", nil, RedirectToLogin, "/login"},
		{"admin with admin", "/admin/courses", admin, Allow, ""},
		{"admin root with admin", "/admin", admin, Allow, ""},
		{"admin with sales", "/admin", sales, RedirectToLanding, "/sales"},
		{"admin subpath with sales", "/admin/management", sales, RedirectToLanding, "/sales"},
		{"admin with unknown role", "/admin", unknown, RedirectToLanding, "/login"},
		{"admin-like prefix is not admin", "/administrator", sales, Allow, ""},
		{"dashboard with own session", "/sales", sales, Allow, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := g.Decide(tt.path, tt.id)
			if got.Outcome != tt.outcome || got.Location != tt.location {
				t.Fatalf("Decide(%q) = %+v, want outcome %d location %q", tt.path, got, tt.outcome, tt.location)
			}
		})
	}
}

func TestGate_NonAdminNeverReachesAdminNamespace(t *testing.T) {
	g := NewGate(DefaultLanding)
	paths := []string{"/admin", "/admin/", "/admin/blogs", "/admin/user/42", "/admin/videos/new"}

	for _, role := range models.AllRoles {
		if role == models.RoleAdmin {
			continue
		}
		for _, p := range paths {
			d := g.Decide(p, &Identity{ID: "x", Role: role})
			if d.Outcome != RedirectToLanding {
				t.Fatalf("%s on %s: outcome %d, want redirect", role, p, d.Outcome)
			}
			if d.Location != DefaultLanding.PathFor(role) {
				t.Fatalf("%s on %s: location %q", role, p, d.Location)
			}
			if d.Location == p {
				t.Fatalf("%s redirected to requested path %s", role, p)
			}
		}
	}
}

func TestGate_DispatchSharesLandingTable(t *testing.T) {
	g := NewGate(DefaultLanding)

	if got := g.Dispatch(nil); got != LoginPath {
		t.Fatalf("Dispatch(nil) = %q", got)
	}
	for role, want := range DefaultLanding {
		if got := g.Dispatch(&Identity{ID: "x", Role: role}); got != want {
			t.Errorf("Dispatch(%s) = %q, want %q", role, got, want)
		}
		if role == models.RoleAdmin {
			continue
		}
		if d := g.Decide("/admin", &Identity{ID: "x", Role: role}); d.Location != want {
			t.Errorf("gate and dispatcher disagree for %s: %q vs %q", role, d.Location, want)
		}
	}
}
