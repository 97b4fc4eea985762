package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/braiinybear/backoffice-service/internal/models"
)

func TestSessionManager_RoundTrip(t *testing.T) {
	m := NewSessionManager("secret", time.Hour)

	token, exp, err := m.Issue(Identity{ID: "staff-1", Role: models.RoleMedia})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if time.Until(exp) <= 0 {
		t.Fatalf("expiry in the past: %v", exp)
	}

	id, err := m.Verify(token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if id.ID != "staff-1" || id.Role != models.RoleMedia {
		t.Fatalf("identity = %+v", id)
	}
}

func TestSessionManager_RejectsBadTokens(t *testing.T) {
	m := NewSessionManager("secret", time.Hour)
	other := NewSessionManager("other-secret", time.Hour)

	foreign, _, err := other.Issue(Identity{ID: "x", Role: models.RoleAdmin})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	expired := NewSessionManager("secret", time.Hour)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	stale, _, err := expired.Issue(Identity{ID: "x", Role: models.RoleAdmin})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	none := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		Role:             models.RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{Subject: "x", Issuer: sessionIssuer},
	})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign none: %v", err)
	}

	for name, token := range map[string]string{
		"empty":    "",
		"garbage":  "not.a.token",
		"foreign":  foreign,
		"expired":  stale,
		"alg none": unsigned,
	} {
		t.Run(name, func(t *testing.T) {
			if _, err := m.Verify(token); err != ErrInvalidSession {
				t.Fatalf("Verify = %v, want ErrInvalidSession", err)
			}
		})
	}
}

func TestPassword(t *testing.T) {
	hash, err := HashPassword("hunter22")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if !CheckPassword(hash, "hunter22") {
		t.Fatal("correct password rejected")
	}
	if CheckPassword(hash, "hunter23") {
		t.Fatal("wrong password accepted")
	}
}

func TestIdentityContext(t *testing.T) {
	ctx := context.Background()
	if _, ok := IdentityFromContext(ctx); ok {
		t.Fatal("empty context has identity")
	}
	ctx = ContextWithIdentity(ctx, &Identity{ID: "a", Role: models.RoleAdmin})
	id, ok := IdentityFromContext(ctx)
	if !ok || !id.IsAdmin() {
		t.Fatalf("identity = %+v, %v", id, ok)
	}
}
