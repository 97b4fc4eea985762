package handlers

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/braiinybear/backoffice-service/internal/auth"
	"github.com/braiinybear/backoffice-service/internal/metrics"
	"github.com/braiinybear/backoffice-service/internal/models"
	"github.com/braiinybear/backoffice-service/internal/utils"
)

// RequestIDHeader carries the correlation id in both directions.
const RequestIDHeader = "X-Request-ID"

// SetupMiddleware installs the chain shared by every route. The gate and
// session layers are added by SetupRoutes.
func SetupMiddleware(router *gin.Engine, logger utils.Logger, m *metrics.Metrics) {
	chain := []gin.HandlerFunc{
		RequestIDMiddleware(),
		gin.Recovery(),
		utils.ContextLogger(logger),
		utils.LoggerMiddleware(logger),
	}
	if m != nil {
		chain = append(chain, m.Middleware())
	}
	router.Use(append(chain, SecurityMiddleware())...)
}

var securityHeaders = [][2]string{
	{"X-Content-Type-Options", "nosniff"},
	{"X-Frame-Options", "DENY"},
	{"Strict-Transport-Security", "max-age=31536000; includeSubDomains"},
	{"Referrer-Policy", "strict-origin-when-cross-origin"},
	{"Content-Security-Policy", "default-src 'self'; img-src 'self' data: https:"},
}

func SecurityMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, h := range securityHeaders {
			c.Header(h[0], h[1])
		}
		c.Next()
	}
}

// RequestIDMiddleware keeps a caller-supplied id or mints a UUID.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(RequestIDHeader))
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}
		c.Header(RequestIDHeader, id)
		c.Set("request_id", id)
		c.Next()
	}
}

// IntakeCORSMiddleware allows the public site to post registrations. Other
// origins get no CORS headers and are left to the browser to refuse.
func IntakeCORSMiddleware(allowedOrigin string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" && origin == allowedOrigin {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Access-Control-Allow-Methods", "POST, OPTIONS")
			c.Header("Access-Control-Allow-Headers", "Content-Type")
			c.Header("Access-Control-Max-Age", "86400")
			c.Header("Vary", "Origin")
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// RateLimitMiddleware is a token bucket per client IP, as resolved by gin:
// forwarding headers count only when the peer is a trusted proxy. Buckets
// idle for longer than ttl are swept on the next request.
func RateLimitMiddleware(perSecond float64, burst int) gin.HandlerFunc {
	type bucket struct {
		lim  *rate.Limiter
		seen time.Time
	}
	var (
		mu        sync.Mutex
		buckets   = make(map[string]*bucket)
		ttl       = 5 * time.Minute
		lastSweep = time.Now()
	)

	return func(c *gin.Context) {
		ip := c.ClientIP()
		now := time.Now()

		mu.Lock()
		if now.Sub(lastSweep) > time.Minute {
			for k, b := range buckets {
				if now.Sub(b.seen) > ttl {
					delete(buckets, k)
				}
			}
			lastSweep = now
		}
		b, ok := buckets[ip]
		if !ok {
			b = &bucket{lim: rate.NewLimiter(rate.Limit(perSecond), burst)}
			buckets[ip] = b
		}
		b.seen = now
		allowed := b.lim.Allow()
		mu.Unlock()

		if !allowed {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, ErrorResponse{Message: "Too many requests, try again later"})
			return
		}
		c.Next()
	}
}

// SessionVerifier resolves a session token to the identity it was issued for.
type SessionVerifier interface {
	VerifySession(token string) (*auth.Identity, error)
}

// SessionMiddleware reads the bearer token or the session cookie and, when it
// verifies, places the identity on the request context. Invalid and missing
// sessions are treated alike: the request continues without an identity.
func SessionMiddleware(verifier SessionVerifier, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			token, _ = c.Cookie(cookieName)
		}
		if token != "" {
			if id, err := verifier.VerifySession(token); err == nil {
				c.Request = c.Request.WithContext(auth.ContextWithIdentity(c.Request.Context(), id))
				c.Set("user_id", id.ID)
			}
		}
		c.Next()
	}
}

func bearerToken(header string) string {
	parts := strings.SplitN(strings.TrimSpace(header), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// GateMiddleware applies the page gate. It never fails a request with an
// error body; it either passes it on or redirects.
func GateMiddleware(gate *auth.Gate) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, _ := auth.IdentityFromContext(c.Request.Context())
		decision := gate.Decide(c.Request.URL.Path, id)
		if decision.Outcome != auth.Allow {
			c.Redirect(http.StatusTemporaryRedirect, decision.Location)
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireSession rejects API calls without a verified identity.
func RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := auth.IdentityFromContext(c.Request.Context()); !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Message: "Unauthorized"})
			return
		}
		c.Next()
	}
}

// RequireRole rejects API calls whose session role is not listed. ADMIN always passes.
func RequireRole(roles ...models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := auth.IdentityFromContext(c.Request.Context())
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Message: "Unauthorized"})
			return
		}
		if id.IsAdmin() {
			c.Next()
			return
		}
		for _, role := range roles {
			if id.Role == role {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, ErrorResponse{Message: "Insufficient permissions"})
	}
}
