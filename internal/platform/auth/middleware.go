package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// Roles known to the system.
const (
	RolePatient = "patient"
	RoleDoctor  = "doctor"
)

// Principal is the authenticated caller, as resolved from the credential
// store. It never carries the password hash.
type Principal struct {
	ID         uuid.UUID
	Name       string
	Email      string
	Role       string
	Department string
}

// Resolver looks up a Principal by identity id. The middleware calls it on
// every request so that a token never carries stale privileges: if the subject
// has been removed from the store, authentication fails even for an unexpired
// token.
type Resolver interface {
	Resolve(ctx context.Context, id uuid.UUID) (*Principal, error)
}

type contextKey string

const principalKey contextKey = "principal"

// Middleware returns echo middleware that authenticates the bearer token and
// stores the resolved Principal on the request context.
func Middleware(issuer *TokenIssuer, resolver Resolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization format")
			}

			userID, err := issuer.Verify(parts[1])
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			principal, err := resolver.Resolve(c.Request().Context(), userID)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			ctx := context.WithValue(c.Request().Context(), principalKey, principal)
			c.SetRequest(c.Request().WithContext(ctx))

			return next(c)
		}
	}
}

// PrincipalFromContext returns the authenticated caller, or nil when the
// request did not pass through the auth middleware.
func PrincipalFromContext(ctx context.Context) *Principal {
	p, _ := ctx.Value(principalKey).(*Principal)
	return p
}

// WithPrincipal returns a context carrying the given principal. Intended for
// tests and internal calls.
func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

// RequireRole returns middleware that checks if the caller has one of the
// specified roles.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			p := PrincipalFromContext(c.Request().Context())
			if p == nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "not authenticated")
			}
			for _, required := range roles {
				if p.Role == required {
					return next(c)
				}
			}
			return echo.NewHTTPError(http.StatusForbidden,
				"required role: "+strings.Join(roles, " or "))
		}
	}
}
