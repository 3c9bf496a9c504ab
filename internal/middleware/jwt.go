package middleware // middleware contains reusable HTTP middleware functions

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/zombieland/zombieland-api/internal/auth"
)

// JWTAuth returns an Echo middleware that validates a Bearer access
// token and resolves its subject into a request principal.  The token is
// parsed and signature/expiry-checked here; the claim is then handed to
// the resolver, which re-reads the user row on every request.  That
// lookup is what rejects tokens whose account was deleted or
// deactivated after the token was issued.  On success the principal is
// stored in the context for CurrentPrincipal and RequireRole.
func JWTAuth(secret string, resolver *auth.Resolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
			}
			raw := strings.TrimPrefix(header, "Bearer ")

			// HS256 only; tokens signed with any other method are
			// rejected before the secret is even consulted.
			tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, echo.ErrUnauthorized
				}
				return []byte(secret), nil
			})
			if err != nil || !tok.Valid {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}
			claims, ok := tok.Claims.(jwt.MapClaims)
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid claims"})
			}

			claim, ok := claimFrom(claims)
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid subject"})
			}

			principal, err := resolver.Resolve(c.Request().Context(), claim)
			if err != nil {
				switch {
				case errors.Is(err, auth.ErrUserNotFound), errors.Is(err, auth.ErrUserInactive):
					// Terminal for this request; surface the resolver's
					// message as-is, no retry.
					return c.JSON(http.StatusUnauthorized, echo.Map{"error": err.Error()})
				default:
					return c.JSON(http.StatusInternalServerError, echo.Map{"error": "identity lookup failed"})
				}
			}

			setPrincipal(c, principal)
			// The rate limiter keys on user identity when available.
			c.Set("user_id", strconv.FormatUint(principal.ID, 10))
			return next(c)
		}
	}
}

// claimFrom converts verified MapClaims into the resolver's input.  JWT
// numbers decode as float64; some issuers encode the subject as a
// string, so both are accepted.
func claimFrom(claims jwt.MapClaims) (auth.Claim, bool) {
	var claim auth.Claim
	switch sub := claims["sub"].(type) {
	case float64:
		claim.Subject = uint64(sub)
	case string:
		n, err := strconv.ParseUint(sub, 10, 64)
		if err != nil {
			return auth.Claim{}, false
		}
		claim.Subject = n
	default:
		return auth.Claim{}, false
	}
	if claim.Subject == 0 {
		return auth.Claim{}, false
	}
	if iat, ok := claims["iat"].(float64); ok {
		claim.IssuedAt = time.Unix(int64(iat), 0).UTC()
	}
	if exp, ok := claims["exp"].(float64); ok {
		claim.ExpiresAt = time.Unix(int64(exp), 0).UTC()
	}
	return claim, true
}
