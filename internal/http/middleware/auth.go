package middleware

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"

	"docsecure/internal/auth"
	"docsecure/internal/repository"
)

// IdentityLocalKey is the key under which RequireAuth stores the resolved
// auth.Identity in Fiber's context locals.
const IdentityLocalKey = "identity"

// RequireAuth validates the Authorization bearer token (HS256-signed JWT with
// the user id in the sub claim), loads the user, and stores the resolved
// identity in context locals. Requests without a valid token and an existing
// user never reach the handler.
func RequireAuth(jwtSecret string, users repository.UserRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || raw == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "missing bearer token")
		}

		claims := jwt.MapClaims{}
		_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.New("unexpected signing method")
			}
			return []byte(jwtSecret), nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid or expired token")
		}

		sub, err := claims.GetSubject()
		if err != nil || sub == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid or expired token")
		}

		user, err := users.FindByID(c.UserContext(), sub)
		if err != nil {
			// An unknown subject and a database failure look the same to the
			// client; neither yields a usable identity.
			return fiber.NewError(fiber.StatusUnauthorized, "invalid or expired token")
		}

		c.Locals(IdentityLocalKey, auth.Identity{
			ID:       user.ID,
			Username: user.Username,
			IsAdmin:  user.IsAdmin,
		})

		return c.Next()
	}
}

// IdentityFrom returns the identity stored by RequireAuth. The second return
// is false on routes that skipped the middleware.
func IdentityFrom(c *fiber.Ctx) (auth.Identity, bool) {
	id, ok := c.Locals(IdentityLocalKey).(auth.Identity)
	return id, ok
}

// ClientIP resolves the requester's address for the audit trail: the first
// X-Forwarded-For entry when present, the peer address otherwise, and the
// literal "unknown" when neither is available.
func ClientIP(c *fiber.Ctx) string {
	if fwd := c.Get(fiber.HeaderXForwardedFor); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		if first = strings.TrimSpace(first); first != "" {
			return first
		}
	}
	if ip := c.IP(); ip != "" {
		return ip
	}
	return "unknown"
}
