package middleware

import (
	"strconv"
	"strings"

	"truckstop/internal/config"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// SessionCookie is the name of the cookie carrying the session token.
const SessionCookie = "truckstop_session"

var cfg *config.Config

// InitMiddleware initializes authentication middleware with the given config.
func InitMiddleware(c *config.Config) {
	cfg = c
}

// tokenFromRequest extracts the session token from the Authorization header
// or, failing that, the session cookie. Browser flows use the cookie; API
// clients use Bearer headers.
func tokenFromRequest(c *fiber.Ctx) string {
	if authHeader := c.Get("Authorization"); authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && parts[0] == "Bearer" {
			return parts[1]
		}
	}
	return c.Cookies(SessionCookie)
}

// parseToken validates a token string and returns its claims.
func parseToken(tokenString string) (jwt.MapClaims, bool) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid signing method")
		}
		return []byte(cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, false
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, false
	}

	if issuer, issuerOk := claims["iss"].(string); !issuerOk || issuer != "truckstop-api" {
		return nil, false
	}
	if audience, audienceOk := claims["aud"].(string); !audienceOk || audience != "truckstop-client" {
		return nil, false
	}

	return claims, true
}

// AuthRequired is a middleware that enforces authentication for protected routes.
func AuthRequired(c *fiber.Ctx) error {
	tokenString := tokenFromRequest(c)
	if tokenString == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
	}

	claims, ok := parseToken(tokenString)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid or expired session",
		})
	}

	sub, ok := claims["sub"].(string)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid token claims",
		})
	}

	userID, err := strconv.ParseUint(sub, 10, 32)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid user ID in token",
		})
	}

	c.Locals("userID", uint(userID))
	if username, unameOk := claims["username"].(string); unameOk {
		c.Locals("username", username)
	}

	return c.Next()
}

// OptionalAuth populates the caller identity when a valid session token is
// present but never rejects the request. Listing pages use it so anonymous
// contexts keep read access.
func OptionalAuth(c *fiber.Ctx) error {
	if tokenString := tokenFromRequest(c); tokenString != "" {
		if claims, ok := parseToken(tokenString); ok {
			if sub, subOk := claims["sub"].(string); subOk {
				if userID, err := strconv.ParseUint(sub, 10, 32); err == nil {
					c.Locals("userID", uint(userID))
					if username, unameOk := claims["username"].(string); unameOk {
						c.Locals("username", username)
					}
				}
			}
		}
	}
	return c.Next()
}
