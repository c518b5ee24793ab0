package auth

import (
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
)

// Config holds configuration for token issuance and verification.
type Config struct {
	// Secret is the HMAC signing key for JWTs.
	Secret string `mapstructure:"secret" default:""`
	// ExpiryHours is the token lifetime in hours.
	ExpiryHours int `mapstructure:"expiry_hours" default:"24"`
}

// LocalsKey is the fiber locals key under which the authenticated user ID is stored.
const LocalsKey = "user_id"

// GenerateToken signs an HS256 JWT carrying the user ID.
func GenerateToken(userID uint, username string, cfg Config) (string, error) {
	expiry := cfg.ExpiryHours
	if expiry <= 0 {
		expiry = 24
	}
	claims := jwt.MapClaims{
		"id":       userID,
		"username": username,
		"iat":      time.Now().Unix(),
		"exp":      time.Now().Add(time.Duration(expiry) * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.Secret))
}

// New returns a middleware that requires a valid Bearer token and stores the
// authenticated user ID in the request locals.
func New(cfg Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Not authorized, no token",
			})
		}
		tokenString := authHeader[len("Bearer "):]

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(cfg.Secret), nil
		})
		if err != nil || !token.Valid {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Token invalid or expired",
			})
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok || claims["id"] == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Invalid token payload",
			})
		}

		// JWT numeric claims decode as float64
		id, ok := claims["id"].(float64)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Invalid token payload",
			})
		}
		c.Locals(LocalsKey, uint(id))

		return c.Next()
	}
}

// UserID returns the authenticated user ID stored by the middleware, or 0
// when the request is unauthenticated.
func UserID(c *fiber.Ctx) uint {
	if id, ok := c.Locals(LocalsKey).(uint); ok {
		return id
	}
	return 0
}
