package auth

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"smart-attendance/internal/domain"
)

// TokenMiddleware issues and verifies the HS256 bearer tokens the backend
// hands out from its login endpoint. The subject claim carries the user
// ID and is exposed to handlers as "user_id".
type TokenMiddleware struct {
	secret []byte
	issuer string
	now    func() time.Time
}

func NewTokenMiddleware(secret string) *TokenMiddleware {
	return &TokenMiddleware{
		secret: []byte(secret),
		issuer: "smart-attendance",
		now:    time.Now,
	}
}

// Issue mints a token for the user, valid for ttl.
func (m *TokenMiddleware) Issue(userID string, role domain.Role, ttl time.Duration) (string, error) {
	if userID == "" {
		return "", domain.ErrInvalidInput
	}
	now := m.now()
	claims := jwt.MapClaims{
		"sub":  userID,
		"role": string(role),
		"iss":  m.issuer,
		"iat":  now.Unix(),
		"exp":  now.Add(ttl).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

func (m *TokenMiddleware) Handler(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "missing authorization token"})
		}
		tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer"))
		if tokenString == "" {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid authorization token"})
		}
		claims := jwt.MapClaims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
			if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
				return nil, errors.New("unexpected signing method")
			}
			return m.secret, nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithIssuer(m.issuer))
		if err != nil || !token.Valid {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid token"})
		}
		sub, _ := claims["sub"].(string)
		if sub == "" {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": domain.ErrInvalidInput.Error()})
		}
		c.Set("user_id", sub)
		if role, ok := claims["role"].(string); ok {
			c.Set("role", role)
		}
		return next(c)
	}
}
