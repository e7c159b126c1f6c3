package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/keywordforge/core/internal/pkg/response"
)

const (
	ContextKeyTenantID = "tenant_id"

	// DemoTenantID stands in for a real tenant when no token is presented
	// in development mode.
	DemoTenantID = "demo-tenant"
)

// TenantClaims are the JWT claims issued to tenant API clients.
type TenantClaims struct {
	TenantID string `json:"tenant_id"`
	jwt.RegisteredClaims
}

// Auth returns a middleware that resolves the calling tenant from a JWT
// bearer token. In development mode requests without a token fall back to
// the demo tenant so the API can be exercised without an auth server.
func Auth(secret string, allowDemo bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			if allowDemo {
				c.Set(ContextKeyTenantID, DemoTenantID)
				c.Next()
				return
			}
			response.Unauthorized(c)
			return
		}

		tenantID, err := parseTenantToken(secret, token)
		if err != nil {
			response.Unauthorized(c)
			return
		}
		c.Set(ContextKeyTenantID, tenantID)
		c.Next()
	}
}

func parseTenantToken(secret, raw string) (string, error) {
	claims := &TenantClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil {
		return "", err
	}
	if !token.Valid || claims.TenantID == "" {
		return "", errors.New("invalid token")
	}
	return claims.TenantID, nil
}

// CurrentTenantID extracts the authenticated tenant ID from context.
func CurrentTenantID(c *gin.Context) string {
	v, _ := c.Get(ContextKeyTenantID)
	id, _ := v.(string)
	return id
}

func extractToken(c *gin.Context) string {
	auth := c.GetHeader("Authorization")
	if auth != "" {
		return NormalizeToken(auth)
	}
	return NormalizeToken(c.Query("token"))
}

// NormalizeToken trims spaces and strips optional Bearer prefix.
func NormalizeToken(raw string) string {
	token := strings.TrimSpace(raw)
	if token == "" {
		return ""
	}
	if strings.HasPrefix(strings.ToLower(token), "bearer ") {
		return strings.TrimSpace(token[7:])
	}
	return token
}
