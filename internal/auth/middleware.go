package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/hr-triage-service/internal/config"
	apperrors "github.com/spec-kit/hr-triage-service/pkg/util"
)

const principalKey = "auth_principal"

// APIKeySubject names callers authenticated with the shared key.
const APIKeySubject = "automation"

// Authentication methods.
const (
	MethodBearer = "bearer"
	MethodAPIKey = "api_key"
)

// Principal represents the authenticated caller.
type Principal struct {
	Subject string
	Method  string
}

// AuthMiddleware guards automation routes when auth is enabled.
type AuthMiddleware struct {
	enabled    bool
	tokens     *TokenManager
	apiKeyHash string
}

// NewAuthMiddleware constructs middleware. tokens may be nil when only the
// API key is configured.
func NewAuthMiddleware(cfg config.AuthConfig, tokens *TokenManager) *AuthMiddleware {
	return &AuthMiddleware{enabled: cfg.Enabled, tokens: tokens, apiKeyHash: cfg.APIKeyHash}
}

// Handle enforces authentication for protected routes.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	if m == nil || !m.enabled {
		return c.Next()
	}

	if key := c.Get("X-API-Key"); key != "" {
		if m.apiKeyHash == "" || CompareAPIKey(m.apiKeyHash, key) != nil {
			return apperrors.NewUnauthorized("invalid api key")
		}
		c.Locals(principalKey, &Principal{Subject: APIKeySubject, Method: MethodAPIKey})
		return c.Next()
	}

	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		return apperrors.NewUnauthorized("missing authorization header")
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return apperrors.NewUnauthorized("invalid authorization header")
	}
	if m.tokens == nil {
		return apperrors.NewUnauthorized("bearer tokens not accepted")
	}
	claims, err := m.tokens.ParseToken(strings.TrimSpace(parts[1]))
	if err != nil {
		return apperrors.NewUnauthorized("invalid token")
	}

	c.Locals(principalKey, &Principal{Subject: claims.Subject, Method: MethodBearer})
	return c.Next()
}

// PrincipalFromContext retrieves the authenticated caller.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}
