package auth

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/hr-triage-service/internal/config"
	apperrors "github.com/spec-kit/hr-triage-service/pkg/util"
)

func TestTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager("s3cret", 5)
	token, expiresAt, err := tm.GenerateToken("n8n", 0)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(5*time.Minute), expiresAt, 5*time.Second)

	claims, err := tm.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "n8n", claims.Subject)
}

func TestParseTokenRejects(t *testing.T) {
	tm := NewTokenManager("s3cret", 5)

	other, _, err := NewTokenManager("different", 5).GenerateToken("n8n", 0)
	require.NoError(t, err)
	_, err = tm.ParseToken(other)
	assert.Error(t, err, "wrong secret")

	tm.now = func() time.Time { return time.Now().Add(-time.Hour) }
	expired, _, err := tm.GenerateToken("n8n", time.Minute)
	require.NoError(t, err)
	tm.now = time.Now
	_, err = tm.ParseToken(expired)
	assert.Error(t, err, "expired")

	_, _, err = tm.GenerateToken("", 0)
	assert.Error(t, err)
}

func TestAPIKeyHash(t *testing.T) {
	hash, err := HashAPIKey("key-123", bcrypt.MinCost)
	require.NoError(t, err)
	assert.NoError(t, CompareAPIKey(hash, "key-123"))
	assert.Error(t, CompareAPIKey(hash, "key-124"))
}

func newGuardedApp(m *AuthMiddleware) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: func(c *fiber.Ctx, err error) error {
		domainErr := apperrors.ToDomainError(err)
		return c.Status(domainErr.HTTPStatus).JSON(fiber.Map{"error": fiber.Map{"code": domainErr.Code}})
	}})
	app.Get("/guarded", m.Handle, func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return c.SendString("anonymous")
		}
		return c.SendString(principal.Method + ":" + principal.Subject)
	})
	return app
}

func call(t *testing.T, app *fiber.App, headers map[string]string) (int, string) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func TestMiddlewareDisabledPassesThrough(t *testing.T) {
	app := newGuardedApp(NewAuthMiddleware(config.AuthConfig{Enabled: false}, nil))
	status, body := call(t, app, nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "anonymous", body)
}

func TestMiddlewareEnabled(t *testing.T) {
	hash, err := HashAPIKey("key-123", bcrypt.MinCost)
	require.NoError(t, err)
	tokens := NewTokenManager("s3cret", 5)
	token, _, err := tokens.GenerateToken("n8n", 0)
	require.NoError(t, err)

	app := newGuardedApp(NewAuthMiddleware(config.AuthConfig{Enabled: true, APIKeyHash: hash}, tokens))

	status, _ := call(t, app, nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = call(t, app, map[string]string{"Authorization": "Basic abc"})
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = call(t, app, map[string]string{"Authorization": "Bearer nope"})
	assert.Equal(t, http.StatusUnauthorized, status)

	status, body := call(t, app, map[string]string{"Authorization": "Bearer " + token})
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "bearer:n8n", body)

	status, _ = call(t, app, map[string]string{"X-API-Key": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, status)

	status, body = call(t, app, map[string]string{"X-API-Key": "key-123"})
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "api_key:automation", body)
}
