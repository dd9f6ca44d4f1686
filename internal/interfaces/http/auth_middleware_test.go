package http_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apphttp "github.com/jhoicas/Caja-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/Caja-api/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testUserID    = "00000000-0000-0000-0000-000000000001"
	testUserName  = "Huda"
	testIssuer    = "caja-api-test"
	testExpMin    = 60
)

// buildTestApp construye una app Fiber mínima con una ruta protegida por
// AuthMiddleware y otra que además exige admin.
func buildTestApp() *fiber.App {
	app := fiber.New()
	app.Get("/protected",
		apphttp.AuthMiddleware(testJWTSecret),
		func(c *fiber.Ctx) error {
			return c.JSON(fiber.Map{
				"user_id": apphttp.GetUserID(c),
				"name":    apphttp.GetUserName(c),
				"role":    apphttp.GetRole(c),
			})
		},
	)
	app.Delete("/admin-only",
		apphttp.AuthMiddleware(testJWTSecret),
		apphttp.RequireAdmin(),
		func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusNoContent) },
	)
	return app
}

// tokenForRole genera un JWT con el rol indicado.
func tokenForRole(t *testing.T, role string) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, testUserName, role, testIssuer, testExpMin)
	require.NoError(t, err, "debe generarse un token JWT válido")
	return "Bearer " + tok
}

func doRequest(t *testing.T, app *fiber.App, method, path, authHeader string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests AuthMiddleware
// ──────────────────────────────────────────────────────────────────────────────

// Caso: sin Authorization header → 401.
func TestAuthMiddleware_SinToken(t *testing.T) {
	app := buildTestApp()
	resp := doRequest(t, app, http.MethodGet, "/protected", "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

// Caso: formato distinto de "Bearer <token>" → 401.
func TestAuthMiddleware_FormatoInvalido(t *testing.T) {
	app := buildTestApp()
	resp := doRequest(t, app, http.MethodGet, "/protected", "Basic abc123")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

// Caso: token firmado con otro secret → 401.
func TestAuthMiddleware_FirmaIncorrecta(t *testing.T) {
	app := buildTestApp()
	tok, err := pkgjwt.Generate("otro-secret", testUserID, testUserName, "cajero", testIssuer, testExpMin)
	require.NoError(t, err)
	resp := doRequest(t, app, http.MethodGet, "/protected", "Bearer "+tok)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

// Caso: token válido → 200 y los claims quedan en locals.
func TestAuthMiddleware_TokenValido(t *testing.T) {
	app := buildTestApp()
	resp := doRequest(t, app, http.MethodGet, "/protected", tokenForRole(t, "cajero"))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var got map[string]string
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, testUserID, got["user_id"])
	assert.Equal(t, testUserName, got["name"])
	assert.Equal(t, "cajero", got["role"])
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests RequireAdmin
// ──────────────────────────────────────────────────────────────────────────────

// Caso: un cajero no puede acceder a rutas de admin → 403.
func TestRequireAdmin_CajeroRechazado(t *testing.T) {
	app := buildTestApp()
	resp := doRequest(t, app, http.MethodDelete, "/admin-only", tokenForRole(t, "cajero"))
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

// Caso: un admin pasa → 204.
func TestRequireAdmin_AdminPasa(t *testing.T) {
	app := buildTestApp()
	resp := doRequest(t, app, http.MethodDelete, "/admin-only", tokenForRole(t, "admin"))
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}
