package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Caja-api/internal/application/dto"
	"github.com/jhoicas/Caja-api/pkg/jwt"
)

// Locals keys para los claims del operador en Fiber.
const (
	LocalUserID   = "user_id"
	LocalUserName = "user_name"
	LocalRole     = "role"
)

// AuthMiddleware valida el Bearer Token JWT y extrae userID, nombre y role a c.Locals.
func AuthMiddleware(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "Authorization header requerido"})
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "formato: Bearer <token>"})
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "token vacío"})
		}
		userID, name, role, err := jwt.Parse(jwtSecret, tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido o expirado"})
		}
		c.Locals(LocalUserID, userID)
		c.Locals(LocalUserName, name)
		c.Locals(LocalRole, role)
		return c.Next()
	}
}

// RequireAdmin exige role admin (debe ir después de AuthMiddleware).
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if GetRole(c) != "admin" {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "requiere rol admin"})
		}
		return c.Next()
	}
}

// GetUserID devuelve el UserID del contexto (después del middleware de auth).
func GetUserID(c *fiber.Ctx) string {
	return localString(c, LocalUserID)
}

// GetUserName devuelve el nombre del operador autenticado.
func GetUserName(c *fiber.Ctx) string {
	return localString(c, LocalUserName)
}

// GetRole devuelve el role del operador autenticado.
func GetRole(c *fiber.Ctx) string {
	return localString(c, LocalRole)
}

func localString(c *fiber.Ctx, key string) string {
	v := c.Locals(key)
	if v == nil {
		return ""
	}
	s, _ := v.(string)
	return s
}
