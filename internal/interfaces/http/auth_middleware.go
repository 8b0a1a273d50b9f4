package http

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Honorarios-api/internal/application/dto"
	"github.com/jhoicas/Honorarios-api/internal/domain"
	"github.com/jhoicas/Honorarios-api/internal/domain/entity"
	"github.com/jhoicas/Honorarios-api/pkg/jwt"
)

// Locals keys en Fiber.
const (
	LocalUserID  = "user_id"
	LocalEmail   = "email"
	LocalProfile = "profile"
)

// AuthMiddleware valida el Bearer Token emitido por el servicio de autenticación
// y deja UserID y Email en c.Locals.
func AuthMiddleware(jwtSecret string, opts jwt.VerifyOptions) fiber.Handler {
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
		userID, email, err := jwt.Parse(jwtSecret, tokenString, opts)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido o expirado"})
		}
		c.Locals(LocalUserID, userID)
		c.Locals(LocalEmail, email)
		return c.Next()
	}
}

// profileLoader contrato mínimo para cargar el profile del usuario autenticado.
// Lo implementa *usecase.ProfileUseCase.
type profileLoader interface {
	Load(ctx context.Context, id string) (*entity.Profile, error)
}

// LoadProfile carga el profile del usuario del token en c.Locals. Debe usarse
// DESPUÉS de AuthMiddleware.
//
// Comportamiento:
//   - 403 PROFILE_NOT_FOUND → el usuario existe en auth pero no tiene profile.
//   - 503 PROFILE_LOOKUP_FAILED → fallo de infraestructura al consultar la DB.
func LoadProfile(loader profileLoader) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := GetUserID(c)
		if userID == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "user_id no encontrado en el token"})
		}
		p, err := loader.Load(c.UserContext(), userID)
		if err != nil {
			if errors.Is(err, domain.ErrProfileNotFound) {
				return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "PROFILE_NOT_FOUND", Message: "usuario sin perfil en el escritorio"})
			}
			return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "PROFILE_LOOKUP_FAILED", Message: "no se pudo cargar el perfil, intente más tarde"})
		}
		c.Locals(LocalProfile, p)
		return c.Next()
	}
}

// RequireRole permite el paso solo si el rol del profile está entre roles.
// Sin profile cargado responde 401 MISSING_ROLE.
func RequireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role := GetRole(c)
		if role == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_ROLE", Message: "rol no disponible para el usuario"})
		}
		for _, r := range roles {
			if r == role {
				return c.Next()
			}
		}
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "rol sin acceso a este recurso"})
	}
}

// GetUserID devuelve el UserID del contexto (después del middleware de auth).
func GetUserID(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalUserID).(string)
	return s
}

// GetEmail devuelve el email del token.
func GetEmail(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalEmail).(string)
	return s
}

// GetProfile devuelve el profile cargado por LoadProfile (nil si no hay).
func GetProfile(c *fiber.Ctx) *entity.Profile {
	p, _ := c.Locals(LocalProfile).(*entity.Profile)
	return p
}

// GetRole devuelve el rol del profile cargado.
func GetRole(c *fiber.Ctx) string {
	if p := GetProfile(c); p != nil {
		return p.Role
	}
	return ""
}
