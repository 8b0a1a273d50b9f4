package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Honorarios-api/internal/application/dto"
	"github.com/jhoicas/Honorarios-api/internal/application/usecase"
)

// ProfileHandler perfil propio y administración de perfiles.
type ProfileHandler struct {
	uc *usecase.ProfileUseCase
}

// NewProfileHandler construye el handler.
func NewProfileHandler(uc *usecase.ProfileUseCase) *ProfileHandler {
	return &ProfileHandler{uc: uc}
}

// Me godoc
// @Summary      Perfil del usuario autenticado
// @Tags         profiles
// @Produce      json
// @Success      200  {object}  dto.ProfileResponse
// @Router       /api/me [get]
func (h *ProfileHandler) Me(c *fiber.Ctx) error {
	p := GetProfile(c)
	if p == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "perfil no cargado"})
	}
	return c.JSON(usecase.ToProfileResponse(p))
}

// List godoc
// @Summary      Listar perfiles (nombres para responsables y filtros)
// @Tags         profiles
// @Produce      json
// @Success      200  {array}  dto.ProfileResponse
// @Router       /api/profiles [get]
func (h *ProfileHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Cambiar nombre, rol, sector o delegación de un perfil
// @Tags         profiles
// @Accept       json
// @Produce      json
// @Param        id    path  string                    true  "ID del perfil"
// @Param        body  body  dto.UpdateProfileRequest  true  "Cambios"
// @Success      200   {object}  dto.ProfileResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/profiles/{id} [patch]
func (h *ProfileHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateProfileRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	out, err := h.uc.Update(c.UserContext(), GetProfile(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
