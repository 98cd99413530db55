package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/integra3/cotizador-api/internal/application/dto"
	"github.com/integra3/cotizador-api/internal/application/quotes"
	"github.com/integra3/cotizador-api/internal/domain/entity"
)

// ApprovalHandler maneja las rutas públicas de decisión por token. No hay
// autenticación: el token de un solo uso en la URL es la única credencial.
type ApprovalHandler struct {
	uc *quotes.ApprovalUseCase
}

// NewApprovalHandler construye el handler.
func NewApprovalHandler(uc *quotes.ApprovalUseCase) *ApprovalHandler {
	return &ApprovalHandler{uc: uc}
}

// View muestra la cotización asociada al token (página pública previa a decidir).
func (h *ApprovalHandler) View(c *fiber.Ctx) error {
	out, err := h.uc.GetByToken(c.Context(), c.Params("token"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Approve aplica la decisión "aprobado". GET sirve el enlace directo del
// correo; los comentarios opcionales llegan por POST en el cuerpo.
func (h *ApprovalHandler) Approve(c *fiber.Ctx) error {
	return h.decide(c, entity.ApprovalAprobado)
}

// Reject aplica la decisión "rechazado".
func (h *ApprovalHandler) Reject(c *fiber.Ctx) error {
	return h.decide(c, entity.ApprovalRechazado)
}

func (h *ApprovalHandler) decide(c *fiber.Ctx, decision string) error {
	var in dto.DecisionRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
		}
	}
	out, err := h.uc.Decide(c.Context(), c.Params("token"), decision, in.Comentarios)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
