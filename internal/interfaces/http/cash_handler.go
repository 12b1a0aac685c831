package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Ventas-api/internal/application/cash"
	"github.com/jhoicas/Ventas-api/internal/application/dto"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
)

// CashHandler maneja las sesiones de caja (protegido).
type CashHandler struct {
	sessions *cash.SessionManager
}

// NewCashHandler construye el handler.
func NewCashHandler(sessions *cash.SessionManager) *CashHandler {
	return &CashHandler{sessions: sessions}
}

// Open godoc
// @Summary      Abrir caja
// @Tags         cash-sessions
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.OpenSessionRequest  true  "Monto inicial"
// @Success      201  {object}  dto.CashSessionResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/cash-sessions [post]
func (h *CashHandler) Open(c *fiber.Ctx) error {
	var in dto.OpenSessionRequest
	if ok, err := bindAndValidate(c, &in); !ok {
		return err
	}
	out, err := h.sessions.Open(c.UserContext(), GetCaller(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Current godoc
// @Summary      Sesión abierta del usuario
// @Tags         cash-sessions
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.CurrentSessionResponse
// @Router       /api/cash-sessions/current [get]
func (h *CashHandler) Current(c *fiber.Ctx) error {
	out, err := h.sessions.Current(c.UserContext(), GetCaller(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.CurrentSessionResponse{Session: out})
}

// List godoc
// @Summary      Listar sesiones de caja
// @Tags         cash-sessions
// @Security     Bearer
// @Produce      json
// @Param        status  query  string  false  "abierta | cerrada"
// @Param        limit   query  int     false  "Límite (1-1000)"
// @Success      200  {object}  dto.CashSessionListResponse
// @Router       /api/cash-sessions [get]
func (h *CashHandler) List(c *fiber.Ctx) error {
	status := c.Query("status")
	if status != "" && status != entity.SessionStatusOpen && status != entity.SessionStatusClosed {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "status debe ser abierta o cerrada"})
	}
	limit, err := queryLimit(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	out, err := h.sessions.List(c.UserContext(), GetCaller(c), status, limit)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener sesión de caja
// @Tags         cash-sessions
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la sesión"
// @Success      200  {object}  dto.CashSessionResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/cash-sessions/{id} [get]
func (h *CashHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.sessions.Get(c.UserContext(), GetCaller(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Close godoc
// @Summary      Cerrar caja
// @Description  Calcula esperado = inicial + ventas - retiros y diferencia = contado - esperado.
// @Tags         cash-sessions
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                   true  "ID de la sesión"
// @Param        body  body  dto.CloseSessionRequest  true  "Monto contado"
// @Success      200  {object}  dto.CashSessionResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/cash-sessions/{id}/close [post]
func (h *CashHandler) Close(c *fiber.Ctx) error {
	var in dto.CloseSessionRequest
	if ok, err := bindAndValidate(c, &in); !ok {
		return err
	}
	out, err := h.sessions.Close(c.UserContext(), GetCaller(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Withdraw godoc
// @Summary      Retiro de efectivo
// @Tags         cash-sessions
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                 true  "ID de la sesión"
// @Param        body  body  dto.WithdrawalRequest  true  "Monto y descripción"
// @Success      201  {object}  dto.CashSessionResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/cash-sessions/{id}/withdrawals [post]
func (h *CashHandler) Withdraw(c *fiber.Ctx) error {
	var in dto.WithdrawalRequest
	if ok, err := bindAndValidate(c, &in); !ok {
		return err
	}
	out, err := h.sessions.Withdraw(c.UserContext(), GetCaller(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Report godoc
// @Summary      Reporte de sesión
// @Description  Sesión, movimientos en orden, ventas y totales por método de pago.
// @Tags         cash-sessions
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la sesión"
// @Success      200  {object}  dto.SessionReportResponse
// @Router       /api/cash-sessions/{id}/report [get]
func (h *CashHandler) Report(c *fiber.Ctx) error {
	out, err := h.sessions.Report(c.UserContext(), GetCaller(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
