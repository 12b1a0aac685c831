package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/jhoicas/Ventas-api/internal/application/dto"
	"github.com/jhoicas/Ventas-api/internal/domain"
)

// errorStatus traduce un error de dominio a (status, code). Los errores específicos se
// revisan antes que las raíces que envuelven.
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrNoOpenSession):
		return fiber.StatusBadRequest, "NO_OPEN_SESSION"
	case errors.Is(err, domain.ErrInsufficientStock):
		return fiber.StatusBadRequest, "INSUFFICIENT_STOCK"
	case errors.Is(err, domain.ErrProductInactive):
		return fiber.StatusBadRequest, "PRODUCT_INACTIVE"
	case errors.Is(err, domain.ErrSessionAlreadyOpen):
		return fiber.StatusConflict, "SESSION_ALREADY_OPEN"
	case errors.Is(err, domain.ErrSessionAlreadyClosed):
		return fiber.StatusConflict, "SESSION_ALREADY_CLOSED"
	case errors.Is(err, domain.ErrRequestInFlight):
		return fiber.StatusConflict, "REQUEST_IN_FLIGHT"
	case errors.Is(err, domain.ErrDuplicate):
		return fiber.StatusConflict, "DUPLICATE"
	case errors.Is(err, domain.ErrConflict):
		return fiber.StatusConflict, "CONFLICT"
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, domain.ErrPreconditionFailed):
		return fiber.StatusBadRequest, "PRECONDITION_FAILED"
	case errors.Is(err, domain.ErrInvalidInput):
		return fiber.StatusBadRequest, "VALIDATION"
	case errors.Is(err, domain.ErrUnauthorized):
		return fiber.StatusUnauthorized, "UNAUTHORIZED"
	case errors.Is(err, domain.ErrForbidden):
		return fiber.StatusForbidden, "FORBIDDEN"
	}
	return fiber.StatusInternalServerError, "INTERNAL"
}

// respondError escribe el ErrorResponse del error. Los 500 no exponen el detalle interno.
func respondError(c *fiber.Ctx, err error) error {
	status, code := errorStatus(err)
	if status == fiber.StatusInternalServerError {
		log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("error interno")
		return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: "error interno del servidor"})
	}
	return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: err.Error()})
}

// respondSaleError igual que respondError, pero un producto inexistente en una venta es un
// error del pedido (400), no un recurso faltante.
func respondSaleError(c *fiber.Ctx, err error) error {
	if errors.Is(err, domain.ErrProductNotFound) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "PRODUCT_NOT_FOUND", Message: err.Error()})
	}
	return respondError(c, err)
}
