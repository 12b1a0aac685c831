package domain

import (
	"errors"
	"fmt"
)

// Raíces de la taxonomía de errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrConflict           = errors.New("conflicto con el estado actual")
	ErrPreconditionFailed = errors.New("precondición no cumplida")
	ErrInsufficientStock  = errors.New("stock insuficiente")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
)

// Errores específicos. Envuelven una raíz para que errors.Is funcione con ambas.
var (
	ErrProductNotFound      = fmt.Errorf("%w: producto no encontrado", ErrNotFound)
	ErrProductInactive      = fmt.Errorf("%w: producto inactivo", ErrPreconditionFailed)
	ErrSessionNotFound      = fmt.Errorf("%w: sesión de caja no encontrada", ErrNotFound)
	ErrSaleNotFound         = fmt.Errorf("%w: venta no encontrada", ErrNotFound)
	ErrSessionAlreadyOpen   = fmt.Errorf("%w: ya existe una sesión de caja abierta", ErrConflict)
	ErrSessionAlreadyClosed = fmt.Errorf("%w: la sesión de caja ya está cerrada", ErrConflict)
	ErrSessionNotOpen       = fmt.Errorf("%w: la sesión de caja no está abierta", ErrPreconditionFailed)
	ErrNoOpenSession        = fmt.Errorf("%w: no hay sesión de caja abierta", ErrPreconditionFailed)
	ErrDuplicate            = fmt.Errorf("%w: recurso duplicado", ErrConflict)
	ErrRequestInFlight      = fmt.Errorf("%w: la solicitud ya se está procesando", ErrConflict)
)
