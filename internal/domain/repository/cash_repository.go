package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Ventas-api/internal/domain/entity"
)

// CashSessionRepository puerto de sesiones de caja.
type CashSessionRepository interface {
	// Create falla con domain.ErrSessionAlreadyOpen si el usuario ya tiene una abierta.
	Create(ctx context.Context, session *entity.CashSession) error
	GetByID(ctx context.Context, id string) (*entity.CashSession, error)
	// GetForUpdate lee la sesión bloqueándola hasta el fin de la transacción.
	GetForUpdate(ctx context.Context, id string) (*entity.CashSession, error)
	GetOpenByUser(ctx context.Context, userID string) (*entity.CashSession, error)
	List(ctx context.Context, filter entity.SessionFilter) ([]*entity.CashSession, error)
	// AddSales y AddWithdrawal incrementan el acumulado de forma atómica y solo si la
	// sesión está abierta (domain.ErrSessionNotOpen / domain.ErrSessionNotFound).
	AddSales(ctx context.Context, id string, amount decimal.Decimal) (*entity.CashSession, error)
	AddWithdrawal(ctx context.Context, id string, amount decimal.Decimal) (*entity.CashSession, error)
	// Finalize persiste el cierre solo si la sesión sigue abierta (domain.ErrSessionAlreadyClosed).
	Finalize(ctx context.Context, session *entity.CashSession) error
}

// CashMovementRepository ledger append-only. No existe update ni delete.
type CashMovementRepository interface {
	Append(ctx context.Context, movement *entity.CashMovement) error
	// ListBySession devuelve los movimientos en orden ascendente de fecha.
	ListBySession(ctx context.Context, sessionID string) ([]*entity.CashMovement, error)
}

// SaleRepository ventas inmutables: solo creación y lectura.
type SaleRepository interface {
	Create(ctx context.Context, sale *entity.Sale) error
	GetByID(ctx context.Context, id string) (*entity.Sale, error)
	// List devuelve las ventas más recientes primero.
	List(ctx context.Context, filter entity.SaleFilter) ([]*entity.Sale, error)
	// Totals cuenta y suma el total de las ventas que cumplen el filtro (ignora Limit).
	Totals(ctx context.Context, filter entity.SaleFilter) (count int, total decimal.Decimal, err error)
}
