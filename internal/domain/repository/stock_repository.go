package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Ventas-api/internal/domain/entity"
)

// StockRepository puerto de los contadores de stock (global o por override).
type StockRepository interface {
	// DecrementIfAvailable descuenta decrement si y solo si stock >= required, en una
	// sola actualización condicional. Retorna false (sin cambios) si no alcanza.
	DecrementIfAvailable(ctx context.Context, scope entity.StockScope, required, decrement decimal.Decimal) (bool, error)
	// Current lee el stock actual del scope.
	Current(ctx context.Context, scope entity.StockScope) (decimal.Decimal, error)
	// Set fija el stock (ajuste administrativo explícito).
	Set(ctx context.Context, scope entity.StockScope, quantity decimal.Decimal) error
}

// InvoiceCounterRepository contador atómico por scope de numeración.
type InvoiceCounterRepository interface {
	// Increment incrementa y lee el contador del scope en una sola operación (crea en 1).
	Increment(ctx context.Context, scope string) (int64, error)
}

// SettingsRepository configuración del tenant que usa el núcleo.
type SettingsRepository interface {
	// TaxRate devuelve la tasa configurada o nil si el tenant no tiene una.
	TaxRate(ctx context.Context) (*decimal.Decimal, error)
	SetTaxRate(ctx context.Context, rate decimal.Decimal) error
}
