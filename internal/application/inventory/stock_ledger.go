package inventory

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Ventas-api/internal/domain"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/internal/domain/repository"
)

// StockLedger es el único dueño de las escrituras de stock durante una venta.
type StockLedger struct{}

// NewStockLedger construye el ledger.
func NewStockLedger() *StockLedger { return &StockLedger{} }

// Reserve descuenta quantity del scope si stock >= quantity, en una única actualización
// condicional del store. Si no alcanza devuelve ErrInsufficientStock y el stock no cambia.
func (l *StockLedger) Reserve(ctx context.Context, repos repository.TenantRepos, scope entity.StockScope, quantity decimal.Decimal) error {
	if !quantity.IsPositive() {
		return fmt.Errorf("%w: cantidad debe ser mayor que cero", domain.ErrInvalidInput)
	}
	ok, err := repos.Stock().DecrementIfAvailable(ctx, scope, quantity, scope.DecrementFor(quantity))
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: producto %s", domain.ErrInsufficientStock, scope.ProductID)
	}
	return nil
}

// Available devuelve el stock actual del scope.
func (l *StockLedger) Available(ctx context.Context, repos repository.TenantRepos, scope entity.StockScope) (decimal.Decimal, error) {
	return repos.Stock().Current(ctx, scope)
}
