package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Ventas-api/internal/domain"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo contadores de stock: la columna stock de products o de branch_products según el scope.
type StockRepo struct {
	q      Querier
	tenant string
}

func stockTarget(scope entity.StockScope) (table, id string) {
	if scope.IsBranch() {
		return "branch_products", scope.BranchProductID
	}
	return "products", scope.ProductID
}

// DecrementIfAvailable descuenta en una sola sentencia condicional. El UPDATE toma el lock de
// la fila, así que dos ventas sobre el mismo scope se serializan y nunca dejan stock negativo.
func (r *StockRepo) DecrementIfAvailable(ctx context.Context, scope entity.StockScope, required, decrement decimal.Decimal) (bool, error) {
	table, id := stockTarget(scope)
	query := fmt.Sprintf(`
		UPDATE %s SET stock = stock - $3, updated_at = now()
		WHERE tenant_id = $1 AND id = $2 AND stock >= $4
		RETURNING stock`, table)
	var left decimal.Decimal
	err := r.q.QueryRow(ctx, query, r.tenant, id, decrement, required).Scan(&left)
	if err == nil {
		return true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return false, fmt.Errorf("decrement stock: %w", err)
	}
	// Sin fila: o no alcanza o el registro no existe.
	if _, err := r.Current(ctx, scope); err != nil {
		return false, err
	}
	return false, nil
}

// Current lee el stock actual del scope.
func (r *StockRepo) Current(ctx context.Context, scope entity.StockScope) (decimal.Decimal, error) {
	table, id := stockTarget(scope)
	var stock decimal.Decimal
	err := r.q.QueryRow(ctx, fmt.Sprintf(`SELECT stock FROM %s WHERE tenant_id = $1 AND id = $2`, table), r.tenant, id).Scan(&stock)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, domain.ErrProductNotFound
		}
		return decimal.Zero, fmt.Errorf("get stock: %w", err)
	}
	return stock, nil
}

// Set fija el stock (ajuste administrativo).
func (r *StockRepo) Set(ctx context.Context, scope entity.StockScope, quantity decimal.Decimal) error {
	table, id := stockTarget(scope)
	tag, err := r.q.Exec(ctx, fmt.Sprintf(`UPDATE %s SET stock = $3, updated_at = now() WHERE tenant_id = $1 AND id = $2`, table), r.tenant, id, quantity)
	if err != nil {
		return fmt.Errorf("set stock: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}
