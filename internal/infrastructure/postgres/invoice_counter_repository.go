package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Ventas-api/internal/domain/repository"
)

var _ repository.InvoiceCounterRepository = (*InvoiceCounterRepo)(nil)

// InvoiceCounterRepo contador por (tenant, scope) en invoice_counters.
type InvoiceCounterRepo struct {
	q      Querier
	tenant string
}

// Increment crea el contador en 1 o lo incrementa, y devuelve el valor nuevo. La fila queda
// bloqueada hasta el fin de la transacción, lo que serializa la numeración del scope.
func (r *InvoiceCounterRepo) Increment(ctx context.Context, scope string) (int64, error) {
	query := `
		INSERT INTO invoice_counters (tenant_id, scope, last_value)
		VALUES ($1, $2, 1)
		ON CONFLICT (tenant_id, scope) DO UPDATE SET last_value = invoice_counters.last_value + 1
		RETURNING last_value`
	var value int64
	if err := r.q.QueryRow(ctx, query, r.tenant, scope).Scan(&value); err != nil {
		return 0, fmt.Errorf("increment invoice counter: %w", err)
	}
	return value, nil
}
