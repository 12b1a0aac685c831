package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/internal/domain/repository"
)

var _ repository.CashMovementRepository = (*CashMovementRepo)(nil)

// CashMovementRepo ledger de caja. La tabla rechaza UPDATE y DELETE con un trigger.
type CashMovementRepo struct {
	q      Querier
	tenant string
}

// Append inserta un movimiento.
func (r *CashMovementRepo) Append(ctx context.Context, m *entity.CashMovement) error {
	query := `
		INSERT INTO cash_movements (id, tenant_id, session_id, type, amount, description, sale_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query, m.ID, r.tenant, m.SessionID, m.Type, m.Amount, m.Description, m.SaleID, m.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert cash movement: %w", err)
	}
	m.TenantID = r.tenant
	return nil
}

// ListBySession movimientos de la sesión en orden ascendente.
func (r *CashMovementRepo) ListBySession(ctx context.Context, sessionID string) ([]*entity.CashMovement, error) {
	query := `
		SELECT id, tenant_id, session_id, type, amount, description, sale_id, created_at
		FROM cash_movements
		WHERE tenant_id = $1 AND session_id = $2
		ORDER BY created_at, id`
	rows, err := r.q.Query(ctx, query, r.tenant, sessionID)
	if err != nil {
		return nil, fmt.Errorf("list cash movements: %w", err)
	}
	defer rows.Close()
	var list []*entity.CashMovement
	for rows.Next() {
		var m entity.CashMovement
		if err := rows.Scan(&m.ID, &m.TenantID, &m.SessionID, &m.Type, &m.Amount, &m.Description, &m.SaleID, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan cash movement: %w", err)
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}
