package cash

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Ventas-api/internal/domain"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/internal/domain/repository"
)

// Ledger registra movimientos de caja. Solo agrega: no hay corrección ni borrado.
type Ledger struct {
	now func() time.Time
}

// NewLedger construye el ledger; now permite fijar el reloj en pruebas.
func NewLedger(now func() time.Time) *Ledger {
	if now == nil {
		now = time.Now
	}
	return &Ledger{now: now}
}

// Append agrega un movimiento a la sesión usando los repos de la unidad de trabajo en curso.
func (l *Ledger) Append(
	ctx context.Context,
	repos repository.TenantRepos,
	sessionID, movementType string,
	amount decimal.Decimal,
	description string,
	saleID *string,
) (*entity.CashMovement, error) {
	switch movementType {
	case entity.CashMovementOpen, entity.CashMovementSale, entity.CashMovementWithdrawal, entity.CashMovementClose:
	default:
		return nil, fmt.Errorf("%w: tipo de movimiento %q", domain.ErrInvalidInput, movementType)
	}
	if amount.IsNegative() {
		return nil, fmt.Errorf("%w: monto negativo", domain.ErrInvalidInput)
	}
	m := &entity.CashMovement{
		ID:          uuid.New().String(),
		TenantID:    repos.TenantID(),
		SessionID:   sessionID,
		Type:        movementType,
		Amount:      amount,
		Description: description,
		SaleID:      saleID,
		CreatedAt:   l.now().UTC(),
	}
	if err := repos.Movements().Append(ctx, m); err != nil {
		return nil, fmt.Errorf("registrar movimiento de caja: %w", err)
	}
	return m, nil
}

// List devuelve los movimientos de la sesión en orden ascendente de fecha.
func (l *Ledger) List(ctx context.Context, repos repository.TenantRepos, sessionID string) ([]*entity.CashMovement, error) {
	return repos.Movements().ListBySession(ctx, sessionID)
}
