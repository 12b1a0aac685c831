package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Ventas-api/internal/domain/repository"
)

var _ repository.SettingsRepository = (*SettingsRepo)(nil)

// SettingsRepo configuración por tenant (tenant_settings).
type SettingsRepo struct {
	q      Querier
	tenant string
}

// TaxRate devuelve la tasa del tenant o nil si no tiene fila.
func (r *SettingsRepo) TaxRate(ctx context.Context) (*decimal.Decimal, error) {
	var rate decimal.Decimal
	err := r.q.QueryRow(ctx, `SELECT tax_rate FROM tenant_settings WHERE tenant_id = $1`, r.tenant).Scan(&rate)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get tax rate: %w", err)
	}
	return &rate, nil
}

// SetTaxRate crea o actualiza la tasa del tenant.
func (r *SettingsRepo) SetTaxRate(ctx context.Context, rate decimal.Decimal) error {
	query := `
		INSERT INTO tenant_settings (tenant_id, tax_rate, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (tenant_id) DO UPDATE SET tax_rate = EXCLUDED.tax_rate, updated_at = now()`
	if _, err := r.q.Exec(ctx, query, r.tenant, rate); err != nil {
		return fmt.Errorf("set tax rate: %w", err)
	}
	return nil
}
