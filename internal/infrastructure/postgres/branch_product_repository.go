package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Ventas-api/internal/domain"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/internal/domain/repository"
)

var _ repository.BranchProductRepository = (*BranchProductRepo)(nil)

// BranchProductRepo overrides por sucursal sobre PostgreSQL.
type BranchProductRepo struct {
	q      Querier
	tenant string
}

const branchProductColumns = `id, tenant_id, product_id, branch_id, price, weight_price, stock, min_stock, active, created_at, updated_at`

func scanBranchProduct(row pgx.Row) (*entity.BranchProduct, error) {
	var bp entity.BranchProduct
	err := row.Scan(
		&bp.ID, &bp.TenantID, &bp.ProductID, &bp.BranchID, &bp.Price, &bp.WeightPrice,
		&bp.Stock, &bp.MinStock, &bp.Active, &bp.CreatedAt, &bp.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &bp, nil
}

func (r *BranchProductRepo) getOne(ctx context.Context, query string, args ...any) (*entity.BranchProduct, error) {
	bp, err := scanBranchProduct(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get branch product: %w", err)
	}
	return bp, nil
}

// Get busca el override (producto, sucursal).
func (r *BranchProductRepo) Get(ctx context.Context, productID, branchID string) (*entity.BranchProduct, error) {
	query := `SELECT ` + branchProductColumns + ` FROM branch_products WHERE tenant_id = $1 AND product_id = $2 AND branch_id = $3`
	return r.getOne(ctx, query, r.tenant, productID, branchID)
}

// GetByID busca el override por ID.
func (r *BranchProductRepo) GetByID(ctx context.Context, id string) (*entity.BranchProduct, error) {
	query := `SELECT ` + branchProductColumns + ` FROM branch_products WHERE tenant_id = $1 AND id = $2`
	return r.getOne(ctx, query, r.tenant, id)
}

// Upsert crea o reemplaza el override; si ya existía conserva su ID y created_at.
func (r *BranchProductRepo) Upsert(ctx context.Context, bp *entity.BranchProduct) error {
	query := `
		INSERT INTO branch_products (` + branchProductColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (tenant_id, product_id, branch_id) DO UPDATE SET
			price = EXCLUDED.price,
			weight_price = EXCLUDED.weight_price,
			stock = EXCLUDED.stock,
			min_stock = EXCLUDED.min_stock,
			active = EXCLUDED.active,
			updated_at = EXCLUDED.updated_at
		RETURNING id, created_at`
	err := r.q.QueryRow(ctx, query,
		bp.ID, r.tenant, bp.ProductID, bp.BranchID, bp.Price, bp.WeightPrice,
		bp.Stock, bp.MinStock, bp.Active, bp.CreatedAt, bp.UpdatedAt,
	).Scan(&bp.ID, &bp.CreatedAt)
	if err != nil {
		return fmt.Errorf("upsert branch product: %w", err)
	}
	bp.TenantID = r.tenant
	return nil
}

// Update actualiza el override sin tocar stock, producto ni sucursal.
func (r *BranchProductRepo) Update(ctx context.Context, bp *entity.BranchProduct) error {
	query := `
		UPDATE branch_products
		SET price = $3, weight_price = $4, min_stock = $5, active = $6, updated_at = $7
		WHERE tenant_id = $1 AND id = $2`
	tag, err := r.q.Exec(ctx, query, r.tenant, bp.ID, bp.Price, bp.WeightPrice, bp.MinStock, bp.Active, bp.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update branch product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: override de sucursal %s", domain.ErrNotFound, bp.ID)
	}
	return nil
}
