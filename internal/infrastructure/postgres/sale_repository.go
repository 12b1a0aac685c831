package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Ventas-api/internal/domain"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo ventas sobre PostgreSQL. Las líneas se guardan como JSONB en la misma fila.
type SaleRepo struct {
	q      Querier
	tenant string
}

// saleItemRow forma JSON de una línea dentro de sales.items.
type saleItemRow struct {
	ProductID string          `json:"producto_id"`
	Quantity  decimal.Decimal `json:"cantidad"`
	UnitPrice decimal.Decimal `json:"precio_unitario"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

const saleColumns = `id, tenant_id, branch_id, session_id, cashier_id, items, subtotal, tax, total,
	payment_method, invoice_number, numbering_scope, created_at`

func scanSale(row pgx.Row) (*entity.Sale, error) {
	var (
		s     entity.Sale
		items []byte
	)
	err := row.Scan(
		&s.ID, &s.TenantID, &s.BranchID, &s.SessionID, &s.CashierID, &items, &s.Subtotal, &s.Tax, &s.Total,
		&s.PaymentMethod, &s.InvoiceNumber, &s.NumberingScope, &s.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	var rows []saleItemRow
	if err := json.Unmarshal(items, &rows); err != nil {
		return nil, fmt.Errorf("decode sale items: %w", err)
	}
	s.Items = make([]entity.SaleItem, 0, len(rows))
	for _, it := range rows {
		s.Items = append(s.Items, entity.SaleItem(it))
	}
	return &s, nil
}

// Create inserta la venta. (tenant, scope, número) repetido -> ErrDuplicate.
func (r *SaleRepo) Create(ctx context.Context, s *entity.Sale) error {
	rows := make([]saleItemRow, 0, len(s.Items))
	for _, it := range s.Items {
		rows = append(rows, saleItemRow(it))
	}
	items, err := json.Marshal(rows)
	if err != nil {
		return fmt.Errorf("encode sale items: %w", err)
	}
	query := `
		INSERT INTO sales (` + saleColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err = r.q.Exec(ctx, query,
		s.ID, r.tenant, s.BranchID, s.SessionID, s.CashierID, items, s.Subtotal, s.Tax, s.Total,
		s.PaymentMethod, s.InvoiceNumber, s.NumberingScope, s.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: factura %s", domain.ErrDuplicate, s.InvoiceNumber)
		}
		return fmt.Errorf("insert sale: %w", err)
	}
	s.TenantID = r.tenant
	return nil
}

// GetByID obtiene una venta.
func (r *SaleRepo) GetByID(ctx context.Context, id string) (*entity.Sale, error) {
	s, err := scanSale(r.q.QueryRow(ctx, `SELECT `+saleColumns+` FROM sales WHERE tenant_id = $1 AND id = $2`, r.tenant, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}
	return s, nil
}

// where arma las condiciones del filtro; args empieza con el tenant.
func (r *SaleRepo) where(filter entity.SaleFilter) (string, []any) {
	conds := []string{"tenant_id = $1"}
	args := []any{r.tenant}
	add := func(cond string, val any) {
		args = append(args, val)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if filter.CashierID != "" {
		add("cashier_id = $%d", filter.CashierID)
	}
	if filter.BranchID != "" {
		add("branch_id = $%d", filter.BranchID)
	}
	if filter.SessionID != "" {
		add("session_id = $%d", filter.SessionID)
	}
	if !filter.From.IsZero() {
		add("created_at >= $%d", filter.From)
	}
	if !filter.To.IsZero() {
		add("created_at < $%d", filter.To)
	}
	return strings.Join(conds, " AND "), args
}

// List ventas más recientes primero.
func (r *SaleRepo) List(ctx context.Context, filter entity.SaleFilter) ([]*entity.Sale, error) {
	where, args := r.where(filter)
	args = append(args, limitOrAll(filter.Limit))
	query := fmt.Sprintf(`SELECT %s FROM sales WHERE %s ORDER BY created_at DESC, id DESC LIMIT $%d`, saleColumns, where, len(args))
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	defer rows.Close()
	var list []*entity.Sale
	for rows.Next() {
		s, err := scanSale(rows)
		if err != nil {
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

// Totals cuenta y suma las ventas del filtro.
func (r *SaleRepo) Totals(ctx context.Context, filter entity.SaleFilter) (int, decimal.Decimal, error) {
	where, args := r.where(filter)
	var (
		count int
		total decimal.Decimal
	)
	err := r.q.QueryRow(ctx, `SELECT COUNT(*), COALESCE(SUM(total), 0) FROM sales WHERE `+where, args...).Scan(&count, &total)
	if err != nil {
		return 0, decimal.Zero, fmt.Errorf("sales totals: %w", err)
	}
	return count, total, nil
}
