package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Ventas-api/internal/domain"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/internal/domain/repository"
)

var _ repository.CashSessionRepository = (*CashSessionRepo)(nil)

// CashSessionRepo sesiones de caja sobre PostgreSQL.
type CashSessionRepo struct {
	q      Querier
	tenant string
}

const sessionColumns = `id, tenant_id, branch_id, user_id, opening_amount, monto_ventas, monto_retiros, status,
	opening_notes, opened_at, closing_amount, expected_amount, difference, closing_notes, closed_at`

func scanSession(row pgx.Row) (*entity.CashSession, error) {
	var s entity.CashSession
	err := row.Scan(
		&s.ID, &s.TenantID, &s.BranchID, &s.UserID, &s.OpeningAmount, &s.MontoVentas, &s.MontoRetiros, &s.Status,
		&s.OpeningNotes, &s.OpenedAt, &s.ClosingAmount, &s.ExpectedAmount, &s.Difference, &s.ClosingNotes, &s.ClosedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Create inserta la sesión. El índice único parcial sobre (tenant_id, user_id) abiertas
// convierte una segunda apertura concurrente en ErrSessionAlreadyOpen.
func (r *CashSessionRepo) Create(ctx context.Context, s *entity.CashSession) error {
	query := `
		INSERT INTO cash_sessions (` + sessionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err := r.q.Exec(ctx, query,
		s.ID, r.tenant, s.BranchID, s.UserID, s.OpeningAmount, s.MontoVentas, s.MontoRetiros, s.Status,
		s.OpeningNotes, s.OpenedAt, s.ClosingAmount, s.ExpectedAmount, s.Difference, s.ClosingNotes, s.ClosedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			if violatedConstraint(err) == "cash_sessions_open_user_uq" {
				return domain.ErrSessionAlreadyOpen
			}
			return fmt.Errorf("%w: sesión %s", domain.ErrDuplicate, s.ID)
		}
		return fmt.Errorf("insert cash session: %w", err)
	}
	s.TenantID = r.tenant
	return nil
}

func (r *CashSessionRepo) getOne(ctx context.Context, query string, args ...any) (*entity.CashSession, error) {
	s, err := scanSession(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get cash session: %w", err)
	}
	return s, nil
}

// GetByID obtiene una sesión por ID.
func (r *CashSessionRepo) GetByID(ctx context.Context, id string) (*entity.CashSession, error) {
	return r.getOne(ctx, `SELECT `+sessionColumns+` FROM cash_sessions WHERE tenant_id = $1 AND id = $2`, r.tenant, id)
}

// GetForUpdate obtiene la sesión y bloquea la fila (SELECT FOR UPDATE).
func (r *CashSessionRepo) GetForUpdate(ctx context.Context, id string) (*entity.CashSession, error) {
	return r.getOne(ctx, `SELECT `+sessionColumns+` FROM cash_sessions WHERE tenant_id = $1 AND id = $2 FOR UPDATE`, r.tenant, id)
}

// GetOpenByUser obtiene la sesión abierta del usuario.
func (r *CashSessionRepo) GetOpenByUser(ctx context.Context, userID string) (*entity.CashSession, error) {
	query := `SELECT ` + sessionColumns + ` FROM cash_sessions WHERE tenant_id = $1 AND user_id = $2 AND status = 'abierta'`
	return r.getOne(ctx, query, r.tenant, userID)
}

// List lista sesiones, más recientes primero.
func (r *CashSessionRepo) List(ctx context.Context, filter entity.SessionFilter) ([]*entity.CashSession, error) {
	conds := []string{"tenant_id = $1"}
	args := []any{r.tenant}
	add := func(col, val string) {
		if val == "" {
			return
		}
		args = append(args, val)
		conds = append(conds, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	add("user_id", filter.UserID)
	add("branch_id", filter.BranchID)
	add("status", filter.Status)
	args = append(args, limitOrAll(filter.Limit))
	query := fmt.Sprintf(`SELECT %s FROM cash_sessions WHERE %s ORDER BY opened_at DESC LIMIT $%d`,
		sessionColumns, strings.Join(conds, " AND "), len(args))

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list cash sessions: %w", err)
	}
	defer rows.Close()
	var list []*entity.CashSession
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("scan cash session: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

// addTo incrementa una columna acumulada solo si la sesión sigue abierta.
func (r *CashSessionRepo) addTo(ctx context.Context, column, id string, amount decimal.Decimal) (*entity.CashSession, error) {
	query := fmt.Sprintf(`
		UPDATE cash_sessions SET %[1]s = %[1]s + $3
		WHERE tenant_id = $1 AND id = $2 AND status = 'abierta'
		RETURNING %[2]s`, column, sessionColumns)
	s, err := scanSession(r.q.QueryRow(ctx, query, r.tenant, id, amount))
	if err == nil {
		return s, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("update cash session %s: %w", column, err)
	}
	existing, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, domain.ErrSessionNotFound
	}
	return nil, domain.ErrSessionNotOpen
}

// AddSales suma al acumulado de ventas.
func (r *CashSessionRepo) AddSales(ctx context.Context, id string, amount decimal.Decimal) (*entity.CashSession, error) {
	return r.addTo(ctx, "monto_ventas", id, amount)
}

// AddWithdrawal suma al acumulado de retiros.
func (r *CashSessionRepo) AddWithdrawal(ctx context.Context, id string, amount decimal.Decimal) (*entity.CashSession, error) {
	return r.addTo(ctx, "monto_retiros", id, amount)
}

// Finalize persiste el cierre si la sesión sigue abierta.
func (r *CashSessionRepo) Finalize(ctx context.Context, s *entity.CashSession) error {
	query := `
		UPDATE cash_sessions
		SET status = 'cerrada', closing_amount = $3, expected_amount = $4, difference = $5,
		    closing_notes = $6, closed_at = $7
		WHERE tenant_id = $1 AND id = $2 AND status = 'abierta'`
	tag, err := r.q.Exec(ctx, query, r.tenant, s.ID, s.ClosingAmount, s.ExpectedAmount, s.Difference, s.ClosingNotes, s.ClosedAt)
	if err != nil {
		return fmt.Errorf("close cash session: %w", err)
	}
	if tag.RowsAffected() > 0 {
		return nil
	}
	existing, err := r.GetByID(ctx, s.ID)
	if err != nil {
		return err
	}
	if existing == nil {
		return domain.ErrSessionNotFound
	}
	return domain.ErrSessionAlreadyClosed
}
