// Package cash contiene el ciclo de vida de las sesiones de caja y su ledger de movimientos.
package cash

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Ventas-api/internal/application/dto"
	"github.com/jhoicas/Ventas-api/internal/domain"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/internal/domain/repository"
)

// Límites de listado por rol.
const (
	cashierListLimit = 100
	managerListLimit = 1000
)

// SessionManager administra las sesiones de caja: abierta -> cerrada, sin otras transiciones.
// Los acumulados de la sesión solo cambian a través de sus métodos.
type SessionManager struct {
	store  repository.Store
	tx     repository.TxRunner
	ledger *Ledger
	log    zerolog.Logger
	now    func() time.Time
}

// NewSessionManager construye el gestor de sesiones.
func NewSessionManager(store repository.Store, tx repository.TxRunner, ledger *Ledger, log zerolog.Logger, now func() time.Time) *SessionManager {
	if now == nil {
		now = time.Now
	}
	return &SessionManager{store: store, tx: tx, ledger: ledger, log: log, now: now}
}

// Open abre una sesión para el usuario y registra el movimiento de apertura.
// Falla con ErrSessionAlreadyOpen si ya tiene una abierta.
func (m *SessionManager) Open(ctx context.Context, caller entity.Caller, in dto.OpenSessionRequest) (*dto.CashSessionResponse, error) {
	if in.OpeningAmount.IsNegative() {
		return nil, fmt.Errorf("%w: monto inicial negativo", domain.ErrInvalidInput)
	}
	session := &entity.CashSession{
		ID:            uuid.New().String(),
		TenantID:      caller.TenantID,
		BranchID:      caller.BranchID,
		UserID:        caller.UserID,
		OpeningAmount: in.OpeningAmount,
		MontoVentas:   decimal.Zero,
		MontoRetiros:  decimal.Zero,
		Status:        entity.SessionStatusOpen,
		OpeningNotes:  in.Notes,
		OpenedAt:      m.now().UTC(),
	}
	err := m.tx.RunTenant(ctx, caller.TenantID, func(repos repository.TenantRepos) error {
		if err := repos.Sessions().Create(ctx, session); err != nil {
			return err
		}
		_, err := m.ledger.Append(ctx, repos, session.ID, entity.CashMovementOpen, session.OpeningAmount, "Apertura de caja", nil)
		return err
	})
	if err != nil {
		return nil, err
	}
	m.log.Info().
		Str("tenant_id", caller.TenantID).
		Str("session_id", session.ID).
		Str("user_id", caller.UserID).
		Str("monto_inicial", session.OpeningAmount.StringFixed(2)).
		Msg("sesión de caja abierta")
	out := dto.FromSession(session)
	return &out, nil
}

// CreditSale suma amount al acumulado de ventas dentro de la unidad de trabajo del llamador.
// El incremento es atómico y solo ocurre si la sesión sigue abierta (ErrSessionNotOpen).
func (m *SessionManager) CreditSale(ctx context.Context, repos repository.TenantRepos, sessionID string, amount decimal.Decimal) (*entity.CashSession, error) {
	if amount.IsNegative() {
		return nil, fmt.Errorf("%w: monto negativo", domain.ErrInvalidInput)
	}
	return repos.Sessions().AddSales(ctx, sessionID, amount)
}

// Withdraw registra un retiro de efectivo en una sesión abierta.
func (m *SessionManager) Withdraw(ctx context.Context, caller entity.Caller, sessionID string, in dto.WithdrawalRequest) (*dto.CashSessionResponse, error) {
	if !in.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: el retiro debe ser mayor que cero", domain.ErrInvalidInput)
	}
	var updated *entity.CashSession
	err := m.tx.RunTenant(ctx, caller.TenantID, func(repos repository.TenantRepos) error {
		session, err := m.authorized(ctx, repos, caller, sessionID, true)
		if err != nil {
			return err
		}
		if !session.IsOpen() {
			return domain.ErrSessionNotOpen
		}
		updated, err = repos.Sessions().AddWithdrawal(ctx, sessionID, in.Amount)
		if err != nil {
			return err
		}
		description := in.Description
		if description == "" {
			description = "Retiro de caja"
		}
		_, err = m.ledger.Append(ctx, repos, sessionID, entity.CashMovementWithdrawal, in.Amount, description, nil)
		return err
	})
	if err != nil {
		return nil, err
	}
	m.log.Info().
		Str("tenant_id", caller.TenantID).
		Str("session_id", sessionID).
		Str("monto", in.Amount.StringFixed(2)).
		Msg("retiro de caja registrado")
	out := dto.FromSession(updated)
	return &out, nil
}

// Close cierra la sesión: esperado = inicial + ventas - retiros, diferencia = contado - esperado.
// Falla con ErrSessionAlreadyClosed si ya estaba cerrada.
func (m *SessionManager) Close(ctx context.Context, caller entity.Caller, sessionID string, in dto.CloseSessionRequest) (*dto.CashSessionResponse, error) {
	if in.ClosingAmount.IsNegative() {
		return nil, fmt.Errorf("%w: monto final negativo", domain.ErrInvalidInput)
	}
	var closed *entity.CashSession
	err := m.tx.RunTenant(ctx, caller.TenantID, func(repos repository.TenantRepos) error {
		session, err := m.authorized(ctx, repos, caller, sessionID, true)
		if err != nil {
			return err
		}
		if !session.IsOpen() {
			return domain.ErrSessionAlreadyClosed
		}
		expected := session.Expected()
		closing := in.ClosingAmount
		difference := closing.Sub(expected)
		closedAt := m.now().UTC()
		session.Status = entity.SessionStatusClosed
		session.ClosingAmount = &closing
		session.ExpectedAmount = &expected
		session.Difference = &difference
		session.ClosingNotes = in.Notes
		session.ClosedAt = &closedAt
		if err := repos.Sessions().Finalize(ctx, session); err != nil {
			return err
		}
		if _, err := m.ledger.Append(ctx, repos, sessionID, entity.CashMovementClose, closing, "Cierre de caja", nil); err != nil {
			return err
		}
		closed = session
		return nil
	})
	if err != nil {
		return nil, err
	}
	m.log.Info().
		Str("tenant_id", caller.TenantID).
		Str("session_id", sessionID).
		Str("monto_esperado", closed.ExpectedAmount.StringFixed(2)).
		Str("diferencia", closed.Difference.StringFixed(2)).
		Msg("sesión de caja cerrada")
	out := dto.FromSession(closed)
	return &out, nil
}

// Current devuelve la sesión abierta del usuario o nil si no tiene.
func (m *SessionManager) Current(ctx context.Context, caller entity.Caller) (*dto.CashSessionResponse, error) {
	session, err := m.store.ForTenant(caller.TenantID).Sessions().GetOpenByUser(ctx, caller.UserID)
	if err != nil || session == nil {
		return nil, err
	}
	out := dto.FromSession(session)
	return &out, nil
}

// OpenSessionFor devuelve la sesión abierta del usuario dentro de la unidad de trabajo o
// ErrNoOpenSession.
func (m *SessionManager) OpenSessionFor(ctx context.Context, repos repository.TenantRepos, userID string) (*entity.CashSession, error) {
	session, err := repos.Sessions().GetOpenByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, domain.ErrNoOpenSession
	}
	return session, nil
}

// List lista sesiones según el rol: el cajero las suyas, el supervisor con sucursal las de
// su sucursal, el admin las del tenant.
func (m *SessionManager) List(ctx context.Context, caller entity.Caller, status string, limit int) (*dto.CashSessionListResponse, error) {
	filter := entity.SessionFilter{Status: status}
	switch caller.Role {
	case entity.RoleCashier:
		filter.UserID = caller.UserID
		filter.Limit = cashierListLimit
	case entity.RoleSupervisor:
		filter.BranchID = caller.BranchID
		filter.Limit = managerListLimit
	case entity.RoleAdmin:
		filter.Limit = managerListLimit
	default:
		return nil, domain.ErrForbidden
	}
	if limit > 0 && limit < filter.Limit {
		filter.Limit = limit
	}
	sessions, err := m.store.ForTenant(caller.TenantID).Sessions().List(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := &dto.CashSessionListResponse{Items: make([]dto.CashSessionResponse, 0, len(sessions))}
	for _, s := range sessions {
		out.Items = append(out.Items, dto.FromSession(s))
	}
	return out, nil
}

// Get devuelve una sesión visible para el usuario.
func (m *SessionManager) Get(ctx context.Context, caller entity.Caller, sessionID string) (*dto.CashSessionResponse, error) {
	session, err := m.authorized(ctx, m.store.ForTenant(caller.TenantID), caller, sessionID, false)
	if err != nil {
		return nil, err
	}
	out := dto.FromSession(session)
	return &out, nil
}

// authorized carga la sesión (con bloqueo si forUpdate) y verifica la visibilidad por rol.
func (m *SessionManager) authorized(ctx context.Context, repos repository.TenantRepos, caller entity.Caller, sessionID string, forUpdate bool) (*entity.CashSession, error) {
	var (
		session *entity.CashSession
		err     error
	)
	if forUpdate {
		session, err = repos.Sessions().GetForUpdate(ctx, sessionID)
	} else {
		session, err = repos.Sessions().GetByID(ctx, sessionID)
	}
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, domain.ErrSessionNotFound
	}
	if !caller.CanAccessSession(session) {
		return nil, domain.ErrForbidden
	}
	return session, nil
}
