package cash_test

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Ventas-api/internal/application/cash"
	"github.com/jhoicas/Ventas-api/internal/application/dto"
	"github.com/jhoicas/Ventas-api/internal/domain"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/internal/domain/repository"
	"github.com/jhoicas/Ventas-api/internal/infrastructure/memory"
)

var (
	cashier    = entity.Caller{TenantID: "t1", UserID: "u1", Role: entity.RoleCashier, BranchID: "b1"}
	otherCash  = entity.Caller{TenantID: "t1", UserID: "u2", Role: entity.RoleCashier, BranchID: "b1"}
	supervisor = entity.Caller{TenantID: "t1", UserID: "s1", Role: entity.RoleSupervisor, BranchID: "b2"}
	admin      = entity.Caller{TenantID: "t1", UserID: "a1", Role: entity.RoleAdmin}
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func newManager() (*cash.SessionManager, *memory.Store) {
	store := memory.New()
	clock := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	now := func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}
	return cash.NewSessionManager(store, store, cash.NewLedger(now), zerolog.Nop(), now), store
}

func TestSessionManager_CicloCompleto(t *testing.T) {
	ctx := context.Background()
	m, store := newManager()

	opened, err := m.Open(ctx, cashier, dto.OpenSessionRequest{OpeningAmount: dec("100.00")})
	require.NoError(t, err)
	assert.Equal(t, entity.SessionStatusOpen, opened.Status)
	assert.Equal(t, "b1", opened.BranchID)

	require.NoError(t, store.RunTenant(ctx, "t1", func(repos repository.TenantRepos) error {
		_, err := m.CreditSale(ctx, repos, opened.ID, dec("2.80"))
		return err
	}))

	after, err := m.Withdraw(ctx, cashier, opened.ID, dto.WithdrawalRequest{Amount: dec("20.00")})
	require.NoError(t, err)
	assert.Equal(t, "20.00", after.MontoRetiros.StringFixed(2))

	closed, err := m.Close(ctx, cashier, opened.ID, dto.CloseSessionRequest{ClosingAmount: dec("80.00")})
	require.NoError(t, err)
	assert.Equal(t, entity.SessionStatusClosed, closed.Status)
	require.NotNil(t, closed.ExpectedAmount)
	require.NotNil(t, closed.Difference)
	assert.Equal(t, "82.80", closed.ExpectedAmount.StringFixed(2))
	assert.Equal(t, "-2.80", closed.Difference.StringFixed(2))
	require.NotNil(t, closed.ClosedAt)

	current, err := m.Current(ctx, cashier)
	require.NoError(t, err)
	assert.Nil(t, current)

	report, err := m.Report(ctx, cashier, opened.ID)
	require.NoError(t, err)
	types := make([]string, 0, len(report.Movements))
	for _, mv := range report.Movements {
		types = append(types, mv.Type)
	}
	assert.Equal(t, []string{entity.CashMovementOpen, entity.CashMovementWithdrawal, entity.CashMovementClose}, types)
}

func TestSessionManager_Open(t *testing.T) {
	ctx := context.Background()

	t.Run("segunda apertura es conflicto", func(t *testing.T) {
		m, _ := newManager()
		_, err := m.Open(ctx, cashier, dto.OpenSessionRequest{OpeningAmount: dec("50")})
		require.NoError(t, err)

		_, err = m.Open(ctx, cashier, dto.OpenSessionRequest{OpeningAmount: dec("50")})
		assert.ErrorIs(t, err, domain.ErrSessionAlreadyOpen)
		assert.ErrorIs(t, err, domain.ErrConflict)
	})

	t.Run("monto negativo", func(t *testing.T) {
		m, _ := newManager()
		_, err := m.Open(ctx, cashier, dto.OpenSessionRequest{OpeningAmount: dec("-1")})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("reabrir después de cerrar", func(t *testing.T) {
		m, _ := newManager()
		s, err := m.Open(ctx, cashier, dto.OpenSessionRequest{OpeningAmount: dec("10")})
		require.NoError(t, err)
		_, err = m.Close(ctx, cashier, s.ID, dto.CloseSessionRequest{ClosingAmount: dec("10")})
		require.NoError(t, err)

		again, err := m.Open(ctx, cashier, dto.OpenSessionRequest{OpeningAmount: dec("10")})
		require.NoError(t, err)
		assert.NotEqual(t, s.ID, again.ID)
	})
}

func TestSessionManager_Close(t *testing.T) {
	ctx := context.Background()
	m, _ := newManager()
	s, err := m.Open(ctx, cashier, dto.OpenSessionRequest{OpeningAmount: dec("100")})
	require.NoError(t, err)

	_, err = m.Close(ctx, otherCash, s.ID, dto.CloseSessionRequest{ClosingAmount: dec("100")})
	assert.ErrorIs(t, err, domain.ErrForbidden, "otro cajero no puede cerrar")

	_, err = m.Close(ctx, cashier, "inexistente", dto.CloseSessionRequest{ClosingAmount: dec("100")})
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)

	closed, err := m.Close(ctx, cashier, s.ID, dto.CloseSessionRequest{ClosingAmount: dec("105")})
	require.NoError(t, err)
	assert.Equal(t, "5.00", closed.Difference.StringFixed(2))

	_, err = m.Close(ctx, cashier, s.ID, dto.CloseSessionRequest{ClosingAmount: dec("105")})
	assert.ErrorIs(t, err, domain.ErrSessionAlreadyClosed)

	_, err = m.Withdraw(ctx, cashier, s.ID, dto.WithdrawalRequest{Amount: dec("1")})
	assert.ErrorIs(t, err, domain.ErrSessionNotOpen)
}

func TestSessionManager_Withdraw(t *testing.T) {
	ctx := context.Background()
	m, _ := newManager()
	s, err := m.Open(ctx, cashier, dto.OpenSessionRequest{OpeningAmount: dec("10")})
	require.NoError(t, err)

	_, err = m.Withdraw(ctx, cashier, s.ID, dto.WithdrawalRequest{Amount: decimal.Zero})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	// Los retiros no se limitan al efectivo esperado.
	out, err := m.Withdraw(ctx, admin, s.ID, dto.WithdrawalRequest{Amount: dec("25")})
	require.NoError(t, err)
	assert.Equal(t, "25.00", out.MontoRetiros.StringFixed(2))
}

func TestSessionManager_VisibilidadPorRol(t *testing.T) {
	ctx := context.Background()
	m, _ := newManager()
	mine, err := m.Open(ctx, cashier, dto.OpenSessionRequest{OpeningAmount: dec("10")})
	require.NoError(t, err)
	_, err = m.Open(ctx, otherCash, dto.OpenSessionRequest{OpeningAmount: dec("10")})
	require.NoError(t, err)

	list, err := m.List(ctx, cashier, "", 0)
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	assert.Equal(t, mine.ID, list.Items[0].ID)

	list, err = m.List(ctx, admin, entity.SessionStatusOpen, 0)
	require.NoError(t, err)
	assert.Len(t, list.Items, 2)

	list, err = m.List(ctx, supervisor, "", 0)
	require.NoError(t, err)
	assert.Empty(t, list.Items, "el supervisor de b2 no ve sesiones de b1")

	_, err = m.Get(ctx, otherCash, mine.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = m.Get(ctx, supervisor, mine.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	got, err := m.Get(ctx, admin, mine.ID)
	require.NoError(t, err)
	assert.Equal(t, mine.ID, got.ID)

	_, err = m.List(ctx, entity.Caller{TenantID: "t1", UserID: "x", Role: "otro"}, "", 0)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestSessionManager_OpenSessionFor(t *testing.T) {
	ctx := context.Background()
	m, store := newManager()

	err := store.RunTenant(ctx, "t1", func(repos repository.TenantRepos) error {
		_, err := m.OpenSessionFor(ctx, repos, cashier.UserID)
		return err
	})
	assert.ErrorIs(t, err, domain.ErrNoOpenSession)

	s, err := m.Open(ctx, cashier, dto.OpenSessionRequest{OpeningAmount: dec("10")})
	require.NoError(t, err)
	require.NoError(t, store.RunTenant(ctx, "t1", func(repos repository.TenantRepos) error {
		got, err := m.OpenSessionFor(ctx, repos, cashier.UserID)
		if err != nil {
			return err
		}
		assert.Equal(t, s.ID, got.ID)
		return nil
	}))

	// La sesión es por tenant.
	err = store.RunTenant(ctx, "t2", func(repos repository.TenantRepos) error {
		_, err := m.OpenSessionFor(ctx, repos, cashier.UserID)
		return err
	})
	assert.ErrorIs(t, err, domain.ErrNoOpenSession)
}

func TestLedger_Append(t *testing.T) {
	ctx := context.Background()
	repos := memory.New().ForTenant("t1")
	ledger := cash.NewLedger(nil)

	_, err := ledger.Append(ctx, repos, "s1", "ajuste", dec("1"), "", nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = ledger.Append(ctx, repos, "s1", entity.CashMovementWithdrawal, dec("-1"), "", nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	saleID := "v1"
	m, err := ledger.Append(ctx, repos, "s1", entity.CashMovementSale, dec("2.80"), "Venta FAC-000001", &saleID)
	require.NoError(t, err)
	assert.Equal(t, "t1", m.TenantID)

	list, err := ledger.List(ctx, repos, "s1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.NotNil(t, list[0].SaleID)
	assert.Equal(t, "v1", *list[0].SaleID)
}
