package memory

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Ventas-api/internal/domain"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/internal/domain/repository"
)

func seedProduct(t *testing.T, s *Store, tenant, id string, stock string) entity.StockScope {
	t.Helper()
	barcode := "bc-" + id
	p := &entity.Product{
		ID:      id,
		Name:    "Producto " + id,
		Barcode: &barcode,
		Type:    entity.ProductTypeUnit,
		Price:   decimal.RequireFromString("1.00"),
		Stock:   decimal.RequireFromString(stock),
		Active:  true,
	}
	require.NoError(t, s.ForTenant(tenant).Products().Create(context.Background(), p))
	return entity.StockScope{ProductID: id, ProductType: entity.ProductTypeUnit}
}

func TestRunTenant_RollbackRevierteTodo(t *testing.T) {
	ctx := context.Background()
	s := New()
	scope := seedProduct(t, s, "t1", "p1", "10")
	boom := errors.New("boom")

	err := s.RunTenant(ctx, "t1", func(repos repository.TenantRepos) error {
		ok, err := repos.Stock().DecrementIfAvailable(ctx, scope, decimal.NewFromInt(3), decimal.NewFromInt(3))
		require.NoError(t, err)
		require.True(t, ok)
		n, err := repos.InvoiceCounters().Increment(ctx, "b1")
		require.NoError(t, err)
		require.EqualValues(t, 1, n)
		require.NoError(t, repos.Sales().Create(ctx, &entity.Sale{ID: "s1", InvoiceNumber: "FAC-000001", NumberingScope: "b1"}))
		require.NoError(t, repos.Settings().SetTaxRate(ctx, decimal.RequireFromString("0.19")))
		return boom
	})
	require.ErrorIs(t, err, boom)

	repos := s.ForTenant("t1")
	stock, err := repos.Stock().Current(ctx, scope)
	require.NoError(t, err)
	assert.Equal(t, "10", stock.String())

	sale, err := repos.Sales().GetByID(ctx, "s1")
	require.NoError(t, err)
	assert.Nil(t, sale)

	rate, err := repos.Settings().TaxRate(ctx)
	require.NoError(t, err)
	assert.Nil(t, rate)

	n, err := repos.InvoiceCounters().Increment(ctx, "b1")
	require.NoError(t, err)
	assert.EqualValues(t, 1, n, "el contador revertido no deja huecos")
}

func TestRunTenant_CommitPersiste(t *testing.T) {
	ctx := context.Background()
	s := New()
	scope := seedProduct(t, s, "t1", "p1", "5")

	require.NoError(t, s.RunTenant(ctx, "t1", func(repos repository.TenantRepos) error {
		_, err := repos.Stock().DecrementIfAvailable(ctx, scope, decimal.NewFromInt(2), decimal.NewFromInt(2))
		return err
	}))

	stock, err := s.ForTenant("t1").Stock().Current(ctx, scope)
	require.NoError(t, err)
	assert.Equal(t, "3", stock.String())
}

func TestStore_AislamientoEntreTenants(t *testing.T) {
	ctx := context.Background()
	s := New()
	seedProduct(t, s, "t1", "p1", "5")

	other := s.ForTenant("t2")
	p, err := other.Products().GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.Nil(t, p)

	p, err = other.Products().GetByBarcode(ctx, "bc-p1")
	require.NoError(t, err)
	assert.Nil(t, p)

	// El mismo código de barras es válido en otro tenant.
	seedProduct(t, s, "t2", "p1", "1")
	list, err := other.Products().ListActive(ctx, 0)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "t2", list[0].TenantID)
}

func TestProducts_CodigoDeBarrasDuplicado(t *testing.T) {
	ctx := context.Background()
	s := New()
	seedProduct(t, s, "t1", "p1", "5")

	barcode := "bc-p1"
	err := s.ForTenant("t1").Products().Create(ctx, &entity.Product{ID: "p2", Name: "Otro", Barcode: &barcode, Type: entity.ProductTypeUnit, Active: true})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestStock_DecrementIfAvailableConcurrente(t *testing.T) {
	ctx := context.Background()
	s := New()
	const k = 20
	scope := seedProduct(t, s, "t1", "p1", "19")

	var (
		wg      sync.WaitGroup
		success atomic.Int32
	)
	for i := 0; i < k; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.RunTenant(ctx, "t1", func(repos repository.TenantRepos) error {
				ok, err := repos.Stock().DecrementIfAvailable(ctx, scope, decimal.NewFromInt(1), decimal.NewFromInt(1))
				if err != nil {
					return err
				}
				if ok {
					success.Add(1)
				}
				return nil
			})
		}()
	}
	wg.Wait()

	assert.EqualValues(t, k-1, success.Load())
	stock, err := s.ForTenant("t1").Stock().Current(ctx, scope)
	require.NoError(t, err)
	assert.True(t, stock.IsZero())
}

func TestStock_NoAlcanzaNoCambia(t *testing.T) {
	ctx := context.Background()
	s := New()
	scope := seedProduct(t, s, "t1", "p1", "2")

	ok, err := s.ForTenant("t1").Stock().DecrementIfAvailable(ctx, scope, decimal.NewFromInt(3), decimal.NewFromInt(3))
	require.NoError(t, err)
	assert.False(t, ok)

	stock, err := s.ForTenant("t1").Stock().Current(ctx, scope)
	require.NoError(t, err)
	assert.Equal(t, "2", stock.String())
}

func TestSales_NumeroDeFacturaUnicoPorScope(t *testing.T) {
	ctx := context.Background()
	s := New()
	sales := s.ForTenant("t1").Sales()

	require.NoError(t, sales.Create(ctx, &entity.Sale{ID: "s1", InvoiceNumber: "FAC-000001", NumberingScope: "b1"}))
	err := sales.Create(ctx, &entity.Sale{ID: "s2", InvoiceNumber: "FAC-000001", NumberingScope: "b1"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	// Otro scope de numeración puede repetir el número.
	require.NoError(t, sales.Create(ctx, &entity.Sale{ID: "s3", InvoiceNumber: "FAC-000001", NumberingScope: "b2"}))
}

func TestSessions_UnaAbiertaPorUsuario(t *testing.T) {
	ctx := context.Background()
	s := New()
	sessions := s.ForTenant("t1").Sessions()

	require.NoError(t, sessions.Create(ctx, &entity.CashSession{ID: "c1", UserID: "u1", Status: entity.SessionStatusOpen}))
	err := sessions.Create(ctx, &entity.CashSession{ID: "c2", UserID: "u1", Status: entity.SessionStatusOpen})
	assert.ErrorIs(t, err, domain.ErrSessionAlreadyOpen)

	// Otro tenant no comparte la restricción.
	require.NoError(t, s.ForTenant("t2").Sessions().Create(ctx, &entity.CashSession{ID: "c3", UserID: "u1", Status: entity.SessionStatusOpen}))

	open, err := sessions.GetOpenByUser(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, open)
	assert.Equal(t, "c1", open.ID)
}

func TestSessions_AcumuladosYFinalize(t *testing.T) {
	ctx := context.Background()
	s := New()
	sessions := s.ForTenant("t1").Sessions()
	require.NoError(t, sessions.Create(ctx, &entity.CashSession{ID: "c1", UserID: "u1", Status: entity.SessionStatusOpen, OpeningAmount: decimal.NewFromInt(100)}))

	got, err := sessions.AddSales(ctx, "c1", decimal.RequireFromString("2.80"))
	require.NoError(t, err)
	assert.Equal(t, "2.80", got.MontoVentas.StringFixed(2))

	got.Status = entity.SessionStatusClosed
	require.NoError(t, sessions.Finalize(ctx, got))
	assert.ErrorIs(t, sessions.Finalize(ctx, got), domain.ErrSessionAlreadyClosed)

	_, err = sessions.AddWithdrawal(ctx, "c1", decimal.NewFromInt(1))
	assert.ErrorIs(t, err, domain.ErrSessionNotOpen)

	_, err = sessions.AddSales(ctx, "nope", decimal.NewFromInt(1))
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)

	open, err := sessions.GetOpenByUser(ctx, "u1")
	require.NoError(t, err)
	assert.Nil(t, open)
}
