package sales_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Ventas-api/internal/application/cash"
	"github.com/jhoicas/Ventas-api/internal/application/dto"
	"github.com/jhoicas/Ventas-api/internal/application/inventory"
	"github.com/jhoicas/Ventas-api/internal/application/invoicing"
	"github.com/jhoicas/Ventas-api/internal/application/sales"
	"github.com/jhoicas/Ventas-api/internal/domain"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/internal/infrastructure/cache"
	"github.com/jhoicas/Ventas-api/internal/infrastructure/memory"
)

const tenant = "t1"

var (
	cashier    = entity.Caller{TenantID: tenant, UserID: "u1", Role: entity.RoleCashier, BranchID: "b1"}
	otherCash  = entity.Caller{TenantID: tenant, UserID: "u2", Role: entity.RoleCashier, BranchID: "b1"}
	supervisor = entity.Caller{TenantID: tenant, UserID: "s1", Role: entity.RoleSupervisor, BranchID: "b1"}
	admin      = entity.Caller{TenantID: tenant, UserID: "a1", Role: entity.RoleAdmin}
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

type env struct {
	store    *memory.Store
	sessions *cash.SessionManager
	uc       *sales.CreateSaleUseCase
}

func newEnv(t *testing.T) *env {
	t.Helper()
	return newEnvWith(t, sales.Config{DefaultTaxRate: sales.DefaultTaxRate})
}

func newEnvWith(t *testing.T, cfg sales.Config) *env {
	t.Helper()
	store := memory.New()
	var (
		mu    sync.Mutex
		clock = time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	)
	now := func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		clock = clock.Add(time.Second)
		return clock
	}
	idem := cache.NewInMemoryIdempotencyStore()
	t.Cleanup(func() { _ = idem.Close() })

	ledger := cash.NewLedger(now)
	sessions := cash.NewSessionManager(store, store, ledger, zerolog.Nop(), now)
	uc := sales.NewCreateSaleUseCase(
		store, store,
		inventory.NewResolver(),
		inventory.NewStockLedger(),
		invoicing.NewNumberer(invoicing.DefaultPrefix),
		sessions, ledger, idem,
		cfg,
		zerolog.Nop(), now,
	)
	return &env{store: store, sessions: sessions, uc: uc}
}

func (e *env) product(t *testing.T, id, typ, price, stock string) {
	t.Helper()
	require.NoError(t, e.store.ForTenant(tenant).Products().Create(context.Background(), &entity.Product{
		ID: id, Name: "Producto " + id, Type: typ, Price: dec(price), Stock: dec(stock), Active: true,
	}))
}

func (e *env) open(t *testing.T, caller entity.Caller, amount string) *dto.CashSessionResponse {
	t.Helper()
	s, err := e.sessions.Open(context.Background(), caller, dto.OpenSessionRequest{OpeningAmount: dec(amount)})
	require.NoError(t, err)
	return s
}

func (e *env) stock(t *testing.T, scope entity.StockScope) string {
	t.Helper()
	v, err := e.store.ForTenant(tenant).Stock().Current(context.Background(), scope)
	require.NoError(t, err)
	return v.String()
}

func saleOf(method string, items ...dto.SaleItemRequest) dto.CreateSaleRequest {
	return dto.CreateSaleRequest{Items: items, PaymentMethod: method}
}

func item(productID, qty string) dto.SaleItemRequest {
	return dto.SaleItemRequest{ProductID: productID, Quantity: dec(qty)}
}

func TestCreateSale_FlujoCompleto(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	e.product(t, "pan", entity.ProductTypeUnit, "1.25", "10")
	session := e.open(t, cashier, "100.00")

	sale, err := e.uc.CreateSale(ctx, cashier, saleOf(entity.PaymentCash, item("pan", "2")), "")
	require.NoError(t, err)
	assert.Equal(t, "2.50", sale.Subtotal.StringFixed(2))
	assert.Equal(t, "0.30", sale.Tax.StringFixed(2))
	assert.Equal(t, "2.80", sale.Total.StringFixed(2))
	assert.Equal(t, "FAC-000001", sale.InvoiceNumber)
	assert.Equal(t, session.ID, sale.SessionID)
	require.Len(t, sale.Items, 1)
	assert.Equal(t, "1.25", sale.Items[0].UnitPrice.StringFixed(2))

	assert.Equal(t, "8", e.stock(t, entity.StockScope{ProductID: "pan"}))

	closed, err := e.sessions.Close(ctx, cashier, session.ID, dto.CloseSessionRequest{ClosingAmount: dec("102.80")})
	require.NoError(t, err)
	assert.Equal(t, "102.80", closed.ExpectedAmount.StringFixed(2))
	assert.True(t, closed.Difference.IsZero())

	report, err := e.sessions.Report(ctx, cashier, session.ID)
	require.NoError(t, err)
	require.Len(t, report.Movements, 3)
	assert.Equal(t, entity.CashMovementSale, report.Movements[1].Type)
	require.NotNil(t, report.Movements[1].SaleID)
	assert.Equal(t, sale.ID, *report.Movements[1].SaleID)
	assert.Equal(t, 1, report.Summary.SalesCount)
	assert.Equal(t, "2.80", report.Summary.ByPaymentType[entity.PaymentCash].StringFixed(2))
}

func TestCreateSale_SinSesionAbierta(t *testing.T) {
	e := newEnv(t)
	e.product(t, "pan", entity.ProductTypeUnit, "1.25", "10")

	_, err := e.uc.CreateSale(context.Background(), cashier, saleOf(entity.PaymentCash, item("pan", "1")), "")
	assert.ErrorIs(t, err, domain.ErrNoOpenSession)
	assert.Equal(t, "10", e.stock(t, entity.StockScope{ProductID: "pan"}))
}

func TestCreateSale_EntradaInvalida(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	e.product(t, "pan", entity.ProductTypeUnit, "1.25", "10")
	e.open(t, cashier, "0")

	tests := []struct {
		name string
		in   dto.CreateSaleRequest
	}{
		{"sin items", saleOf(entity.PaymentCash)},
		{"método de pago desconocido", saleOf("cheque", item("pan", "1"))},
		{"cantidad cero", saleOf(entity.PaymentCash, item("pan", "0"))},
		{"cantidad negativa", saleOf(entity.PaymentCash, item("pan", "-1"))},
		{"producto vacío", saleOf(entity.PaymentCash, item("", "1"))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.uc.CreateSale(ctx, cashier, tt.in, "")
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
	assert.Equal(t, "10", e.stock(t, entity.StockScope{ProductID: "pan"}))
}

func TestCreateSale_OverrideDeSucursalSinStock(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	e.product(t, "pan", entity.ProductTypeUnit, "1.25", "10")
	require.NoError(t, e.store.ForTenant(tenant).BranchProducts().Upsert(ctx, &entity.BranchProduct{
		ID: "bp1", ProductID: "pan", BranchID: "b1", Price: dec("1.00"), Stock: dec("3"), Active: true,
	}))
	e.open(t, cashier, "0")

	_, err := e.uc.CreateSale(ctx, cashier, saleOf(entity.PaymentCash, item("pan", "5")), "")
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	assert.Equal(t, "10", e.stock(t, entity.StockScope{ProductID: "pan"}), "el global no se usa como respaldo")
	assert.Equal(t, "3", e.stock(t, entity.StockScope{ProductID: "pan", BranchID: "b1", BranchProductID: "bp1"}))

	sale, err := e.uc.CreateSale(ctx, cashier, saleOf(entity.PaymentCard, item("pan", "3")), "")
	require.NoError(t, err)
	assert.Equal(t, "3.00", sale.Subtotal.StringFixed(2))
	assert.Equal(t, "0", e.stock(t, entity.StockScope{ProductID: "pan", BranchID: "b1", BranchProductID: "bp1"}))
}

func TestCreateSale_RollbackMultiItem(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	e.product(t, "a", entity.ProductTypeUnit, "1.00", "5")
	e.product(t, "b", entity.ProductTypeUnit, "1.00", "1")
	session := e.open(t, cashier, "0")

	_, err := e.uc.CreateSale(ctx, cashier, saleOf(entity.PaymentCash, item("a", "2"), item("b", "3")), "")
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	assert.Equal(t, "5", e.stock(t, entity.StockScope{ProductID: "a"}))
	assert.Equal(t, "1", e.stock(t, entity.StockScope{ProductID: "b"}))

	current, err := e.sessions.Current(ctx, cashier)
	require.NoError(t, err)
	assert.True(t, current.MontoVentas.IsZero())

	list, err := e.uc.ListSales(ctx, admin, 0)
	require.NoError(t, err)
	assert.Empty(t, list.Items)

	report, err := e.sessions.Report(ctx, cashier, session.ID)
	require.NoError(t, err)
	assert.Len(t, report.Movements, 1, "solo la apertura")

	// El número de factura no se consumió.
	sale, err := e.uc.CreateSale(ctx, cashier, saleOf(entity.PaymentCash, item("a", "1")), "")
	require.NoError(t, err)
	assert.Equal(t, "FAC-000001", sale.InvoiceNumber)
}

func TestCreateSale_ProductoInexistenteNoEscribeNada(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	e.product(t, "a", entity.ProductTypeUnit, "1.00", "5")
	e.open(t, cashier, "0")

	_, err := e.uc.CreateSale(ctx, cashier, saleOf(entity.PaymentCash, item("a", "1"), item("fantasma", "1")), "")
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
	assert.Equal(t, "5", e.stock(t, entity.StockScope{ProductID: "a"}))
}

func TestCreateSale_LineasRepetidasSeUnen(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	e.product(t, "a", entity.ProductTypeUnit, "1.00", "3")
	e.open(t, cashier, "0")

	_, err := e.uc.CreateSale(ctx, cashier, saleOf(entity.PaymentCash, item("a", "2"), item("a", "2")), "")
	assert.ErrorIs(t, err, domain.ErrInsufficientStock, "la suma de las líneas supera el stock")

	sale, err := e.uc.CreateSale(ctx, cashier, saleOf(entity.PaymentCash, item("a", "1"), item("a", "2")), "")
	require.NoError(t, err)
	require.Len(t, sale.Items, 1)
	assert.Equal(t, "3", sale.Items[0].Quantity.String())
	assert.Equal(t, "0", e.stock(t, entity.StockScope{ProductID: "a"}))
}

func TestCreateSale_ConcurrentesNoSobrevenden(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	const k = 12
	e.product(t, "a", entity.ProductTypeUnit, "1.00", "11")

	callers := make([]entity.Caller, k)
	for i := range callers {
		callers[i] = entity.Caller{TenantID: tenant, UserID: "cajero-" + string(rune('a'+i)), Role: entity.RoleCashier, BranchID: "b1"}
		e.open(t, callers[i], "0")
	}

	var (
		wg       sync.WaitGroup
		ok       atomic.Int32
		shortage atomic.Int32
		mu       sync.Mutex
		invoices = make(map[string]bool)
	)
	for _, c := range callers {
		wg.Add(1)
		go func(c entity.Caller) {
			defer wg.Done()
			sale, err := e.uc.CreateSale(ctx, c, saleOf(entity.PaymentCash, item("a", "1")), "")
			switch {
			case err == nil:
				ok.Add(1)
				mu.Lock()
				invoices[sale.InvoiceNumber] = true
				mu.Unlock()
			case assert.ErrorIs(t, err, domain.ErrInsufficientStock):
				shortage.Add(1)
			}
		}(c)
	}
	wg.Wait()

	assert.EqualValues(t, k-1, ok.Load())
	assert.EqualValues(t, 1, shortage.Load())
	assert.Len(t, invoices, k-1, "números de factura únicos")
	assert.Equal(t, "0", e.stock(t, entity.StockScope{ProductID: "a"}))
}

func TestCreateSale_TasaDelTenant(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	e.product(t, "a", entity.ProductTypeWeight, "3.33", "10")
	require.NoError(t, e.store.ForTenant(tenant).Settings().SetTaxRate(ctx, dec("0.19")))
	e.open(t, cashier, "0")

	sale, err := e.uc.CreateSale(ctx, cashier, saleOf(entity.PaymentTransfer, item("a", "1.5")), "")
	require.NoError(t, err)
	// 1.5 * 3.33 = 4.995; 4.995 * 0.19 = 0.94905
	assert.True(t, dec("4.995").Equal(sale.Subtotal), sale.Subtotal.String())
	assert.True(t, dec("0.94905").Equal(sale.Tax), sale.Tax.String())
	assert.True(t, dec("5.94405").Equal(sale.Total), sale.Total.String())
	assert.Equal(t, "8.5", e.stock(t, entity.StockScope{ProductID: "a"}))
}

func TestCreateSale_TotalesSinRedondeo(t *testing.T) {
	cases := []struct {
		name, typ, price, qty string
	}{
		{"centavo fraccional", entity.ProductTypeUnit, "0.10", "1"},
		{"peso fraccional", entity.ProductTypeWeight, "3.33", "1.5"},
		{"varias unidades", entity.ProductTypeUnit, "0.07", "3"},
		{"gramos", entity.ProductTypeWeight, "12.99", "0.337"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := newEnv(t)
			e.product(t, "a", tc.typ, tc.price, "100")
			s := e.open(t, cashier, "0")

			sale, err := e.uc.CreateSale(context.Background(), cashier, saleOf(entity.PaymentCash, item("a", tc.qty)), "")
			require.NoError(t, err)

			subtotal := dec(tc.qty).Mul(dec(tc.price))
			total := subtotal.Mul(decimal.NewFromInt(1).Add(sales.DefaultTaxRate))
			assert.True(t, subtotal.Equal(sale.Subtotal), "subtotal %s, esperado %s", sale.Subtotal, subtotal)
			assert.True(t, subtotal.Equal(sale.Items[0].Subtotal))
			assert.True(t, total.Equal(sale.Total), "total %s, esperado %s", sale.Total, total)
			assert.True(t, sale.Subtotal.Add(sale.Tax).Equal(sale.Total))

			closed, err := e.sessions.Close(context.Background(), cashier, s.ID, dto.CloseSessionRequest{ClosingAmount: total})
			require.NoError(t, err)
			require.NotNil(t, closed.Difference)
			assert.True(t, closed.Difference.IsZero(), closed.Difference.String())
		})
	}
}

func TestCreateSale_TasaPorDefectoCero(t *testing.T) {
	e := newEnvWith(t, sales.Config{DefaultTaxRate: decimal.Zero})
	e.product(t, "a", entity.ProductTypeUnit, "10.00", "5")
	e.open(t, cashier, "0")

	sale, err := e.uc.CreateSale(context.Background(), cashier, saleOf(entity.PaymentCash, item("a", "1")), "")
	require.NoError(t, err)
	assert.True(t, sale.Tax.IsZero(), sale.Tax.String())
	assert.Equal(t, "10.00", sale.Total.StringFixed(2))
}

func TestCreateSale_NumeracionSinSucursal(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	e.product(t, "a", entity.ProductTypeUnit, "1.00", "10")
	noBranch := entity.Caller{TenantID: tenant, UserID: "u9", Role: entity.RoleCashier}
	e.open(t, noBranch, "0")
	e.open(t, cashier, "0")

	first, err := e.uc.CreateSale(ctx, noBranch, saleOf(entity.PaymentCash, item("a", "1")), "")
	require.NoError(t, err)
	second, err := e.uc.CreateSale(ctx, cashier, saleOf(entity.PaymentCash, item("a", "1")), "")
	require.NoError(t, err)

	assert.Equal(t, "FAC-000001", first.InvoiceNumber)
	assert.Equal(t, "FAC-000001", second.InvoiceNumber, "scopes de numeración independientes")
}

func TestCreateSale_Idempotencia(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	e.product(t, "a", entity.ProductTypeUnit, "1.00", "10")
	e.open(t, cashier, "0")
	in := saleOf(entity.PaymentCash, item("a", "2"))

	first, err := e.uc.CreateSale(ctx, cashier, in, "clave-1")
	require.NoError(t, err)
	again, err := e.uc.CreateSale(ctx, cashier, in, "clave-1")
	require.NoError(t, err)

	assert.Equal(t, first.ID, again.ID)
	assert.Equal(t, first.InvoiceNumber, again.InvoiceNumber)
	assert.Equal(t, "8", e.stock(t, entity.StockScope{ProductID: "a"}))

	// Una clave que falló se libera y puede reintentarse.
	_, err = e.uc.CreateSale(ctx, cashier, saleOf(entity.PaymentCash, item("a", "50")), "clave-2")
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	retry, err := e.uc.CreateSale(ctx, cashier, saleOf(entity.PaymentCash, item("a", "1")), "clave-2")
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, retry.ID)
}

func TestSales_VisibilidadPorRol(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	e.product(t, "a", entity.ProductTypeUnit, "1.00", "10")
	e.open(t, cashier, "0")
	e.open(t, otherCash, "0")

	mine, err := e.uc.CreateSale(ctx, cashier, saleOf(entity.PaymentCash, item("a", "1")), "")
	require.NoError(t, err)
	_, err = e.uc.CreateSale(ctx, otherCash, saleOf(entity.PaymentCash, item("a", "1")), "")
	require.NoError(t, err)

	list, err := e.uc.ListSales(ctx, cashier, 0)
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	assert.Equal(t, mine.ID, list.Items[0].ID)

	list, err = e.uc.ListSales(ctx, supervisor, 0)
	require.NoError(t, err)
	assert.Len(t, list.Items, 2)

	list, err = e.uc.ListSales(ctx, admin, 1)
	require.NoError(t, err)
	assert.Len(t, list.Items, 1)

	_, err = e.uc.GetSale(ctx, otherCash, mine.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = e.uc.GetSale(ctx, admin, "no-existe")
	assert.ErrorIs(t, err, domain.ErrSaleNotFound)

	_, err = e.uc.GetSale(ctx, entity.Caller{TenantID: "t2", UserID: "a1", Role: entity.RoleAdmin}, mine.ID)
	assert.ErrorIs(t, err, domain.ErrSaleNotFound, "otro tenant no ve la venta")
}
