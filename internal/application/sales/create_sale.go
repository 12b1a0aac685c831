// Package sales orquesta la creación de ventas como una sola unidad de trabajo.
package sales

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Ventas-api/internal/application/cash"
	"github.com/jhoicas/Ventas-api/internal/application/dto"
	"github.com/jhoicas/Ventas-api/internal/application/inventory"
	"github.com/jhoicas/Ventas-api/internal/application/invoicing"
	"github.com/jhoicas/Ventas-api/internal/domain"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/internal/domain/repository"
)

// DefaultTaxRate tasa usada cuando ni el tenant ni la configuración definen otra.
var DefaultTaxRate = decimal.RequireFromString("0.12")

// Límites de listado por rol.
const (
	cashierListLimit = 100
	managerListLimit = 1000
)

// Config parámetros del orquestador. DefaultTaxRate se usa tal cual, incluso si es cero.
type Config struct {
	DefaultTaxRate decimal.Decimal
	IdempotencyTTL time.Duration
}

// CreateSaleUseCase registra una venta: sesión abierta, precios, reservas de stock, totales,
// número de factura, venta, crédito a la sesión y movimiento de caja. Todo dentro de una
// única unidad de trabajo: si un paso falla no queda nada escrito.
type CreateSaleUseCase struct {
	store       repository.Store
	tx          repository.TxRunner
	resolver    *inventory.Resolver
	stock       *inventory.StockLedger
	numberer    *invoicing.Numberer
	sessions    *cash.SessionManager
	ledger      *cash.Ledger
	idempotency IdempotencyStore
	cfg         Config
	log         zerolog.Logger
	now         func() time.Time
}

// NewCreateSaleUseCase construye el caso de uso. idempotency puede ser nil.
func NewCreateSaleUseCase(
	store repository.Store,
	tx repository.TxRunner,
	resolver *inventory.Resolver,
	stock *inventory.StockLedger,
	numberer *invoicing.Numberer,
	sessions *cash.SessionManager,
	ledger *cash.Ledger,
	idempotency IdempotencyStore,
	cfg Config,
	log zerolog.Logger,
	now func() time.Time,
) *CreateSaleUseCase {
	if cfg.IdempotencyTTL <= 0 {
		cfg.IdempotencyTTL = 24 * time.Hour
	}
	if now == nil {
		now = time.Now
	}
	return &CreateSaleUseCase{
		store:       store,
		tx:          tx,
		resolver:    resolver,
		stock:       stock,
		numberer:    numberer,
		sessions:    sessions,
		ledger:      ledger,
		idempotency: idempotency,
		cfg:         cfg,
		log:         log,
		now:         now,
	}
}

// CreateSale registra la venta. Si idempotencyKey no está vacío, un reintento con la misma
// clave devuelve la venta ya creada en lugar de crear otra.
func (uc *CreateSaleUseCase) CreateSale(ctx context.Context, caller entity.Caller, in dto.CreateSaleRequest, idempotencyKey string) (*dto.SaleResponse, error) {
	lines, err := normalizeLines(in)
	if err != nil {
		return nil, err
	}

	idempotencyKey = strings.TrimSpace(idempotencyKey)
	if idempotencyKey == "" || uc.idempotency == nil {
		sale, err := uc.create(ctx, caller, lines, in.PaymentMethod)
		if err != nil {
			return nil, err
		}
		out := dto.FromSale(sale)
		return &out, nil
	}

	saleID, done, err := uc.idempotency.Claim(ctx, caller.TenantID, idempotencyKey, uc.cfg.IdempotencyTTL)
	if err != nil {
		return nil, err
	}
	if done {
		return uc.GetSale(ctx, caller, saleID)
	}
	sale, err := uc.create(ctx, caller, lines, in.PaymentMethod)
	if err != nil {
		if rerr := uc.idempotency.Release(context.WithoutCancel(ctx), caller.TenantID, idempotencyKey); rerr != nil {
			uc.log.Warn().Err(rerr).Str("idempotency_key", idempotencyKey).Msg("liberar clave de idempotencia")
		}
		return nil, err
	}
	if err := uc.idempotency.Complete(context.WithoutCancel(ctx), caller.TenantID, idempotencyKey, sale.ID, uc.cfg.IdempotencyTTL); err != nil {
		uc.log.Warn().Err(err).Str("idempotency_key", idempotencyKey).Str("sale_id", sale.ID).Msg("completar clave de idempotencia")
	}
	out := dto.FromSale(sale)
	return &out, nil
}

type line struct {
	productID string
	quantity  decimal.Decimal
}

type resolvedLine struct {
	line
	item *entity.ResolvedItem
}

// normalizeLines valida el pedido y une líneas repetidas del mismo producto conservando
// el orden de primera aparición.
func normalizeLines(in dto.CreateSaleRequest) ([]line, error) {
	if len(in.Items) == 0 {
		return nil, fmt.Errorf("%w: la venta no tiene items", domain.ErrInvalidInput)
	}
	if !entity.ValidPaymentMethod(in.PaymentMethod) {
		return nil, fmt.Errorf("%w: método de pago %q", domain.ErrInvalidInput, in.PaymentMethod)
	}
	index := make(map[string]int, len(in.Items))
	lines := make([]line, 0, len(in.Items))
	for _, it := range in.Items {
		if it.ProductID == "" {
			return nil, fmt.Errorf("%w: producto_id requerido", domain.ErrInvalidInput)
		}
		if !it.Quantity.IsPositive() {
			return nil, fmt.Errorf("%w: cantidad debe ser mayor que cero", domain.ErrInvalidInput)
		}
		if i, ok := index[it.ProductID]; ok {
			lines[i].quantity = lines[i].quantity.Add(it.Quantity)
			continue
		}
		index[it.ProductID] = len(lines)
		lines = append(lines, line{productID: it.ProductID, quantity: it.Quantity})
	}
	return lines, nil
}

func (uc *CreateSaleUseCase) create(ctx context.Context, caller entity.Caller, lines []line, paymentMethod string) (*entity.Sale, error) {
	var sale *entity.Sale
	err := uc.tx.RunTenant(ctx, caller.TenantID, func(repos repository.TenantRepos) error {
		// 1. Sesión abierta del cajero.
		session, err := uc.sessions.OpenSessionFor(ctx, repos, caller.UserID)
		if err != nil {
			return err
		}

		// 2. Precios y scopes de todas las líneas antes de tocar stock.
		resolved := make([]resolvedLine, 0, len(lines))
		for _, l := range lines {
			item, err := uc.resolver.Resolve(ctx, repos, caller.BranchID, l.productID, l.quantity)
			if err != nil {
				return err
			}
			resolved = append(resolved, resolvedLine{line: l, item: item})
		}

		// Reservas en orden canónico de scope para que dos ventas multi-item no se bloqueen
		// mutuamente.
		order := make([]resolvedLine, len(resolved))
		copy(order, resolved)
		sort.SliceStable(order, func(i, j int) bool { return order[i].item.Scope.Key() < order[j].item.Scope.Key() })
		for _, rl := range order {
			if err := uc.stock.Reserve(ctx, repos, rl.item.Scope, rl.quantity); err != nil {
				return err
			}
		}

		// 3. Totales.
		rate, err := uc.taxRate(ctx, repos)
		if err != nil {
			return err
		}
		items := make([]entity.SaleItem, 0, len(resolved))
		subtotal := decimal.Zero
		for _, rl := range resolved {
			lineTotal := rl.quantity.Mul(rl.item.UnitPrice)
			subtotal = subtotal.Add(lineTotal)
			items = append(items, entity.SaleItem{
				ProductID: rl.productID,
				Quantity:  rl.quantity,
				UnitPrice: rl.item.UnitPrice,
				Subtotal:  lineTotal,
			})
		}
		// Sin redondeo: subtotal = Σ cantidad×precio y total = subtotal×(1+tasa).
		tax := subtotal.Mul(rate)
		total := subtotal.Add(tax)

		// 4. Número de factura en el scope del cajero.
		scope := invoicing.ScopeFor(caller.BranchID)
		number, err := uc.numberer.Next(ctx, repos, scope)
		if err != nil {
			return err
		}

		// 5. Venta.
		sale = &entity.Sale{
			ID:             uuid.New().String(),
			TenantID:       caller.TenantID,
			BranchID:       caller.BranchID,
			SessionID:      session.ID,
			CashierID:      caller.UserID,
			Items:          items,
			Subtotal:       subtotal,
			Tax:            tax,
			Total:          total,
			PaymentMethod:  paymentMethod,
			InvoiceNumber:  number,
			NumberingScope: scope,
			CreatedAt:      uc.now().UTC(),
		}
		if err := repos.Sales().Create(ctx, sale); err != nil {
			return fmt.Errorf("guardar venta: %w", err)
		}

		// 6. Crédito a la sesión.
		if _, err := uc.sessions.CreditSale(ctx, repos, session.ID, total); err != nil {
			return err
		}

		// 7. Movimiento de caja.
		saleID := sale.ID
		_, err = uc.ledger.Append(ctx, repos, session.ID, entity.CashMovementSale, total, "Venta "+number, &saleID)
		return err
	})
	if err != nil {
		if !isBusinessError(err) {
			uc.log.Error().Err(err).Str("tenant_id", caller.TenantID).Str("user_id", caller.UserID).Msg("crear venta")
		}
		return nil, err
	}
	uc.log.Info().
		Str("tenant_id", caller.TenantID).
		Str("session_id", sale.SessionID).
		Str("sale_id", sale.ID).
		Str("invoice", sale.InvoiceNumber).
		Str("total", sale.Total.StringFixed(2)).
		Msg("venta registrada")
	return sale, nil
}

// taxRate tasa del tenant o la de configuración.
func (uc *CreateSaleUseCase) taxRate(ctx context.Context, repos repository.TenantRepos) (decimal.Decimal, error) {
	rate, err := repos.Settings().TaxRate(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	if rate == nil {
		return uc.cfg.DefaultTaxRate, nil
	}
	return *rate, nil
}

// GetSale devuelve una venta visible para el usuario.
func (uc *CreateSaleUseCase) GetSale(ctx context.Context, caller entity.Caller, id string) (*dto.SaleResponse, error) {
	sale, err := uc.store.ForTenant(caller.TenantID).Sales().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, domain.ErrSaleNotFound
	}
	if !caller.CanAccessSale(sale) {
		return nil, domain.ErrForbidden
	}
	out := dto.FromSale(sale)
	return &out, nil
}

// ListSales lista ventas según el rol, más recientes primero: el cajero las suyas (100),
// supervisor y admin las del tenant o de la sucursal del supervisor (1000).
func (uc *CreateSaleUseCase) ListSales(ctx context.Context, caller entity.Caller, limit int) (*dto.SaleListResponse, error) {
	filter := entity.SaleFilter{}
	switch caller.Role {
	case entity.RoleCashier:
		filter.CashierID = caller.UserID
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
	list, err := uc.store.ForTenant(caller.TenantID).Sales().List(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := &dto.SaleListResponse{Items: make([]dto.SaleResponse, 0, len(list))}
	for _, s := range list {
		out.Items = append(out.Items, dto.FromSale(s))
	}
	return out, nil
}

func isBusinessError(err error) bool {
	for _, target := range []error{
		domain.ErrNotFound, domain.ErrInvalidInput, domain.ErrConflict,
		domain.ErrPreconditionFailed, domain.ErrInsufficientStock, domain.ErrForbidden,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
