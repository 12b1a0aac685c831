// Package catalog administra el catálogo global y los overrides por sucursal.
package catalog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Ventas-api/internal/application/dto"
	"github.com/jhoicas/Ventas-api/internal/domain"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/internal/domain/repository"
)

const productListLimit = 1000

// UseCase casos de uso del catálogo. Las actualizaciones parciales pasan por
// ProductPatch/BranchProductPatch; el stock solo cambia vía StockRepository.Set.
type UseCase struct {
	store          repository.Store
	tx             repository.TxRunner
	defaultTaxRate decimal.Decimal
	log            zerolog.Logger
	now            func() time.Time
}

// NewUseCase construye el caso de uso.
func NewUseCase(store repository.Store, tx repository.TxRunner, defaultTaxRate decimal.Decimal, log zerolog.Logger) *UseCase {
	return &UseCase{store: store, tx: tx, defaultTaxRate: defaultTaxRate, log: log, now: time.Now}
}

// CreateProduct da de alta un producto activo.
func (uc *UseCase) CreateProduct(ctx context.Context, tenantID string, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if !entity.ValidProductType(in.Type) {
		return nil, fmt.Errorf("%w: tipo %q", domain.ErrInvalidInput, in.Type)
	}
	now := uc.now().UTC()
	product := &entity.Product{
		ID:          uuid.New().String(),
		TenantID:    tenantID,
		Name:        strings.TrimSpace(in.Name),
		Barcode:     normalizeBarcode(in.Barcode),
		Type:        in.Type,
		Price:       in.Price,
		WeightPrice: in.WeightPrice,
		CategoryID:  in.CategoryID,
		Stock:       in.Stock,
		MinStock:    in.MinStock,
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	// La validación de campos es la misma que la de una actualización.
	if _, err := (entity.ProductPatch{}).Apply(*product); err != nil {
		return nil, err
	}
	if err := uc.store.ForTenant(tenantID).Products().Create(ctx, product); err != nil {
		return nil, err
	}
	out := dto.FromProduct(product)
	return &out, nil
}

// GetProduct obtiene un producto por ID.
func (uc *UseCase) GetProduct(ctx context.Context, tenantID, id string) (*dto.ProductResponse, error) {
	p, err := uc.store.ForTenant(tenantID).Products().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrProductNotFound
	}
	out := dto.FromProduct(p)
	return &out, nil
}

// ListProducts lista los productos activos del tenant por nombre.
func (uc *UseCase) ListProducts(ctx context.Context, tenantID string, limit int) (*dto.ProductListResponse, error) {
	if limit <= 0 || limit > productListLimit {
		limit = productListLimit
	}
	list, err := uc.store.ForTenant(tenantID).Products().ListActive(ctx, limit)
	if err != nil {
		return nil, err
	}
	out := &dto.ProductListResponse{Items: make([]dto.ProductResponse, 0, len(list))}
	for _, p := range list {
		out.Items = append(out.Items, dto.FromProduct(p))
	}
	return out, nil
}

// GetByBarcode busca un producto activo por código de barras.
func (uc *UseCase) GetByBarcode(ctx context.Context, tenantID, barcode string) (*dto.ProductResponse, error) {
	p, err := uc.store.ForTenant(tenantID).Products().GetByBarcode(ctx, strings.TrimSpace(barcode))
	if err != nil {
		return nil, err
	}
	if p == nil || !p.Active {
		return nil, domain.ErrProductNotFound
	}
	out := dto.FromProduct(p)
	return &out, nil
}

// UpdateProduct aplica una actualización parcial. Un campo ausente no cambia; null limpia
// los campos que lo admiten (codigo_barras, precio_por_peso).
func (uc *UseCase) UpdateProduct(ctx context.Context, tenantID, id string, patch entity.ProductPatch) (*dto.ProductResponse, error) {
	var updated entity.Product
	err := uc.tx.RunTenant(ctx, tenantID, func(repos repository.TenantRepos) error {
		current, err := repos.Products().GetByID(ctx, id)
		if err != nil {
			return err
		}
		if current == nil {
			return domain.ErrProductNotFound
		}
		next, err := patch.Apply(*current)
		if err != nil {
			return err
		}
		next.Barcode = normalizeBarcode(next.Barcode)
		next.UpdatedAt = uc.now().UTC()
		if err := repos.Products().Update(ctx, &next); err != nil {
			return err
		}
		if patch.Stock.Set {
			if err := repos.Stock().Set(ctx, entity.StockScope{ProductID: id, ProductType: next.Type}, next.Stock); err != nil {
				return err
			}
		}
		updated = next
		return nil
	})
	if err != nil {
		return nil, err
	}
	out := dto.FromProduct(&updated)
	return &out, nil
}

// UpsertBranchProduct crea o reemplaza el override (producto, sucursal).
func (uc *UseCase) UpsertBranchProduct(ctx context.Context, tenantID string, in dto.UpsertBranchProductRequest) (*dto.BranchProductResponse, error) {
	active := true
	if in.Active != nil {
		active = *in.Active
	}
	now := uc.now().UTC()
	bp := &entity.BranchProduct{
		ID:          uuid.New().String(),
		TenantID:    tenantID,
		ProductID:   in.ProductID,
		BranchID:    in.BranchID,
		Price:       in.Price,
		WeightPrice: in.WeightPrice,
		Stock:       in.Stock,
		MinStock:    in.MinStock,
		Active:      active,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if _, err := (entity.BranchProductPatch{}).Apply(*bp); err != nil {
		return nil, err
	}
	err := uc.tx.RunTenant(ctx, tenantID, func(repos repository.TenantRepos) error {
		p, err := repos.Products().GetByID(ctx, in.ProductID)
		if err != nil {
			return err
		}
		if p == nil {
			return domain.ErrProductNotFound
		}
		return repos.BranchProducts().Upsert(ctx, bp)
	})
	if err != nil {
		return nil, err
	}
	out := dto.FromBranchProduct(bp)
	return &out, nil
}

// UpdateBranchProduct aplica una actualización parcial al override.
func (uc *UseCase) UpdateBranchProduct(ctx context.Context, tenantID, id string, patch entity.BranchProductPatch) (*dto.BranchProductResponse, error) {
	var updated entity.BranchProduct
	err := uc.tx.RunTenant(ctx, tenantID, func(repos repository.TenantRepos) error {
		current, err := repos.BranchProducts().GetByID(ctx, id)
		if err != nil {
			return err
		}
		if current == nil {
			return fmt.Errorf("%w: override de sucursal", domain.ErrNotFound)
		}
		next, err := patch.Apply(*current)
		if err != nil {
			return err
		}
		next.UpdatedAt = uc.now().UTC()
		if err := repos.BranchProducts().Update(ctx, &next); err != nil {
			return err
		}
		if patch.Stock.Set {
			scope := entity.StockScope{ProductID: next.ProductID, BranchID: next.BranchID, BranchProductID: next.ID}
			if err := repos.Stock().Set(ctx, scope, next.Stock); err != nil {
				return err
			}
		}
		updated = next
		return nil
	})
	if err != nil {
		return nil, err
	}
	out := dto.FromBranchProduct(&updated)
	return &out, nil
}

// TaxRate devuelve la tasa efectiva del tenant.
func (uc *UseCase) TaxRate(ctx context.Context, tenantID string) (*dto.TaxRateResponse, error) {
	rate, err := uc.store.ForTenant(tenantID).Settings().TaxRate(ctx)
	if err != nil {
		return nil, err
	}
	if rate == nil {
		return &dto.TaxRateResponse{Rate: uc.defaultTaxRate}, nil
	}
	return &dto.TaxRateResponse{Rate: *rate}, nil
}

// SetTaxRate fija la tasa del tenant; debe estar en [0, 1).
func (uc *UseCase) SetTaxRate(ctx context.Context, tenantID string, in dto.TaxRateRequest) (*dto.TaxRateResponse, error) {
	if in.Rate.IsNegative() || in.Rate.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return nil, fmt.Errorf("%w: la tasa debe estar entre 0 y 1", domain.ErrInvalidInput)
	}
	if err := uc.store.ForTenant(tenantID).Settings().SetTaxRate(ctx, in.Rate); err != nil {
		return nil, err
	}
	uc.log.Info().Str("tenant_id", tenantID).Str("tasa", in.Rate.String()).Msg("tasa de impuesto actualizada")
	return &dto.TaxRateResponse{Rate: in.Rate}, nil
}

func normalizeBarcode(b *string) *string {
	if b == nil {
		return nil
	}
	v := strings.TrimSpace(*b)
	if v == "" {
		return nil
	}
	return &v
}
