package inventory

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Ventas-api/internal/domain"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/internal/domain/repository"
)

// Resolver decide el precio unitario y el scope de stock autoritativo de una línea.
// Es una lectura pura: no modifica nada.
type Resolver struct{}

// NewResolver construye el resolver.
func NewResolver() *Resolver { return &Resolver{} }

// Resolve busca primero el override (producto, sucursal) si hay sucursal; si existe y está
// activo manda él. Si no, se usa el producto global, que debe existir y estar activo.
func (r *Resolver) Resolve(ctx context.Context, repos repository.TenantRepos, branchID, productID string, quantity decimal.Decimal) (*entity.ResolvedItem, error) {
	product, err := repos.Products().GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrProductNotFound
	}

	if branchID != "" {
		bp, err := repos.BranchProducts().Get(ctx, productID, branchID)
		if err != nil {
			return nil, err
		}
		if bp != nil && bp.Active {
			return &entity.ResolvedItem{
				ProductID:   productID,
				ProductName: product.Name,
				UnitPrice:   unitPrice(bp.Price, bp.WeightPrice, quantity),
				Scope: entity.StockScope{
					ProductID:       productID,
					BranchID:        branchID,
					BranchProductID: bp.ID,
					ProductType:     product.Type,
				},
			}, nil
		}
	}

	if !product.Active {
		return nil, domain.ErrProductInactive
	}
	return &entity.ResolvedItem{
		ProductID:   productID,
		ProductName: product.Name,
		UnitPrice:   unitPrice(product.Price, product.WeightPrice, quantity),
		Scope:       entity.StockScope{ProductID: productID, ProductType: product.Type},
	}, nil
}

// unitPrice usa el precio por peso solo si está definido y la cantidad no es entera.
func unitPrice(price decimal.Decimal, weightPrice *decimal.Decimal, quantity decimal.Decimal) decimal.Decimal {
	if weightPrice != nil && !quantity.Equal(quantity.Truncate(0)) {
		return *weightPrice
	}
	return price
}
