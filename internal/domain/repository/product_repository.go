package repository

import (
	"context"

	"github.com/jhoicas/Ventas-api/internal/domain/entity"
)

// ProductRepository puerto del catálogo global. Los Get devuelven nil, nil si no existe.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	GetByBarcode(ctx context.Context, barcode string) (*entity.Product, error)
	// Update persiste todo salvo Stock, que solo cambia vía StockRepository.
	Update(ctx context.Context, product *entity.Product) error
	// ListActive lista los productos activos ordenados por nombre.
	ListActive(ctx context.Context, limit int) ([]*entity.Product, error)
	// CountActive cuenta los productos activos del catálogo.
	CountActive(ctx context.Context) (int, error)
	// ListLowStock lista productos activos con stock <= stock mínimo, por nombre.
	ListLowStock(ctx context.Context, limit int) ([]*entity.Product, error)
}

// BranchProductRepository puerto de overrides por sucursal.
type BranchProductRepository interface {
	// Get busca el override único (producto, sucursal).
	Get(ctx context.Context, productID, branchID string) (*entity.BranchProduct, error)
	GetByID(ctx context.Context, id string) (*entity.BranchProduct, error)
	// Upsert crea o reemplaza el override (producto, sucursal), incluido el stock.
	Upsert(ctx context.Context, bp *entity.BranchProduct) error
	// Update persiste todo salvo Stock.
	Update(ctx context.Context, bp *entity.BranchProduct) error
}
