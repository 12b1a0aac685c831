package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// BranchProduct es el override por sucursal de precio y stock de un Product.
// Clave única: (tenant, product, branch). Cuando existe y está activo es autoritativo
// para la venta en esa sucursal; el Product global no se toca.
type BranchProduct struct {
	ID          string
	TenantID    string
	ProductID   string
	BranchID    string
	Price       decimal.Decimal
	WeightPrice *decimal.Decimal
	Stock       decimal.Decimal
	MinStock    decimal.Decimal
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
