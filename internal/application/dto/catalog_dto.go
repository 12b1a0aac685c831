package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest alta de un producto global.
type CreateProductRequest struct {
	Name        string           `json:"nombre" validate:"required,min=1,max=200"`
	Barcode     *string          `json:"codigo_barras" validate:"omitempty,max=64"`
	Type        string           `json:"tipo" validate:"required,oneof=unidad por_peso"`
	Price       decimal.Decimal  `json:"precio"`
	WeightPrice *decimal.Decimal `json:"precio_por_peso"`
	CategoryID  string           `json:"categoria_id"`
	Stock       decimal.Decimal  `json:"stock"`
	MinStock    decimal.Decimal  `json:"stock_minimo"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID          string           `json:"id"`
	Name        string           `json:"nombre"`
	Barcode     *string          `json:"codigo_barras"`
	Type        string           `json:"tipo"`
	Price       decimal.Decimal  `json:"precio"`
	WeightPrice *decimal.Decimal `json:"precio_por_peso"`
	CategoryID  string           `json:"categoria_id"`
	Stock       decimal.Decimal  `json:"stock"`
	MinStock    decimal.Decimal  `json:"stock_minimo"`
	Active      bool             `json:"activo"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

// ProductListResponse listado de productos activos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
}

// UpsertBranchProductRequest crea o reemplaza el override (producto, sucursal).
type UpsertBranchProductRequest struct {
	ProductID   string           `json:"producto_id" validate:"required"`
	BranchID    string           `json:"sucursal_id" validate:"required"`
	Price       decimal.Decimal  `json:"precio"`
	WeightPrice *decimal.Decimal `json:"precio_por_peso"`
	Stock       decimal.Decimal  `json:"stock"`
	MinStock    decimal.Decimal  `json:"stock_minimo"`
	Active      *bool            `json:"activo"`
}

// BranchProductResponse salida de un override de sucursal.
type BranchProductResponse struct {
	ID          string           `json:"id"`
	ProductID   string           `json:"producto_id"`
	BranchID    string           `json:"sucursal_id"`
	Price       decimal.Decimal  `json:"precio"`
	WeightPrice *decimal.Decimal `json:"precio_por_peso"`
	Stock       decimal.Decimal  `json:"stock"`
	MinStock    decimal.Decimal  `json:"stock_minimo"`
	Active      bool             `json:"activo"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

// TaxRateRequest tasa de impuesto del tenant (fracción, 0.12 = 12%).
type TaxRateRequest struct {
	Rate decimal.Decimal `json:"tasa" validate:"gte=0,lt=1"`
}

// TaxRateResponse tasa efectiva del tenant.
type TaxRateResponse struct {
	Rate decimal.Decimal `json:"tasa"`
}
