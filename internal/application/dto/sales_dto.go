package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleItemRequest línea de venta solicitada.
type SaleItemRequest struct {
	ProductID string          `json:"producto_id" validate:"required"`
	Quantity  decimal.Decimal `json:"cantidad" validate:"gt=0"`
}

// CreateSaleRequest entrada para registrar una venta.
type CreateSaleRequest struct {
	Items         []SaleItemRequest `json:"items" validate:"required,min=1,max=200,dive"`
	PaymentMethod string            `json:"metodo_pago" validate:"required,oneof=efectivo tarjeta transferencia"`
}

// SaleItemResponse línea de una venta persistida.
type SaleItemResponse struct {
	ProductID string          `json:"producto_id"`
	Quantity  decimal.Decimal `json:"cantidad"`
	UnitPrice decimal.Decimal `json:"precio_unitario"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// SaleResponse venta con totales y número de factura.
type SaleResponse struct {
	ID            string             `json:"id"`
	SessionID     string             `json:"sesion_id"`
	CashierID     string             `json:"cajero_id"`
	BranchID      string             `json:"sucursal_id,omitempty"`
	Items         []SaleItemResponse `json:"items"`
	Subtotal      decimal.Decimal    `json:"subtotal"`
	Tax           decimal.Decimal    `json:"impuestos"`
	Total         decimal.Decimal    `json:"total"`
	PaymentMethod string             `json:"metodo_pago"`
	InvoiceNumber string             `json:"numero_factura"`
	CreatedAt     time.Time          `json:"fecha"`
}

// SaleListResponse listado de ventas, más recientes primero.
type SaleListResponse struct {
	Items []SaleResponse `json:"items"`
}
