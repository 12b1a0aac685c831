package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Métodos de pago aceptados.
const (
	PaymentCash     = "efectivo"
	PaymentCard     = "tarjeta"
	PaymentTransfer = "transferencia"
)

// UnscopedNumbering es el scope de numeración cuando el cajero no tiene sucursal.
const UnscopedNumbering = "unscoped"

// ValidPaymentMethod indica si m es un método de pago conocido.
func ValidPaymentMethod(m string) bool {
	switch m {
	case PaymentCash, PaymentCard, PaymentTransfer:
		return true
	}
	return false
}

// SaleItem línea de venta embebida en Sale (no direccionable por separado).
type SaleItem struct {
	ProductID string
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
	Subtotal  decimal.Decimal
}

// Sale venta inmutable una vez creada.
type Sale struct {
	ID             string
	TenantID       string
	BranchID       string
	SessionID      string
	CashierID      string
	Items          []SaleItem
	Subtotal       decimal.Decimal
	Tax            decimal.Decimal
	Total          decimal.Decimal
	PaymentMethod  string
	InvoiceNumber  string
	NumberingScope string // sucursal o UnscopedNumbering; InvoiceNumber es único dentro de él
	CreatedAt      time.Time
}

// SaleFilter filtros para listar ventas.
type SaleFilter struct {
	CashierID string
	BranchID  string
	SessionID string
	From      time.Time // inclusivo; cero = sin límite
	To        time.Time // exclusivo; cero = sin límite
	Limit     int
}

// Matches indica si la venta cumple el filtro.
func (f SaleFilter) Matches(s *Sale) bool {
	if f.CashierID != "" && s.CashierID != f.CashierID {
		return false
	}
	if f.BranchID != "" && s.BranchID != f.BranchID {
		return false
	}
	if f.SessionID != "" && s.SessionID != f.SessionID {
		return false
	}
	if !f.From.IsZero() && s.CreatedAt.Before(f.From) {
		return false
	}
	if !f.To.IsZero() && !s.CreatedAt.Before(f.To) {
		return false
	}
	return true
}
