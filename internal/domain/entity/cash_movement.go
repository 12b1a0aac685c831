package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento de caja.
const (
	CashMovementOpen       = "apertura"
	CashMovementSale       = "venta"
	CashMovementWithdrawal = "retiro"
	CashMovementClose      = "cierre"
)

// CashMovement fila inmutable del ledger de caja. Nunca se actualiza ni se borra.
type CashMovement struct {
	ID          string
	TenantID    string
	SessionID   string
	Type        string
	Amount      decimal.Decimal
	Description string
	SaleID      *string
	CreatedAt   time.Time
}
