package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// OpenSessionRequest apertura de caja.
type OpenSessionRequest struct {
	OpeningAmount decimal.Decimal `json:"monto_inicial" validate:"gte=0"`
	Notes         string          `json:"observaciones" validate:"max=500"`
}

// CloseSessionRequest cierre de caja con el efectivo contado.
type CloseSessionRequest struct {
	ClosingAmount decimal.Decimal `json:"monto_final" validate:"gte=0"`
	Notes         string          `json:"observaciones" validate:"max=500"`
}

// WithdrawalRequest retiro de efectivo de una sesión abierta.
type WithdrawalRequest struct {
	Amount      decimal.Decimal `json:"monto" validate:"gt=0"`
	Description string          `json:"descripcion" validate:"max=500"`
}

// CashSessionResponse sesión de caja.
type CashSessionResponse struct {
	ID             string           `json:"id"`
	UserID         string           `json:"usuario_id"`
	BranchID       string           `json:"sucursal_id,omitempty"`
	OpeningAmount  decimal.Decimal  `json:"monto_inicial"`
	MontoVentas    decimal.Decimal  `json:"monto_ventas"`
	MontoRetiros   decimal.Decimal  `json:"monto_retiros"`
	Status         string           `json:"status"`
	OpeningNotes   string           `json:"observaciones_apertura,omitempty"`
	OpenedAt       time.Time        `json:"fecha_apertura"`
	ClosingAmount  *decimal.Decimal `json:"monto_final,omitempty"`
	ExpectedAmount *decimal.Decimal `json:"monto_esperado,omitempty"`
	Difference     *decimal.Decimal `json:"diferencia,omitempty"`
	ClosingNotes   string           `json:"observaciones,omitempty"`
	ClosedAt       *time.Time       `json:"fecha_cierre,omitempty"`
}

// CurrentSessionResponse sesión abierta del usuario; Session es null si no tiene.
type CurrentSessionResponse struct {
	Session *CashSessionResponse `json:"sesion"`
}

// CashSessionListResponse listado de sesiones.
type CashSessionListResponse struct {
	Items []CashSessionResponse `json:"items"`
}

// CashMovementResponse fila del ledger de caja.
type CashMovementResponse struct {
	ID          string          `json:"id"`
	Type        string          `json:"tipo"`
	Amount      decimal.Decimal `json:"monto"`
	Description string          `json:"descripcion"`
	SaleID      *string         `json:"venta_id,omitempty"`
	CreatedAt   time.Time       `json:"fecha"`
}

// SessionSummary agregados del reporte.
type SessionSummary struct {
	SalesCount    int                        `json:"total_ventas"`
	SalesAmount   decimal.Decimal            `json:"monto_ventas"`
	ByPaymentType map[string]decimal.Decimal `json:"por_metodo"`
}

// SessionReportResponse reporte de una sesión: movimientos ordenados, ventas y resumen.
type SessionReportResponse struct {
	Session   CashSessionResponse    `json:"sesion"`
	Movements []CashMovementResponse `json:"movimientos"`
	Sales     []SaleResponse         `json:"ventas"`
	Summary   SessionSummary         `json:"resumen"`
}
