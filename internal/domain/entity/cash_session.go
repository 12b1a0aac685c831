package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de la sesión de caja. abierta -> cerrada (terminal).
const (
	SessionStatusOpen   = "abierta"
	SessionStatusClosed = "cerrada"
)

// CashSession es el periodo de caja de un cajero. A lo sumo una abierta por (tenant, usuario).
type CashSession struct {
	ID             string
	TenantID       string
	BranchID       string
	UserID         string
	OpeningAmount  decimal.Decimal
	MontoVentas    decimal.Decimal // acumulado de ventas acreditadas
	MontoRetiros   decimal.Decimal // acumulado de retiros
	Status         string
	OpeningNotes   string
	OpenedAt       time.Time
	ClosingAmount  *decimal.Decimal
	ExpectedAmount *decimal.Decimal
	Difference     *decimal.Decimal
	ClosingNotes   string
	ClosedAt       *time.Time
}

// IsOpen indica si la sesión admite ventas y retiros.
func (s *CashSession) IsOpen() bool { return s.Status == SessionStatusOpen }

// Expected calcula el efectivo esperado: apertura + ventas - retiros.
func (s *CashSession) Expected() decimal.Decimal {
	return s.OpeningAmount.Add(s.MontoVentas).Sub(s.MontoRetiros)
}

// SessionFilter filtros para listar sesiones (el tenant lo fija el handle del repositorio).
type SessionFilter struct {
	UserID   string
	BranchID string
	Status   string
	Limit    int
}
