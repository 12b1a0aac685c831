package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de producto.
const (
	ProductTypeUnit   = "unidad"   // se vende por unidades enteras
	ProductTypeWeight = "por_peso" // se vende por peso (cantidades fraccionarias)
)

// Product representa la entrada global del catálogo de una empresa (tenant).
// Stock solo lo modifica el Stock Ledger cuando no hay override de sucursal para la venta.
type Product struct {
	ID          string
	TenantID    string
	Name        string
	Barcode     *string // único por tenant cuando está presente
	Type        string
	Price       decimal.Decimal
	WeightPrice *decimal.Decimal // precio por peso (opcional)
	CategoryID  string
	Stock       decimal.Decimal
	MinStock    decimal.Decimal
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ValidProductType indica si t es un tipo de producto conocido.
func ValidProductType(t string) bool {
	return t == ProductTypeUnit || t == ProductTypeWeight
}
