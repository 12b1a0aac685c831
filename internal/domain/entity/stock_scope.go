package entity

import "github.com/shopspring/decimal"

// StockScope identifica el contador de stock autoritativo para una línea de venta:
// el override (producto, sucursal) si BranchProductID no está vacío, si no el producto global.
type StockScope struct {
	ProductID       string
	BranchID        string
	BranchProductID string
	ProductType     string
}

// IsBranch indica si el scope es un override de sucursal.
func (s StockScope) IsBranch() bool { return s.BranchProductID != "" }

// Key devuelve una clave canónica del scope dentro del tenant.
func (s StockScope) Key() string {
	if s.IsBranch() {
		return "bp:" + s.BranchProductID
	}
	return "p:" + s.ProductID
}

// DecrementFor devuelve cuánto se descuenta del stock para la cantidad vendida:
// piso de la cantidad en productos por unidad, la cantidad literal en productos por peso.
func (s StockScope) DecrementFor(quantity decimal.Decimal) decimal.Decimal {
	if s.ProductType == ProductTypeWeight {
		return quantity
	}
	return quantity.Floor()
}

// ResolvedItem resultado del Inventory Resolver para una línea.
type ResolvedItem struct {
	ProductID   string
	ProductName string
	UnitPrice   decimal.Decimal
	Scope       StockScope
}
