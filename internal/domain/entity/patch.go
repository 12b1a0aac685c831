package entity

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Ventas-api/internal/domain"
)

// ProductPatch actualización parcial de Product. Barcode y WeightPrice admiten null.
type ProductPatch struct {
	Name        Optional[string]          `json:"nombre"`
	Barcode     Optional[string]          `json:"codigo_barras"`
	Price       Optional[decimal.Decimal] `json:"precio"`
	WeightPrice Optional[decimal.Decimal] `json:"precio_por_peso"`
	CategoryID  Optional[string]          `json:"categoria_id"`
	Stock       Optional[decimal.Decimal] `json:"stock"`
	MinStock    Optional[decimal.Decimal] `json:"stock_minimo"`
	Active      Optional[bool]            `json:"activo"`
}

// Apply es la única función de merge para Product. Aplica sobre una copia y
// solo devuelve el resultado si todas las reglas se cumplen.
func (p ProductPatch) Apply(dst Product) (Product, error) {
	if err := assign("nombre", p.Name, &dst.Name); err != nil {
		return dst, err
	}
	assignNullable(p.Barcode, &dst.Barcode)
	if dst.Barcode != nil && *dst.Barcode == "" {
		dst.Barcode = nil
	}
	if err := assign("precio", p.Price, &dst.Price); err != nil {
		return dst, err
	}
	assignNullable(p.WeightPrice, &dst.WeightPrice)
	if err := assign("categoria_id", p.CategoryID, &dst.CategoryID); err != nil {
		return dst, err
	}
	if err := assign("stock", p.Stock, &dst.Stock); err != nil {
		return dst, err
	}
	if err := assign("stock_minimo", p.MinStock, &dst.MinStock); err != nil {
		return dst, err
	}
	if err := assign("activo", p.Active, &dst.Active); err != nil {
		return dst, err
	}
	if dst.Name == "" {
		return dst, fmt.Errorf("%w: nombre vacío", domain.ErrInvalidInput)
	}
	if err := validatePricing(dst.Price, dst.WeightPrice, dst.Stock, dst.MinStock); err != nil {
		return dst, err
	}
	return dst, nil
}

// BranchProductPatch actualización parcial del override de sucursal. WeightPrice admite null.
type BranchProductPatch struct {
	Price       Optional[decimal.Decimal] `json:"precio"`
	WeightPrice Optional[decimal.Decimal] `json:"precio_por_peso"`
	Stock       Optional[decimal.Decimal] `json:"stock"`
	MinStock    Optional[decimal.Decimal] `json:"stock_minimo"`
	Active      Optional[bool]            `json:"activo"`
}

// Apply merge de BranchProduct con las mismas reglas que ProductPatch.
func (p BranchProductPatch) Apply(dst BranchProduct) (BranchProduct, error) {
	if err := assign("precio", p.Price, &dst.Price); err != nil {
		return dst, err
	}
	assignNullable(p.WeightPrice, &dst.WeightPrice)
	if err := assign("stock", p.Stock, &dst.Stock); err != nil {
		return dst, err
	}
	if err := assign("stock_minimo", p.MinStock, &dst.MinStock); err != nil {
		return dst, err
	}
	if err := assign("activo", p.Active, &dst.Active); err != nil {
		return dst, err
	}
	if err := validatePricing(dst.Price, dst.WeightPrice, dst.Stock, dst.MinStock); err != nil {
		return dst, err
	}
	return dst, nil
}

func validatePricing(price decimal.Decimal, weightPrice *decimal.Decimal, stock, minStock decimal.Decimal) error {
	if price.IsNegative() || stock.IsNegative() || minStock.IsNegative() {
		return fmt.Errorf("%w: precio y stock no pueden ser negativos", domain.ErrInvalidInput)
	}
	if weightPrice != nil && weightPrice.IsNegative() {
		return fmt.Errorf("%w: precio por peso negativo", domain.ErrInvalidInput)
	}
	return nil
}
