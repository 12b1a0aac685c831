package memory

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Ventas-api/internal/domain/entity"
)

func cloneDecimal(d *decimal.Decimal) *decimal.Decimal {
	if d == nil {
		return nil
	}
	v := *d
	return &v
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func cloneProduct(p *entity.Product) *entity.Product {
	c := *p
	c.Barcode = cloneString(p.Barcode)
	c.WeightPrice = cloneDecimal(p.WeightPrice)
	return &c
}

func cloneBranchProduct(bp *entity.BranchProduct) *entity.BranchProduct {
	c := *bp
	c.WeightPrice = cloneDecimal(bp.WeightPrice)
	return &c
}

func cloneSession(s *entity.CashSession) *entity.CashSession {
	c := *s
	c.ClosingAmount = cloneDecimal(s.ClosingAmount)
	c.ExpectedAmount = cloneDecimal(s.ExpectedAmount)
	c.Difference = cloneDecimal(s.Difference)
	if s.ClosedAt != nil {
		t := *s.ClosedAt
		c.ClosedAt = &t
	}
	return &c
}

func cloneMovement(m *entity.CashMovement) *entity.CashMovement {
	c := *m
	c.SaleID = cloneString(m.SaleID)
	return &c
}

func cloneSale(s *entity.Sale) *entity.Sale {
	c := *s
	c.Items = append([]entity.SaleItem(nil), s.Items...)
	return &c
}
