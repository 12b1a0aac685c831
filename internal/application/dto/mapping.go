package dto

import "github.com/jhoicas/Ventas-api/internal/domain/entity"

// FromSale convierte una venta persistida en su respuesta.
func FromSale(s *entity.Sale) SaleResponse {
	items := make([]SaleItemResponse, 0, len(s.Items))
	for _, it := range s.Items {
		items = append(items, SaleItemResponse{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
			Subtotal:  it.Subtotal,
		})
	}
	return SaleResponse{
		ID:            s.ID,
		SessionID:     s.SessionID,
		CashierID:     s.CashierID,
		BranchID:      s.BranchID,
		Items:         items,
		Subtotal:      s.Subtotal,
		Tax:           s.Tax,
		Total:         s.Total,
		PaymentMethod: s.PaymentMethod,
		InvoiceNumber: s.InvoiceNumber,
		CreatedAt:     s.CreatedAt,
	}
}

// FromSession convierte una sesión de caja en su respuesta.
func FromSession(s *entity.CashSession) CashSessionResponse {
	return CashSessionResponse{
		ID:             s.ID,
		UserID:         s.UserID,
		BranchID:       s.BranchID,
		OpeningAmount:  s.OpeningAmount,
		MontoVentas:    s.MontoVentas,
		MontoRetiros:   s.MontoRetiros,
		Status:         s.Status,
		OpeningNotes:   s.OpeningNotes,
		OpenedAt:       s.OpenedAt,
		ClosingAmount:  s.ClosingAmount,
		ExpectedAmount: s.ExpectedAmount,
		Difference:     s.Difference,
		ClosingNotes:   s.ClosingNotes,
		ClosedAt:       s.ClosedAt,
	}
}

// FromMovement convierte una fila del ledger en su respuesta.
func FromMovement(m *entity.CashMovement) CashMovementResponse {
	return CashMovementResponse{
		ID:          m.ID,
		Type:        m.Type,
		Amount:      m.Amount,
		Description: m.Description,
		SaleID:      m.SaleID,
		CreatedAt:   m.CreatedAt,
	}
}

// FromProduct convierte un producto en su respuesta.
func FromProduct(p *entity.Product) ProductResponse {
	return ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Barcode:     p.Barcode,
		Type:        p.Type,
		Price:       p.Price,
		WeightPrice: p.WeightPrice,
		CategoryID:  p.CategoryID,
		Stock:       p.Stock,
		MinStock:    p.MinStock,
		Active:      p.Active,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// FromBranchProduct convierte un override de sucursal en su respuesta.
func FromBranchProduct(bp *entity.BranchProduct) BranchProductResponse {
	return BranchProductResponse{
		ID:          bp.ID,
		ProductID:   bp.ProductID,
		BranchID:    bp.BranchID,
		Price:       bp.Price,
		WeightPrice: bp.WeightPrice,
		Stock:       bp.Stock,
		MinStock:    bp.MinStock,
		Active:      bp.Active,
		UpdatedAt:   bp.UpdatedAt,
	}
}
