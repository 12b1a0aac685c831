package memory

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Ventas-api/internal/domain"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
)

type saleRepo struct{ *tenantRepos }

func (r saleRepo) Create(_ context.Context, sale *entity.Sale) error {
	u, done := r.begin()
	defer done()

	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	sk := r.k(sale.ID)
	if _, exists := r.s.sales[sk]; exists {
		return fmt.Errorf("%w: venta %s", domain.ErrDuplicate, sale.ID)
	}
	ik := r.k(sale.NumberingScope, sale.InvoiceNumber)
	if _, taken := r.s.invoices[ik]; taken {
		return fmt.Errorf("%w: factura %s", domain.ErrDuplicate, sale.InvoiceNumber)
	}
	c := cloneSale(sale)
	c.TenantID = r.tenant
	r.s.sales[sk] = c
	r.s.invoices[ik] = sale.ID
	r.s.saleOrder = append(r.s.saleOrder, sk)
	u.onRollback(func() {
		delete(r.s.sales, sk)
		delete(r.s.invoices, ik)
		for i := len(r.s.saleOrder) - 1; i >= 0; i-- {
			if r.s.saleOrder[i] == sk {
				r.s.saleOrder = append(r.s.saleOrder[:i:i], r.s.saleOrder[i+1:]...)
				break
			}
		}
	})
	return nil
}

func (r saleRepo) GetByID(_ context.Context, id string) (*entity.Sale, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	s, ok := r.s.sales[r.k(id)]
	if !ok {
		return nil, nil
	}
	return cloneSale(s), nil
}

func (r saleRepo) List(_ context.Context, filter entity.SaleFilter) ([]*entity.Sale, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	list := make([]*entity.Sale, 0)
	for i := len(r.s.saleOrder) - 1; i >= 0; i-- {
		s := r.s.sales[r.s.saleOrder[i]]
		if s == nil || s.TenantID != r.tenant {
			continue
		}
		if !filter.Matches(s) {
			continue
		}
		list = append(list, cloneSale(s))
		if filter.Limit > 0 && len(list) >= filter.Limit {
			break
		}
	}
	return list, nil
}

func (r saleRepo) Totals(_ context.Context, filter entity.SaleFilter) (int, decimal.Decimal, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	count, total := 0, decimal.Zero
	for _, s := range r.s.sales {
		if s.TenantID != r.tenant || !filter.Matches(s) {
			continue
		}
		count++
		total = total.Add(s.Total)
	}
	return count, total, nil
}
