package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/jhoicas/Ventas-api/internal/domain"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
)

type productRepo struct{ *tenantRepos }

func (r productRepo) Create(_ context.Context, product *entity.Product) error {
	u, done := r.begin()
	defer done()
	if product.Barcode != nil {
		u.lock(r.k("barcode", *product.Barcode))
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	pk := r.k(product.ID)
	if _, exists := r.s.products[pk]; exists {
		return fmt.Errorf("%w: producto %s", domain.ErrDuplicate, product.ID)
	}
	var bk string
	if product.Barcode != nil {
		bk = r.k(*product.Barcode)
		if _, taken := r.s.barcodes[bk]; taken {
			return fmt.Errorf("%w: código de barras %s", domain.ErrDuplicate, *product.Barcode)
		}
		r.s.barcodes[bk] = product.ID
	}
	c := cloneProduct(product)
	c.TenantID = r.tenant
	r.s.products[pk] = c
	u.onRollback(func() {
		delete(r.s.products, pk)
		if bk != "" {
			delete(r.s.barcodes, bk)
		}
	})
	return nil
}

func (r productRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.products[r.k(id)]
	if !ok {
		return nil, nil
	}
	return cloneProduct(p), nil
}

func (r productRepo) GetByBarcode(ctx context.Context, barcode string) (*entity.Product, error) {
	r.s.mu.RLock()
	id, ok := r.s.barcodes[r.k(barcode)]
	r.s.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	return r.GetByID(ctx, id)
}

func (r productRepo) Update(_ context.Context, product *entity.Product) error {
	u, done := r.begin()
	defer done()
	if product.Barcode != nil {
		u.lock(r.k("barcode", *product.Barcode))
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	pk := r.k(product.ID)
	prev, ok := r.s.products[pk]
	if !ok {
		return domain.ErrProductNotFound
	}
	var newKey string
	if product.Barcode != nil {
		newKey = r.k(*product.Barcode)
		if owner, taken := r.s.barcodes[newKey]; taken && owner != product.ID {
			return fmt.Errorf("%w: código de barras %s", domain.ErrDuplicate, *product.Barcode)
		}
	}
	var oldKey string
	if prev.Barcode != nil {
		oldKey = r.k(*prev.Barcode)
		delete(r.s.barcodes, oldKey)
	}
	if newKey != "" {
		r.s.barcodes[newKey] = product.ID
	}

	c := cloneProduct(product)
	c.TenantID = r.tenant
	c.Stock = prev.Stock
	c.CreatedAt = prev.CreatedAt
	r.s.products[pk] = c
	u.onRollback(func() {
		restored := cloneProduct(prev)
		restored.Stock = r.s.products[pk].Stock
		r.s.products[pk] = restored
		if newKey != "" {
			delete(r.s.barcodes, newKey)
		}
		if oldKey != "" {
			r.s.barcodes[oldKey] = product.ID
		}
	})
	return nil
}

func (r productRepo) CountActive(_ context.Context) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	n := 0
	for _, p := range r.s.products {
		if p.TenantID == r.tenant && p.Active {
			n++
		}
	}
	return n, nil
}

func (r productRepo) ListActive(_ context.Context, limit int) ([]*entity.Product, error) {
	return r.listActive(limit, func(*entity.Product) bool { return true }), nil
}

func (r productRepo) ListLowStock(_ context.Context, limit int) ([]*entity.Product, error) {
	return r.listActive(limit, func(p *entity.Product) bool { return p.Stock.LessThanOrEqual(p.MinStock) }), nil
}

func (r productRepo) listActive(limit int, keep func(*entity.Product) bool) []*entity.Product {
	r.s.mu.RLock()
	list := make([]*entity.Product, 0)
	for _, p := range r.s.products {
		if p.TenantID == r.tenant && p.Active && keep(p) {
			list = append(list, cloneProduct(p))
		}
	}
	r.s.mu.RUnlock()
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	if limit > 0 && len(list) > limit {
		list = list[:limit]
	}
	return list
}

type branchProductRepo struct{ *tenantRepos }

func (r branchProductRepo) Get(ctx context.Context, productID, branchID string) (*entity.BranchProduct, error) {
	r.s.mu.RLock()
	id, ok := r.s.branchIndex[r.k(productID, branchID)]
	r.s.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	return r.GetByID(ctx, id)
}

func (r branchProductRepo) GetByID(_ context.Context, id string) (*entity.BranchProduct, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	bp, ok := r.s.branchProducts[r.k(id)]
	if !ok {
		return nil, nil
	}
	return cloneBranchProduct(bp), nil
}

func (r branchProductRepo) Upsert(_ context.Context, bp *entity.BranchProduct) error {
	u, done := r.begin()
	defer done()
	ik := r.k(bp.ProductID, bp.BranchID)
	u.lock("bp-index/" + ik)

	r.s.mu.RLock()
	existingID, exists := r.s.branchIndex[ik]
	r.s.mu.RUnlock()
	if exists {
		bp.ID = existingID
	}
	u.lock(r.stockLock(entity.StockScope{BranchProductID: bp.ID}))

	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	bk := r.k(bp.ID)
	prev := r.s.branchProducts[bk]
	c := cloneBranchProduct(bp)
	c.TenantID = r.tenant
	if prev != nil {
		c.CreatedAt = prev.CreatedAt
		bp.CreatedAt = prev.CreatedAt
	}
	r.s.branchProducts[bk] = c
	r.s.branchIndex[ik] = bp.ID
	u.onRollback(func() {
		if prev == nil {
			delete(r.s.branchProducts, bk)
			delete(r.s.branchIndex, ik)
			return
		}
		r.s.branchProducts[bk] = prev
	})
	return nil
}

func (r branchProductRepo) Update(_ context.Context, bp *entity.BranchProduct) error {
	u, done := r.begin()
	defer done()

	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	bk := r.k(bp.ID)
	prev, ok := r.s.branchProducts[bk]
	if !ok {
		return fmt.Errorf("%w: override de sucursal %s", domain.ErrNotFound, bp.ID)
	}
	c := cloneBranchProduct(bp)
	c.TenantID = r.tenant
	c.ProductID = prev.ProductID
	c.BranchID = prev.BranchID
	c.Stock = prev.Stock
	c.CreatedAt = prev.CreatedAt
	r.s.branchProducts[bk] = c
	u.onRollback(func() {
		restored := cloneBranchProduct(prev)
		restored.Stock = r.s.branchProducts[bk].Stock
		r.s.branchProducts[bk] = restored
	})
	return nil
}
