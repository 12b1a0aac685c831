package memory

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Ventas-api/internal/domain"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
)

func (r *tenantRepos) stockLock(scope entity.StockScope) string {
	return r.k("stock", scope.Key())
}

type stockRepo struct{ *tenantRepos }

// stockRef devuelve un puntero al campo Stock del registro del scope. Requiere s.mu.
func (r stockRepo) stockRef(scope entity.StockScope) (*decimal.Decimal, error) {
	if scope.IsBranch() {
		bp, ok := r.s.branchProducts[r.k(scope.BranchProductID)]
		if !ok {
			return nil, domain.ErrProductNotFound
		}
		return &bp.Stock, nil
	}
	p, ok := r.s.products[r.k(scope.ProductID)]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	return &p.Stock, nil
}

func (r stockRepo) DecrementIfAvailable(_ context.Context, scope entity.StockScope, required, decrement decimal.Decimal) (bool, error) {
	u, done := r.begin()
	defer done()
	u.lock(r.stockLock(scope))

	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	ref, err := r.stockRef(scope)
	if err != nil {
		return false, err
	}
	if ref.LessThan(required) {
		return false, nil
	}
	*ref = ref.Sub(decrement)
	u.onRollback(func() {
		if ref, err := r.stockRef(scope); err == nil {
			*ref = ref.Add(decrement)
		}
	})
	return true, nil
}

func (r stockRepo) Current(_ context.Context, scope entity.StockScope) (decimal.Decimal, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	ref, err := r.stockRef(scope)
	if err != nil {
		return decimal.Zero, err
	}
	return *ref, nil
}

func (r stockRepo) Set(_ context.Context, scope entity.StockScope, quantity decimal.Decimal) error {
	u, done := r.begin()
	defer done()
	u.lock(r.stockLock(scope))

	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	ref, err := r.stockRef(scope)
	if err != nil {
		return err
	}
	prev := *ref
	*ref = quantity
	u.onRollback(func() {
		if ref, err := r.stockRef(scope); err == nil {
			*ref = prev
		}
	})
	return nil
}

type counterRepo struct{ *tenantRepos }

func (r counterRepo) Increment(_ context.Context, scope string) (int64, error) {
	u, done := r.begin()
	defer done()
	ck := r.k("counter", scope)
	u.lock(ck)

	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	next := r.s.counters[ck] + 1
	r.s.counters[ck] = next
	u.onRollback(func() {
		if next == 1 {
			delete(r.s.counters, ck)
			return
		}
		r.s.counters[ck] = next - 1
	})
	return next, nil
}

type settingsRepo struct{ *tenantRepos }

func (r settingsRepo) TaxRate(_ context.Context) (*decimal.Decimal, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	rate, ok := r.s.taxRates[r.tenant]
	if !ok {
		return nil, nil
	}
	return &rate, nil
}

func (r settingsRepo) SetTaxRate(_ context.Context, rate decimal.Decimal) error {
	u, done := r.begin()
	defer done()

	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	prev, had := r.s.taxRates[r.tenant]
	r.s.taxRates[r.tenant] = rate
	u.onRollback(func() {
		if had {
			r.s.taxRates[r.tenant] = prev
			return
		}
		delete(r.s.taxRates, r.tenant)
	})
	return nil
}
