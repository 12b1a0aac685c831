package postgres

import "github.com/jhoicas/Ventas-api/internal/domain/repository"

// tenantRepos agrupa los repositorios de un tenant sobre un mismo Querier (pool o tx).
// Cada sentencia filtra por tenant_id = el valor fijado aquí.
type tenantRepos struct {
	q      Querier
	tenant string
}

func newTenantRepos(q Querier, tenantID string) *tenantRepos {
	return &tenantRepos{q: q, tenant: tenantID}
}

func (r *tenantRepos) TenantID() string { return r.tenant }

func (r *tenantRepos) Products() repository.ProductRepository {
	return &ProductRepo{q: r.q, tenant: r.tenant}
}

func (r *tenantRepos) BranchProducts() repository.BranchProductRepository {
	return &BranchProductRepo{q: r.q, tenant: r.tenant}
}

func (r *tenantRepos) Stock() repository.StockRepository {
	return &StockRepo{q: r.q, tenant: r.tenant}
}

func (r *tenantRepos) InvoiceCounters() repository.InvoiceCounterRepository {
	return &InvoiceCounterRepo{q: r.q, tenant: r.tenant}
}

func (r *tenantRepos) Sessions() repository.CashSessionRepository {
	return &CashSessionRepo{q: r.q, tenant: r.tenant}
}

func (r *tenantRepos) Movements() repository.CashMovementRepository {
	return &CashMovementRepo{q: r.q, tenant: r.tenant}
}

func (r *tenantRepos) Sales() repository.SaleRepository {
	return &SaleRepo{q: r.q, tenant: r.tenant}
}

func (r *tenantRepos) Settings() repository.SettingsRepository {
	return &SettingsRepo{q: r.q, tenant: r.tenant}
}
