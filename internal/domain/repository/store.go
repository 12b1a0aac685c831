package repository

import "context"

// TenantRepos es el handle de persistencia ligado a UN tenant. Ningún método de los
// repositorios recibe tenant_id: una consulta entre tenants no se puede expresar.
type TenantRepos interface {
	TenantID() string
	Products() ProductRepository
	BranchProducts() BranchProductRepository
	Stock() StockRepository
	InvoiceCounters() InvoiceCounterRepository
	Sessions() CashSessionRepository
	Movements() CashMovementRepository
	Sales() SaleRepository
	Settings() SettingsRepository
}

// Store entrega handles por tenant para lecturas fuera de transacción.
type Store interface {
	ForTenant(tenantID string) TenantRepos
}

// TxRunner ejecuta fn dentro de una unidad de trabajo atómica con repos atados a ella.
// Si fn retorna error se revierte todo lo escrito (rollback); si no, commit.
type TxRunner interface {
	RunTenant(ctx context.Context, tenantID string, fn func(repos TenantRepos) error) error
}
