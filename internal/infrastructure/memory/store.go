// Package memory implementa los puertos de persistencia en proceso.
// Se usa en desarrollo (STORE_DRIVER=memory) y en las pruebas de casos de uso.
//
// Cada unidad de trabajo toma locks por clave (scope de stock, contador, sesión) y los
// mantiene hasta el commit o rollback; las escrituras registran una función de undo que
// se aplica en orden inverso si la unidad falla. Las lecturas no bloquean y pueden ver
// escrituras aún no confirmadas de otra unidad.
package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/internal/domain/repository"
)

var (
	_ repository.Store    = (*Store)(nil)
	_ repository.TxRunner = (*Store)(nil)
)

// Store almacén en memoria multi-tenant. Las claves de los mapas empiezan por el tenant.
type Store struct {
	mu    sync.RWMutex
	locks keyLocks

	products       map[string]*entity.Product
	barcodes       map[string]string
	branchProducts map[string]*entity.BranchProduct
	branchIndex    map[string]string
	counters       map[string]int64
	sessions       map[string]*entity.CashSession
	openByUser     map[string]string
	movements      map[string][]*entity.CashMovement
	sales          map[string]*entity.Sale
	saleOrder      []string
	invoices       map[string]string
	taxRates       map[string]decimal.Decimal
}

// New construye un Store vacío.
func New() *Store {
	return &Store{
		products:       make(map[string]*entity.Product),
		barcodes:       make(map[string]string),
		branchProducts: make(map[string]*entity.BranchProduct),
		branchIndex:    make(map[string]string),
		counters:       make(map[string]int64),
		sessions:       make(map[string]*entity.CashSession),
		openByUser:     make(map[string]string),
		movements:      make(map[string][]*entity.CashMovement),
		sales:          make(map[string]*entity.Sale),
		invoices:       make(map[string]string),
		taxRates:       make(map[string]decimal.Decimal),
	}
}

// ForTenant devuelve repos en modo autocommit: cada operación es atómica por sí sola.
func (s *Store) ForTenant(tenantID string) repository.TenantRepos {
	return &tenantRepos{s: s, tenant: tenantID}
}

// RunTenant ejecuta fn como unidad de trabajo: todo o nada.
func (s *Store) RunTenant(ctx context.Context, tenantID string, fn func(repos repository.TenantRepos) error) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}
	u := newUnit(s)
	defer u.release()
	defer func() {
		if r := recover(); r != nil {
			u.rollback()
			panic(r)
		}
	}()
	if err := fn(&tenantRepos{s: s, tenant: tenantID, u: u}); err != nil {
		u.rollback()
		return err
	}
	if err := ctx.Err(); err != nil {
		u.rollback()
		return err
	}
	return nil
}

func key(parts ...string) string { return strings.Join(parts, "/") }

// keyLocks un mutex por clave lógica. Nunca se liberan; el número de claves está acotado
// por el catálogo, las sesiones y los scopes de numeración.
type keyLocks struct {
	m sync.Map
}

func (l *keyLocks) get(k string) *sync.Mutex {
	v, _ := l.m.LoadOrStore(k, &sync.Mutex{})
	return v.(*sync.Mutex)
}

// unit estado de una unidad de trabajo: locks tomados y undo log.
type unit struct {
	s    *Store
	held map[string]*sync.Mutex
	undo []func()
}

func newUnit(s *Store) *unit {
	return &unit{s: s, held: make(map[string]*sync.Mutex)}
}

// lock es reentrante dentro de la misma unidad.
func (u *unit) lock(k string) {
	if _, ok := u.held[k]; ok {
		return
	}
	m := u.s.locks.get(k)
	m.Lock()
	u.held[k] = m
}

// onRollback registra una función que se ejecuta con s.mu tomado.
func (u *unit) onRollback(f func()) {
	u.undo = append(u.undo, f)
}

func (u *unit) rollback() {
	u.s.mu.Lock()
	for i := len(u.undo) - 1; i >= 0; i-- {
		u.undo[i]()
	}
	u.s.mu.Unlock()
	u.undo = nil
}

func (u *unit) release() {
	for _, m := range u.held {
		m.Unlock()
	}
	u.held = nil
}

// tenantRepos implementa repository.TenantRepos. u es nil en modo autocommit.
type tenantRepos struct {
	s      *Store
	tenant string
	u      *unit
}

// begin devuelve la unidad en curso o una efímera que se libera con done.
func (r *tenantRepos) begin() (u *unit, done func()) {
	if r.u != nil {
		return r.u, func() {}
	}
	u = newUnit(r.s)
	return u, u.release
}

func (r *tenantRepos) k(parts ...string) string {
	return key(append([]string{r.tenant}, parts...)...)
}

func (r *tenantRepos) TenantID() string { return r.tenant }

func (r *tenantRepos) Products() repository.ProductRepository { return productRepo{r} }

func (r *tenantRepos) BranchProducts() repository.BranchProductRepository {
	return branchProductRepo{r}
}

func (r *tenantRepos) Stock() repository.StockRepository { return stockRepo{r} }

func (r *tenantRepos) InvoiceCounters() repository.InvoiceCounterRepository {
	return counterRepo{r}
}

func (r *tenantRepos) Sessions() repository.CashSessionRepository { return sessionRepo{r} }

func (r *tenantRepos) Movements() repository.CashMovementRepository { return movementRepo{r} }

func (r *tenantRepos) Sales() repository.SaleRepository { return saleRepo{r} }

func (r *tenantRepos) Settings() repository.SettingsRepository { return settingsRepo{r} }
