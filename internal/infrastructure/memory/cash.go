package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Ventas-api/internal/domain"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
)

type sessionRepo struct{ *tenantRepos }

func (r sessionRepo) sessionLock(id string) string { return r.k("session", id) }

func (r sessionRepo) Create(_ context.Context, session *entity.CashSession) error {
	u, done := r.begin()
	defer done()
	u.lock(r.k("open", session.UserID))
	u.lock(r.sessionLock(session.ID))

	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	ok := r.k(session.UserID)
	if _, open := r.s.openByUser[ok]; open && session.IsOpen() {
		return domain.ErrSessionAlreadyOpen
	}
	sk := r.k(session.ID)
	if _, exists := r.s.sessions[sk]; exists {
		return fmt.Errorf("%w: sesión %s", domain.ErrDuplicate, session.ID)
	}
	c := cloneSession(session)
	c.TenantID = r.tenant
	r.s.sessions[sk] = c
	if c.IsOpen() {
		r.s.openByUser[ok] = c.ID
	}
	u.onRollback(func() {
		delete(r.s.sessions, sk)
		if r.s.openByUser[ok] == c.ID {
			delete(r.s.openByUser, ok)
		}
	})
	return nil
}

func (r sessionRepo) GetByID(_ context.Context, id string) (*entity.CashSession, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	s, ok := r.s.sessions[r.k(id)]
	if !ok {
		return nil, nil
	}
	return cloneSession(s), nil
}

func (r sessionRepo) GetForUpdate(ctx context.Context, id string) (*entity.CashSession, error) {
	if r.u != nil {
		r.u.lock(r.sessionLock(id))
	}
	return r.GetByID(ctx, id)
}

func (r sessionRepo) GetOpenByUser(ctx context.Context, userID string) (*entity.CashSession, error) {
	r.s.mu.RLock()
	id, ok := r.s.openByUser[r.k(userID)]
	r.s.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	return r.GetByID(ctx, id)
}

func (r sessionRepo) List(_ context.Context, filter entity.SessionFilter) ([]*entity.CashSession, error) {
	r.s.mu.RLock()
	list := make([]*entity.CashSession, 0)
	for _, s := range r.s.sessions {
		if s.TenantID != r.tenant {
			continue
		}
		if filter.UserID != "" && s.UserID != filter.UserID {
			continue
		}
		if filter.BranchID != "" && s.BranchID != filter.BranchID {
			continue
		}
		if filter.Status != "" && s.Status != filter.Status {
			continue
		}
		list = append(list, cloneSession(s))
	}
	r.s.mu.RUnlock()

	sort.SliceStable(list, func(i, j int) bool { return list[i].OpenedAt.After(list[j].OpenedAt) })
	if filter.Limit > 0 && len(list) > filter.Limit {
		list = list[:filter.Limit]
	}
	return list, nil
}

// addTo incrementa uno de los acumulados de una sesión abierta.
func (r sessionRepo) addTo(id string, amount decimal.Decimal, field func(*entity.CashSession) *decimal.Decimal) (*entity.CashSession, error) {
	u, done := r.begin()
	defer done()
	u.lock(r.sessionLock(id))

	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	sk := r.k(id)
	s, ok := r.s.sessions[sk]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	if !s.IsOpen() {
		return nil, domain.ErrSessionNotOpen
	}
	ref := field(s)
	*ref = ref.Add(amount)
	u.onRollback(func() {
		if s, ok := r.s.sessions[sk]; ok {
			ref := field(s)
			*ref = ref.Sub(amount)
		}
	})
	return cloneSession(s), nil
}

func (r sessionRepo) AddSales(_ context.Context, id string, amount decimal.Decimal) (*entity.CashSession, error) {
	return r.addTo(id, amount, func(s *entity.CashSession) *decimal.Decimal { return &s.MontoVentas })
}

func (r sessionRepo) AddWithdrawal(_ context.Context, id string, amount decimal.Decimal) (*entity.CashSession, error) {
	return r.addTo(id, amount, func(s *entity.CashSession) *decimal.Decimal { return &s.MontoRetiros })
}

func (r sessionRepo) Finalize(_ context.Context, session *entity.CashSession) error {
	u, done := r.begin()
	defer done()
	u.lock(r.sessionLock(session.ID))

	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	sk := r.k(session.ID)
	prev, ok := r.s.sessions[sk]
	if !ok {
		return domain.ErrSessionNotFound
	}
	if !prev.IsOpen() {
		return domain.ErrSessionAlreadyClosed
	}
	c := cloneSession(session)
	c.TenantID = r.tenant
	c.Status = entity.SessionStatusClosed
	r.s.sessions[sk] = c
	ok2 := r.k(prev.UserID)
	delete(r.s.openByUser, ok2)
	u.onRollback(func() {
		r.s.sessions[sk] = prev
		r.s.openByUser[ok2] = prev.ID
	})
	return nil
}

type movementRepo struct{ *tenantRepos }

func (r movementRepo) Append(_ context.Context, movement *entity.CashMovement) error {
	u, done := r.begin()
	defer done()

	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	mk := r.k(movement.SessionID)
	c := cloneMovement(movement)
	c.TenantID = r.tenant
	r.s.movements[mk] = append(r.s.movements[mk], c)
	u.onRollback(func() {
		list := r.s.movements[mk]
		for i := len(list) - 1; i >= 0; i-- {
			if list[i].ID == c.ID {
				r.s.movements[mk] = append(list[:i:i], list[i+1:]...)
				return
			}
		}
	})
	return nil
}

func (r movementRepo) ListBySession(_ context.Context, sessionID string) ([]*entity.CashMovement, error) {
	r.s.mu.RLock()
	src := r.s.movements[r.k(sessionID)]
	list := make([]*entity.CashMovement, 0, len(src))
	for _, m := range src {
		list = append(list, cloneMovement(m))
	}
	r.s.mu.RUnlock()
	sort.SliceStable(list, func(i, j int) bool { return list[i].CreatedAt.Before(list[j].CreatedAt) })
	return list, nil
}
