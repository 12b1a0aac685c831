package cash

import (
	"context"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/Ventas-api/internal/application/dto"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
)

// Report arma el reporte de la sesión: movimientos en orden, ventas y totales por método de pago.
// Solo lee registros ya persistidos.
func (m *SessionManager) Report(ctx context.Context, caller entity.Caller, sessionID string) (*dto.SessionReportResponse, error) {
	repos := m.store.ForTenant(caller.TenantID)
	session, err := m.authorized(ctx, repos, caller, sessionID, false)
	if err != nil {
		return nil, err
	}

	var (
		movements []*entity.CashMovement
		sales     []*entity.Sale
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		movements, err = m.ledger.List(gctx, repos, sessionID)
		return err
	})
	g.Go(func() error {
		var err error
		sales, err = repos.Sales().List(gctx, entity.SaleFilter{SessionID: sessionID})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := &dto.SessionReportResponse{
		Session:   dto.FromSession(session),
		Movements: make([]dto.CashMovementResponse, 0, len(movements)),
		Sales:     make([]dto.SaleResponse, 0, len(sales)),
		Summary:   summarize(sales),
	}
	for _, mv := range movements {
		out.Movements = append(out.Movements, dto.FromMovement(mv))
	}
	for _, s := range sales {
		out.Sales = append(out.Sales, dto.FromSale(s))
	}
	return out, nil
}

func summarize(sales []*entity.Sale) dto.SessionSummary {
	sum := dto.SessionSummary{
		SalesCount:    len(sales),
		SalesAmount:   decimal.Zero,
		ByPaymentType: make(map[string]decimal.Decimal),
	}
	for _, s := range sales {
		sum.SalesAmount = sum.SalesAmount.Add(s.Total)
		sum.ByPaymentType[s.PaymentMethod] = sum.ByPaymentType[s.PaymentMethod].Add(s.Total)
	}
	return sum
}
