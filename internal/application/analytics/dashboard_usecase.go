// Package analytics contiene los indicadores del dashboard de ventas.
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Ventas-api/internal/application/dto"
	"github.com/jhoicas/Ventas-api/internal/domain"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

const lowStockLimit = 1000 // tope de productos listados con stock bajo

// DashboardUseCase genera el resumen de ventas del día y del mes, más el estado del catálogo.
//
// Solo lectura; no participa en el camino de escritura de ventas.
type DashboardUseCase struct {
	store repository.Store
	now   func() time.Time
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(store repository.Store) *DashboardUseCase {
	return &DashboardUseCase{store: store, now: time.Now}
}

// GetStats construye el DashboardStatsDTO. Un supervisor con sucursal solo ve las ventas
// de su sucursal; el catálogo es el del tenant.
//
// Cuatro consultas en paralelo:
//  1. Totals(hoy)
//  2. Totals(mes)
//  3. CountActive
//  4. ListLowStock
func (uc *DashboardUseCase) GetStats(ctx context.Context, caller entity.Caller) (*dto.DashboardStatsDTO, error) {
	if caller.Role != entity.RoleAdmin && caller.Role != entity.RoleSupervisor {
		return nil, domain.ErrForbidden
	}
	repos := uc.store.ForTenant(caller.TenantID)
	now := uc.now().UTC()

	// Hoy: [00:00, 00:00 de mañana)
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	todayEnd := todayStart.Add(24 * time.Hour)
	// Mes en curso: [día 1, mañana)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	branch := ""
	if caller.Role == entity.RoleSupervisor {
		branch = caller.BranchID
	}

	type totalsResult struct {
		count int
		total decimal.Decimal
		err   error
	}
	type countResult struct {
		n   int
		err error
	}
	type lowStockResult struct {
		products []*entity.Product
		err      error
	}

	todayCh := make(chan totalsResult, 1)
	monthCh := make(chan totalsResult, 1)
	activeCh := make(chan countResult, 1)
	lowCh := make(chan lowStockResult, 1)

	go func() {
		n, t, err := repos.Sales().Totals(ctx, entity.SaleFilter{BranchID: branch, From: todayStart, To: todayEnd})
		todayCh <- totalsResult{n, t, err}
	}()
	go func() {
		n, t, err := repos.Sales().Totals(ctx, entity.SaleFilter{BranchID: branch, From: monthStart, To: todayEnd})
		monthCh <- totalsResult{n, t, err}
	}()
	go func() {
		n, err := repos.Products().CountActive(ctx)
		activeCh <- countResult{n, err}
	}()
	go func() {
		list, err := repos.Products().ListLowStock(ctx, lowStockLimit)
		lowCh <- lowStockResult{list, err}
	}()

	today := <-todayCh
	month := <-monthCh
	active := <-activeCh
	low := <-lowCh

	if today.err != nil {
		return nil, fmt.Errorf("dashboard: ventas de hoy: %w", today.err)
	}
	if month.err != nil {
		return nil, fmt.Errorf("dashboard: ventas del mes: %w", month.err)
	}
	if active.err != nil {
		return nil, fmt.Errorf("dashboard: productos activos: %w", active.err)
	}
	if low.err != nil {
		return nil, fmt.Errorf("dashboard: stock bajo: %w", low.err)
	}

	lowStock := make([]dto.ProductResponse, 0, len(low.products))
	for _, p := range low.products {
		lowStock = append(lowStock, dto.FromProduct(p))
	}
	return &dto.DashboardStatsDTO{
		TodaySales:   dto.SalesTotalsDTO{Total: today.total.Round(2), Count: today.count},
		MonthlySales: dto.SalesTotalsDTO{Total: month.total.Round(2), Count: month.count},
		Products:     dto.ProductTotalsDTO{Total: active.n, LowStock: len(lowStock)},
		LowStock:     lowStock,
		DateLabel:    monthLabel(now),
	}, nil
}

// monthLabel devuelve una etiqueta legible del mes, ej: "Febrero 2026".
func monthLabel(t time.Time) string {
	months := [...]string{
		"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
		"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
	}
	return fmt.Sprintf("%s %d", months[t.Month()-1], t.Year())
}
