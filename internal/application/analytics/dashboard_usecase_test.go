package analytics

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Ventas-api/internal/domain"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/internal/infrastructure/memory"
)

func TestDashboard_GetStats(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	repos := store.ForTenant("t1")
	now := time.Date(2026, 2, 15, 12, 0, 0, 0, time.UTC)

	require.NoError(t, repos.Products().Create(ctx, &entity.Product{ID: "a", Name: "Arroz", Type: entity.ProductTypeWeight, Stock: decimal.NewFromInt(1), MinStock: decimal.NewFromInt(5), Active: true}))
	require.NoError(t, repos.Products().Create(ctx, &entity.Product{ID: "b", Name: "Pan", Type: entity.ProductTypeUnit, Stock: decimal.NewFromInt(50), MinStock: decimal.NewFromInt(5), Active: true}))
	require.NoError(t, repos.Products().Create(ctx, &entity.Product{ID: "c", Name: "Viejo", Type: entity.ProductTypeUnit, Active: false}))

	sales := []*entity.Sale{
		{ID: "s1", BranchID: "b1", InvoiceNumber: "FAC-000001", NumberingScope: "b1", Total: decimal.RequireFromString("2.80"), CreatedAt: now.Add(-time.Hour)},
		{ID: "s2", BranchID: "b2", InvoiceNumber: "FAC-000001", NumberingScope: "b2", Total: decimal.RequireFromString("10.00"), CreatedAt: now.Add(-time.Hour)},
		{ID: "s3", BranchID: "b1", InvoiceNumber: "FAC-000002", NumberingScope: "b1", Total: decimal.RequireFromString("5.00"), CreatedAt: now.AddDate(0, 0, -3)},
		{ID: "s4", BranchID: "b1", InvoiceNumber: "FAC-000003", NumberingScope: "b1", Total: decimal.RequireFromString("99.00"), CreatedAt: now.AddDate(0, -1, 0)},
	}
	for _, s := range sales {
		require.NoError(t, repos.Sales().Create(ctx, s))
	}

	uc := NewDashboardUseCase(store)
	uc.now = func() time.Time { return now }

	t.Run("cajero no tiene acceso", func(t *testing.T) {
		_, err := uc.GetStats(ctx, entity.Caller{TenantID: "t1", UserID: "u1", Role: entity.RoleCashier})
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("admin ve el tenant", func(t *testing.T) {
		stats, err := uc.GetStats(ctx, entity.Caller{TenantID: "t1", UserID: "a1", Role: entity.RoleAdmin})
		require.NoError(t, err)
		assert.Equal(t, 2, stats.TodaySales.Count)
		assert.Equal(t, "12.80", stats.TodaySales.Total.StringFixed(2))
		assert.Equal(t, 3, stats.MonthlySales.Count)
		assert.Equal(t, "17.80", stats.MonthlySales.Total.StringFixed(2))
		assert.Equal(t, 2, stats.Products.Total)
		assert.Equal(t, 1, stats.Products.LowStock)
		require.Len(t, stats.LowStock, 1)
		assert.Equal(t, "Arroz", stats.LowStock[0].Name)
		assert.Equal(t, "Febrero 2026", stats.DateLabel)
	})

	t.Run("supervisor ve su sucursal", func(t *testing.T) {
		stats, err := uc.GetStats(ctx, entity.Caller{TenantID: "t1", UserID: "s1", Role: entity.RoleSupervisor, BranchID: "b1"})
		require.NoError(t, err)
		assert.Equal(t, 1, stats.TodaySales.Count)
		assert.Equal(t, "2.80", stats.TodaySales.Total.StringFixed(2))
		assert.Equal(t, 2, stats.MonthlySales.Count)
	})

	t.Run("otro tenant vacío", func(t *testing.T) {
		stats, err := uc.GetStats(ctx, entity.Caller{TenantID: "t2", UserID: "a1", Role: entity.RoleAdmin})
		require.NoError(t, err)
		assert.Zero(t, stats.TodaySales.Count)
		assert.Zero(t, stats.Products.Total)
		assert.Empty(t, stats.LowStock)
	})
}
