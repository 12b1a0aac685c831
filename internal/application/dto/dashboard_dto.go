package dto

import "github.com/shopspring/decimal"

// DashboardStatsDTO respuesta de GET /api/dashboard/stats.
type DashboardStatsDTO struct {
	TodaySales   SalesTotalsDTO    `json:"ventas_hoy"`
	MonthlySales SalesTotalsDTO    `json:"ventas_mes"`
	Products     ProductTotalsDTO  `json:"productos"`
	LowStock     []ProductResponse `json:"productos_bajo_stock"`
	DateLabel    string            `json:"date_label"` // ej: "Febrero 2026"
}

// SalesTotalsDTO cantidad y monto de ventas de un periodo.
type SalesTotalsDTO struct {
	Total decimal.Decimal `json:"total"`
	Count int             `json:"cantidad"`
}

// ProductTotalsDTO conteos del catálogo activo.
type ProductTotalsDTO struct {
	Total    int `json:"total"`
	LowStock int `json:"bajo_stock"`
}
