package config

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViper_Defaults(t *testing.T) {
	cfg, err := FromViper(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, StoreDriverPostgres, cfg.Store.Driver)
	assert.True(t, cfg.Sales.TaxRate.Equal(decimal.RequireFromString("0.12")))
	assert.Equal(t, "FAC", cfg.Sales.InvoicePrefix)
	assert.Equal(t, 24*time.Hour, cfg.Sales.IdempotencyTTL)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
	assert.Equal(t, 25, cfg.DB.MaxConns)
	assert.Equal(t, 2, cfg.DB.MinConns)
}

func TestFromViper_Overrides(t *testing.T) {
	v := viper.New()
	v.Set("STORE_DRIVER", "MEMORY")
	v.Set("SALES_TAX_RATE", "0.19")
	v.Set("SALES_INVOICE_PREFIX", "POS")
	v.Set("IDEMPOTENCY_TTL_MINUTES", "30")
	v.Set("HTTP_PORT", "9090")

	cfg, err := FromViper(v)
	require.NoError(t, err)
	assert.Equal(t, StoreDriverMemory, cfg.Store.Driver)
	assert.True(t, cfg.Sales.TaxRate.Equal(decimal.RequireFromString("0.19")))
	assert.Equal(t, "POS", cfg.Sales.InvoicePrefix)
	assert.Equal(t, 30*time.Minute, cfg.Sales.IdempotencyTTL)
	assert.Equal(t, 9090, cfg.HTTP.Port)
}

func TestFromViper_ProduccionYTasaCero(t *testing.T) {
	v := viper.New()
	v.Set("APP_ENV", "production")
	v.Set("SALES_TAX_RATE", "0")

	cfg, err := FromViper(v)
	require.NoError(t, err)
	assert.Equal(t, StoreDriverPostgres, cfg.Store.Driver)
	assert.True(t, cfg.Sales.TaxRate.IsZero())
}

func TestFromViper_Invalid(t *testing.T) {
	cases := map[string]map[string]string{
		"driver desconocido":  {"STORE_DRIVER": "mongo"},
		"tasa no numérica":    {"SALES_TAX_RATE": "doce"},
		"tasa fuera de rango": {"SALES_TAX_RATE": "1.5"},
		"ttl no positivo":     {"IDEMPOTENCY_TTL_MINUTES": "0"},
		"pool invertido":      {"DB_MAX_CONNS": "2", "DB_MIN_CONNS": "5"},
		"memoria en prod":     {"STORE_DRIVER": "memory", "APP_ENV": "production"},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			v := viper.New()
			for k, val := range env {
				v.Set(k, val)
			}
			_, err := FromViper(v)
			assert.Error(t, err)
		})
	}
}

func TestDBConfig_DSNEscapaPassword(t *testing.T) {
	c := DBConfig{Host: "db", Port: 5432, User: "u", Password: "p@ss/word", DBName: "ventas", SSLMode: "disable"}
	assert.Equal(t, "postgres://u:p%40ss%2Fword@db:5432/ventas?sslmode=disable", c.DSN())

	c.DatabaseURL = "postgres://x@y/z"
	assert.Equal(t, "postgres://x@y/z", c.ConnectionString())
}
