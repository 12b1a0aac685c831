package invoicing

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/internal/domain/repository"
)

// DefaultPrefix prefijo de factura si la configuración no define uno.
const DefaultPrefix = "FAC"

// Numberer asigna números de factura únicos y crecientes por scope de numeración.
// El contador se incrementa y lee en una sola operación del store; nunca se deriva
// del último número emitido.
type Numberer struct {
	prefix string
}

// NewNumberer construye el servicio con el prefijo dado.
func NewNumberer(prefix string) *Numberer {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &Numberer{prefix: prefix}
}

// ScopeFor devuelve el scope de numeración: la sucursal o UnscopedNumbering.
func ScopeFor(branchID string) string {
	if branchID == "" {
		return entity.UnscopedNumbering
	}
	return branchID
}

// Next incrementa el contador del scope y devuelve el número formateado.
func (n *Numberer) Next(ctx context.Context, repos repository.TenantRepos, scope string) (string, error) {
	value, err := repos.InvoiceCounters().Increment(ctx, scope)
	if err != nil {
		return "", fmt.Errorf("numeración de factura: %w", err)
	}
	return n.Format(value), nil
}

// Format devuelve <prefijo>-NNNNNN.
func (n *Numberer) Format(value int64) string {
	return fmt.Sprintf("%s-%06d", n.prefix, value)
}
