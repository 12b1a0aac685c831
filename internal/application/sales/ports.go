package sales

import (
	"context"
	"time"
)

// IdempotencyStore reserva claves Idempotency-Key por tenant.
//
// Claim devuelve (saleID, true) si la clave ya se completó con esa venta, ("", false) si la
// reservó para este llamador, y domain.ErrRequestInFlight si otra solicitud la tiene tomada.
type IdempotencyStore interface {
	Claim(ctx context.Context, tenantID, key string, ttl time.Duration) (saleID string, done bool, err error)
	Complete(ctx context.Context, tenantID, key, saleID string, ttl time.Duration) error
	Release(ctx context.Context, tenantID, key string) error
}
