package cache

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/Ventas-api/internal/application/sales"
	"github.com/jhoicas/Ventas-api/internal/domain"
)

const (
	defaultKeyPrefix = "ventas:idempotency:"
	pendingValue     = "pending"
	donePrefix       = "done:"
)

// RedisIdempotencyStore implementa sales.IdempotencyStore sobre Redis, para despliegues con
// varias instancias que comparten el estado de las claves.
type RedisIdempotencyStore struct {
	client    *redis.Client
	keyPrefix string
}

// RedisConfig conexión a Redis.
type RedisConfig struct {
	URL string
}

// NewRedisIdempotencyStore conecta con Redis y verifica la conexión.
func NewRedisIdempotencyStore(cfg RedisConfig) (*RedisIdempotencyStore, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("redis url: %w", err)
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("conexión a Redis: %w", err)
	}
	return NewRedisIdempotencyStoreWithClient(client, ""), nil
}

// NewRedisIdempotencyStoreWithClient usa un cliente existente.
func NewRedisIdempotencyStoreWithClient(client *redis.Client, keyPrefix string) *RedisIdempotencyStore {
	if keyPrefix == "" {
		keyPrefix = defaultKeyPrefix
	}
	return &RedisIdempotencyStore{client: client, keyPrefix: keyPrefix}
}

func (s *RedisIdempotencyStore) key(tenantID, key string) string {
	return s.keyPrefix + tenantID + ":" + key
}

// Claim reserva la clave con SETNX. Si ya existe, devuelve la venta asociada o
// domain.ErrRequestInFlight si la solicitud original no terminó.
func (s *RedisIdempotencyStore) Claim(ctx context.Context, tenantID, key string, ttl time.Duration) (string, bool, error) {
	k := s.key(tenantID, key)
	for attempt := 0; attempt < 2; attempt++ {
		ok, err := s.client.SetNX(ctx, k, pendingValue, ttl).Result()
		if err != nil {
			return "", false, fmt.Errorf("reservar clave de idempotencia: %w", err)
		}
		if ok {
			return "", false, nil
		}
		val, err := s.client.Get(ctx, k).Result()
		if errors.Is(err, redis.Nil) {
			// Expiró o se liberó entre SETNX y GET.
			continue
		}
		if err != nil {
			return "", false, fmt.Errorf("leer clave de idempotencia: %w", err)
		}
		if saleID, found := strings.CutPrefix(val, donePrefix); found {
			return saleID, true, nil
		}
		return "", false, domain.ErrRequestInFlight
	}
	return "", false, domain.ErrRequestInFlight
}

// Complete asocia la clave con la venta creada.
func (s *RedisIdempotencyStore) Complete(ctx context.Context, tenantID, key, saleID string, ttl time.Duration) error {
	if err := s.client.Set(ctx, s.key(tenantID, key), donePrefix+saleID, ttl).Err(); err != nil {
		return fmt.Errorf("completar clave de idempotencia: %w", err)
	}
	return nil
}

// Release libera una clave reservada cuya venta falló, para permitir el reintento.
func (s *RedisIdempotencyStore) Release(ctx context.Context, tenantID, key string) error {
	if err := s.client.Del(ctx, s.key(tenantID, key)).Err(); err != nil {
		return fmt.Errorf("liberar clave de idempotencia: %w", err)
	}
	return nil
}

// Ping verifica la conexión (health check).
func (s *RedisIdempotencyStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close cierra el cliente de Redis.
func (s *RedisIdempotencyStore) Close() error {
	return s.client.Close()
}

var _ sales.IdempotencyStore = (*RedisIdempotencyStore)(nil)
