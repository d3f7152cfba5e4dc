package ancillary

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	id "cadastre/pkg/domain"
)

const (
	financingKeyPrefix = "ancillary:financing:"
	regulationsKey     = "ancillary:regulations"
	providersKeyPrefix = "ancillary:providers:"
)

// Redis is the Redis-backed side-table store, shared across instances. Keys
// carry no TTL; the side tables are durable registry state.
type Redis struct {
	client *redis.Client
}

func NewRedis(client *redis.Client) *Redis {
	return &Redis{client: client}
}

func (s *Redis) SetFinancing(ctx context.Context, location id.Location, details string) error {
	return s.client.Set(ctx, financingKeyPrefix+location.String(), details, 0).Err()
}

func (s *Redis) GetFinancing(ctx context.Context, location id.Location) (string, error) {
	value, err := s.client.Get(ctx, financingKeyPrefix+location.String()).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get financing: %w", err)
	}
	return value, nil
}

func (s *Redis) SetRegulations(ctx context.Context, text string) error {
	return s.client.Set(ctx, regulationsKey, text, 0).Err()
}

func (s *Redis) GetRegulations(ctx context.Context) (string, error) {
	value, err := s.client.Get(ctx, regulationsKey).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get regulations: %w", err)
	}
	return value, nil
}

// SetProviders stores the ordered list as a JSON array. Order matters to
// callers, so a Redis set is unsuitable.
func (s *Redis) SetProviders(ctx context.Context, location id.Location, providers []id.Principal) error {
	encoded, err := json.Marshal(providers)
	if err != nil {
		return fmt.Errorf("encode providers: %w", err)
	}
	return s.client.Set(ctx, providersKeyPrefix+location.String(), encoded, 0).Err()
}

func (s *Redis) GetProviders(ctx context.Context, location id.Location) ([]id.Principal, error) {
	value, err := s.client.Get(ctx, providersKeyPrefix+location.String()).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get providers: %w", err)
	}
	var providers []id.Principal
	if err := json.Unmarshal([]byte(value), &providers); err != nil {
		return nil, fmt.Errorf("decode providers: %w", err)
	}
	return providers, nil
}
