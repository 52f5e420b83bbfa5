package progress

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	keyPrefix  = "oneconsig:import:"
	DefaultTTL = 24 * time.Hour
)

// RedisStore guarda o job serializado em JSON, com expiração, para que
// qualquer réplica da API consiga responder o GET de progresso.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisStore{client: client, ttl: ttl}
}

func (s *RedisStore) Save(ctx context.Context, job *ImportJob) error {
	body, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("erro ao serializar job: %w", err)
	}
	if err := s.client.Set(ctx, keyPrefix+job.ID, body, s.ttl).Err(); err != nil {
		return fmt.Errorf("erro ao salvar job no redis: %w", err)
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, id string) (*ImportJob, error) {
	body, err := s.client.Get(ctx, keyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrJobNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("erro ao ler job no redis: %w", err)
	}

	var job ImportJob
	if err := json.Unmarshal(body, &job); err != nil {
		return nil, fmt.Errorf("job corrompido no redis: %w", err)
	}
	return &job, nil
}
