package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"monitor/internal/domain/entity"
)

const statusTTL = time.Hour

// RedisRepo caches the latest prediction per machine so status lookups
// skip the database on the hot path.
type RedisRepo struct {
	Client *redis.Client
}

func NewRedisRepo(client *redis.Client) *RedisRepo {
	return &RedisRepo{Client: client}
}

func (r *RedisRepo) SetStatus(ctx context.Context, machineID string, result *entity.PredictionResult) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return err
	}
	return r.Client.Set(ctx, "machine_status:"+machineID, payload, statusTTL).Err()
}

func (r *RedisRepo) GetStatus(ctx context.Context, machineID string) (*entity.PredictionResult, error) {
	raw, err := r.Client.Get(ctx, "machine_status:"+machineID).Bytes()
	if err != nil {
		return nil, err
	}

	result := &entity.PredictionResult{}
	if err := json.Unmarshal(raw, result); err != nil {
		return nil, err
	}
	return result, nil
}
