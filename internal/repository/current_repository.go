package repository

import (
	"context"
	"encoding/json"
	"time"

	"worksheet_arc_backend/internal/model"
	"worksheet_arc_backend/internal/util"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

const (
	currentKeyPrefix = "arc:current:"
	lockKeyPrefix    = "arc:genlock:"

	// 当前文档是工作副本，持久副本在历史表里，过期可接受
	currentTTL = 30 * 24 * time.Hour
)

// CurrentRepository 当前展示文档的 Redis 存取。
// 每个 userKey 至多一份当前文档，编辑操作读改写整份 JSON。
type CurrentRepository struct {
	Redis *redis.Client
}

func NewCurrentRepository(rdb *redis.Client) *CurrentRepository {
	return &CurrentRepository{Redis: rdb}
}

func (r *CurrentRepository) Get(ctx context.Context, userKey string) (*model.Document, error) {
	raw, err := r.Redis.Get(ctx, currentKeyPrefix+userKey).Bytes()
	if err == redis.Nil {
		return nil, util.ErrNoCurrentActivity
	}
	if err != nil {
		return nil, err
	}
	var doc model.Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

func (r *CurrentRepository) Set(ctx context.Context, userKey string, doc *model.Document) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	return r.Redis.Set(ctx, currentKeyPrefix+userKey, raw, currentTTL).Err()
}

func (r *CurrentRepository) Clear(ctx context.Context, userKey string) error {
	return r.Redis.Del(ctx, currentKeyPrefix+userKey).Err()
}

// AcquireGenerationLock SETNX 生成锁：同一用户同时只允许一次生成。
// 锁值为随机 token 便于排查持有者，TTL 兜底，进程崩溃后锁自动过期。
func (r *CurrentRepository) AcquireGenerationLock(ctx context.Context, userKey string, ttl time.Duration) (bool, error) {
	return r.Redis.SetNX(ctx, lockKeyPrefix+userKey, uuid.NewString(), ttl).Result()
}

func (r *CurrentRepository) ReleaseGenerationLock(ctx context.Context, userKey string) error {
	return r.Redis.Del(ctx, lockKeyPrefix+userKey).Err()
}
