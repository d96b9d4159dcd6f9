package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"alcocontrol/internal/domain/model"
	"alcocontrol/internal/domain/ports/repository"
	"alcocontrol/internal/infra/metrics"
	red "alcocontrol/internal/infra/redis"
)

var _ repository.UserRepository = (*userRepoCacheDecorator)(nil)

// userRepoCacheDecorator caches single-user lookups in Redis. The bot resolves
// the user by Telegram ID on nearly every update, which makes that lookup the
// hottest read in the system.
type userRepoCacheDecorator struct {
	inner repository.UserRepository
	cache red.RedisClient
	ttl   time.Duration
}

func NewUserRepoCacheDecorator(inner repository.UserRepository, cache red.RedisClient, ttl time.Duration) repository.UserRepository {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &userRepoCacheDecorator{inner: inner, cache: cache, ttl: ttl}
}

// For write operations, we must invalidate all possible keys for that user.
func (d *userRepoCacheDecorator) Save(ctx context.Context, qx any, u *model.User) error {
	_ = d.cache.Del(ctx, userIDKey(u.ID), userTgIDKey(u.TelegramID))
	return d.inner.Save(ctx, qx, u)
}

func (d *userRepoCacheDecorator) UpdateSettings(ctx context.Context, qx any, id string, settings map[string]any) error {
	if u, err := d.inner.FindByID(ctx, qx, id); err == nil {
		_ = d.cache.Del(ctx, userTgIDKey(u.TelegramID))
	}
	_ = d.cache.Del(ctx, userIDKey(id))
	return d.inner.UpdateSettings(ctx, qx, id, settings)
}

func (d *userRepoCacheDecorator) FindByID(ctx context.Context, qx any, id string) (*model.User, error) {
	return d.lookup(ctx, userIDKey(id), func() (*model.User, error) {
		return d.inner.FindByID(ctx, qx, id)
	})
}

func (d *userRepoCacheDecorator) FindByTelegramID(ctx context.Context, qx any, tgID int64) (*model.User, error) {
	return d.lookup(ctx, userTgIDKey(tgID), func() (*model.User, error) {
		return d.inner.FindByTelegramID(ctx, qx, tgID)
	})
}

// List and CountUsers are uncached: admin-only, not on the hot path.
func (d *userRepoCacheDecorator) List(ctx context.Context, qx any, offset, limit int) ([]*model.User, error) {
	return d.inner.List(ctx, qx, offset, limit)
}

func (d *userRepoCacheDecorator) CountUsers(ctx context.Context, qx any) (int, error) {
	return d.inner.CountUsers(ctx, qx)
}

func (d *userRepoCacheDecorator) lookup(ctx context.Context, key string, fetch func() (*model.User, error)) (*model.User, error) {
	val, err := d.cache.Get(ctx, key)
	if err == nil {
		var u model.User
		if json.Unmarshal([]byte(val), &u) == nil {
			metrics.IncCacheRequest("user", "hit")
			return &u, nil
		}
	}

	// Cache misses and Redis failures both fall through to Postgres.
	metrics.IncCacheRequest("user", "miss")
	u, err := fetch()
	if err != nil {
		return nil, err
	}
	if b, err := json.Marshal(u); err == nil {
		_ = d.cache.Set(ctx, key, b, d.ttl)
	}
	return u, nil
}

func userIDKey(id string) string    { return fmt.Sprintf("user:id:%s", id) }
func userTgIDKey(tgID int64) string { return fmt.Sprintf("user:tgid:%d", tgID) }
