package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"dispatch-system/pkg/constants"
	apperrors "dispatch-system/pkg/errors"
)

type fakePermissionRepo struct {
	byRole map[string][]string
	calls  int
}

func (r *fakePermissionRepo) GetPermissionsByRole(ctx context.Context, role string) ([]string, error) {
	r.calls++
	return r.byRole[role], nil
}

type fakeCacheRepo struct {
	entries map[string]string
}

func newFakeCacheRepo() *fakeCacheRepo {
	return &fakeCacheRepo{entries: make(map[string]string)}
}

func (c *fakeCacheRepo) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	c.entries[key] = value.(string)
	return nil
}

func (c *fakeCacheRepo) Get(ctx context.Context, key string) (string, error) {
	v, ok := c.entries[key]
	if !ok {
		return "", apperrors.ErrNotFound
	}
	return v, nil
}

func (c *fakeCacheRepo) Del(ctx context.Context, key ...string) error {
	for _, k := range key {
		delete(c.entries, k)
	}
	return nil
}

func (c *fakeCacheRepo) Incr(ctx context.Context, key string) (int64, error) { return 0, nil }

func (c *fakeCacheRepo) Expire(ctx context.Context, key string, expiration time.Duration) (bool, error) {
	return true, nil
}

func TestAuthPermissionService_Check(t *testing.T) {
	permissions := &fakePermissionRepo{byRole: map[string][]string{
		constants.RoleDispatcher: {"orders:manage", "assignments:manage"},
	}}
	cache := newFakeCacheRepo()
	svc := NewAuthPermissionService(permissions, cache, zap.NewNop())

	t.Run("admin bypasses the permission table", func(t *testing.T) {
		err := svc.Check(actorCtx(1, "Administrator", constants.RoleAdmin), constants.PermissionOrdersClearAll)
		assert.NoError(t, err)
		assert.Zero(t, permissions.calls)
	})

	t.Run("granted permission passes and gets cached", func(t *testing.T) {
		ctx := actorCtx(7, "Dispatcher One", constants.RoleDispatcher)
		require.NoError(t, svc.Check(ctx, "orders:manage"))
		assert.Equal(t, 1, permissions.calls)

		// Second check is served from the cache.
		require.NoError(t, svc.Check(ctx, "assignments:manage"))
		assert.Equal(t, 1, permissions.calls)
	})

	t.Run("missing permission is forbidden", func(t *testing.T) {
		err := svc.Check(actorCtx(7, "Dispatcher One", constants.RoleDispatcher), constants.PermissionOrdersClearAll)
		assert.ErrorIs(t, err, apperrors.ErrForbidden)
	})

	t.Run("no role in context is forbidden", func(t *testing.T) {
		err := svc.Check(context.Background(), "orders:manage")
		assert.ErrorIs(t, err, apperrors.ErrForbidden)
	})

	t.Run("poisoned cache entry falls through to the database", func(t *testing.T) {
		cache.entries["role_permissions:dispatcher"] = "{not json"
		before := permissions.calls
		err := svc.Check(actorCtx(7, "Dispatcher One", constants.RoleDispatcher), "orders:manage")
		require.NoError(t, err)
		assert.Equal(t, before+1, permissions.calls)
	})
}
