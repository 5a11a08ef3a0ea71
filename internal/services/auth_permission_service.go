package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"dispatch-system/internal/repositories"
	"dispatch-system/pkg/constants"
	apperrors "dispatch-system/pkg/errors"
	"dispatch-system/pkg/utils"
)

const rolePermissionsTTL = 10 * time.Minute

type AuthPermissionServiceInterface interface {
	Check(ctx context.Context, permission string) error
}

// AuthPermissionService resolves role capabilities with a Redis cache in
// front of the role_permissions table. A cache miss or a broken cache falls
// through to the database, never to a denial.
type AuthPermissionService struct {
	permissionRepo repositories.PermissionRepositoryInterface
	cacheRepo      repositories.CacheRepositoryInterface
	logger         *zap.Logger
}

func NewAuthPermissionService(
	permissionRepo repositories.PermissionRepositoryInterface,
	cacheRepo repositories.CacheRepositoryInterface,
	logger *zap.Logger,
) AuthPermissionServiceInterface {
	return &AuthPermissionService{
		permissionRepo: permissionRepo,
		cacheRepo:      cacheRepo,
		logger:         logger,
	}
}

func (s *AuthPermissionService) Check(ctx context.Context, permission string) error {
	role, err := utils.GetUserRoleFromCtx(ctx)
	if err != nil {
		return err
	}
	if role == constants.RoleAdmin {
		return nil
	}

	permissions, err := s.permissionsForRole(ctx, role)
	if err != nil {
		return err
	}
	for _, p := range permissions {
		if p == permission {
			return nil
		}
	}
	return apperrors.ErrForbidden
}

func (s *AuthPermissionService) permissionsForRole(ctx context.Context, role string) ([]string, error) {
	key := fmt.Sprintf(constants.CacheKeyRolePermissions, role)

	if cached, err := s.cacheRepo.Get(ctx, key); err == nil {
		var permissions []string
		if err := json.Unmarshal([]byte(cached), &permissions); err == nil {
			return permissions, nil
		}
		// Poisoned entry, drop it and reload.
		_ = s.cacheRepo.Del(ctx, key)
	}

	permissions, err := s.permissionRepo.GetPermissionsByRole(ctx, role)
	if err != nil {
		return nil, err
	}

	if encoded, err := json.Marshal(permissions); err == nil {
		if err := s.cacheRepo.Set(ctx, key, string(encoded), rolePermissionsTTL); err != nil {
			s.logger.Warn("failed to cache role permissions", zap.String("role", role), zap.Error(err))
		}
	}
	return permissions, nil
}
