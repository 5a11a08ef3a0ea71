package utils

import (
	"context"

	"dispatch-system/pkg/constants"
	"dispatch-system/pkg/contextkeys"
	apperrors "dispatch-system/pkg/errors"
)

func GetUserIDFromCtx(ctx context.Context) (uint64, error) {
	userID, ok := ctx.Value(contextkeys.UserIDKey).(uint64)
	if !ok || userID == 0 {
		return 0, apperrors.ErrUserIDNotFoundInContext
	}
	return userID, nil
}

func GetUserRoleFromCtx(ctx context.Context) (string, error) {
	role, ok := ctx.Value(contextkeys.UserRoleKey).(string)
	if !ok || role == "" {
		return "", apperrors.ErrForbidden
	}
	return role, nil
}

func GetUserNameFromCtx(ctx context.Context) string {
	name, _ := ctx.Value(contextkeys.UserNameKey).(string)
	return name
}

// RequireAdmin gates destructive operations on the role carried in the
// request context. Replaces any literal email comparison.
func RequireAdmin(ctx context.Context) error {
	role, err := GetUserRoleFromCtx(ctx)
	if err != nil {
		return err
	}
	if role != constants.RoleAdmin {
		return apperrors.ErrForbidden
	}
	return nil
}
