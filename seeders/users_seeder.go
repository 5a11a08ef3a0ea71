package seeders

import (
	"context"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"

	"dispatch-system/pkg/constants"
)

var defaultUsers = []struct {
	Name     string
	Email    string
	Password string
	Role     string
}{
	{Name: "Administrator", Email: "admin@dispatch.local", Password: "admin123", Role: constants.RoleAdmin},
	{Name: "Dispatcher", Email: "dispatcher@dispatch.local", Password: "dispatch123", Role: constants.RoleDispatcher},
}

func seedUsers(ctx context.Context, db *pgxpool.Pool) error {
	for _, u := range defaultUsers {
		var existingID uint64
		err := db.QueryRow(ctx, "SELECT id FROM users WHERE email = $1", u.Email).Scan(&existingID)
		if err == nil {
			log.Printf("  user %s already exists, skipping", u.Email)
			continue
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("failed to hash password for %s: %w", u.Email, err)
		}

		_, err = db.Exec(ctx,
			`INSERT INTO users (name, email, password_hash, role, is_active)
			 VALUES ($1, $2, $3, $4, TRUE)
			 ON CONFLICT (email) DO NOTHING`,
			u.Name, u.Email, string(hash), u.Role,
		)
		if err != nil {
			return fmt.Errorf("failed to insert user %s: %w", u.Email, err)
		}
		log.Printf("  created user %s (%s)", u.Email, u.Role)
	}
	return nil
}
