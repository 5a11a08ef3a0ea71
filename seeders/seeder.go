package seeders

import (
	"context"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
)

// SeedUsers creates the admin and dispatcher accounts if they do not exist.
func SeedUsers(db *pgxpool.Pool) {
	ctx := context.Background()
	log.Println("seeding users...")

	if err := seedUsers(ctx, db); err != nil {
		log.Fatalf("user seeding failed: %v", err)
	}
	log.Println("user seeding done")
}

// SeedInstallers loads the sample installer roster.
func SeedInstallers(db *pgxpool.Pool) {
	ctx := context.Background()
	log.Println("seeding installers...")

	if err := seedInstallers(ctx, db); err != nil {
		log.Fatalf("installer seeding failed: %v", err)
	}
	log.Println("installer seeding done")
}
