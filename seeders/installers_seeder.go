package seeders

import (
	"context"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
)

var sampleInstallers = []struct {
	Name   string
	Email  string
	Phone  string
	Skills string
}{
	{Name: "John Tan", Email: "john.tan@dispatch.local", Phone: "+65 9123 0001", Skills: "fibre, router setup"},
	{Name: "Ahmad Rahim", Email: "ahmad.rahim@dispatch.local", Phone: "+65 9123 0002", Skills: "fibre, cabling"},
	{Name: "Wei Liang", Email: "wei.liang@dispatch.local", Phone: "+65 9123 0003", Skills: "router setup, mesh"},
	{Name: "Suresh Kumar", Email: "suresh.kumar@dispatch.local", Phone: "+65 9123 0004", Skills: "cabling, commercial"},
}

func seedInstallers(ctx context.Context, db *pgxpool.Pool) error {
	for _, i := range sampleInstallers {
		var existingID uint64
		err := db.QueryRow(ctx, "SELECT id FROM installers WHERE name = $1", i.Name).Scan(&existingID)
		if err == nil {
			log.Printf("  installer %s already exists, skipping", i.Name)
			continue
		}

		_, err = db.Exec(ctx,
			`INSERT INTO installers (name, email, phone, skills, is_active)
			 VALUES ($1, $2, $3, $4, TRUE)`,
			i.Name, i.Email, i.Phone, i.Skills,
		)
		if err != nil {
			return fmt.Errorf("failed to insert installer %s: %w", i.Name, err)
		}
		log.Printf("  created installer %s", i.Name)
	}
	return nil
}
