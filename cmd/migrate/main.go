package main

import (
	"database/sql"
	"flag"
	"log"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"dispatch-system/pkg/config"
)

func main() {
	cmd := flag.String("cmd", "up", "migration command: up|down|status|version")
	dir := flag.String("dir", "migrations", "migrations directory")
	flag.Parse()

	cfg := config.New()

	db, err := sql.Open("pgx", cfg.Postgres.DSN)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	if err := goose.SetDialect("postgres"); err != nil {
		log.Fatalf("failed to set dialect: %v", err)
	}

	switch *cmd {
	case "up":
		err = goose.Up(db, *dir)
	case "down":
		err = goose.Down(db, *dir)
	case "status":
		err = goose.Status(db, *dir)
	case "version":
		err = goose.Version(db, *dir)
	default:
		log.Fatalf("unknown command %q", *cmd)
	}
	if err != nil {
		log.Fatalf("migration %s failed: %v", *cmd, err)
	}
}
