package main

import (
	"flag"
	"log"

	"dispatch-system/pkg/config"
	"dispatch-system/pkg/database/postgresql"
	"dispatch-system/seeders"
)

func main() {
	runUsers := flag.Bool("users", false, "seed admin and dispatcher accounts")
	runInstallers := flag.Bool("installers", false, "seed the sample installer roster")
	runAll := flag.Bool("all", false, "run every seeder")
	flag.Parse()

	if !*runUsers && !*runInstallers && !*runAll {
		log.Println("no seeder selected")
		flag.PrintDefaults()
		return
	}

	cfg := config.New()
	db := postgresql.ConnectDB(cfg.Postgres.DSN)
	defer db.Close()

	if *runAll || *runUsers {
		seeders.SeedUsers(db)
	}
	if *runAll || *runInstallers {
		seeders.SeedInstallers(db)
	}

	log.Println("seeding complete")
}
