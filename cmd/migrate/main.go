package main

import (
	"flag"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/sachins-devloper/work-tracking/internal/store/pg"
)

func main() {
	log.SetFlags(0)
	_ = godotenv.Load()

	dsn := flag.String("dsn", os.Getenv("TRACKER_PG_DSN"), "PostgreSQL DSN")
	flag.Parse()

	if *dsn == "" {
		log.Fatal("missing DSN: provide via -dsn or TRACKER_PG_DSN")
	}
	if len(flag.Args()) == 0 {
		log.Fatal("usage: migrate [up|down]")
	}

	store, err := pg.Open(*dsn)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer store.Close()

	switch flag.Arg(0) {
	case "up":
		err = store.ApplyMigrations()
	case "down":
		err = store.RollbackMigrations()
	default:
		log.Fatalf("unknown command %q", flag.Arg(0))
	}
	if err != nil {
		log.Fatalf("migrate %s: %v", flag.Arg(0), err)
	}
}
