package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"route-consolidation-service/internal/adapters/repositories"
	"route-consolidation-service/internal/config"
	"route-consolidation-service/internal/platform/db"

	"github.com/joho/godotenv"
)

// dbtool creates the schema and optionally loads parcel seed data.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	cfg, err := config.Load(config.Get("CONFIG_PATH", ""))
	if err != nil {
		log.Fatal(err)
	}

	seedPath := flag.String("seed", config.Get("SEED_PATH", "data/seeds/parcels.json"), "parcel seed file; empty skips seeding")
	flag.Parse()

	conn, err := db.Open(cfg.Database.Driver, cfg.Database.URL)
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	if err := initAndSeed(context.Background(), conn, cfg.Database.Driver, *seedPath); err != nil {
		log.Fatal(err)
	}
}

func initAndSeed(ctx context.Context, conn *sql.DB, driver, seedPath string) error {
	dialect, err := repositories.DialectFor(driver)
	if err != nil {
		return err
	}

	log.Println("Initializing database schema...")
	if err := repositories.InitSchema(ctx, conn, dialect); err != nil {
		return fmt.Errorf("schema initialization failed: %w", err)
	}
	log.Println("Schema ready.")

	if seedPath == "" {
		return nil
	}

	log.Println("Seeding database...")
	n, err := repositories.SeedFromJSON(ctx, repositories.NewSQLParcelRepository(conn, dialect), seedPath)
	if err != nil {
		return fmt.Errorf("seeding failed: %w", err)
	}
	log.Printf("Seeding complete. parcels=%d", n)

	return nil
}
