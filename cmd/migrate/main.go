// Command migrate applies or rolls back the database schema without starting the server.
package main

import (
	"flag"
	"log"
	"log/slog"
	"os"

	"user_backend/internal/platform/config"
	platformdb "user_backend/internal/platform/db"
	"user_backend/internal/platform/logger"
)

func main() {
	down := flag.Bool("down", false, "roll back every migration (PostgreSQL only)")
	flag.Parse()

	config.LoadDotEnv(".env")
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	logger.Setup(os.Stderr, cfg.LogLevel, cfg.LogFormat)

	// Migrations are driven explicitly below.
	dbCfg := cfg.DB
	dbCfg.RunMigrations = false

	db, err := platformdb.Open(dbCfg)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}

	if *down {
		if err := platformdb.Rollback(db, dbCfg.Driver); err != nil {
			log.Fatalf("rollback failed: %v", err)
		}
		slog.Info("all migrations rolled back", "driver", dbCfg.Driver)
		return
	}

	if err := platformdb.Migrate(db, dbCfg.Driver); err != nil {
		log.Fatalf("migration failed: %v", err)
	}
	slog.Info("migrations applied", "driver", dbCfg.Driver)
}
