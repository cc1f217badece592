package db

import (
	"database/sql"
	"fmt"
	"log"

	"kivumart-be/internal/config"

	_ "github.com/lib/pq"
)

// InitDB opens the Postgres pool described by cfg and verifies it with
// a ping. Startup cannot proceed without a database, so failures are
// fatal rather than returned.
func InitDB(cfg *config.Config) *sql.DB {
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort,
	)

	conn, err := sql.Open("postgres", dsn)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	if err := conn.Ping(); err != nil {
		log.Fatalf("ping database: %v", err)
	}

	log.Println("database connection established")
	return conn
}
