package main

import (
	"context"
	"database/sql"
	"flag"
	"log"
	"os/signal"
	"syscall"

	_ "modernc.org/sqlite"

	"github.com/shearsapp/shears/internal/config"
	"github.com/shearsapp/shears/internal/fields"
	"github.com/shearsapp/shears/internal/record"
	"github.com/shearsapp/shears/internal/server"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Read(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	db, err := sql.Open("sqlite", cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("opening database: %v", err)
	}
	defer db.Close()
	db.SetMaxOpenConns(1)

	store := record.NewSQLiteStore(db)
	if err := store.CreateTable(ctx); err != nil {
		log.Fatalf("running schema migration: %v", err)
	}
	log.Println("database migrated successfully")

	catalog := fields.DefaultCatalog()
	if cfg.CatalogPath != "" {
		if err := fields.LoadCatalogFile(cfg.CatalogPath, catalog); err != nil {
			log.Fatalf("loading field catalog: %v", err)
		}
		log.Printf("loaded field catalog from %s", cfg.CatalogPath)
	}

	if err := server.Run(ctx, server.Config{
		Port:    cfg.Port,
		Store:   store,
		Catalog: catalog,
	}); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
