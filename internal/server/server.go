// Package server assembles all HTTP handlers and starts the server.
package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/shearsapp/shears/internal/fields"
	"github.com/shearsapp/shears/internal/handler"
	"github.com/shearsapp/shears/internal/record"
	"github.com/shearsapp/shears/internal/session"
	"github.com/shearsapp/shears/internal/widget"
	"github.com/shearsapp/shears/internal/wire"
)

const sessionIdleTimeout = 30 * time.Minute

// Config holds server configuration.
type Config struct {
	Port    int
	Store   record.Store
	Catalog *fields.Catalog
}

// Run starts the HTTP server with all routes registered.
func Run(ctx context.Context, cfg Config) error {
	r := chi.NewRouter()

	// Health check
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	widgets := widget.NewResolver()

	// --- Records ---
	rh := handler.NewRecordHandler(cfg.Store, cfg.Catalog, widgets)
	r.Post("/v1/records", rh.CreateRecord)
	r.Get("/v1/records", rh.ListRecords)
	r.Get("/v1/records/{id}", rh.GetRecord)
	r.Patch("/v1/records/{id}", rh.UpdateRecord)
	r.Delete("/v1/records/{id}", rh.DeleteRecord)
	r.Get("/v1/records/{id}/form", rh.RenderForm)

	// --- Schema ---
	sh := handler.NewSchemaHandler(cfg.Catalog)
	r.Get("/v1/schema", sh.ListRecordTypes)
	r.Get("/v1/schema/{recordType}", sh.GetRecordType)

	// --- Live form sessions ---
	sessions := session.NewManager()
	r.Handle("/v1/form", wire.NewHandler(sessions, cfg.Store, cfg.Catalog, widgets))

	go pruneSessions(ctx, sessions)

	// Wrap with middleware
	wrapped := handler.Recovery(handler.Logging(r))

	addr := fmt.Sprintf(":%d", cfg.Port)
	log.Printf("starting server on %s", addr)

	server := &http.Server{
		Addr:    addr,
		Handler: wrapped,
	}

	go func() {
		<-ctx.Done()
		server.Shutdown(context.Background())
	}()

	return server.ListenAndServe()
}

func pruneSessions(ctx context.Context, sessions *session.Manager) {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := sessions.PruneIdle(sessionIdleTimeout); n > 0 {
				log.Printf("server: pruned %d idle form sessions", n)
			}
		}
	}
}
