package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/vadilazy/HSE-App/internal/config"
	"github.com/vadilazy/HSE-App/internal/events"
	"github.com/vadilazy/HSE-App/internal/export"
	"github.com/vadilazy/HSE-App/internal/forms"
	"github.com/vadilazy/HSE-App/internal/httpx"
	"github.com/vadilazy/HSE-App/internal/kv"
	"github.com/vadilazy/HSE-App/internal/observability"
	"github.com/vadilazy/HSE-App/internal/synth"
)

func main() {
	cfg := config.Load()
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, cleanup, err := openStorage(cfg)
	if err != nil {
		log.Fatalf("server: storage: %v", err)
	}
	if cleanup != nil {
		defer cleanup()
	}

	templates, err := forms.NewTemplateStore(ctx, store)
	if err != nil {
		log.Fatalf("server: templates: %v", err)
	}
	submissions, err := forms.NewSubmissionStore(ctx, store)
	if err != nil {
		log.Fatalf("server: submissions: %v", err)
	}

	var publisher *events.Publisher
	if brokers := cfg.Brokers(); len(brokers) > 0 {
		publisher, err = events.NewPublisher(events.Config{
			Brokers:  brokers,
			Topic:    cfg.KafkaTopic,
			ClientID: cfg.KafkaClientID,
		})
		if err != nil {
			log.Fatalf("server: events: %v", err)
		}
		defer publisher.Close()
	}

	var builder *synth.Builder
	if cfg.SynthURL != "" {
		builder = synth.NewBuilder(synth.NewClient(cfg.SynthURL, cfg.SynthAPIKey, cfg.SynthTimeout))
	} else {
		log.Printf("server: SYNTH_URL not set, AI form builder disabled")
	}

	router := httpx.NewRouter(60 * time.Second)
	router.Method(http.MethodGet, "/metrics", observability.Handler())
	router.Route("/api", func(api chi.Router) {
		forms.NewHandler(templates, submissions, publisher).RegisterRoutes(api)
		export.NewHandler(templates, submissions).RegisterRoutes(api)
		synth.NewHandler(builder, templates, publisher).RegisterRoutes(api)
	})

	addr := fmt.Sprintf(":%s", cfg.HTTPPort)
	server := httpx.NewServer(addr, router)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("server: shutdown: %v", err)
		}
	}()

	log.Printf("server: listening on %s", addr)
	if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("server: stopped: %v", err)
	}
}

// openStorage selects the kv backend from the DSN: a postgres:// DSN, a
// sqlite:<path> DSN, or the default file-per-collection data directory.
func openStorage(cfg *config.AppConfig) (kv.Store, func(), error) {
	dsn := strings.TrimSpace(cfg.StorageDSN)

	switch {
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		store, err := kv.OpenPostgres(dsn)
		if err != nil {
			return nil, nil, err
		}
		log.Printf("server: using postgres storage")
		return store, nil, nil

	case strings.HasPrefix(dsn, "sqlite:"):
		store, err := kv.OpenSQLite(strings.TrimPrefix(dsn, "sqlite:"))
		if err != nil {
			return nil, nil, err
		}
		log.Printf("server: using sqlite storage")
		return store, func() { store.Close() }, nil

	case dsn == "" || strings.HasPrefix(dsn, "file:"):
		dir := strings.TrimPrefix(dsn, "file:")
		if dir == "" {
			dir = cfg.DataDir
		}
		store, err := kv.NewFileStore(dir)
		if err != nil {
			return nil, nil, err
		}
		log.Printf("server: using file storage in %s", dir)
		return store, nil, nil
	}

	return nil, nil, fmt.Errorf("unrecognized STORAGE_DSN %q", dsn)
}
