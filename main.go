package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"hotelgram/bot"
	"hotelgram/config"
	"hotelgram/content"
	"hotelgram/httputil"
	"hotelgram/logging"
	"hotelgram/publisher"
	"hotelgram/scheduler"
	"hotelgram/scraper"
	"hotelgram/server"
	"hotelgram/services"
	"hotelgram/storage"
	"hotelgram/workers"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("Starting hotelgram...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	log.Printf("Loaded %d target locations", len(cfg.Locations))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pgStore, err := storage.NewPostgresStore(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("Failed to connect to Postgres: %v", err)
	}
	defer pgStore.Close()

	if err := pgStore.Migrate(ctx); err != nil {
		log.Fatalf("Failed to migrate schema: %v", err)
	}
	log.Printf("Connected to Postgres: %s:%d/%s", cfg.Database.Host, cfg.Database.Port, cfg.Database.Name)

	runStore, err := storage.NewSQLiteStore(cfg.RunDBPath)
	if err != nil {
		log.Fatalf("Failed to open SQLite: %v", err)
	}
	defer runStore.Close()
	log.Printf("Run history database: %s", cfg.RunDBPath)

	clients := httputil.NewClients()
	extractor := scraper.NewFirecrawlClient(cfg.Firecrawl.APIKey, clients.Extraction)
	generator := content.NewGenerator(cfg.Gemini.APIKey, cfg.Gemini.Model, clients.Generation)
	webhook := publisher.NewWebhook(cfg.Webhook.URL, clients.Delivery)

	logs := logging.NewBuffer(cfg.LogSize)
	logs.Add("System bot ready.")

	b := bot.New(pgStore, extractor, generator, webhook, logs, services.NormalizeHotels, cfg.Locations)
	b.SetRunRecorder(runStore)

	sched := scheduler.New(ctx, b)
	defer sched.Shutdown()

	mediaWorker := workers.NewMediaWorker(pgStore, clients.Media, cfg.MediaDir)
	go mediaWorker.Run(ctx, 10, 5*time.Minute)
	log.Println("Media worker started")

	srv := server.New(b, sched, pgStore, logs)
	srv.SetRunLister(runStore)
	srv.SetMediaWorker(mediaWorker)

	httpServer := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: srv.Handler(),
	}

	go func() {
		log.Printf("HTTP server listening on %s", cfg.HTTPAddr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("HTTP server error: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("Shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP shutdown error: %v", err)
	}

	cancel()
	log.Println("Goodbye!")
}
