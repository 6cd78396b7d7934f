package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/aviscan-ph/aviscan/internal/config"
	"github.com/aviscan-ph/aviscan/internal/engine"
	"github.com/aviscan-ph/aviscan/internal/logging"
	"github.com/aviscan-ph/aviscan/internal/media"
	"github.com/aviscan-ph/aviscan/internal/media/local"
	"github.com/aviscan-ph/aviscan/internal/server"
	"github.com/aviscan-ph/aviscan/internal/store"
	"github.com/aviscan-ph/aviscan/internal/store/memory"
	"github.com/aviscan-ph/aviscan/internal/store/mongo"
	"github.com/aviscan-ph/aviscan/internal/store/postgres"

	// Register media providers.
	_ "github.com/aviscan-ph/aviscan/internal/media/supabase"
)

func main() {
	// A missing .env is fine; the environment still applies.
	_ = godotenv.Load()

	cfg := config.Load()
	logging.Init(cfg.Log.Format, logging.ParseLevel(cfg.Log.Level))

	// Load the model and label catalog. A mismatch between the two is a
	// startup failure: the service never serves without a working model.
	eng, err := engine.New(cfg.Engine.ModelPath, cfg.Engine.LabelsPath)
	if err != nil {
		log.Fatalf("failed to load model: %v", err)
	}
	defer eng.Close()

	// Resolve media provider.
	ctor, err := media.Get(cfg.Media.Provider)
	if err != nil {
		log.Fatalf("failed to get media provider: %v", err)
	}
	mediaStore, err := ctor(media.Config{
		BaseURL:   cfg.Server.BaseURL,
		UploadDir: cfg.Media.UploadDir,
		Endpoint:  cfg.Media.SupabaseURL,
		APIKey:    cfg.Media.SupabaseKey,
		Bucket:    cfg.Media.SupabaseBucket,
	})
	if err != nil {
		log.Fatalf("failed to create media store: %v", err)
	}

	// Resolve scan store.
	scans, err := newScanStore(cfg.Store)
	if err != nil {
		log.Fatalf("failed to create scan store: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := scans.Close(ctx); err != nil {
			slog.Error("failed to close scan store", "error", err)
		}
	}()

	srv := server.New(eng, mediaStore, scans, cfg.Server)
	if ls, ok := mediaStore.(*local.Store); ok {
		srv.ServeUploadsFrom(ls.Dir())
	}

	httpSrv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: srv.Router(),
	}

	// Set up graceful shutdown.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("shutting down", "signal", sig.String())
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(ctx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
	}()

	h, w := eng.InputSize()
	slog.Info("aviscan: starting",
		"addr", cfg.Server.Addr,
		"media", cfg.Media.Provider,
		"store", cfg.Store.Provider,
		"labels", len(eng.Labels()),
		"input_size", [2]int{h, w})

	if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("server error: %v", err)
	}
}

func newScanStore(cfg config.StoreConfig) (store.ScanStore, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	switch cfg.Provider {
	case "mongo":
		return mongo.New(ctx, cfg.MongoURI, cfg.MongoDB)
	case "postgres":
		return postgres.New(ctx, cfg.PostgresDSN)
	case "memory":
		return memory.New(), nil
	default:
		return nil, errors.New("unknown store provider: " + cfg.Provider)
	}
}
