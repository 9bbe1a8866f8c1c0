package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/smartnewbieproject/solo-backend/internal/common/database"
	"github.com/smartnewbieproject/solo-backend/internal/common/logger"
	"github.com/smartnewbieproject/solo-backend/internal/common/utils"
	"github.com/smartnewbieproject/solo-backend/internal/config"
	"github.com/smartnewbieproject/solo-backend/internal/matching"
	"github.com/smartnewbieproject/solo-backend/internal/notify"
	"github.com/smartnewbieproject/solo-backend/internal/vector"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		panic(err)
	}

	log, err := logger.New(cfg.IsProduction(), cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	if err := run(cfg, log); err != nil {
		log.Fatalw("server exited", "error", err)
	}
}

func run(cfg *config.Config, log *zap.SugaredLogger) error {
	db, err := database.NewPostgresDBFromURL(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer db.Close()
	log.Infow("connected to postgres")

	rdb, err := database.NewRedisClientFromURL(cfg.RedisURL)
	if err != nil {
		return err
	}
	defer rdb.Close()
	log.Infow("connected to redis")

	vectors := vector.NewClient(cfg.QdrantURL, cfg.QdrantCollection)
	notifier := notify.NewWebhookNotifier(cfg.WebhookURL, log)

	calendar, err := matching.NewCalendar(cfg.Timezone, nil)
	if err != nil {
		return err
	}

	repo := matching.NewRepository(db)
	history := matching.NewHistoryManager(rdb, cfg.ExclusionTTL, log)
	stats := matching.NewStatsManager(rdb, cfg.DiversityDecay, cfg.MatchCountTTL, log)
	finder := matching.NewCandidateFinder(vectors, history, cfg.OverFetchFactor, log)
	router := matching.NewRouter(calendar, log)
	weighter := matching.NewWeighter(matching.DefaultWeights())

	service := matching.NewService(repo, finder, stats, router, weighter, cfg.CandidateLimit, log)
	creation := matching.NewCreationService(repo, service, history, stats, calendar, notifier, matching.CreationConfig{
		ChunkSize:           cfg.BatchChunkSize,
		ChunkDelay:          cfg.BatchChunkDelay,
		Concurrency:         cfg.BatchConcurrency,
		MinPreferenceGroups: cfg.MinPreferenceGroups,
	}, log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	scheduler := matching.NewScheduler(creation, calendar, log)
	scheduler.Start(ctx)

	mr := mux.NewRouter()
	mr.Handle("/metrics", promhttp.Handler())
	mr.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	handler := matching.NewHandler(service, creation, history, log)
	matching.RegisterRoutes(mr, handler)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      mr,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infow("server listening", "port", cfg.Port, "environment", cfg.Environment)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Infow("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	log.Infow("shutdown complete")
	return nil
}
