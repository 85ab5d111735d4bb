package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/bryanwahyu/shoplens/internal/application"
	appanalysis "github.com/bryanwahyu/shoplens/internal/application/analysis"
	"github.com/bryanwahyu/shoplens/internal/config"
	domai "github.com/bryanwahyu/shoplens/internal/domain/ai"
	domain "github.com/bryanwahyu/shoplens/internal/domain/analysis"
	"github.com/bryanwahyu/shoplens/internal/infra/ai/fallback"
	aiopenai "github.com/bryanwahyu/shoplens/internal/infra/ai/openai"
	"github.com/bryanwahyu/shoplens/internal/infra/httpserver"
	"github.com/bryanwahyu/shoplens/internal/infra/scraper"
	"github.com/bryanwahyu/shoplens/internal/infra/store"
	"github.com/bryanwahyu/shoplens/internal/middleware"
)

func main() {
	// path config.yaml
	path := "config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		path = v
	}

	// load config
	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config invalid: %v", err)
	}

	ctx := context.Background()

	// init store
	var (
		jobStore domain.Store
		pinger   middleware.Pinger
	)
	switch cfg.Cache.Backend {
	case "redis":
		redisStore, err := store.NewRedis(ctx, cfg.Redis.Address, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Fatalf("redis connect error: %v", err)
		}
		defer redisStore.Close()
		jobStore, pinger = redisStore, redisStore
	case "none":
		log.Println("cache backend disabled, store calls will fail")
		noop := store.Noop{}
		jobStore, pinger = noop, noop
	default:
		log.Println("using in-memory store")
		mem := store.NewMemory()
		jobStore, pinger = mem, mem
	}

	// init classifier; tanpa API key semua klasifikasi pakai keyword fallback
	keyword := fallback.New()
	var classifier domai.Classifier = keyword
	if cfg.OpenAIEnabled() {
		classifier = aiopenai.NewClient(cfg.OpenAI.APIKey, cfg.OpenAI.Model)
	} else {
		log.Println("OPENAI_API_KEY not set, using keyword classifier")
	}

	// init fetcher
	httpClient := &http.Client{Timeout: time.Duration(cfg.Scraper.TimeoutSeconds) * time.Second}
	fetcher := scraper.NewMeesho(httpClient, cfg.Scraper.UserAgent, application.SystemClock{})

	// init service
	svc := &appanalysis.Service{
		Store:      jobStore,
		Fetcher:    fetcher,
		Classifier: classifier,
		Fallback:   keyword,
		Clock:      application.SystemClock{},
		Domain:     cfg.Scraper.Domain,
	}
	svc.OnPipelineStart = func(domain.JobID) { middleware.IncrementAnalysesRunning() }
	svc.OnPipelineDone = func(id domain.JobID, status domain.Status) {
		middleware.DecrementAnalysesRunning()
		if status == domain.StatusFailed {
			middleware.IncrementAnalysesFailed()
		}
		log.Printf("pipeline done job=%s status=%s", id, status)
	}

	// init router
	mux := chi.NewRouter()
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))
	mux.Use(middleware.LoggingMiddleware)
	mux.Use(middleware.MetricsMiddleware)
	mux.Use(middleware.RateLimitMiddleware(30, 1))

	mux.Get("/health", middleware.HealthHandler(map[string]middleware.HealthChecker{
		"store": &middleware.StoreHealthChecker{Store: pinger},
	}))
	mux.Get("/ready", middleware.LivenessHandler)
	mux.Get("/metrics", middleware.MetricsHandler)
	mux.Mount("/", httpserver.NewRouter(svc))

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// run server
	go func() {
		log.Printf("server listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	log.Println("shutting down server...")

	ctx2, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx2); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}
