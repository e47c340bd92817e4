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

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"

	"github.com/quizhall/quizhall/internal/auth"
	"github.com/quizhall/quizhall/internal/config"
	"github.com/quizhall/quizhall/internal/db"
	"github.com/quizhall/quizhall/internal/quiz"
	"github.com/quizhall/quizhall/internal/store"
	"github.com/quizhall/quizhall/internal/web"
	"github.com/quizhall/quizhall/pkg/cache"
)

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("dotenv: %v", err)
	}
	cfg := config.FromEnv()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dbh, err := db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN)
	if err != nil {
		log.Fatalf("db open failed: %v", err)
	}
	defer dbh.Close()
	st := store.NewSQLStore(dbh)

	catalog, err := quiz.Load(cfg.QuizDir)
	if err != nil {
		log.Fatalf("load quizzes from %s: %v", cfg.QuizDir, err)
	}
	if err := st.SyncCatalog(ctx, catalog); err != nil {
		log.Fatalf("sync catalog: %v", err)
	}
	log.Printf("catalog: %d modules, %d quizzes", len(catalog.Modules), catalog.QuizCount())

	var c cache.Cache
	switch cfg.CacheDriver {
	case "redis":
		c = cache.NewRedisCache(cfg.RedisAddr)
	default:
		c = cache.NewMemoryCache()
	}

	authSvc := auth.NewService(cfg.AuthSecret)

	srv, err := web.NewServer(st, catalog, authSvc, c)
	if err != nil {
		log.Fatalf("server init: %v", err)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	srv.Routes(r)

	httpSrv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Printf("listening on %s (db=%s, cache=%s)", cfg.HTTPAddr, cfg.DBDriver, cfg.CacheDriver)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}
