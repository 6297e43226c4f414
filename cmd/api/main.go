// cmd/api/main.go
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

	"github.com/redis/go-redis/v9"

	"colorchecker-service/internal/repository/postgresql"
	"colorchecker-service/internal/service"
	"colorchecker-service/internal/storage"
	httptransport "colorchecker-service/internal/transport/http"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pgDSN := mustEnv("POSTGRES_DSN")
	redisAddr := mustEnv("REDIS_ADDR")
	urlSecret := mustEnv("COLOR_URL_SECRET")

	addr := envOr("COLOR_API_ADDR", ":8080")
	baseURL := envOr("COLOR_BASE_URL", "http://localhost:8080")
	queueKey := envOr("COLOR_QUEUE_KEY", "colorjobs:queue")
	blobRoot := envOr("COLOR_BLOB_ROOT", "data")

	pool, err := postgresql.NewPool(ctx, pgDSN)
	if err != nil {
		log.Fatalf("pg: %v", err)
	}
	defer pool.Close()

	rdb := redis.NewClient(&redis.Options{Addr: redisAddr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Fatalf("redis: %v", err)
	}

	if err := os.MkdirAll(blobRoot, 0o755); err != nil {
		log.Fatalf("blob root: %v", err)
	}

	repo := postgresql.NewJobRepository(pool)
	store := storage.LocalFS{Root: blobRoot}
	queue := service.NewRedisQueue(rdb, queueKey, queueKey+":processing")
	signer := storage.NewSigner([]byte(urlSecret), baseURL)

	jobSvc := service.NewJobService(repo, queue)
	handler := httptransport.NewHandler(jobSvc, store, signer)

	srv := &http.Server{
		Addr:    addr,
		Handler: httptransport.Routes(handler),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Printf("[api] listening addr=%s base_url=%s blob_root=%s", addr, baseURL, blobRoot)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("listen: %v", err)
	}
	log.Println("api stopped")
}

func mustEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		log.Fatalf("missing env: %s", key)
	}
	return v
}

func envOr(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}
