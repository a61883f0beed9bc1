package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	appcfg "github.com/park285/hotseat-chess/internal/config"
	"github.com/park285/hotseat-chess/internal/httpapi"
	"github.com/park285/hotseat-chess/internal/msgcat"
	"github.com/park285/hotseat-chess/internal/obslog"
	"github.com/park285/hotseat-chess/internal/presenter"
	"github.com/park285/hotseat-chess/internal/render"
	"github.com/park285/hotseat-chess/internal/session"
)

func main() {
	cfg, err := appcfg.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	if err := obslog.InitFromEnv("logs/chess-server.log"); err != nil {
		log.Fatalf("logger init error: %v", err)
	}
	defer obslog.Sync()
	logger := obslog.L()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	store, err := openStore(ctx, cfg)
	if err != nil {
		cancel()
		logger.Fatal("store_init_error", zap.Error(err))
	}

	var opts []session.Option
	var repo *session.Repository
	if cfg.DatabaseURL != "" {
		repo, err = session.NewRepository(ctx, cfg.DatabaseURL)
		if err != nil {
			cancel()
			logger.Fatal("archive_init_error", zap.Error(err))
		}
		opts = append(opts, session.WithArchive(repo))
	}
	cancel()

	games := session.NewManager(store, opts...)

	cat, err := msgcat.New(cfg.MessagesDir)
	if err != nil {
		logger.Fatal("messages_init_error", zap.String("dir", cfg.MessagesDir), zap.Error(err))
	}
	srv := httpapi.NewServer(games, presenter.New(cat), render.NewRenderer(cfg.RenderSquare))

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Listen(cfg.HTTPAddr) }()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-sigCh:
		logger.Info("shutdown_signal", zap.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil {
			logger.Error("http_serve_error", zap.Error(err))
		}
	}

	sctx, scancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer scancel()
	if err := srv.Close(sctx); err != nil {
		logger.Warn("http_shutdown_error", zap.Error(err))
	}
	_ = games.Close()
	if repo != nil {
		_ = repo.Close()
	}
	logger.Info("shutdown_complete")
}

func openStore(ctx context.Context, cfg *appcfg.AppConfig) (session.Store, error) {
	if cfg.RedisURL == "" {
		obslog.L().Info("store_memory", zap.Duration("ttl", cfg.GameTTL()))
		return session.NewMemoryStore(cfg.GameTTL()), nil
	}
	s, err := session.NewRedisStore(ctx, cfg.RedisURL, cfg.GameTTL())
	if err != nil {
		return nil, err
	}
	obslog.L().Info("store_redis", zap.Duration("ttl", cfg.GameTTL()))
	return s, nil
}
