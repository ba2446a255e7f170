package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"traubling/internal/pkg"
	"traubling/internal/repository/db"
	"traubling/internal/repository/redis"
	"traubling/internal/router"
	"traubling/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API with the outbox relayer and like-count reconciler",
	RunE:  withApp(serve),
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func serve(ctx context.Context, a *app) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := db.AutoMigrate(a.db); err != nil {
		return err
	}

	rdb, err := redis.NewClient(ctx, a.cfg.RedisAddr, a.cfg.RedisPassword, a.cfg.RedisDB)
	if err != nil {
		return err
	}
	defer func() {
		if err := rdb.Close(); err != nil {
			a.log.Warn("close redis", zap.Error(err))
		}
	}()

	sender, closeSender := newSender(a)
	defer closeSender()

	if a.cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := router.New(router.Deps{
		DB:             a.db,
		Redis:          rdb,
		Tokens:         pkg.NewTokenManager(a.cfg.JWTAccessSecret, a.cfg.JWTRefreshSecret, a.cfg.AccessTokenTTL, a.cfg.RefreshTokenTTL),
		SessionTTL:     a.cfg.RefreshTokenTTL,
		CallbackSecret: a.cfg.AuthCallbackSecret,
		RateLimitRPS:   a.cfg.RateLimitRPS,
		RateLimitBurst: a.cfg.RateLimitBurst,
		Log:            a.log,
	})

	relayer := service.NewOutboxRelayer(db.NewOutboxRepository(a.db), sender, service.RelayerOptions{
		BatchSize: a.cfg.OutboxBatchSize,
		MaxRetry:  a.cfg.OutboxMaxRetry,
		Interval:  a.cfg.OutboxInterval,
	}, a.log)
	reconciler := service.NewLikeCountReconciler(db.NewLikeCountReconcilerRepo(a.db),
		a.cfg.ReconcileBatchSize, a.cfg.ReconcileInterval, a.log)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		relayer.Run(ctx)
	}()
	go func() {
		defer wg.Done()
		reconciler.Run(ctx)
	}()

	srv := &http.Server{
		Addr:              a.cfg.Addr(),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		a.log.Info("http server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		a.log.Info("shutting down")
	case err = <-errCh:
		a.log.Error("http server stopped", zap.Error(err))
		stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if serr := srv.Shutdown(shutdownCtx); serr != nil {
		a.log.Error("http shutdown", zap.Error(serr))
	}
	wg.Wait()
	return err
}

// newSender kafka 优先，其次 smtp，都未配置时只打日志
func newSender(a *app) (service.Sender, func()) {
	switch {
	case len(a.cfg.KafkaBrokers) > 0:
		p := pkg.NewKafkaProducer(pkg.KafkaConfig{Brokers: a.cfg.KafkaBrokers, Topic: a.cfg.KafkaTopic})
		a.log.Info("outbox sender: kafka", zap.Strings("brokers", a.cfg.KafkaBrokers), zap.String("topic", a.cfg.KafkaTopic))
		return service.KafkaSender(p), func() {
			if err := p.Close(); err != nil {
				a.log.Warn("close kafka producer", zap.Error(err))
			}
		}
	case a.cfg.SMTPHost != "":
		m := pkg.NewMailer(pkg.SMTPConfig{
			Host:     a.cfg.SMTPHost,
			Port:     a.cfg.SMTPPort,
			Username: a.cfg.SMTPUsername,
			Password: a.cfg.SMTPPassword,
			From:     a.cfg.SMTPFrom,
		})
		a.log.Info("outbox sender: smtp", zap.String("host", a.cfg.SMTPHost))
		return service.EmailSender(m, db.NewUserRepository(a.db), a.cfg.BaseURL), func() {}
	default:
		a.log.Info("outbox sender: log only")
		return service.LogSender(a.log), func() {}
	}
}
