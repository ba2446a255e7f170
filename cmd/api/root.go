package main

import (
	"context"
	"fmt"
	"os"

	"traubling/internal/config"
	"traubling/internal/pkg"
	"traubling/internal/repository/db"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var rootCmd = &cobra.Command{
	Use:           "traubling",
	Short:         "traubling - travel trouble sharing API",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// app 各子命令共用的配置、日志和数据库连接
type app struct {
	cfg *config.Config
	log *zap.Logger
	db  *gorm.DB
}

func bootstrap() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err = cfg.Validate(); err != nil {
		return nil, err
	}
	log := pkg.NewLogger(cfg.LogLevel)

	gdb, err := db.Open(db.Options{
		Driver:          cfg.DBDriver,
		DSN:             cfg.DatabaseURL,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxLifetime: cfg.DBConnMaxLifetime,
		Debug:           !cfg.IsProduction() && cfg.LogLevel == "debug",
	})
	if err != nil {
		_ = log.Sync()
		return nil, err
	}
	return &app{cfg: cfg, log: log, db: gdb}, nil
}

func (a *app) close() {
	if err := db.Close(a.db); err != nil {
		a.log.Warn("close database", zap.Error(err))
	}
	_ = a.log.Sync()
}

// withApp 包装只需要数据库的子命令
func withApp(fn func(ctx context.Context, a *app) error) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap()
		if err != nil {
			return err
		}
		defer a.close()
		return fn(cmd.Context(), a)
	}
}
