package main

import (
	"context"

	"traubling/internal/repository/db"
	"traubling/internal/seed"
	"traubling/internal/service"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update tables",
	RunE: withApp(func(ctx context.Context, a *app) error {
		if err := db.AutoMigrate(a.db.WithContext(ctx)); err != nil {
			return err
		}
		a.log.Info("migration finished")
		return nil
	}),
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert countries, cities and trouble categories",
	RunE: withApp(func(ctx context.Context, a *app) error {
		if err := db.AutoMigrate(a.db.WithContext(ctx)); err != nil {
			return err
		}
		s := seed.New(a.db, a.log)
		if err := s.Catalog(ctx); err != nil {
			return err
		}
		if !seedSample {
			return nil
		}
		return s.Samples(ctx)
	}),
}

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Run one like-count reconciliation pass",
	RunE: withApp(func(ctx context.Context, a *app) error {
		r := service.NewLikeCountReconciler(db.NewLikeCountReconcilerRepo(a.db), a.cfg.ReconcileBatchSize, a.cfg.ReconcileInterval, a.log)
		fixed, err := r.ReconcileOnce(ctx)
		if err != nil {
			return err
		}
		a.log.Info("reconcile finished", zap.Int("fixed", fixed))
		return nil
	}),
}

var seedSample bool

func init() {
	seedCmd.Flags().BoolVar(&seedSample, "sample", false, "also insert sample users and posts")
	rootCmd.AddCommand(migrateCmd, seedCmd, reconcileCmd)
}
