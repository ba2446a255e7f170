package service

import (
	"context"
	"time"

	"traubling/internal/pkg"
	"traubling/internal/repository/db"

	"go.uber.org/zap"
)

// LikeCountReconciler 定期用 likes 表修正 posts.like_count
type LikeCountReconciler struct {
	repo      *db.LikeCountReconcilerRepo
	batchSize int
	interval  time.Duration
	log       *zap.Logger
}

func NewLikeCountReconciler(repo *db.LikeCountReconcilerRepo, batchSize int, interval time.Duration, log *zap.Logger) *LikeCountReconciler {
	if batchSize <= 0 {
		batchSize = 500
	}
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &LikeCountReconciler{repo: repo, batchSize: batchSize, interval: interval, log: log}
}

// Run 对账定时任务启动器
func (r *LikeCountReconciler) Run(ctx context.Context) {
	t := time.NewTicker(r.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if _, err := r.ReconcileOnce(ctx); err != nil {
				r.log.Error("like count reconcile failed", zap.Error(err))
			}
		}
	}
}

// ReconcileOnce 全表扫一遍，返回修正的帖子数
func (r *LikeCountReconciler) ReconcileOnce(ctx context.Context) (int, error) {
	var (
		lastID uint64
		fixed  int
	)
	for {
		batch, next, err := r.repo.ReconcileList(ctx, r.batchSize, lastID)
		if err != nil {
			return fixed, err
		}
		if len(batch) == 0 {
			return fixed, nil
		}
		ids := make([]uint64, 0, len(batch))
		for _, p := range batch {
			ids = append(ids, p.ID)
		}
		actual, err := r.repo.RealLikeCounts(ctx, ids)
		if err != nil {
			return fixed, err
		}
		for _, p := range batch {
			if actual[p.ID] == p.LikeCount {
				continue
			}
			if err = r.repo.FixLikeCount(ctx, p.ID, actual[p.ID]); err != nil {
				r.log.Warn("fix like count failed", zap.Uint64("post_id", p.ID), zap.Error(err))
				continue
			}
			r.log.Info("like count fixed", zap.Uint64("post_id", p.ID),
				zap.Int64("from", p.LikeCount), zap.Int64("to", actual[p.ID]))
			pkg.LikeReconcileFixedTotal.Inc()
			fixed++
		}
		lastID = next
		if len(batch) < r.batchSize {
			return fixed, nil
		}
	}
}
