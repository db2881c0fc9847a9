package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/lavkushry1/Eventia-Proj-sub000/internal/pkg/logger"
)

// HoldReleaser は期限切れの仮押さえを解放するインターフェース
type HoldReleaser interface {
	ReleaseExpiredHolds(ctx context.Context) (int, error)
}

// ExpiredHoldSweeper は期限切れ仮押さえを定期回収するワーカー
// 予約時に登録される遅延アクションはプロセス再起動で失われるため、
// このスイープが再起動をまたいだ期限切れも確実に回収する
type ExpiredHoldSweeper struct {
	reservationService HoldReleaser
	interval           time.Duration
	stopCh             chan struct{}
	doneCh             chan struct{}
}

// NewExpiredHoldSweeper は新しいスイーパーを作成
func NewExpiredHoldSweeper(rs HoldReleaser, interval time.Duration) *ExpiredHoldSweeper {
	return &ExpiredHoldSweeper{
		reservationService: rs,
		interval:           interval,
		stopCh:             make(chan struct{}),
		doneCh:             make(chan struct{}),
	}
}

// Start はスイーパーを開始
func (w *ExpiredHoldSweeper) Start(ctx context.Context) {
	logger.Info("期限切れ仮押さえスイーパー開始", zap.Duration("interval", w.interval))

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	defer close(w.doneCh)

	for {
		select {
		case <-ctx.Done():
			logger.Info("期限切れ仮押さえスイーパー停止（コンテキストキャンセル）")
			return
		case <-w.stopCh:
			logger.Info("期限切れ仮押さえスイーパー停止（シグナル受信）")
			return
		case <-ticker.C:
			w.sweep(ctx)
		}
	}
}

// Stop はスイーパーを停止
func (w *ExpiredHoldSweeper) Stop() {
	close(w.stopCh)
	<-w.doneCh
}

// sweep は期限切れ仮押さえを解放する
func (w *ExpiredHoldSweeper) sweep(ctx context.Context) {
	log := logger.Get()
	log.Debug("期限切れ仮押さえのスイープ開始")

	count, err := w.reservationService.ReleaseExpiredHolds(ctx)
	if err != nil {
		// 1回の失敗でスイーパーを止めない
		log.Error("期限切れ仮押さえのスイープ失敗", zap.Error(err))
		return
	}

	if count > 0 {
		log.Info("期限切れの仮押さえを解放", zap.Int("count", count))
	} else {
		log.Debug("期限切れの仮押さえなし")
	}
}
