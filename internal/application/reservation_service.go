package application

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lavkushry1/Eventia-Proj-sub000/internal/domain/seat"
	redisinfra "github.com/lavkushry1/Eventia-Proj-sub000/internal/infrastructure/redis"
	"github.com/lavkushry1/Eventia-Proj-sub000/internal/pkg/logger"
	"github.com/lavkushry1/Eventia-Proj-sub000/internal/pkg/metrics"
)

const (
	lockTTL        = 10 * time.Second
	lockMaxRetries = 3
	lockRetryDelay = 100 * time.Millisecond
)

// ReservationService は座席の仮押さえ・解放・確定を担うサービス
// 排他の最終的な保証は永続化層の条件付き更新。分散ロックは
// 同一座席集合への同時リクエストを直列化して無駄な競合を減らすためのもの
type ReservationService struct {
	seatRepo          seat.Repository
	lockManager       *redisinfra.LockManager
	cache             *redisinfra.SeatCache
	metrics           *metrics.Metrics
	holdTimeout       time.Duration
	maxSeatsPerHolder int
}

func NewReservationService(
	seatRepo seat.Repository,
	lockManager *redisinfra.LockManager,
	cache *redisinfra.SeatCache,
	m *metrics.Metrics,
	holdTimeout time.Duration,
	maxSeatsPerHolder int,
) *ReservationService {
	if maxSeatsPerHolder <= 0 {
		maxSeatsPerHolder = seat.MaxSeatsPerHolder
	}
	return &ReservationService{
		seatRepo:          seatRepo,
		lockManager:       lockManager,
		cache:             cache,
		metrics:           m,
		holdTimeout:       holdTimeout,
		maxSeatsPerHolder: maxSeatsPerHolder,
	}
}

type ReserveSeatsInput struct {
	SeatIDs  []string
	HolderID string
}

type ReserveSeatsResult struct {
	Seats     []*seat.Seat
	ExpiresAt time.Time
}

// ReserveSeats は座席バッチを1ユーザーに全件または0件で仮押さえする
func (s *ReservationService) ReserveSeats(ctx context.Context, input ReserveSeatsInput) (*ReserveSeatsResult, error) {
	ids, err := normalizeSeatIDs(input.SeatIDs)
	if err != nil {
		return nil, err
	}
	if input.HolderID == "" {
		return nil, seat.ErrHolderIDRequired
	}

	// 同一座席集合の同時リクエストを直列化（座席IDをソートしてデッドロック防止）
	if s.lockManager != nil {
		lock, err := s.lockManager.AcquireLockWithRetry(ctx, buildSeatLockKey(ids), lockTTL, lockMaxRetries, lockRetryDelay)
		if err != nil {
			if errors.Is(err, redisinfra.ErrLockNotAcquired) {
				s.countHold("conflict")
				return nil, &seat.ConflictError{SeatIDs: ids}
			}
			return nil, fmt.Errorf("ロック取得に失敗: %w", err)
		}
		defer lock.Release(ctx)
	}

	// 存在確認
	seats, err := s.seatRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("座席取得に失敗: %w", err)
	}
	seatMap := make(map[string]*seat.Seat, len(seats))
	for _, se := range seats {
		seatMap[se.ID] = se
	}
	var missing []string
	for _, id := range ids {
		if _, ok := seatMap[id]; !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		s.countHold("not_found")
		return nil, fmt.Errorf("%w: %s", seat.ErrSeatNotFound, strings.Join(missing, ", "))
	}

	// 空席確認
	var conflicted []string
	for _, id := range ids {
		if !seatMap[id].IsAvailable() {
			conflicted = append(conflicted, id)
		}
	}
	if len(conflicted) > 0 {
		s.countHold("conflict")
		return nil, &seat.ConflictError{SeatIDs: conflicted}
	}

	// 保持数の上限確認
	held, err := s.seatRepo.CountReservedByHolder(ctx, input.HolderID)
	if err != nil {
		return nil, fmt.Errorf("仮押さえ数取得に失敗: %w", err)
	}
	if held+len(ids) > s.maxSeatsPerHolder {
		s.countHold("quota_exceeded")
		return nil, seat.ErrQuotaExceeded
	}

	// 条件付き一括更新。チェックから書き込みまでの間に他の保持者が
	// 座席を取った場合は更新件数が足りなくなるので、この呼び出しで
	// 取れた分だけを巻き戻して失敗させる
	now := time.Now()
	expiresAt := now.Add(s.holdTimeout)
	updated, err := s.seatRepo.ReserveSeats(ctx, ids, input.HolderID, now, expiresAt)
	if err != nil {
		s.countHold("error")
		return nil, fmt.Errorf("座席仮押さえに失敗: %w", err)
	}
	if updated != len(ids) {
		if _, rbErr := s.seatRepo.ReleaseHolderSeats(ctx, ids, input.HolderID); rbErr != nil {
			logger.Error("仮押さえの巻き戻しに失敗",
				zap.Strings("seat_ids", ids),
				zap.String("holder_id", input.HolderID),
				zap.Error(rbErr),
			)
		}
		s.countHold("lost_race")
		return nil, seat.ErrReservationFailed
	}

	s.countHold("success")
	if s.metrics != nil {
		s.metrics.ActiveHolds.Add(float64(len(ids)))
	}
	s.invalidateSections(ctx, seats)

	// 期限到来時のベストエフォートな解放。プロセス再起動で失われるが、
	// 定期スイープが取りこぼしを回収する
	s.scheduleExpiry(ids, expiresAt)

	reserved, err := s.seatRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("仮押さえ後の座席取得に失敗: %w", err)
	}
	logger.Info("座席を仮押さえ",
		zap.Strings("seat_ids", ids),
		zap.String("holder_id", input.HolderID),
		zap.Time("expires_at", expiresAt),
	)
	return &ReserveSeatsResult{Seats: reserved, ExpiresAt: expiresAt}, nil
}

type ReleaseSeatsInput struct {
	SeatIDs  []string
	HolderID string
}

// ReleaseSeats は指定保持者の仮押さえを解放する
// 保持者が一致しない座席や既に解放済みの座席は黙ってスキップされる
func (s *ReservationService) ReleaseSeats(ctx context.Context, input ReleaseSeatsInput) (int, error) {
	ids, err := normalizeSeatIDs(input.SeatIDs)
	if err != nil {
		return 0, err
	}
	if input.HolderID == "" {
		return 0, seat.ErrHolderIDRequired
	}

	seats, err := s.seatRepo.FindByIDs(ctx, ids)
	if err != nil {
		return 0, fmt.Errorf("座席取得に失敗: %w", err)
	}

	released, err := s.seatRepo.ReleaseSeats(ctx, ids, input.HolderID)
	if err != nil {
		return 0, fmt.Errorf("座席解放に失敗: %w", err)
	}
	if released > 0 {
		if s.metrics != nil {
			s.metrics.ActiveHolds.Sub(float64(released))
		}
		s.invalidateSections(ctx, seats)
	}
	logger.Info("座席を解放",
		zap.Strings("seat_ids", ids),
		zap.String("holder_id", input.HolderID),
		zap.Int("released", released),
	)
	return released, nil
}

// ConfirmSeats は仮押さえ中の座席を販売済みに確定する
// 決済検証後のBookingサービスからの内部呼び出しを想定しており、保持者の照合は行わない
func (s *ReservationService) ConfirmSeats(ctx context.Context, seatIDs []string) (int, error) {
	ids, err := normalizeSeatIDs(seatIDs)
	if err != nil {
		return 0, err
	}

	seats, err := s.seatRepo.FindByIDs(ctx, ids)
	if err != nil {
		return 0, fmt.Errorf("座席取得に失敗: %w", err)
	}

	updated, err := s.seatRepo.ConfirmSeats(ctx, ids)
	if err != nil {
		return 0, fmt.Errorf("座席確定に失敗: %w", err)
	}
	if updated > 0 {
		if s.metrics != nil {
			s.metrics.ActiveHolds.Sub(float64(updated))
		}
		s.invalidateSections(ctx, seats)
	}
	logger.Info("座席を確定", zap.Strings("seat_ids", ids), zap.Int("updated", updated))
	return updated, nil
}

type BatchUpdateInput struct {
	SeatIDs  []string
	Status   seat.Status
	HolderID *string
}

// BatchUpdateSeats は管理用の無条件一括ステータス更新
// 状態遷移のガードは行わない。呼び出し側が正しい遷移を選ぶ責任を持つ
func (s *ReservationService) BatchUpdateSeats(ctx context.Context, input BatchUpdateInput) (int, error) {
	ids, err := normalizeSeatIDs(input.SeatIDs)
	if err != nil {
		return 0, err
	}
	if !input.Status.IsValid() {
		return 0, seat.ErrInvalidStatus
	}

	seats, err := s.seatRepo.FindByIDs(ctx, ids)
	if err != nil {
		return 0, fmt.Errorf("座席取得に失敗: %w", err)
	}

	updated, err := s.seatRepo.UpdateStatus(ctx, ids, input.Status, input.HolderID)
	if err != nil {
		return 0, fmt.Errorf("座席ステータス一括更新に失敗: %w", err)
	}
	if updated > 0 {
		s.invalidateSections(ctx, seats)
	}
	logger.Info("座席ステータスを一括更新",
		zap.Strings("seat_ids", ids),
		zap.String("status", string(input.Status)),
		zap.Int("updated", updated),
	)
	return updated, nil
}

// ReleaseExpiredHolds は期限切れの仮押さえを一括で解放する
// 定期スイープから呼ばれる。冪等
func (s *ReservationService) ReleaseExpiredHolds(ctx context.Context) (int, error) {
	released, err := s.seatRepo.ReleaseExpired(ctx, time.Now())
	if err != nil {
		return 0, fmt.Errorf("期限切れ仮押さえの解放に失敗: %w", err)
	}
	if released > 0 && s.metrics != nil {
		s.metrics.ExpiredHoldsReleased.Add(float64(released))
		s.metrics.ActiveHolds.Sub(float64(released))
	}
	return released, nil
}

// scheduleExpiry は期限到来時に対象座席だけを解放する遅延アクションを登録する
// 既に確定・解放済みの座席には影響しない（条件付き更新による冪等なno-op）
func (s *ReservationService) scheduleExpiry(ids []string, expiresAt time.Time) {
	time.AfterFunc(time.Until(expiresAt), func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		released, err := s.seatRepo.ReleaseExpiredByIDs(ctx, ids, time.Now())
		if err != nil {
			// 遅延アクションの失敗は握りつぶす。定期スイープが回収する
			logger.Error("仮押さえ期限処理に失敗", zap.Strings("seat_ids", ids), zap.Error(err))
			return
		}
		if released > 0 {
			if s.metrics != nil {
				s.metrics.ExpiredHoldsReleased.Add(float64(released))
				s.metrics.ActiveHolds.Sub(float64(released))
			}
			logger.Info("期限切れの仮押さえを解放", zap.Strings("seat_ids", ids), zap.Int("released", released))
		}
	})
}

func (s *ReservationService) countHold(status string) {
	if s.metrics == nil {
		return
	}
	s.metrics.SeatHoldsTotal.WithLabelValues(status).Inc()
}

// invalidateSections は影響を受けた区画の空席数キャッシュを無効化する
func (s *ReservationService) invalidateSections(ctx context.Context, seats []*seat.Seat) {
	if s.cache == nil {
		return
	}
	type sectionKey struct{ stadiumID, sectionID string }
	seen := make(map[sectionKey]struct{})
	for _, se := range seats {
		key := sectionKey{se.StadiumID, se.SectionID}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		if err := s.cache.Invalidate(ctx, se.StadiumID, se.SectionID); err != nil {
			logger.Warn("空席数キャッシュの無効化に失敗",
				zap.String("stadium_id", se.StadiumID),
				zap.String("section_id", se.SectionID),
				zap.Error(err),
			)
		}
	}
}

// normalizeSeatIDs はID集合を検証し、重複を除いてソートした結果を返す
func normalizeSeatIDs(ids []string) ([]string, error) {
	if len(ids) == 0 {
		return nil, seat.ErrEmptyBatch
	}
	seen := make(map[string]struct{}, len(ids))
	normalized := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, err := uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("%w: %s", seat.ErrInvalidSeatID, id)
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		normalized = append(normalized, id)
	}
	if len(normalized) > seat.MaxBatchSize {
		return nil, seat.ErrBatchTooLarge
	}
	sort.Strings(normalized)
	return normalized, nil
}

// buildSeatLockKey は座席IDからロックキーを生成する（ソート済み前提）
func buildSeatLockKey(sortedIDs []string) string {
	return "seats:" + strings.Join(sortedIDs, ",")
}
