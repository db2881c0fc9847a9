package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lavkushry1/Eventia-Proj-sub000/internal/domain/seat"
	"github.com/lavkushry1/Eventia-Proj-sub000/internal/domain/stadium"
	redisinfra "github.com/lavkushry1/Eventia-Proj-sub000/internal/infrastructure/redis"
	"github.com/lavkushry1/Eventia-Proj-sub000/internal/pkg/logger"
)

const (
	seatCountCacheTTL = 30 * time.Second
)

// SeatService は座席の参照と座席マップ生成を担うサービス
type SeatService struct {
	seatRepo    seat.Repository
	stadiumRepo stadium.Repository
	cache       *redisinfra.SeatCache
}

func NewSeatService(seatRepo seat.Repository, stadiumRepo stadium.Repository, cache *redisinfra.SeatCache) *SeatService {
	return &SeatService{seatRepo: seatRepo, stadiumRepo: stadiumRepo, cache: cache}
}

func (s *SeatService) GetSeat(ctx context.Context, id string) (*seat.Seat, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("%w: %s", seat.ErrInvalidSeatID, id)
	}
	seats, err := s.seatRepo.FindByIDs(ctx, []string{id})
	if err != nil {
		return nil, fmt.Errorf("座席取得に失敗: %w", err)
	}
	if len(seats) == 0 {
		return nil, seat.ErrSeatNotFound
	}
	return seats[0], nil
}

func (s *SeatService) GetSeatsBySection(ctx context.Context, stadiumID, sectionID string) ([]*seat.Seat, error) {
	return s.seatRepo.FindBySection(ctx, stadiumID, sectionID)
}

func (s *SeatService) GetAvailableSeatsBySection(ctx context.Context, stadiumID, sectionID string) ([]*seat.Seat, error) {
	return s.seatRepo.FindAvailableBySection(ctx, stadiumID, sectionID)
}

// CountAvailableSeats は区画の空席数を返す
// 30秒のキャッシュを挟む。多少の古さは座席マップ表示用途では許容される
func (s *SeatService) CountAvailableSeats(ctx context.Context, stadiumID, sectionID string) (int, error) {
	if s.cache != nil {
		count, err := s.cache.GetAvailableCount(ctx, stadiumID, sectionID)
		if err == nil {
			return count, nil
		}
		if !errors.Is(err, redisinfra.ErrCacheMiss) {
			logger.Warn("空席数キャッシュ取得に失敗", zap.Error(err))
		}
	}

	count, err := s.seatRepo.CountAvailableBySection(ctx, stadiumID, sectionID)
	if err != nil {
		return 0, err
	}

	if s.cache != nil {
		if err := s.cache.SetAvailableCount(ctx, stadiumID, sectionID, count, seatCountCacheTTL); err != nil {
			logger.Warn("空席数キャッシュ保存に失敗", zap.Error(err))
		}
	}
	return count, nil
}

type GenerateSeatMapInput struct {
	StadiumID string
	SectionID string
}

// GenerateSeatMap は区画の設定（列数×列あたり座席数）から座席グリッドを生成する
func (s *SeatService) GenerateSeatMap(ctx context.Context, input GenerateSeatMapInput) ([]*seat.Seat, error) {
	st, err := s.stadiumRepo.GetByID(ctx, input.StadiumID)
	if err != nil {
		return nil, fmt.Errorf("スタジアム取得に失敗: %w", err)
	}
	sec, ok := st.FindSection(input.SectionID)
	if !ok {
		return nil, stadium.ErrSectionNotFound
	}

	existing, err := s.seatRepo.FindBySection(ctx, input.StadiumID, input.SectionID)
	if err != nil {
		return nil, fmt.Errorf("既存座席の確認に失敗: %w", err)
	}
	if len(existing) > 0 {
		return nil, stadium.ErrSeatMapExists
	}

	seats := make([]*seat.Seat, 0, sec.Capacity())
	for r := 0; r < sec.Rows; r++ {
		row := rowLabel(r)
		for n := 1; n <= sec.SeatsPerRow; n++ {
			se := seat.NewSeat(uuid.NewString(), input.StadiumID, input.SectionID, row, n, sec.Price)
			se.ViewQuality = sec.ViewQuality
			se.Coordinates = &seat.Coordinates{X: float64(n), Y: float64(r)}
			if err := se.Validate(); err != nil {
				return nil, err
			}
			seats = append(seats, se)
		}
	}

	if err := s.seatRepo.CreateBulk(ctx, seats); err != nil {
		return nil, err
	}
	logger.Info("座席マップを生成",
		zap.String("stadium_id", input.StadiumID),
		zap.String("section_id", input.SectionID),
		zap.Int("seats", len(seats)),
	)
	return seats, nil
}

// rowLabel は列番号をA, B, ..., Z, AA, AB, ... の形式に変換する
func rowLabel(i int) string {
	label := ""
	for {
		label = string(rune('A'+i%26)) + label
		i = i/26 - 1
		if i < 0 {
			break
		}
	}
	return label
}
