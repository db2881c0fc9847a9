package handler

import (
	"context"

	"github.com/lavkushry1/Eventia-Proj-sub000/internal/application"
	"github.com/lavkushry1/Eventia-Proj-sub000/internal/domain/seat"
	"github.com/lavkushry1/Eventia-Proj-sub000/internal/domain/stadium"
)

// ReservationServiceInterface は予約サービスのインターフェース
type ReservationServiceInterface interface {
	ReserveSeats(ctx context.Context, input application.ReserveSeatsInput) (*application.ReserveSeatsResult, error)
	ReleaseSeats(ctx context.Context, input application.ReleaseSeatsInput) (int, error)
	ConfirmSeats(ctx context.Context, seatIDs []string) (int, error)
	BatchUpdateSeats(ctx context.Context, input application.BatchUpdateInput) (int, error)
}

// SeatServiceInterface は座席サービスのインターフェース
type SeatServiceInterface interface {
	GetSeat(ctx context.Context, id string) (*seat.Seat, error)
	GetSeatsBySection(ctx context.Context, stadiumID, sectionID string) ([]*seat.Seat, error)
	GetAvailableSeatsBySection(ctx context.Context, stadiumID, sectionID string) ([]*seat.Seat, error)
	CountAvailableSeats(ctx context.Context, stadiumID, sectionID string) (int, error)
	GenerateSeatMap(ctx context.Context, input application.GenerateSeatMapInput) ([]*seat.Seat, error)
}

// StadiumServiceInterface はスタジアムサービスのインターフェース
type StadiumServiceInterface interface {
	CreateStadium(ctx context.Context, input application.CreateStadiumInput) (*stadium.Stadium, error)
	GetStadium(ctx context.Context, id string) (*stadium.Stadium, error)
	ListStadiums(ctx context.Context, limit, offset int) ([]*stadium.Stadium, error)
	UpdateStadium(ctx context.Context, input application.UpdateStadiumInput) (*stadium.Stadium, error)
	DeleteStadium(ctx context.Context, id string) error
}
