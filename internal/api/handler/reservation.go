package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/lavkushry1/Eventia-Proj-sub000/internal/application"
	"github.com/lavkushry1/Eventia-Proj-sub000/internal/domain/seat"
)

type ReservationHandler struct {
	service ReservationServiceInterface
}

func NewReservationHandler(s ReservationServiceInterface) *ReservationHandler {
	return &ReservationHandler{service: s}
}

type ReserveSeatsRequest struct {
	SeatIDs []string `json:"seat_ids" validate:"required,min=1,max=10" example:"550e8400-e29b-41d4-a716-446655440000"`
	UserID  string   `json:"user_id" validate:"required" example:"user-123"`
}

type ReserveSeatsResponse struct {
	ReservedSeats      []SeatResponse `json:"reserved_seats"`
	ReservationExpires time.Time      `json:"reservation_expires"`
	Message            string         `json:"message"`
}

type ReleaseSeatsRequest struct {
	SeatIDs []string `json:"seat_ids" validate:"required,min=1"`
	UserID  string   `json:"user_id" validate:"required"`
}

type ReleaseSeatsResponse struct {
	ReleasedCount int    `json:"released_count"`
	Message       string `json:"message"`
}

type ConfirmSeatsRequest struct {
	SeatIDs []string `json:"seat_ids" validate:"required,min=1"`
}

type BatchUpdateSeatsRequest struct {
	SeatIDs []string `json:"seat_ids" validate:"required,min=1"`
	Status  string   `json:"status" validate:"required"`
	UserID  *string  `json:"user_id,omitempty"`
}

type UpdateCountResponse struct {
	UpdatedCount int    `json:"updated_count"`
	Message      string `json:"message"`
}

// Reserve godoc
// @Summary 座席を仮押さえ
// @Description 座席バッチを全件または0件で仮押さえします（5分間有効）
// @Tags seats
// @Accept json
// @Produce json
// @Param request body ReserveSeatsRequest true "仮押さえ情報"
// @Success 200 {object} ReserveSeatsResponse
// @Failure 400 {object} api.ErrorResponse "バリデーション・保持上限超過"
// @Failure 404 {object} api.ErrorResponse "存在しない座席"
// @Failure 409 {object} api.ErrorResponse "空席でない座席が含まれる"
// @Router /seats/reserve [post]
func (h *ReservationHandler) Reserve(c echo.Context) error {
	var req ReserveSeatsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "無効なリクエスト")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	result, err := h.service.ReserveSeats(c.Request().Context(), application.ReserveSeatsInput{
		SeatIDs:  req.SeatIDs,
		HolderID: req.UserID,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ReserveSeatsResponse{
		ReservedSeats:      toSeatResponses(result.Seats),
		ReservationExpires: result.ExpiresAt,
		Message:            "座席を仮押さえしました",
	})
}

// Release godoc
// @Summary 仮押さえを解放
// @Description ユーザー自身の仮押さえを解放します。対象外の座席はスキップされます
// @Tags seats
// @Accept json
// @Produce json
// @Param request body ReleaseSeatsRequest true "解放情報"
// @Success 200 {object} ReleaseSeatsResponse
// @Failure 400 {object} api.ErrorResponse
// @Router /seats/release [post]
func (h *ReservationHandler) Release(c echo.Context) error {
	var req ReleaseSeatsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "無効なリクエスト")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	released, err := h.service.ReleaseSeats(c.Request().Context(), application.ReleaseSeatsInput{
		SeatIDs:  req.SeatIDs,
		HolderID: req.UserID,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ReleaseSeatsResponse{
		ReleasedCount: released,
		Message:       "座席を解放しました",
	})
}

// Confirm godoc
// @Summary 仮押さえを確定
// @Description 決済検証後に仮押さえ中の座席を販売済みに確定します
// @Tags seats
// @Accept json
// @Produce json
// @Param request body ConfirmSeatsRequest true "確定情報"
// @Success 200 {object} UpdateCountResponse
// @Failure 400 {object} api.ErrorResponse
// @Router /seats/confirm [post]
func (h *ReservationHandler) Confirm(c echo.Context) error {
	var req ConfirmSeatsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "無効なリクエスト")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	updated, err := h.service.ConfirmSeats(c.Request().Context(), req.SeatIDs)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, UpdateCountResponse{
		UpdatedCount: updated,
		Message:      "座席を確定しました",
	})
}

// BatchUpdate godoc
// @Summary 座席ステータスを一括更新
// @Description 管理用。状態遷移のガードなしでステータスを一括更新します
// @Tags seats
// @Accept json
// @Produce json
// @Param request body BatchUpdateSeatsRequest true "更新情報"
// @Success 200 {object} UpdateCountResponse
// @Failure 400 {object} api.ErrorResponse
// @Router /seats/batch-update [post]
func (h *ReservationHandler) BatchUpdate(c echo.Context) error {
	var req BatchUpdateSeatsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "無効なリクエスト")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	updated, err := h.service.BatchUpdateSeats(c.Request().Context(), application.BatchUpdateInput{
		SeatIDs:  req.SeatIDs,
		Status:   seat.Status(req.Status),
		HolderID: req.UserID,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, UpdateCountResponse{
		UpdatedCount: updated,
		Message:      "座席ステータスを更新しました",
	})
}
