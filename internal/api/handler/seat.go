package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/lavkushry1/Eventia-Proj-sub000/internal/application"
	"github.com/lavkushry1/Eventia-Proj-sub000/internal/domain/seat"
)

type SeatHandler struct {
	service SeatServiceInterface
}

func NewSeatHandler(s SeatServiceInterface) *SeatHandler {
	return &SeatHandler{service: s}
}

type SeatResponse struct {
	ID          string            `json:"id"`
	StadiumID   string            `json:"stadium_id"`
	SectionID   string            `json:"section_id"`
	Row         string            `json:"row"`
	Number      int               `json:"number"`
	Price       int               `json:"price"`
	Status      string            `json:"status"`
	ViewQuality string            `json:"view_quality,omitempty"`
	Rating      string            `json:"rating,omitempty"`
	Coordinates *seat.Coordinates `json:"coordinates,omitempty"`
	HolderID    *string           `json:"holder_id,omitempty"`
	ExpiresAt   *time.Time        `json:"expires_at,omitempty"`
}

func toSeatResponse(s *seat.Seat) SeatResponse {
	return SeatResponse{
		ID: s.ID, StadiumID: s.StadiumID, SectionID: s.SectionID,
		Row: s.Row, Number: s.Number, Price: s.Price,
		Status: string(s.Status), ViewQuality: s.ViewQuality, Rating: s.Rating,
		Coordinates: s.Coordinates, HolderID: s.HolderID, ExpiresAt: s.ExpiresAt,
	}
}

func toSeatResponses(seats []*seat.Seat) []SeatResponse {
	resp := make([]SeatResponse, len(seats))
	for i, s := range seats {
		resp[i] = toSeatResponse(s)
	}
	return resp
}

// GetByID godoc
// @Summary 座席を取得
// @Description 指定IDの座席を取得します
// @Tags seats
// @Produce json
// @Param id path string true "座席ID"
// @Success 200 {object} SeatResponse
// @Failure 404 {object} api.ErrorResponse
// @Router /seats/{id} [get]
func (h *SeatHandler) GetByID(c echo.Context) error {
	s, err := h.service.GetSeat(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toSeatResponse(s))
}

// GetBySection godoc
// @Summary 区画の座席一覧を取得
// @Description スタジアム区画の座席一覧を取得します。available=true で空席のみ
// @Tags seats
// @Produce json
// @Param stadium_id path string true "スタジアムID"
// @Param section_id path string true "区画ID"
// @Param available query bool false "空席のみ"
// @Success 200 {array} SeatResponse
// @Router /stadiums/{stadium_id}/sections/{section_id}/seats [get]
func (h *SeatHandler) GetBySection(c echo.Context) error {
	stadiumID := c.Param("stadium_id")
	sectionID := c.Param("section_id")

	var (
		seats []*seat.Seat
		err   error
	)
	if c.QueryParam("available") == "true" {
		seats, err = h.service.GetAvailableSeatsBySection(c.Request().Context(), stadiumID, sectionID)
	} else {
		seats, err = h.service.GetSeatsBySection(c.Request().Context(), stadiumID, sectionID)
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toSeatResponses(seats))
}

// CountAvailable godoc
// @Summary 区画の空席数を取得
// @Tags seats
// @Produce json
// @Param stadium_id path string true "スタジアムID"
// @Param section_id path string true "区画ID"
// @Success 200 {object} map[string]int
// @Router /stadiums/{stadium_id}/sections/{section_id}/seats/count [get]
func (h *SeatHandler) CountAvailable(c echo.Context) error {
	count, err := h.service.CountAvailableSeats(c.Request().Context(), c.Param("stadium_id"), c.Param("section_id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]int{"count": count})
}

// GenerateSeatMap godoc
// @Summary 区画の座席マップを生成
// @Description 区画のレイアウト設定から座席グリッドを生成します
// @Tags seats
// @Produce json
// @Param stadium_id path string true "スタジアムID"
// @Param section_id path string true "区画ID"
// @Success 201 {array} SeatResponse
// @Failure 404 {object} api.ErrorResponse
// @Failure 409 {object} api.ErrorResponse "座席マップ生成済み"
// @Router /stadiums/{stadium_id}/sections/{section_id}/seats/generate [post]
func (h *SeatHandler) GenerateSeatMap(c echo.Context) error {
	seats, err := h.service.GenerateSeatMap(c.Request().Context(), application.GenerateSeatMapInput{
		StadiumID: c.Param("stadium_id"),
		SectionID: c.Param("section_id"),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toSeatResponses(seats))
}
