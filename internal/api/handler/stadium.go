package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/lavkushry1/Eventia-Proj-sub000/internal/application"
	"github.com/lavkushry1/Eventia-Proj-sub000/internal/domain/stadium"
)

type StadiumHandler struct {
	service StadiumServiceInterface
}

func NewStadiumHandler(s StadiumServiceInterface) *StadiumHandler {
	return &StadiumHandler{service: s}
}

type SectionRequest struct {
	ID          string `json:"id" validate:"required"`
	Name        string `json:"name" validate:"required"`
	Rows        int    `json:"rows" validate:"required,min=1"`
	SeatsPerRow int    `json:"seats_per_row" validate:"required,min=1"`
	Price       int    `json:"price" validate:"required,min=0"`
	ViewQuality string `json:"view_quality"`
}

type CreateStadiumRequest struct {
	Name     string           `json:"name" validate:"required"`
	City     string           `json:"city" validate:"required"`
	Country  string           `json:"country"`
	ImageURL string           `json:"image_url"`
	Sections []SectionRequest `json:"sections" validate:"required,min=1,dive"`
}

type UpdateStadiumRequest struct {
	Name     string `json:"name"`
	City     string `json:"city"`
	Country  string `json:"country"`
	ImageURL string `json:"image_url"`
}

type SectionResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Rows        int    `json:"rows"`
	SeatsPerRow int    `json:"seats_per_row"`
	Price       int    `json:"price"`
	ViewQuality string `json:"view_quality,omitempty"`
	Capacity    int    `json:"capacity"`
}

type StadiumResponse struct {
	ID            string            `json:"id"`
	Name          string            `json:"name"`
	City          string            `json:"city"`
	Country       string            `json:"country,omitempty"`
	ImageURL      string            `json:"image_url,omitempty"`
	Sections      []SectionResponse `json:"sections"`
	TotalCapacity int               `json:"total_capacity"`
	CreatedAt     time.Time         `json:"created_at"`
}

func toStadiumResponse(st *stadium.Stadium) StadiumResponse {
	sections := make([]SectionResponse, len(st.Sections))
	for i := range st.Sections {
		sec := &st.Sections[i]
		sections[i] = SectionResponse{
			ID: sec.ID, Name: sec.Name,
			Rows: sec.Rows, SeatsPerRow: sec.SeatsPerRow,
			Price: sec.Price, ViewQuality: sec.ViewQuality,
			Capacity: sec.Capacity(),
		}
	}
	return StadiumResponse{
		ID: st.ID, Name: st.Name, City: st.City, Country: st.Country,
		ImageURL: st.ImageURL, Sections: sections,
		TotalCapacity: st.TotalCapacity(), CreatedAt: st.CreatedAt,
	}
}

func (h *StadiumHandler) Create(c echo.Context) error {
	var req CreateStadiumRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "無効なリクエスト")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	sections := make([]application.SectionInput, len(req.Sections))
	for i, sec := range req.Sections {
		sections[i] = application.SectionInput{
			ID: sec.ID, Name: sec.Name,
			Rows: sec.Rows, SeatsPerRow: sec.SeatsPerRow,
			Price: sec.Price, ViewQuality: sec.ViewQuality,
		}
	}
	st, err := h.service.CreateStadium(c.Request().Context(), application.CreateStadiumInput{
		Name: req.Name, City: req.City, Country: req.Country,
		ImageURL: req.ImageURL, Sections: sections,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toStadiumResponse(st))
}

func (h *StadiumHandler) GetByID(c echo.Context) error {
	st, err := h.service.GetStadium(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toStadiumResponse(st))
}

func (h *StadiumHandler) List(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	stadiums, err := h.service.ListStadiums(c.Request().Context(), limit, offset)
	if err != nil {
		return err
	}
	resp := make([]StadiumResponse, len(stadiums))
	for i, st := range stadiums {
		resp[i] = toStadiumResponse(st)
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *StadiumHandler) Update(c echo.Context) error {
	var req UpdateStadiumRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "無効なリクエスト")
	}
	st, err := h.service.UpdateStadium(c.Request().Context(), application.UpdateStadiumInput{
		ID: c.Param("id"), Name: req.Name, City: req.City,
		Country: req.Country, ImageURL: req.ImageURL,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toStadiumResponse(st))
}

func (h *StadiumHandler) Delete(c echo.Context) error {
	if err := h.service.DeleteStadium(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
