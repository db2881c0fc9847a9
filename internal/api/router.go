package api

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/lavkushry1/Eventia-Proj-sub000/internal/api/handler"
	"github.com/lavkushry1/Eventia-Proj-sub000/internal/api/middleware"
)

// Handlers はルーティングに必要なハンドラー一式
type Handlers struct {
	Reservation *handler.ReservationHandler
	Seat        *handler.SeatHandler
	Stadium     *handler.StadiumHandler
	Health      *handler.HealthHandler
}

// RegisterRoutes はAPIルートを登録する
func RegisterRoutes(e *echo.Echo, h Handlers, registry *prometheus.Registry) {
	e.GET("/health", h.Health.Check)
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})), middleware.MetricsBasicAuth())

	v1 := e.Group("/api/v1")

	v1.GET("/health", h.Health.Check)

	// 予約操作
	v1.POST("/seats/reserve", h.Reservation.Reserve)
	v1.POST("/seats/release", h.Reservation.Release)
	v1.POST("/seats/confirm", h.Reservation.Confirm)
	v1.POST("/seats/batch-update", h.Reservation.BatchUpdate)

	// 座席照会
	v1.GET("/seats/:id", h.Seat.GetByID)
	v1.GET("/stadiums/:stadium_id/sections/:section_id/seats", h.Seat.GetBySection)
	v1.GET("/stadiums/:stadium_id/sections/:section_id/seats/count", h.Seat.CountAvailable)
	v1.POST("/stadiums/:stadium_id/sections/:section_id/seats/generate", h.Seat.GenerateSeatMap)

	// スタジアム管理
	v1.POST("/stadiums", h.Stadium.Create)
	v1.GET("/stadiums", h.Stadium.List)
	v1.GET("/stadiums/:id", h.Stadium.GetByID)
	v1.PUT("/stadiums/:id", h.Stadium.Update)
	v1.DELETE("/stadiums/:id", h.Stadium.Delete)
}
