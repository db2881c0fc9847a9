package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/lavkushry1/Eventia-Proj-sub000/internal/domain/seat"
	"github.com/lavkushry1/Eventia-Proj-sub000/internal/domain/stadium"
	"github.com/lavkushry1/Eventia-Proj-sub000/internal/pkg/logger"
)

// ErrorResponse はエラーレスポンスの統一フォーマット
type ErrorResponse struct {
	Error   string   `json:"error"`
	Code    int      `json:"code,omitempty"`
	SeatIDs []string `json:"seat_ids,omitempty"`
}

// CustomHTTPErrorHandler はドメインエラーをHTTPステータスに対応付けるエラーハンドラー
//
//	404: 座席・スタジアムが存在しない
//	409: 空席でない座席が含まれる、競争に負けた、座席マップ生成済み
//	400: バリデーション・上限超過などその他のドメインエラー
func CustomHTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	message := "内部サーバーエラー"
	var seatIDs []string

	var he *echo.HTTPError
	var conflict *seat.ConflictError
	switch {
	case errors.As(err, &he):
		code = he.Code
		if m, ok := he.Message.(string); ok {
			message = m
		} else {
			message = http.StatusText(code)
		}
	case errors.As(err, &conflict):
		code = http.StatusConflict
		message = err.Error()
		seatIDs = conflict.SeatIDs
	case errors.Is(err, seat.ErrSeatNotAvailable),
		errors.Is(err, seat.ErrReservationFailed),
		errors.Is(err, stadium.ErrSeatMapExists):
		code = http.StatusConflict
		message = err.Error()
	case errors.Is(err, seat.ErrSeatNotFound),
		errors.Is(err, stadium.ErrStadiumNotFound),
		errors.Is(err, stadium.ErrSectionNotFound):
		code = http.StatusNotFound
		message = err.Error()
	case errors.Is(err, seat.ErrQuotaExceeded),
		errors.Is(err, seat.ErrEmptyBatch),
		errors.Is(err, seat.ErrBatchTooLarge),
		errors.Is(err, seat.ErrInvalidSeatID),
		errors.Is(err, seat.ErrHolderIDRequired),
		errors.Is(err, seat.ErrInvalidStatus),
		errors.Is(err, stadium.ErrStadiumNameRequired),
		errors.Is(err, stadium.ErrCityRequired),
		errors.Is(err, stadium.ErrInvalidSection),
		errors.Is(err, stadium.ErrInvalidSectionLayout),
		errors.Is(err, stadium.ErrInvalidSectionPrice),
		errors.Is(err, stadium.ErrDuplicateSectionID):
		code = http.StatusBadRequest
		message = err.Error()
	}

	if code >= 500 {
		logger.Error("サーバーエラー",
			zap.Int("status", code),
			zap.String("path", c.Request().URL.Path),
			zap.Error(err),
		)
	}

	if err := c.JSON(code, ErrorResponse{
		Error:   message,
		Code:    code,
		SeatIDs: seatIDs,
	}); err != nil {
		logger.Error("エラーレスポンス送信失敗", zap.Error(err))
	}
}
