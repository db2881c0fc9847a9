package handler_test

import (
	"github.com/labstack/echo/v4"

	"github.com/lavkushry1/Eventia-Proj-sub000/internal/api"
)

// NewTestEcho はテスト用のEchoインスタンスを作成する
func NewTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = api.NewValidator()
	e.HTTPErrorHandler = api.CustomHTTPErrorHandler
	return e
}
