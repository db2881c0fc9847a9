package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/lavkushry1/Eventia-Proj-sub000/internal/api/handler"
	"github.com/lavkushry1/Eventia-Proj-sub000/internal/application"
	"github.com/lavkushry1/Eventia-Proj-sub000/internal/domain/seat"
	"github.com/lavkushry1/Eventia-Proj-sub000/internal/domain/stadium"
)

// MockSeatService はSeatServiceInterfaceのモック
type MockSeatService struct {
	mock.Mock
}

func (m *MockSeatService) GetSeat(ctx context.Context, id string) (*seat.Seat, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*seat.Seat), args.Error(1)
}

func (m *MockSeatService) GetSeatsBySection(ctx context.Context, stadiumID, sectionID string) ([]*seat.Seat, error) {
	args := m.Called(ctx, stadiumID, sectionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*seat.Seat), args.Error(1)
}

func (m *MockSeatService) GetAvailableSeatsBySection(ctx context.Context, stadiumID, sectionID string) ([]*seat.Seat, error) {
	args := m.Called(ctx, stadiumID, sectionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*seat.Seat), args.Error(1)
}

func (m *MockSeatService) CountAvailableSeats(ctx context.Context, stadiumID, sectionID string) (int, error) {
	args := m.Called(ctx, stadiumID, sectionID)
	return args.Int(0), args.Error(1)
}

func (m *MockSeatService) GenerateSeatMap(ctx context.Context, input application.GenerateSeatMapInput) ([]*seat.Seat, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*seat.Seat), args.Error(1)
}

func TestSeatHandler_GetByID(t *testing.T) {
	e := NewTestEcho()

	t.Run("座席を取得できる", func(t *testing.T) {
		mockService := new(MockSeatService)
		mockService.On("GetSeat", mock.Anything, "seat-1").Return(testSeat("seat-1"), nil)

		h := handler.NewSeatHandler(mockService)
		req := httptest.NewRequest(http.MethodGet, "/api/v1/seats/seat-1", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetPath("/api/v1/seats/:id")
		c.SetParamNames("id")
		c.SetParamValues("seat-1")

		err := h.GetByID(c)

		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)

		var resp handler.SeatResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "seat-1", resp.ID)
		assert.Equal(t, "available", resp.Status)
	})

	t.Run("存在しない座席はエラーハンドラーで404になる", func(t *testing.T) {
		mockService := new(MockSeatService)
		mockService.On("GetSeat", mock.Anything, "missing").Return(nil, seat.ErrSeatNotFound)

		h := handler.NewSeatHandler(mockService)
		e2 := NewTestEcho()
		e2.GET("/api/v1/seats/:id", h.GetByID)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/seats/missing", nil)
		rec := httptest.NewRecorder()
		e2.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestSeatHandler_GetBySection(t *testing.T) {
	e := NewTestEcho()

	t.Run("区画の座席一覧を取得できる", func(t *testing.T) {
		mockService := new(MockSeatService)
		mockService.On("GetSeatsBySection", mock.Anything, "stadium-1", "north").
			Return([]*seat.Seat{testSeat("seat-1"), testSeat("seat-2")}, nil)

		h := handler.NewSeatHandler(mockService)
		req := httptest.NewRequest(http.MethodGet, "/api/v1/stadiums/stadium-1/sections/north/seats", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("stadium_id", "section_id")
		c.SetParamValues("stadium-1", "north")

		err := h.GetBySection(c)

		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)

		var resp []handler.SeatResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Len(t, resp, 2)
		mockService.AssertNotCalled(t, "GetAvailableSeatsBySection", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("available=trueで空席のみ取得する", func(t *testing.T) {
		mockService := new(MockSeatService)
		mockService.On("GetAvailableSeatsBySection", mock.Anything, "stadium-1", "north").
			Return([]*seat.Seat{testSeat("seat-1")}, nil)

		h := handler.NewSeatHandler(mockService)
		req := httptest.NewRequest(http.MethodGet, "/api/v1/stadiums/stadium-1/sections/north/seats?available=true", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("stadium_id", "section_id")
		c.SetParamValues("stadium-1", "north")

		err := h.GetBySection(c)

		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)

		var resp []handler.SeatResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Len(t, resp, 1)
	})
}

func TestSeatHandler_CountAvailable(t *testing.T) {
	e := NewTestEcho()

	mockService := new(MockSeatService)
	mockService.On("CountAvailableSeats", mock.Anything, "stadium-1", "north").Return(42, nil)

	h := handler.NewSeatHandler(mockService)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/stadiums/stadium-1/sections/north/seats/count", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("stadium_id", "section_id")
	c.SetParamValues("stadium-1", "north")

	err := h.CountAvailable(c)

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]int
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 42, resp["count"])
}

func TestSeatHandler_GenerateSeatMap(t *testing.T) {
	t.Run("座席マップを生成できる", func(t *testing.T) {
		e := NewTestEcho()
		mockService := new(MockSeatService)
		mockService.On("GenerateSeatMap", mock.Anything, application.GenerateSeatMapInput{
			StadiumID: "stadium-1", SectionID: "north",
		}).Return([]*seat.Seat{testSeat("seat-1")}, nil)

		h := handler.NewSeatHandler(mockService)
		req := httptest.NewRequest(http.MethodPost, "/api/v1/stadiums/stadium-1/sections/north/seats/generate", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("stadium_id", "section_id")
		c.SetParamValues("stadium-1", "north")

		err := h.GenerateSeatMap(c)

		require.NoError(t, err)
		assert.Equal(t, http.StatusCreated, rec.Code)
	})

	t.Run("生成済みの区画はエラーハンドラーで409になる", func(t *testing.T) {
		mockService := new(MockSeatService)
		mockService.On("GenerateSeatMap", mock.Anything, mock.Anything).
			Return(nil, stadium.ErrSeatMapExists)

		h := handler.NewSeatHandler(mockService)
		e2 := NewTestEcho()
		e2.POST("/api/v1/stadiums/:stadium_id/sections/:section_id/seats/generate", h.GenerateSeatMap)

		req := httptest.NewRequest(http.MethodPost, "/api/v1/stadiums/stadium-1/sections/north/seats/generate", nil)
		rec := httptest.NewRecorder()
		e2.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusConflict, rec.Code)
	})
}
