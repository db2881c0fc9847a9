package application

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/lavkushry1/Eventia-Proj-sub000/internal/domain/seat"
)

// MockSeatRepository はseat.Repositoryのモック
type MockSeatRepository struct {
	mock.Mock
}

func (m *MockSeatRepository) CreateBulk(ctx context.Context, seats []*seat.Seat) error {
	args := m.Called(ctx, seats)
	return args.Error(0)
}

func (m *MockSeatRepository) FindByIDs(ctx context.Context, ids []string) ([]*seat.Seat, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*seat.Seat), args.Error(1)
}

func (m *MockSeatRepository) FindBySection(ctx context.Context, stadiumID, sectionID string) ([]*seat.Seat, error) {
	args := m.Called(ctx, stadiumID, sectionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*seat.Seat), args.Error(1)
}

func (m *MockSeatRepository) FindAvailableBySection(ctx context.Context, stadiumID, sectionID string) ([]*seat.Seat, error) {
	args := m.Called(ctx, stadiumID, sectionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*seat.Seat), args.Error(1)
}

func (m *MockSeatRepository) CountAvailableBySection(ctx context.Context, stadiumID, sectionID string) (int, error) {
	args := m.Called(ctx, stadiumID, sectionID)
	return args.Int(0), args.Error(1)
}

func (m *MockSeatRepository) CountReservedByHolder(ctx context.Context, holderID string) (int, error) {
	args := m.Called(ctx, holderID)
	return args.Int(0), args.Error(1)
}

func (m *MockSeatRepository) ReserveSeats(ctx context.Context, ids []string, holderID string, reservedAt, expiresAt time.Time) (int, error) {
	args := m.Called(ctx, ids, holderID, reservedAt, expiresAt)
	return args.Int(0), args.Error(1)
}

func (m *MockSeatRepository) ConfirmSeats(ctx context.Context, ids []string) (int, error) {
	args := m.Called(ctx, ids)
	return args.Int(0), args.Error(1)
}

func (m *MockSeatRepository) ReleaseSeats(ctx context.Context, ids []string, holderID string) (int, error) {
	args := m.Called(ctx, ids, holderID)
	return args.Int(0), args.Error(1)
}

func (m *MockSeatRepository) ReleaseHolderSeats(ctx context.Context, ids []string, holderID string) (int, error) {
	args := m.Called(ctx, ids, holderID)
	return args.Int(0), args.Error(1)
}

func (m *MockSeatRepository) ReleaseExpired(ctx context.Context, now time.Time) (int, error) {
	args := m.Called(ctx, now)
	return args.Int(0), args.Error(1)
}

func (m *MockSeatRepository) ReleaseExpiredByIDs(ctx context.Context, ids []string, now time.Time) (int, error) {
	args := m.Called(ctx, ids, now)
	return args.Int(0), args.Error(1)
}

func (m *MockSeatRepository) UpdateStatus(ctx context.Context, ids []string, status seat.Status, holderID *string) (int, error) {
	args := m.Called(ctx, ids, status, holderID)
	return args.Int(0), args.Error(1)
}

func newTestReservationService(repo seat.Repository, holdTimeout time.Duration) *ReservationService {
	return NewReservationService(repo, nil, nil, nil, holdTimeout, 10)
}

func availableSeat(id string) *seat.Seat {
	return seat.NewSeat(id, "stadium-1", "north", "A", 1, 3000)
}

func reservedSeat(id, holderID string) *seat.Seat {
	s := availableSeat(id)
	s.Status = seat.StatusReserved
	expiry := time.Now().Add(5 * time.Minute)
	s.HolderID = &holderID
	s.ExpiresAt = &expiry
	return s
}

func sortedIDs(ids ...string) []string {
	s := make([]string, len(ids))
	copy(s, ids)
	sort.Strings(s)
	return s
}

func TestReservationService_ReserveSeats(t *testing.T) {
	ctx := context.Background()

	t.Run("空席のバッチを仮押さえできる", func(t *testing.T) {
		idA, idB := uuid.NewString(), uuid.NewString()
		ids := sortedIDs(idA, idB)

		repo := new(MockSeatRepository)
		repo.On("FindByIDs", mock.Anything, ids).
			Return([]*seat.Seat{availableSeat(idA), availableSeat(idB)}, nil)
		repo.On("CountReservedByHolder", mock.Anything, "user-1").Return(0, nil)
		repo.On("ReserveSeats", mock.Anything, ids, "user-1", mock.AnythingOfType("time.Time"), mock.AnythingOfType("time.Time")).
			Return(2, nil)
		repo.On("ReleaseExpiredByIDs", mock.Anything, ids, mock.AnythingOfType("time.Time")).
			Return(0, nil).Maybe()

		svc := newTestReservationService(repo, 5*time.Minute)
		before := time.Now()

		result, err := svc.ReserveSeats(ctx, ReserveSeatsInput{SeatIDs: []string{idA, idB}, HolderID: "user-1"})

		require.NoError(t, err)
		assert.Len(t, result.Seats, 2)
		assert.WithinDuration(t, before.Add(5*time.Minute), result.ExpiresAt, 2*time.Second)
		repo.AssertExpectations(t)
	})

	t.Run("重複IDは除去される", func(t *testing.T) {
		idA := uuid.NewString()

		repo := new(MockSeatRepository)
		repo.On("FindByIDs", mock.Anything, []string{idA}).
			Return([]*seat.Seat{availableSeat(idA)}, nil)
		repo.On("CountReservedByHolder", mock.Anything, "user-1").Return(0, nil)
		repo.On("ReserveSeats", mock.Anything, []string{idA}, "user-1", mock.AnythingOfType("time.Time"), mock.AnythingOfType("time.Time")).
			Return(1, nil)
		repo.On("ReleaseExpiredByIDs", mock.Anything, mock.Anything, mock.Anything).Return(0, nil).Maybe()

		svc := newTestReservationService(repo, 5*time.Minute)

		result, err := svc.ReserveSeats(ctx, ReserveSeatsInput{SeatIDs: []string{idA, idA}, HolderID: "user-1"})

		require.NoError(t, err)
		assert.Len(t, result.Seats, 1)
	})

	t.Run("空のバッチはエラー", func(t *testing.T) {
		svc := newTestReservationService(new(MockSeatRepository), 5*time.Minute)

		_, err := svc.ReserveSeats(ctx, ReserveSeatsInput{SeatIDs: nil, HolderID: "user-1"})

		assert.ErrorIs(t, err, seat.ErrEmptyBatch)
	})

	t.Run("バッチ上限10件を超えるとエラー", func(t *testing.T) {
		ids := make([]string, 11)
		for i := range ids {
			ids[i] = uuid.NewString()
		}
		svc := newTestReservationService(new(MockSeatRepository), 5*time.Minute)

		_, err := svc.ReserveSeats(ctx, ReserveSeatsInput{SeatIDs: ids, HolderID: "user-1"})

		assert.ErrorIs(t, err, seat.ErrBatchTooLarge)
	})

	t.Run("不正な形式の座席IDはエラー", func(t *testing.T) {
		svc := newTestReservationService(new(MockSeatRepository), 5*time.Minute)

		_, err := svc.ReserveSeats(ctx, ReserveSeatsInput{SeatIDs: []string{"not-a-uuid"}, HolderID: "user-1"})

		assert.ErrorIs(t, err, seat.ErrInvalidSeatID)
	})

	t.Run("ユーザーIDが空はエラー", func(t *testing.T) {
		svc := newTestReservationService(new(MockSeatRepository), 5*time.Minute)

		_, err := svc.ReserveSeats(ctx, ReserveSeatsInput{SeatIDs: []string{uuid.NewString()}, HolderID: ""})

		assert.ErrorIs(t, err, seat.ErrHolderIDRequired)
	})

	t.Run("存在しない座席があると全体が失敗する", func(t *testing.T) {
		idA, idB := uuid.NewString(), uuid.NewString()
		ids := sortedIDs(idA, idB)

		repo := new(MockSeatRepository)
		repo.On("FindByIDs", mock.Anything, ids).
			Return([]*seat.Seat{availableSeat(idA)}, nil)

		svc := newTestReservationService(repo, 5*time.Minute)

		_, err := svc.ReserveSeats(ctx, ReserveSeatsInput{SeatIDs: []string{idA, idB}, HolderID: "user-1"})

		require.Error(t, err)
		assert.ErrorIs(t, err, seat.ErrSeatNotFound)
		assert.Contains(t, err.Error(), idB)
		repo.AssertNotCalled(t, "ReserveSeats", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("空席でない座席があると全体が失敗し一部の仮押さえも起きない", func(t *testing.T) {
		idA, idB := uuid.NewString(), uuid.NewString()
		ids := sortedIDs(idA, idB)

		repo := new(MockSeatRepository)
		repo.On("FindByIDs", mock.Anything, ids).
			Return([]*seat.Seat{availableSeat(idA), reservedSeat(idB, "someone-else")}, nil)

		svc := newTestReservationService(repo, 5*time.Minute)

		_, err := svc.ReserveSeats(ctx, ReserveSeatsInput{SeatIDs: []string{idA, idB}, HolderID: "user-1"})

		require.Error(t, err)
		assert.ErrorIs(t, err, seat.ErrSeatNotAvailable)

		var conflict *seat.ConflictError
		require.ErrorAs(t, err, &conflict)
		assert.Equal(t, []string{idB}, conflict.SeatIDs)

		// 競合時は書き込みに進まない（座席Aも仮押さえされない）
		repo.AssertNotCalled(t, "ReserveSeats", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("保持上限9件で2件追加は上限超過", func(t *testing.T) {
		idA, idB := uuid.NewString(), uuid.NewString()
		ids := sortedIDs(idA, idB)

		repo := new(MockSeatRepository)
		repo.On("FindByIDs", mock.Anything, ids).
			Return([]*seat.Seat{availableSeat(idA), availableSeat(idB)}, nil)
		repo.On("CountReservedByHolder", mock.Anything, "user-1").Return(9, nil)

		svc := newTestReservationService(repo, 5*time.Minute)

		_, err := svc.ReserveSeats(ctx, ReserveSeatsInput{SeatIDs: []string{idA, idB}, HolderID: "user-1"})

		assert.ErrorIs(t, err, seat.ErrQuotaExceeded)
		repo.AssertNotCalled(t, "ReserveSeats", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("保持上限9件で1件追加はちょうど上限で成功", func(t *testing.T) {
		idA := uuid.NewString()

		repo := new(MockSeatRepository)
		repo.On("FindByIDs", mock.Anything, []string{idA}).
			Return([]*seat.Seat{availableSeat(idA)}, nil)
		repo.On("CountReservedByHolder", mock.Anything, "user-1").Return(9, nil)
		repo.On("ReserveSeats", mock.Anything, []string{idA}, "user-1", mock.AnythingOfType("time.Time"), mock.AnythingOfType("time.Time")).
			Return(1, nil)
		repo.On("ReleaseExpiredByIDs", mock.Anything, mock.Anything, mock.Anything).Return(0, nil).Maybe()

		svc := newTestReservationService(repo, 5*time.Minute)

		_, err := svc.ReserveSeats(ctx, ReserveSeatsInput{SeatIDs: []string{idA}, HolderID: "user-1"})

		require.NoError(t, err)
	})

	t.Run("書き込み時に競争に負けたら巻き戻して失敗する", func(t *testing.T) {
		idA, idB := uuid.NewString(), uuid.NewString()
		ids := sortedIDs(idA, idB)

		repo := new(MockSeatRepository)
		repo.On("FindByIDs", mock.Anything, ids).
			Return([]*seat.Seat{availableSeat(idA), availableSeat(idB)}, nil)
		repo.On("CountReservedByHolder", mock.Anything, "user-1").Return(0, nil)
		// チェックと書き込みの間に他の保持者が1席取った
		repo.On("ReserveSeats", mock.Anything, ids, "user-1", mock.AnythingOfType("time.Time"), mock.AnythingOfType("time.Time")).
			Return(1, nil)
		repo.On("ReleaseHolderSeats", mock.Anything, ids, "user-1").Return(1, nil)

		svc := newTestReservationService(repo, 5*time.Minute)

		_, err := svc.ReserveSeats(ctx, ReserveSeatsInput{SeatIDs: []string{idA, idB}, HolderID: "user-1"})

		assert.ErrorIs(t, err, seat.ErrReservationFailed)
		repo.AssertCalled(t, "ReleaseHolderSeats", mock.Anything, ids, "user-1")
	})
}

func TestReservationService_DeferredExpiry(t *testing.T) {
	ctx := context.Background()
	idA := uuid.NewString()

	fired := make(chan struct{})

	repo := new(MockSeatRepository)
	repo.On("FindByIDs", mock.Anything, []string{idA}).
		Return([]*seat.Seat{availableSeat(idA)}, nil)
	repo.On("CountReservedByHolder", mock.Anything, "user-1").Return(0, nil)
	repo.On("ReserveSeats", mock.Anything, []string{idA}, "user-1", mock.AnythingOfType("time.Time"), mock.AnythingOfType("time.Time")).
		Return(1, nil)
	repo.On("ReleaseExpiredByIDs", mock.Anything, []string{idA}, mock.AnythingOfType("time.Time")).
		Return(1, nil).
		Run(func(args mock.Arguments) { close(fired) }).
		Once()

	svc := newTestReservationService(repo, 50*time.Millisecond)

	_, err := svc.ReserveSeats(ctx, ReserveSeatsInput{SeatIDs: []string{idA}, HolderID: "user-1"})
	require.NoError(t, err)

	select {
	case <-fired:
		// 遅延アクションが期限到来時に発火した
	case <-time.After(2 * time.Second):
		t.Fatal("deferred expiry did not fire")
	}
}

func TestReservationService_ReleaseSeats(t *testing.T) {
	ctx := context.Background()

	t.Run("保持者一致の座席だけが解放される", func(t *testing.T) {
		idA, idB := uuid.NewString(), uuid.NewString()
		ids := sortedIDs(idA, idB)

		repo := new(MockSeatRepository)
		repo.On("FindByIDs", mock.Anything, ids).
			Return([]*seat.Seat{reservedSeat(idA, "user-1"), reservedSeat(idB, "user-2")}, nil)
		repo.On("ReleaseSeats", mock.Anything, ids, "user-1").Return(1, nil)

		svc := newTestReservationService(repo, 5*time.Minute)

		released, err := svc.ReleaseSeats(ctx, ReleaseSeatsInput{SeatIDs: []string{idA, idB}, HolderID: "user-1"})

		require.NoError(t, err)
		assert.Equal(t, 1, released)
	})

	t.Run("対象が1件もなくてもエラーにならない", func(t *testing.T) {
		idA := uuid.NewString()

		repo := new(MockSeatRepository)
		repo.On("FindByIDs", mock.Anything, []string{idA}).
			Return([]*seat.Seat{availableSeat(idA)}, nil)
		repo.On("ReleaseSeats", mock.Anything, []string{idA}, "user-1").Return(0, nil)

		svc := newTestReservationService(repo, 5*time.Minute)

		released, err := svc.ReleaseSeats(ctx, ReleaseSeatsInput{SeatIDs: []string{idA}, HolderID: "user-1"})

		require.NoError(t, err)
		assert.Equal(t, 0, released)
	})
}

func TestReservationService_ConfirmSeats(t *testing.T) {
	ctx := context.Background()

	t.Run("仮押さえ中の座席を確定できる", func(t *testing.T) {
		idA, idB := uuid.NewString(), uuid.NewString()
		ids := sortedIDs(idA, idB)

		repo := new(MockSeatRepository)
		repo.On("FindByIDs", mock.Anything, ids).
			Return([]*seat.Seat{reservedSeat(idA, "user-1"), reservedSeat(idB, "user-1")}, nil)
		repo.On("ConfirmSeats", mock.Anything, ids).Return(2, nil)

		svc := newTestReservationService(repo, 5*time.Minute)

		updated, err := svc.ConfirmSeats(ctx, []string{idA, idB})

		require.NoError(t, err)
		assert.Equal(t, 2, updated)
	})

	t.Run("販売済みの座席は確定対象にならない", func(t *testing.T) {
		idA := uuid.NewString()
		sold := availableSeat(idA)
		sold.Status = seat.StatusUnavailable

		repo := new(MockSeatRepository)
		repo.On("FindByIDs", mock.Anything, []string{idA}).
			Return([]*seat.Seat{sold}, nil)
		repo.On("ConfirmSeats", mock.Anything, []string{idA}).Return(0, nil)

		svc := newTestReservationService(repo, 5*time.Minute)

		updated, err := svc.ConfirmSeats(ctx, []string{idA})

		require.NoError(t, err)
		assert.Equal(t, 0, updated)
	})
}

func TestReservationService_BatchUpdateSeats(t *testing.T) {
	ctx := context.Background()

	t.Run("無条件にステータスを一括更新できる", func(t *testing.T) {
		idA := uuid.NewString()

		repo := new(MockSeatRepository)
		repo.On("FindByIDs", mock.Anything, []string{idA}).
			Return([]*seat.Seat{availableSeat(idA)}, nil)
		repo.On("UpdateStatus", mock.Anything, []string{idA}, seat.StatusUnavailable, (*string)(nil)).
			Return(1, nil)

		svc := newTestReservationService(repo, 5*time.Minute)

		updated, err := svc.BatchUpdateSeats(ctx, BatchUpdateInput{SeatIDs: []string{idA}, Status: seat.StatusUnavailable})

		require.NoError(t, err)
		assert.Equal(t, 1, updated)
	})

	t.Run("未定義のステータスはエラー", func(t *testing.T) {
		svc := newTestReservationService(new(MockSeatRepository), 5*time.Minute)

		_, err := svc.BatchUpdateSeats(ctx, BatchUpdateInput{SeatIDs: []string{uuid.NewString()}, Status: seat.Status("sold")})

		assert.ErrorIs(t, err, seat.ErrInvalidStatus)
	})
}

func TestReservationService_ReleaseExpiredHolds(t *testing.T) {
	ctx := context.Background()

	repo := new(MockSeatRepository)
	repo.On("ReleaseExpired", mock.Anything, mock.AnythingOfType("time.Time")).Return(3, nil)

	svc := newTestReservationService(repo, 5*time.Minute)

	released, err := svc.ReleaseExpiredHolds(ctx)

	require.NoError(t, err)
	assert.Equal(t, 3, released)
	repo.AssertExpectations(t)
}
