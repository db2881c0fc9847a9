package seat

import "time"

// Status は座席の状態を表す
type Status string

const (
	StatusAvailable   Status = "available"
	StatusSelected    Status = "selected"
	StatusReserved    Status = "reserved"
	StatusUnavailable Status = "unavailable"
)

// IsValid はステータス値が定義済みかを返す
func (s Status) IsValid() bool {
	switch s {
	case StatusAvailable, StatusSelected, StatusReserved, StatusUnavailable:
		return true
	}
	return false
}

// MaxSeatsPerHolder は1ユーザーが同時に保持できる仮押さえ座席数の上限
const MaxSeatsPerHolder = 10

// MaxBatchSize は1回の予約リクエストで指定できる座席数の上限
const MaxBatchSize = 10

// Coordinates は座席表示用の2D座標
type Coordinates struct {
	X float64 `bson:"x" json:"x"`
	Y float64 `bson:"y" json:"y"`
}

// Seat はスタジアム区画内の1座席を表すエンティティ
type Seat struct {
	ID          string       `bson:"_id"`
	StadiumID   string       `bson:"stadium_id"`
	SectionID   string       `bson:"section_id"`
	Row         string       `bson:"row"`
	Number      int          `bson:"number"`
	Price       int          `bson:"price"`
	Status      Status       `bson:"status"`
	ViewQuality string       `bson:"view_quality,omitempty"`
	Rating      string       `bson:"rating,omitempty"`
	Coordinates *Coordinates `bson:"coordinates,omitempty"`
	HolderID    *string      `bson:"holder_id,omitempty"`
	ReservedAt  *time.Time   `bson:"reserved_at,omitempty"`
	ExpiresAt   *time.Time   `bson:"expires_at,omitempty"`
	CreatedAt   time.Time    `bson:"created_at"`
	UpdatedAt   time.Time    `bson:"updated_at"`
}

// NewSeat は新しい座席を作成する
func NewSeat(id, stadiumID, sectionID, row string, number, price int) *Seat {
	now := time.Now()
	return &Seat{
		ID:        id,
		StadiumID: stadiumID,
		SectionID: sectionID,
		Row:       row,
		Number:    number,
		Price:     price,
		Status:    StatusAvailable,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// IsAvailable は座席が仮押さえ可能かを返す
func (s *Seat) IsAvailable() bool {
	return s.Status == StatusAvailable
}

// IsExpired は仮押さえの期限が切れているかを返す
func (s *Seat) IsExpired(now time.Time) bool {
	return s.Status == StatusReserved && s.ExpiresAt != nil && !s.ExpiresAt.After(now)
}

// Reserve は座席を仮押さえ状態にする
// expiresAt は呼び出し時点より未来でなければならない
func (s *Seat) Reserve(holderID string, expiresAt time.Time) error {
	if s.Status != StatusAvailable {
		return &ConflictError{SeatIDs: []string{s.ID}}
	}
	now := time.Now()
	if !expiresAt.After(now) {
		return ErrExpiryInPast
	}
	s.Status = StatusReserved
	s.HolderID = &holderID
	s.ReservedAt = &now
	s.ExpiresAt = &expiresAt
	s.UpdatedAt = now
	return nil
}

// Confirm は仮押さえ中の座席を本予約（販売済み）にする
// holder_id と expires_at は対で扱うため、確定時に両方クリアする
func (s *Seat) Confirm() error {
	if s.Status != StatusReserved {
		return ErrSeatNotReserved
	}
	s.Status = StatusUnavailable
	s.HolderID = nil
	s.ReservedAt = nil
	s.ExpiresAt = nil
	s.UpdatedAt = time.Now()
	return nil
}

// Release は仮押さえを解除して座席を空席に戻す
func (s *Seat) Release() {
	s.Status = StatusAvailable
	s.HolderID = nil
	s.ReservedAt = nil
	s.ExpiresAt = nil
	s.UpdatedAt = time.Now()
}

// Validate は座席の検証を行う
func (s *Seat) Validate() error {
	if s.StadiumID == "" {
		return ErrStadiumIDRequired
	}
	if s.SectionID == "" {
		return ErrSectionIDRequired
	}
	if s.Row == "" {
		return ErrRowRequired
	}
	if s.Number <= 0 {
		return ErrInvalidSeatNumber
	}
	if s.Price < 0 {
		return ErrInvalidPrice
	}
	if !s.Status.IsValid() {
		return ErrInvalidStatus
	}
	// holder_id と expires_at はどちらか一方だけが設定された状態を許さない
	if (s.HolderID == nil) != (s.ExpiresAt == nil) {
		return ErrHolderExpiryMismatch
	}
	return nil
}
