package seat

import (
	"context"
	"time"
)

// Repository は座席リポジトリのインターフェース
// 排他制御はすべて永続化層の条件付き一括更新で行う（プロセス内ロックは使わない）
type Repository interface {
	// CreateBulk は複数の座席を一括作成する
	CreateBulk(ctx context.Context, seats []*Seat) error

	// FindByIDs はIDの集合から座席を取得する（存在しないIDは結果に含まれない）
	FindByIDs(ctx context.Context, ids []string) ([]*Seat, error)

	// FindBySection は区画内の座席一覧を取得する
	FindBySection(ctx context.Context, stadiumID, sectionID string) ([]*Seat, error)

	// FindAvailableBySection は区画内の空席一覧を取得する
	FindAvailableBySection(ctx context.Context, stadiumID, sectionID string) ([]*Seat, error)

	// CountAvailableBySection は区画内の空席数を取得する
	CountAvailableBySection(ctx context.Context, stadiumID, sectionID string) (int, error)

	// CountReservedByHolder は保持者が仮押さえ中の座席数を取得する
	CountReservedByHolder(ctx context.Context, holderID string) (int, error)

	// ReserveSeats は status=available の座席のみを条件付きで仮押さえ状態に更新し、
	// 実際に更新できた件数を返す
	ReserveSeats(ctx context.Context, ids []string, holderID string, reservedAt, expiresAt time.Time) (int, error)

	// ConfirmSeats は status=reserved の座席のみを販売済みに更新し、更新件数を返す
	ConfirmSeats(ctx context.Context, ids []string) (int, error)

	// ReleaseSeats は指定保持者が仮押さえ中の座席のみを解放し、解放件数を返す
	// 条件に合わない座席は黙ってスキップされる
	ReleaseSeats(ctx context.Context, ids []string, holderID string) (int, error)

	// ReleaseHolderSeats は指定保持者の仮押さえをID集合の範囲で無条件に解放する
	// 仮押さえ失敗時の補償（ロールバック）用
	ReleaseHolderSeats(ctx context.Context, ids []string, holderID string) (int, error)

	// ReleaseExpired は期限切れの仮押さえ（status=reserved かつ expires_at <= now）を
	// 一括で解放し、解放件数を返す
	ReleaseExpired(ctx context.Context, now time.Time) (int, error)

	// ReleaseExpiredByIDs はID集合の範囲で期限切れの仮押さえを解放し、解放件数を返す
	// 確定・解放済みの座席には影響しない（冪等）
	ReleaseExpiredByIDs(ctx context.Context, ids []string, now time.Time) (int, error)

	// UpdateStatus はID集合の座席ステータスを無条件に一括更新する（管理用）
	// holderID が非nilの場合は保持者も併せて設定する
	UpdateStatus(ctx context.Context, ids []string, status Status, holderID *string) (int, error)
}
