package stadium

import "context"

// Repository はスタジアムリポジトリのインターフェース
type Repository interface {
	// Create は新しいスタジアムを作成する
	Create(ctx context.Context, stadium *Stadium) error

	// GetByID はIDからスタジアムを取得する
	GetByID(ctx context.Context, id string) (*Stadium, error)

	// List はスタジアム一覧を取得する
	List(ctx context.Context, limit, offset int) ([]*Stadium, error)

	// Update はスタジアムを更新する
	Update(ctx context.Context, stadium *Stadium) error

	// Delete はスタジアムを削除する
	Delete(ctx context.Context, id string) error
}
