package seat

import (
	"errors"
	"fmt"
	"strings"
)

// Seat ドメインのエラー定義
var (
	ErrSeatNotFound         = errors.New("座席が見つかりません")
	ErrSeatNotAvailable     = errors.New("座席は予約できません")
	ErrSeatNotReserved      = errors.New("座席は仮押さえされていません")
	ErrQuotaExceeded        = errors.New("保持できる仮押さえ座席数の上限を超えています")
	ErrReservationFailed    = errors.New("座席の仮押さえに失敗しました")
	ErrEmptyBatch           = errors.New("座席IDを1件以上指定してください")
	ErrBatchTooLarge        = errors.New("一度に指定できる座席数の上限を超えています")
	ErrInvalidSeatID        = errors.New("座席IDの形式が不正です")
	ErrHolderIDRequired     = errors.New("ユーザーIDは必須です")
	ErrExpiryInPast         = errors.New("仮押さえ期限は未来の時刻である必要があります")
	ErrHolderExpiryMismatch = errors.New("保持者と仮押さえ期限は対で設定する必要があります")
	ErrStadiumIDRequired    = errors.New("スタジアムIDは必須です")
	ErrSectionIDRequired    = errors.New("区画IDは必須です")
	ErrRowRequired          = errors.New("列ラベルは必須です")
	ErrInvalidSeatNumber    = errors.New("座席番号は1以上である必要があります")
	ErrInvalidPrice         = errors.New("価格は0以上である必要があります")
	ErrInvalidStatus        = errors.New("不正な座席ステータスです")
)

// ConflictError は空席でない座席を列挙する競合エラー
type ConflictError struct {
	SeatIDs []string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("座席は予約できません: %s", strings.Join(e.SeatIDs, ", "))
}

// Is は errors.Is(err, ErrSeatNotAvailable) でのマッチを可能にする
func (e *ConflictError) Is(target error) bool {
	return target == ErrSeatNotAvailable
}
