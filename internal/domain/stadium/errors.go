package stadium

import "errors"

// Stadium ドメインのエラー定義
var (
	ErrStadiumNotFound      = errors.New("スタジアムが見つかりません")
	ErrSectionNotFound      = errors.New("区画が見つかりません")
	ErrStadiumNameRequired  = errors.New("スタジアム名は必須です")
	ErrCityRequired         = errors.New("都市名は必須です")
	ErrInvalidSection       = errors.New("区画のIDと名前は必須です")
	ErrInvalidSectionLayout = errors.New("区画の列数と列あたり座席数は1以上である必要があります")
	ErrInvalidSectionPrice  = errors.New("区画の価格は0以上である必要があります")
	ErrDuplicateSectionID   = errors.New("区画IDが重複しています")
	ErrSeatMapExists        = errors.New("この区画の座席マップは既に生成されています")
)
