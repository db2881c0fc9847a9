package stadium

import "time"

// Section はスタジアム内の座席区画を表す
type Section struct {
	ID          string `bson:"id"`
	Name        string `bson:"name"`
	Rows        int    `bson:"rows"`
	SeatsPerRow int    `bson:"seats_per_row"`
	Price       int    `bson:"price"`
	ViewQuality string `bson:"view_quality,omitempty"`
}

// Capacity は区画の総座席数を返す
func (s *Section) Capacity() int {
	return s.Rows * s.SeatsPerRow
}

// Stadium はスタジアムエンティティを表す
type Stadium struct {
	ID        string    `bson:"_id"`
	Name      string    `bson:"name"`
	City      string    `bson:"city"`
	Country   string    `bson:"country,omitempty"`
	ImageURL  string    `bson:"image_url,omitempty"`
	Sections  []Section `bson:"sections"`
	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// NewStadium は新しいスタジアムを作成する
func NewStadium(id, name, city, country string, sections []Section) *Stadium {
	now := time.Now()
	return &Stadium{
		ID:        id,
		Name:      name,
		City:      city,
		Country:   country,
		Sections:  sections,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// TotalCapacity は全区画の総座席数を返す
func (s *Stadium) TotalCapacity() int {
	total := 0
	for _, sec := range s.Sections {
		total += sec.Capacity()
	}
	return total
}

// FindSection は区画IDから区画を取得する
func (s *Stadium) FindSection(sectionID string) (*Section, bool) {
	for i := range s.Sections {
		if s.Sections[i].ID == sectionID {
			return &s.Sections[i], true
		}
	}
	return nil, false
}

// Validate はスタジアムの検証を行う
func (s *Stadium) Validate() error {
	if s.Name == "" {
		return ErrStadiumNameRequired
	}
	if s.City == "" {
		return ErrCityRequired
	}
	seen := make(map[string]struct{}, len(s.Sections))
	for _, sec := range s.Sections {
		if sec.ID == "" || sec.Name == "" {
			return ErrInvalidSection
		}
		if sec.Rows <= 0 || sec.SeatsPerRow <= 0 {
			return ErrInvalidSectionLayout
		}
		if sec.Price < 0 {
			return ErrInvalidSectionPrice
		}
		if _, ok := seen[sec.ID]; ok {
			return ErrDuplicateSectionID
		}
		seen[sec.ID] = struct{}{}
	}
	return nil
}
