package application

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/lavkushry1/Eventia-Proj-sub000/internal/domain/stadium"
)

// StadiumService はスタジアムと区画の管理を担うサービス
type StadiumService struct {
	stadiumRepo stadium.Repository
}

func NewStadiumService(stadiumRepo stadium.Repository) *StadiumService {
	return &StadiumService{stadiumRepo: stadiumRepo}
}

type SectionInput struct {
	ID          string
	Name        string
	Rows        int
	SeatsPerRow int
	Price       int
	ViewQuality string
}

type CreateStadiumInput struct {
	Name     string
	City     string
	Country  string
	ImageURL string
	Sections []SectionInput
}

func (s *StadiumService) CreateStadium(ctx context.Context, input CreateStadiumInput) (*stadium.Stadium, error) {
	sections := make([]stadium.Section, len(input.Sections))
	for i, sec := range input.Sections {
		sections[i] = stadium.Section{
			ID:          sec.ID,
			Name:        sec.Name,
			Rows:        sec.Rows,
			SeatsPerRow: sec.SeatsPerRow,
			Price:       sec.Price,
			ViewQuality: sec.ViewQuality,
		}
	}
	st := stadium.NewStadium(uuid.NewString(), input.Name, input.City, input.Country, sections)
	st.ImageURL = input.ImageURL
	if err := st.Validate(); err != nil {
		return nil, fmt.Errorf("バリデーションエラー: %w", err)
	}
	if err := s.stadiumRepo.Create(ctx, st); err != nil {
		return nil, fmt.Errorf("スタジアム作成に失敗しました: %w", err)
	}
	return st, nil
}

func (s *StadiumService) GetStadium(ctx context.Context, id string) (*stadium.Stadium, error) {
	return s.stadiumRepo.GetByID(ctx, id)
}

func (s *StadiumService) ListStadiums(ctx context.Context, limit, offset int) ([]*stadium.Stadium, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return s.stadiumRepo.List(ctx, limit, offset)
}

type UpdateStadiumInput struct {
	ID       string
	Name     string
	City     string
	Country  string
	ImageURL string
}

func (s *StadiumService) UpdateStadium(ctx context.Context, input UpdateStadiumInput) (*stadium.Stadium, error) {
	st, err := s.stadiumRepo.GetByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if input.Name != "" {
		st.Name = input.Name
	}
	if input.City != "" {
		st.City = input.City
	}
	if input.Country != "" {
		st.Country = input.Country
	}
	if input.ImageURL != "" {
		st.ImageURL = input.ImageURL
	}
	if err := st.Validate(); err != nil {
		return nil, fmt.Errorf("バリデーションエラー: %w", err)
	}
	if err := s.stadiumRepo.Update(ctx, st); err != nil {
		return nil, err
	}
	return st, nil
}

func (s *StadiumService) DeleteStadium(ctx context.Context, id string) error {
	return s.stadiumRepo.Delete(ctx, id)
}
