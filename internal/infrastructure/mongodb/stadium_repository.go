package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/lavkushry1/Eventia-Proj-sub000/internal/domain/stadium"
)

const stadiumCollection = "stadiums"

// StadiumRepository はMongoDBによるスタジアムリポジトリの実装
type StadiumRepository struct {
	coll *mongo.Collection
}

func NewStadiumRepository(db *mongo.Database) *StadiumRepository {
	return &StadiumRepository{coll: db.Collection(stadiumCollection)}
}

func (r *StadiumRepository) Create(ctx context.Context, s *stadium.Stadium) error {
	if _, err := r.coll.InsertOne(ctx, s); err != nil {
		return fmt.Errorf("スタジアム作成に失敗: %w", err)
	}
	return nil
}

func (r *StadiumRepository) GetByID(ctx context.Context, id string) (*stadium.Stadium, error) {
	var s stadium.Stadium
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&s)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, stadium.ErrStadiumNotFound
		}
		return nil, fmt.Errorf("スタジアム取得に失敗: %w", err)
	}
	return &s, nil
}

func (r *StadiumRepository) List(ctx context.Context, limit, offset int) ([]*stadium.Stadium, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit)).
		SetSkip(int64(offset))
	cursor, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("スタジアム一覧取得に失敗: %w", err)
	}
	defer cursor.Close(ctx)

	var stadiums []*stadium.Stadium
	for cursor.Next(ctx) {
		var s stadium.Stadium
		if err := cursor.Decode(&s); err != nil {
			return nil, fmt.Errorf("スタジアムデコードに失敗: %w", err)
		}
		stadiums = append(stadiums, &s)
	}
	return stadiums, cursor.Err()
}

func (r *StadiumRepository) Update(ctx context.Context, s *stadium.Stadium) error {
	s.UpdatedAt = time.Now()
	result, err := r.coll.ReplaceOne(ctx, bson.M{"_id": s.ID}, s)
	if err != nil {
		return fmt.Errorf("スタジアム更新に失敗: %w", err)
	}
	if result.MatchedCount == 0 {
		return stadium.ErrStadiumNotFound
	}
	return nil
}

func (r *StadiumRepository) Delete(ctx context.Context, id string) error {
	result, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("スタジアム削除に失敗: %w", err)
	}
	if result.DeletedCount == 0 {
		return stadium.ErrStadiumNotFound
	}
	return nil
}

var _ stadium.Repository = (*StadiumRepository)(nil)
