package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/lavkushry1/Eventia-Proj-sub000/internal/domain/seat"
)

const seatCollection = "seats"

// SeatRepository はMongoDBによる座席リポジトリの実装
// 状態遷移のガードはすべてフィルタ付きUpdateManyで表現し、
// チェック後の書き込みまでの競合はマッチ件数の検査で検出する
type SeatRepository struct {
	coll *mongo.Collection
}

func NewSeatRepository(db *mongo.Database) *SeatRepository {
	return &SeatRepository{coll: db.Collection(seatCollection)}
}

// EnsureIndexes は座席コレクションのインデックスを作成する
// (stadium_id, section_id, row, number) の一意制約で座席位置の重複を防ぐ
func (r *SeatRepository) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "stadium_id", Value: 1},
				{Key: "section_id", Value: 1},
				{Key: "row", Value: 1},
				{Key: "number", Value: 1},
			},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{
				{Key: "status", Value: 1},
				{Key: "expires_at", Value: 1},
			},
		},
		{
			Keys: bson.D{{Key: "holder_id", Value: 1}},
		},
	}
	if _, err := r.coll.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("座席インデックス作成に失敗: %w", err)
	}
	return nil
}

func (r *SeatRepository) CreateBulk(ctx context.Context, seats []*seat.Seat) error {
	if len(seats) == 0 {
		return nil
	}
	docs := make([]interface{}, len(seats))
	for i, s := range seats {
		docs[i] = s
	}
	if _, err := r.coll.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("座席一括作成に失敗: %w", err)
	}
	return nil
}

func (r *SeatRepository) FindByIDs(ctx context.Context, ids []string) ([]*seat.Seat, error) {
	cursor, err := r.coll.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("座席取得に失敗: %w", err)
	}
	return decodeSeats(ctx, cursor)
}

func (r *SeatRepository) FindBySection(ctx context.Context, stadiumID, sectionID string) ([]*seat.Seat, error) {
	filter := bson.M{"stadium_id": stadiumID, "section_id": sectionID}
	opts := options.Find().SetSort(bson.D{{Key: "row", Value: 1}, {Key: "number", Value: 1}})
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("区画座席取得に失敗: %w", err)
	}
	return decodeSeats(ctx, cursor)
}

func (r *SeatRepository) FindAvailableBySection(ctx context.Context, stadiumID, sectionID string) ([]*seat.Seat, error) {
	filter := bson.M{
		"stadium_id": stadiumID,
		"section_id": sectionID,
		"status":     seat.StatusAvailable,
	}
	opts := options.Find().SetSort(bson.D{{Key: "row", Value: 1}, {Key: "number", Value: 1}})
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("空席取得に失敗: %w", err)
	}
	return decodeSeats(ctx, cursor)
}

func (r *SeatRepository) CountAvailableBySection(ctx context.Context, stadiumID, sectionID string) (int, error) {
	count, err := r.coll.CountDocuments(ctx, bson.M{
		"stadium_id": stadiumID,
		"section_id": sectionID,
		"status":     seat.StatusAvailable,
	})
	if err != nil {
		return 0, fmt.Errorf("空席数取得に失敗: %w", err)
	}
	return int(count), nil
}

func (r *SeatRepository) CountReservedByHolder(ctx context.Context, holderID string) (int, error) {
	count, err := r.coll.CountDocuments(ctx, bson.M{
		"holder_id": holderID,
		"status":    seat.StatusReserved,
	})
	if err != nil {
		return 0, fmt.Errorf("仮押さえ数取得に失敗: %w", err)
	}
	return int(count), nil
}

// ReserveSeats は書き込み時点で status=available の座席だけを仮押さえ状態にする
// 事前チェックとの間に他の保持者が座席を取った場合、戻り値はリクエスト数を下回る
func (r *SeatRepository) ReserveSeats(ctx context.Context, ids []string, holderID string, reservedAt, expiresAt time.Time) (int, error) {
	filter := bson.M{
		"_id":    bson.M{"$in": ids},
		"status": seat.StatusAvailable,
	}
	update := bson.M{
		"$set": bson.M{
			"status":      seat.StatusReserved,
			"holder_id":   holderID,
			"reserved_at": reservedAt,
			"expires_at":  expiresAt,
			"updated_at":  reservedAt,
		},
	}
	result, err := r.coll.UpdateMany(ctx, filter, update)
	if err != nil {
		return 0, fmt.Errorf("座席仮押さえに失敗: %w", err)
	}
	return int(result.ModifiedCount), nil
}

func (r *SeatRepository) ConfirmSeats(ctx context.Context, ids []string) (int, error) {
	filter := bson.M{
		"_id":    bson.M{"$in": ids},
		"status": seat.StatusReserved,
	}
	update := bson.M{
		"$set": bson.M{
			"status":     seat.StatusUnavailable,
			"updated_at": time.Now(),
		},
		"$unset": bson.M{
			"holder_id":   "",
			"reserved_at": "",
			"expires_at":  "",
		},
	}
	result, err := r.coll.UpdateMany(ctx, filter, update)
	if err != nil {
		return 0, fmt.Errorf("座席確定に失敗: %w", err)
	}
	return int(result.ModifiedCount), nil
}

func (r *SeatRepository) ReleaseSeats(ctx context.Context, ids []string, holderID string) (int, error) {
	filter := bson.M{
		"_id":       bson.M{"$in": ids},
		"holder_id": holderID,
		"status":    seat.StatusReserved,
	}
	result, err := r.coll.UpdateMany(ctx, filter, releaseUpdate())
	if err != nil {
		return 0, fmt.Errorf("座席解放に失敗: %w", err)
	}
	return int(result.ModifiedCount), nil
}

// ReleaseHolderSeats は仮押さえ失敗時の補償用
// この呼び出しで仮押さえされた座席だけが対象になるよう holder_id で絞る
func (r *SeatRepository) ReleaseHolderSeats(ctx context.Context, ids []string, holderID string) (int, error) {
	filter := bson.M{
		"_id":       bson.M{"$in": ids},
		"holder_id": holderID,
	}
	result, err := r.coll.UpdateMany(ctx, filter, releaseUpdate())
	if err != nil {
		return 0, fmt.Errorf("仮押さえの巻き戻しに失敗: %w", err)
	}
	return int(result.ModifiedCount), nil
}

func (r *SeatRepository) ReleaseExpired(ctx context.Context, now time.Time) (int, error) {
	filter := bson.M{
		"status":     seat.StatusReserved,
		"expires_at": bson.M{"$lte": now},
	}
	result, err := r.coll.UpdateMany(ctx, filter, releaseUpdate())
	if err != nil {
		return 0, fmt.Errorf("期限切れ仮押さえの解放に失敗: %w", err)
	}
	return int(result.ModifiedCount), nil
}

func (r *SeatRepository) ReleaseExpiredByIDs(ctx context.Context, ids []string, now time.Time) (int, error) {
	filter := bson.M{
		"_id":        bson.M{"$in": ids},
		"status":     seat.StatusReserved,
		"expires_at": bson.M{"$lte": now},
	}
	result, err := r.coll.UpdateMany(ctx, filter, releaseUpdate())
	if err != nil {
		return 0, fmt.Errorf("期限切れ仮押さえの解放に失敗: %w", err)
	}
	return int(result.ModifiedCount), nil
}

func (r *SeatRepository) UpdateStatus(ctx context.Context, ids []string, status seat.Status, holderID *string) (int, error) {
	set := bson.M{
		"status":     status,
		"updated_at": time.Now(),
	}
	if holderID != nil {
		set["holder_id"] = *holderID
	}
	result, err := r.coll.UpdateMany(ctx, bson.M{"_id": bson.M{"$in": ids}}, bson.M{"$set": set})
	if err != nil {
		return 0, fmt.Errorf("座席ステータス一括更新に失敗: %w", err)
	}
	return int(result.ModifiedCount), nil
}

// releaseUpdate は座席を空席へ戻す共通の更新内容
func releaseUpdate() bson.M {
	return bson.M{
		"$set": bson.M{
			"status":     seat.StatusAvailable,
			"updated_at": time.Now(),
		},
		"$unset": bson.M{
			"holder_id":   "",
			"reserved_at": "",
			"expires_at":  "",
		},
	}
}

func decodeSeats(ctx context.Context, cursor *mongo.Cursor) ([]*seat.Seat, error) {
	defer cursor.Close(ctx)
	var seats []*seat.Seat
	for cursor.Next(ctx) {
		var s seat.Seat
		if err := cursor.Decode(&s); err != nil {
			return nil, fmt.Errorf("座席デコードに失敗: %w", err)
		}
		seats = append(seats, &s)
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return seats, nil
}

var _ seat.Repository = (*SeatRepository)(nil)
