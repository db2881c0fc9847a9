package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/lavkushry1/Eventia-Proj-sub000/internal/config"
)

// NewClient はMongoDBクライアントを作成し、接続を確認する
// グローバル変数は使わず、呼び出し側がライフサイクルを管理する
func NewClient(ctx context.Context, cfg *config.MongoConfig) (*mongo.Client, error) {
	connectCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	clientOpts := options.Client().
		ApplyURI(cfg.URI).
		SetServerSelectionTimeout(cfg.ConnectTimeout)

	client, err := mongo.Connect(connectCtx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("MongoDB接続に失敗しました: %w", err)
	}

	if err := client.Ping(connectCtx, nil); err != nil {
		return nil, fmt.Errorf("MongoDB疎通確認に失敗しました: %w", err)
	}

	return client, nil
}

// NewDatabase は設定されたデータベースハンドルを返す
func NewDatabase(client *mongo.Client, cfg *config.MongoConfig) *mongo.Database {
	return client.Database(cfg.Database)
}

// Disconnect はMongoDB接続を閉じる
func Disconnect(ctx context.Context, client *mongo.Client) error {
	return client.Disconnect(ctx)
}
