package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"wiktowice_site/config"
	"wiktowice_site/internal/logger"
)

// ConnectMongo khởi tạo *mongo.Client từ MongoDB_ConnectionURI trong cấu hình.
//
// Notes:
//   - Trả về lỗi nếu URI rỗng, kết nối hoặc ping thất bại
//   - Pool nhỏ vì site chỉ có một admin thao tác tại một thời điểm
func ConnectMongo(c *config.Configuration) (*mongo.Client, error) {
	if c.MongoDB_ConnectionURI == "" {
		return nil, fmt.Errorf("mongodb connection URI is empty")
	}

	timeout := time.Duration(c.RemoteTimeout) * time.Second
	clientOptions := options.Client().ApplyURI(c.MongoDB_ConnectionURI).
		SetMaxPoolSize(10).
		SetMinPoolSize(1).
		SetConnectTimeout(5 * time.Second).
		SetSocketTimeout(timeout)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	ctxPing, cancelPing := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancelPing()
	if err := client.Ping(ctxPing, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	logger.GetAppLogger().WithField("db", c.MongoDB_DBName).Info("Successfully connected to MongoDB")
	return client, nil
}

// CloseMongo đóng kết nối MongoDB
func CloseMongo(client *mongo.Client) error {
	if client == nil {
		return nil
	}
	if err := client.Disconnect(context.TODO()); err != nil {
		logger.GetAppLogger().WithError(err).Error("Failed to disconnect MongoDB client")
		return err
	}
	logger.GetAppLogger().Info("Successfully disconnected from MongoDB")
	return nil
}
