package main

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"wiktowice_site/config"
	basehdl "wiktowice_site/internal/api/base/handler"
	"wiktowice_site/internal/database"
	"wiktowice_site/internal/events"
	"wiktowice_site/internal/global"
	"wiktowice_site/internal/remote"
)

// InitGlobal khởi tạo các biến toàn cục
func InitGlobal() {
	initValidator() // Khởi tạo validator
	initConfig()    // Khởi tạo cấu hình server
}

// initValidator đăng ký custom validator: order_status, not_blank
func initValidator() {
	global.InitValidator()
	logrus.Info("Initialized validator")
}

// initConfig đọc cấu hình server
func initConfig() {
	global.ServerConfig = config.NewConfig()
	if global.ServerConfig == nil {
		logrus.Fatalf("Failed to initialize config: config is nil")
	}
	logrus.Info("Initialized server config")
}

// initRemote kết nối database từ xa theo REMOTE_BACKEND.
// Trả về client nil khi không cấu hình hoặc không kết nối được (site chạy với file tĩnh).
func initRemote(ctx context.Context, cfg *config.Configuration) (remote.Client, map[string]basehdl.Pinger, func()) {
	pingers := map[string]basehdl.Pinger{}
	timeout := time.Duration(cfg.RemoteTimeout) * time.Second

	if !cfg.HasRemote() {
		logrus.Warn("Remote backend not configured, collections are served from static files")
		return nil, pingers, func() {}
	}

	switch cfg.RemoteBackend {
	case "postgres":
		pool, err := database.ConnectPostgres(ctx, cfg)
		if err != nil {
			logrus.WithError(err).Error("Failed to connect to Postgres, continuing without remote backend")
			return nil, pingers, func() {}
		}
		logrus.Info("Connected to Postgres")
		pingers["database"] = func(ctx context.Context) error { return pool.Ping(ctx) }
		return remote.NewPostgresClient(pool, timeout), pingers, func() { database.ClosePostgres(pool) }

	case "mongo":
		client, err := database.ConnectMongo(cfg)
		if err != nil {
			logrus.WithError(err).Error("Failed to connect to MongoDB, continuing without remote backend")
			return nil, pingers, func() {}
		}
		logrus.Info("Connected to MongoDB")
		pingers["database"] = func(ctx context.Context) error { return client.Ping(ctx, nil) }
		return remote.NewMongoClient(client, cfg.MongoDB_DBName, timeout), pingers, func() {
			if err := database.CloseMongo(client); err != nil {
				logrus.WithError(err).Warn("Error closing MongoDB client")
			}
		}
	}
	return nil, pingers, func() {}
}

// initStatic chọn nguồn file tĩnh: HTTP nếu có STATIC_BASE_URL, ngược lại đọc thư mục DATA_ROOT
func initStatic(cfg *config.Configuration) remote.StaticSource {
	if cfg.StaticBaseURL != "" {
		return remote.NewHTTPStatic(cfg.StaticBaseURL, time.Duration(cfg.RemoteTimeout)*time.Second)
	}
	return remote.DirStatic{Root: cfg.DataRoot}
}

// initEvents gắn audit log và (nếu có AMQP_URL) publisher RabbitMQ vào bus
func initEvents(cfg *config.Configuration, bus *events.Bus, pingers map[string]basehdl.Pinger) func() {
	bus.On(events.LogHandler)
	if cfg.AMQP_URL == "" {
		return func() {}
	}
	publisher, err := events.DialAMQP(cfg.AMQP_URL, cfg.AMQP_Exchange)
	if err != nil {
		logrus.WithError(err).Error("Failed to connect to RabbitMQ, collection events stay local")
		return func() {}
	}
	logrus.WithField("exchange", cfg.AMQP_Exchange).Info("Connected to RabbitMQ")
	bus.On(publisher.Handler())
	pingers["broker"] = publisher.Ping
	return publisher.Close
}
