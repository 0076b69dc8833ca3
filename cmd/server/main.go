package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v3"

	"wiktowice_site/internal/global"
	"wiktowice_site/internal/logger"
)

// initLogger khởi tạo logger, cấu hình đọc từ biến môi trường LOG_*
func initLogger() {
	if err := logger.Init(nil); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	logger.GetAppLogger().Info("Logger system initialized successfully")
}

// main_thread chạy Fiber server đến khi ctx kết thúc
func main_thread(ctx context.Context, app *fiber.App) {
	log := logger.GetAppLogger()
	address := global.ServerConfig.Address

	go func() {
		<-ctx.Done()
		log.Info("Shutting down Fiber server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			log.WithError(err).Error("Error during shutdown")
		}
	}()

	log.WithFields(map[string]interface{}{
		"address":  address,
		"protocol": "HTTP",
	}).Info("Starting server with HTTP")
	if err := app.Listen(address, fiber.ListenConfig{DisableStartupMessage: true}); err != nil {
		log.Fatalf("Error in Fiber Listen: %v", err)
	}
}

// Hàm main
func main() {
	initLogger()
	InitGlobal()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	site := InitSite(ctx)
	defer site.Close()

	site.StartBackground(ctx)

	main_thread(ctx, InitFiberApp(site))
}
