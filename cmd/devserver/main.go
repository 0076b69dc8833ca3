// Server phát triển cục bộ: phục vụ file của site và nhận POST /save để ghi JSON xuống đĩa.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v3"

	"wiktowice_site/config"
	"wiktowice_site/internal/devsave"
	"wiktowice_site/internal/logger"
)

func main() {
	if err := logger.Init(nil); err != nil {
		panic(err)
	}
	log := logger.GetAppLogger()

	cfg := config.NewConfig()
	if cfg == nil {
		log.Fatal("Failed to initialize config")
	}

	srv, err := devsave.NewServer(cfg.DataRoot)
	if err != nil {
		log.Fatalf("Invalid data root %q: %v", cfg.DataRoot, err)
	}
	app := srv.NewApp()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = app.ShutdownWithContext(shutdownCtx)
	}()

	log.WithField("root", srv.Root()).Infof("🚀 Serwer deweloperski działa na %s", cfg.DevServerAddress)
	log.Info("📝 Zapisy z panelu admina trafiają bezpośrednio na dysk (POST /save)")
	if err := app.Listen(cfg.DevServerAddress, fiber.ListenConfig{DisableStartupMessage: true}); err != nil {
		log.Fatalf("Error in Fiber Listen: %v", err)
	}
}
