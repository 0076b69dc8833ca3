package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/limiter"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/gofiber/fiber/v3/middleware/requestid"

	basehdl "wiktowice_site/internal/api/base/handler"
	"wiktowice_site/internal/api/middleware"
	"wiktowice_site/internal/api/router"
	sitehdl "wiktowice_site/internal/api/site/handler"
	siterouter "wiktowice_site/internal/api/site/router"
	"wiktowice_site/internal/common"
	"wiktowice_site/internal/global"
	"wiktowice_site/internal/logger"
)

// errorHandler trả lỗi theo format thống nhất {code, message, status}
func errorHandler(c fiber.Ctx, err error) error {
	var customErr *common.Error
	if errors.As(err, &customErr) {
		middleware.HandleErrorResponse(c, err)
		return nil
	}

	code := fiber.StatusInternalServerError
	message := "Wewnętrzny błąd serwera"
	errorCode := common.ErrCodeInternalServer.Code

	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
		message = e.Message
		switch code {
		case fiber.StatusBadRequest:
			errorCode = common.ErrCodeValidationInput.Code
		case fiber.StatusUnauthorized, fiber.StatusForbidden:
			errorCode = common.ErrCodeAuthToken.Code
		case fiber.StatusNotFound, fiber.StatusMethodNotAllowed:
			errorCode = common.ErrCodeBusinessNotFound.Code
		case fiber.StatusRequestEntityTooLarge:
			errorCode = common.ErrCodeValidationFormat.Code
		}
	}

	// TLS handshake gửi tới server HTTP: không log, trả 400 kèm hướng dẫn
	errMsg := err.Error()
	if strings.Contains(errMsg, "unsupported http request method") &&
		(strings.Contains(errMsg, "\x16\x03\x01") || strings.Contains(errMsg, "error when reading request headers")) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"code":    common.ErrCodeValidationInput.Code,
			"message": "Serwer obsługuje tylko HTTP. Użyj http:// zamiast https://",
			"status":  "error",
		})
	}

	if code >= fiber.StatusInternalServerError {
		logger.WithRequest(c).WithFields(map[string]interface{}{
			"code":      code,
			"errorCode": errorCode,
			"message":   message,
		}).Error("Request error")
	}

	return c.Status(code).JSON(fiber.Map{
		"code":    errorCode,
		"message": message,
		"status":  "error",
	})
}

// InitFiberApp khởi tạo ứng dụng Fiber với các middleware cần thiết
func InitFiberApp(site *Site) *fiber.App {
	cfg := global.ServerConfig

	app := fiber.New(fiber.Config{
		// =========================================
		// 1. CẤU HÌNH CƠ BẢN
		// =========================================
		AppName:       "Wiktowice Site API",
		ServerHeader:  "Wiktowice Site API",
		StrictRouting: true,
		CaseSensitive: true,
		UnescapePath:  true,

		// =========================================
		// 2. CẤU HÌNH PERFORMANCE
		// =========================================
		BodyLimit:       4 * 1024 * 1024, // Collection JSON lớn nhất vài trăm KB
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,

		// =========================================
		// 3. CẤU HÌNH TIMEOUT
		// =========================================
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,

		ErrorHandler: errorHandler,
	})

	// =========================================
	// MIDDLEWARE STACK
	// =========================================

	// 1. Request ID
	app.Use(requestid.New(requestid.Config{
		Header: "X-Request-ID",
		Generator: func() string {
			return fmt.Sprintf("%d", time.Now().UnixNano())
		},
	}))

	// 2. CORS, đặt sớm để preflight không đi qua các middleware khác
	allowOrigins := []string{"*"}
	if cfg.CORS_Origins != "*" {
		allowOrigins = strings.Split(cfg.CORS_Origins, ",")
		for i, origin := range allowOrigins {
			allowOrigins[i] = strings.TrimSpace(origin)
		}
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: allowOrigins,
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders: []string{
			"Origin",
			"Content-Type",
			"Accept",
			"Authorization",
			"X-Request-ID",
			sitehdl.HeaderSiteHost, // host của trang admin, quyết định đích lưu
		},
		AllowCredentials: cfg.CORS_AllowCredentials,
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		MaxAge:           24 * 60 * 60,
	}))

	// 3. Security headers
	app.Use(func(c fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		return c.Next()
	})

	// 4. Rate limiting
	if cfg.RateLimit_Enabled && cfg.RateLimit_Max > 0 {
		app.Use(limiter.New(limiter.Config{
			Max:        cfg.RateLimit_Max,
			Expiration: time.Duration(cfg.RateLimit_Window) * time.Second,
			KeyGenerator: func(c fiber.Ctx) string {
				return c.IP()
			},
			LimitReached: func(c fiber.Ctx) error {
				return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
					"code":    common.ErrCodeBusinessOperation.Code,
					"message": "Zbyt wiele żądań, spróbuj ponownie później",
					"status":  "error",
				})
			},
			Next: func(c fiber.Ctx) bool {
				// Radio được poll liên tục, health check và preflight không tính
				return c.Path() == "/health" ||
					c.Path() == "/api/v1/radio/now-playing" ||
					c.Method() == fiber.MethodOptions
			},
		}))
		logger.GetAppLogger().Infof("Rate limiting enabled: %d requests per %d seconds", cfg.RateLimit_Max, cfg.RateLimit_Window)
	} else {
		logger.GetAppLogger().Info("Rate limiting disabled")
	}

	// 5. Recover
	app.Use(recover.New(recover.Config{
		EnableStackTrace: true,
		StackTraceHandler: func(c fiber.Ctx, e interface{}) {
			logger.WithRequest(c).WithFields(map[string]interface{}{
				"panic": e,
			}).Error("Panic recovered")
		},
	}))

	// Health check nằm ngoài /api/v1
	system := basehdl.NewSystemHandler(site.Pingers)
	app.Get("/health", system.HandleHealth)

	if err := router.SetupRoutes(app, siterouter.NewRegister(site.Deps())); err != nil {
		logger.GetAppLogger().Fatalf("Failed to setup routes: %v", err)
	}

	return app
}
