package basehdl

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v3"

	"wiktowice_site/internal/common"
)

// Pinger kiểm tra kết nối tới một dịch vụ phụ thuộc (database, broker)
type Pinger func(ctx context.Context) error

// SystemHandler xử lý các route hệ thống
type SystemHandler struct {
	pingers map[string]Pinger
	started time.Time
}

// NewSystemHandler tạo handler; pingers rỗng khi chạy không có database
func NewSystemHandler(pingers map[string]Pinger) *SystemHandler {
	if pingers == nil {
		pingers = map[string]Pinger{}
	}
	return &SystemHandler{pingers: pingers, started: time.Now()}
}

// HandleHealth kiểm tra tình trạng hệ thống
// @Summary Kiểm tra tình trạng hệ thống
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /health [get]
func (h *SystemHandler) HandleHealth(c fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	services := fiber.Map{"api": "ok"}
	healthData := fiber.Map{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"uptime":    time.Since(h.started).Round(time.Second).String(),
		"services":  services,
	}

	healthy := true
	for name, ping := range h.pingers {
		if err := ping(ctx); err != nil {
			healthy = false
			services[name] = "error"
			healthData[name+"_error"] = err.Error()
			continue
		}
		services[name] = "ok"
	}

	if !healthy {
		healthData["status"] = "degraded"
		return JSONResponse(c, common.StatusServiceUnavailable, fiber.Map{
			"code":    common.StatusServiceUnavailable,
			"message": "System ma problemy",
			"data":    healthData,
			"status":  "error",
		})
	}
	return JSONResponse(c, common.StatusOK, fiber.Map{
		"code":    common.StatusOK,
		"message": common.MsgSuccess,
		"data":    healthData,
		"status":  "success",
	})
}
