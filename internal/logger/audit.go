package logger

import (
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/sirupsen/logrus"
)

// LogAction ghi một hành động audit (thao tác của admin hoặc người chơi bank)
func LogAction(action string, c fiber.Ctx, details map[string]interface{}) {
	if details == nil {
		details = make(map[string]interface{})
	}

	fields := logrus.Fields{
		"action":     action,
		"ip":         c.IP(),
		"user_agent": c.Get("User-Agent"),
		"details":    details,
		"timestamp":  time.Now(),
	}
	if subject, ok := c.Locals("subject").(string); ok && subject != "" {
		fields["subject"] = subject
	}
	if requestID := c.Get("X-Request-ID"); requestID != "" {
		fields["request_id"] = requestID
	}

	GetAuditLogger().WithFields(fields).Info("Audit log")
}

// LogCRUD ghi các thao tác thêm/sửa/xóa trên một collection
func LogCRUD(operation, collection, key string, c fiber.Ctx, details map[string]interface{}) {
	if details == nil {
		details = make(map[string]interface{})
	}
	details["operation"] = operation
	details["collection"] = collection
	details["key"] = key
	LogAction("crud_"+operation, c, details)
}

// LogAuth ghi các thao tác đăng nhập/đăng ký
func LogAuth(action string, c fiber.Ctx, success bool, details map[string]interface{}) {
	if details == nil {
		details = make(map[string]interface{})
	}
	details["success"] = success
	LogAction("auth_"+action, c, details)
}
