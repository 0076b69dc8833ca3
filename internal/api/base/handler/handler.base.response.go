package basehdl

import (
	"errors"
	"fmt"
	"runtime/debug"

	"github.com/gofiber/fiber/v3"

	"wiktowice_site/internal/common"
	"wiktowice_site/internal/logger"
)

// JSONResponse trả về JSON response với Content-Type: application/json; charset=utf-8
// để tiếng Ba Lan (ą, ę, ł, ...) hiển thị đúng
func JSONResponse(c fiber.Ctx, statusCode int, data interface{}) error {
	c.Set("Content-Type", "application/json; charset=utf-8")
	return c.Status(statusCode).JSON(data)
}

// SafeHandlerWrapper chạy handler với recover để server luôn trả về response,
// kể cả khi có panic
func SafeHandlerWrapper(c fiber.Ctx, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			logger.WithRequest(c).WithField("panic", r).Error("Handler panic")
			debug.PrintStack()
			err = HandleResponse(c, nil, common.NewError(
				common.ErrCodeInternalServer,
				fmt.Sprintf("Nieoczekiwany błąd systemu: %v", r),
				common.StatusInternalServerError,
				nil,
			))
		}
	}()
	return fn()
}

// HandleResponse chuẩn hóa response trả về cho client.
//
// Parameters:
//   - c: Fiber context
//   - data: dữ liệu trả về (nil nếu chỉ trả lỗi)
//   - err: lỗi nếu có
func HandleResponse(c fiber.Ctx, data interface{}, err error) error {
	return HandleResponseWithStatus(c, common.StatusOK, common.MsgSuccess, data, err)
}

// HandleCreated giống HandleResponse nhưng trả 201
func HandleCreated(c fiber.Ctx, data interface{}, err error) error {
	return HandleResponseWithStatus(c, common.StatusCreated, common.MsgCreated, data, err)
}

// HandleResponseWithStatus chuẩn hóa response với status và message thành công tùy chọn
func HandleResponseWithStatus(c fiber.Ctx, status int, message string, data interface{}, err error) error {
	if err != nil {
		var customErr *common.Error
		if errors.As(err, &customErr) {
			if customErr.StatusCode >= common.StatusInternalServerError {
				logger.WithRequest(c).WithError(err).Error("Request failed")
			}
			return JSONResponse(c, customErr.StatusCode, fiber.Map{
				"code":    customErr.Code.Code,
				"message": customErr.Message,
				"details": customErr.Details,
				"status":  "error",
			})
		}
		// Lỗi không phân loại được trả về như lỗi hệ thống
		logger.WithRequest(c).WithError(err).Error("Unexpected error")
		return JSONResponse(c, common.StatusInternalServerError, fiber.Map{
			"code":    common.ErrCodeInternalServer.Code,
			"message": err.Error(),
			"status":  "error",
		})
	}

	return JSONResponse(c, status, fiber.Map{
		"code":    status,
		"message": message,
		"data":    data,
		"status":  "success",
	})
}
