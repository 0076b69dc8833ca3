package global

import (
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"wiktowice_site/internal/api/site/models"
)

var validatorOnce sync.Once

// InitValidator khởi tạo validator và đăng ký các custom validator
func InitValidator() {
	validatorOnce.Do(func() {
		Validate = validator.New()

		// Dùng tên field theo JSON để message lỗi khớp với dữ liệu gửi lên
		Validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})

		_ = Validate.RegisterValidation("order_status", validateOrderStatus)
		_ = Validate.RegisterValidation("not_blank", validateNotBlank)
	})
}

// GetValidator trả về validator, khởi tạo nếu chưa có
func GetValidator() *validator.Validate {
	InitValidator()
	return Validate
}

// validateOrderStatus kiểm tra status đơn hàng thuộc enum hợp lệ
func validateOrderStatus(fl validator.FieldLevel) bool {
	return models.OrderStatus(fl.Field().String()).Valid()
}

// validateNotBlank kiểm tra chuỗi không rỗng sau khi trim
func validateNotBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}
