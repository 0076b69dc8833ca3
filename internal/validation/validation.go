// Package validation kiểm tra dữ liệu trước khi thay đổi collection.
// Lỗi luôn là ValidationError với message hiển thị cho người dùng, dữ liệu không bị động tới.
package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"wiktowice_site/internal/api/site/models"
	"wiktowice_site/internal/common"
	"wiktowice_site/internal/global"
)

// Message cho từng cặp field/tag
var fieldMessages = map[string]string{
	"title.not_blank":     "Tytuł jest wymagany!",
	"login.not_blank":     "Login jest wymagany!",
	"haslo.not_blank":     "Hasło jest wymagane!",
	"number.not_blank":    "Numer zamówienia wymagany!",
	"status.order_status": "Nieprawidłowy status zamówienia!",
}

// Struct chạy validate theo struct tag và chuyển lỗi đầu tiên thành ValidationError
func Struct(v interface{}) error {
	err := global.GetValidator().Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		if msg, ok := fieldMessages[fe.Field()+"."+fe.Tag()]; ok {
			return common.NewValidationError(msg)
		}
		return common.NewValidationError(fmt.Sprintf("Nieprawidłowe pole: %s", fe.Field()))
	}
	return common.NewValidationError(err.Error())
}

// News kiểm tra bài tin tức
func News(item models.NewsItem) error {
	return Struct(item)
}

// Order kiểm tra đơn hàng
func Order(order models.RestaurantOrder) error {
	return Struct(order)
}

// NormalizeBankUser trim login và mật khẩu như khi nhập từ form
func NormalizeBankUser(u models.BankUser) models.BankUser {
	u.Login = strings.TrimSpace(u.Login)
	u.Haslo = strings.TrimSpace(u.Haslo)
	return u
}

// BankUserCreate kiểm tra người dùng mới: login không trùng (không phân biệt hoa thường), id chưa dùng
func BankUserCreate(u models.BankUser, existing []models.BankUser) error {
	if err := Struct(u); err != nil {
		return err
	}
	for _, other := range existing {
		if strings.EqualFold(other.Login, u.Login) {
			return common.NewUniqueError(fmt.Sprintf("Użytkownik \"%s\" już istnieje!", u.Login), "login")
		}
	}
	for _, other := range existing {
		if other.ID == u.ID {
			return common.NewUniqueError("INTERNAL ERROR: ID zajęte.", "id")
		}
	}
	return nil
}

// BankUserUpdate kiểm tra khi sửa người dùng có id ban đầu originalID.
// Login chỉ bị coi là trùng khi thuộc về record khác.
func BankUserUpdate(u models.BankUser, originalID int64, existing []models.BankUser) error {
	if err := Struct(u); err != nil {
		return err
	}
	for _, other := range existing {
		if other.ID != originalID && strings.EqualFold(other.Login, u.Login) {
			return common.NewUniqueError(fmt.Sprintf("Login \"%s\" jest już zajęty.", u.Login), "login")
		}
	}
	if u.ID != originalID {
		for _, other := range existing {
			if other.ID == u.ID {
				return common.NewUniqueError("INTERNAL ERROR: ID zajęte.", "id")
			}
		}
	}
	return nil
}
