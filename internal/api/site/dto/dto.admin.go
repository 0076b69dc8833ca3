package dto

import (
	"wiktowice_site/internal/api/site/models"
)

// AdminLoginInput là body đăng nhập admin panel
type AdminLoginInput struct {
	Password string `json:"password" validate:"required"`
}

// NewsInput là dữ liệu form tin tức
type NewsInput struct {
	Title   string `json:"title"`
	Date    string `json:"date"`
	Content string `json:"content"`
}

// BankUserInput là dữ liệu form người dùng bank. ID = 0 khi tạo mới thì tự cấp max+1.
type BankUserInput struct {
	ID    int64   `json:"id"`
	Login string  `json:"login"`
	Haslo string  `json:"haslo"`
	Saldo float64 `json:"saldo"`
}

// OrderInput là dữ liệu form đơn hàng
type OrderInput struct {
	Number string             `json:"number"`
	Status models.OrderStatus `json:"status"`
}

// HostingTokenInput là body lưu token upload của hosting
type HostingTokenInput struct {
	Token string `json:"token"`
}
