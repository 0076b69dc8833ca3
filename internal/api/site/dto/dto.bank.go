package dto

// BankLoginInput là body đăng nhập của người chơi
type BankLoginInput struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

// BankRegisterInput là body đăng ký tài khoản
type BankRegisterInput struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

// BankAdminLoginInput là body đăng nhập admin minigame
type BankAdminLoginInput struct {
	Password string `json:"password"`
}

// BankAccount là thông tin tài khoản trả về cho người chơi (không có mật khẩu)
type BankAccount struct {
	ID         int64   `json:"id"`
	Login      string  `json:"login"`
	Saldo      float64 `json:"saldo"`
	SaldoClass string  `json:"saldoClass"`
}

// BankRegisterResult là kết quả đăng ký.
// Khi không có database, Offline = true và Payload là nội dung cần gửi cho admin.
type BankRegisterResult struct {
	Message string       `json:"message"`
	Offline bool         `json:"offline"`
	Payload string       `json:"payload,omitempty"`
	Account *BankAccount `json:"account,omitempty"`
}
