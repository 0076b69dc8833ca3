package models

// BankUser là tài khoản minigame bank (bank_users).
// Haslo được lưu dạng plaintext để giữ tương thích định dạng file.
type BankUser struct {
	ID    int64   `json:"id" bson:"id"`
	Login string  `json:"login" bson:"login" validate:"not_blank"`
	Haslo string  `json:"haslo" bson:"haslo" validate:"not_blank"`
	Saldo float64 `json:"saldo" bson:"saldo"`
}

// Field trả về giá trị field theo tên JSON
func (u BankUser) Field(key string) any {
	switch key {
	case "id":
		return u.ID
	case "login":
		return u.Login
	case "haslo":
		return u.Haslo
	case "saldo":
		return u.Saldo
	}
	return nil
}

// RemoteID trả về id của người dùng (luôn có)
func (u BankUser) RemoteID() (int64, bool) {
	return u.ID, u.ID != 0
}

// NextBankID trả về id kế tiếp: max+1, hoặc 1 nếu collection rỗng
func NextBankID(users []BankUser) int64 {
	var max int64
	for _, u := range users {
		if u.ID > max {
			max = u.ID
		}
	}
	return max + 1
}
