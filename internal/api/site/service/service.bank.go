package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"wiktowice_site/internal/api/site/dto"
	"wiktowice_site/internal/api/site/models"
	"wiktowice_site/internal/cache"
	"wiktowice_site/internal/common"
	"wiktowice_site/internal/logger"
	"wiktowice_site/internal/remote"
	"wiktowice_site/internal/render"
)

// Message của minigame bank
const (
	MsgBankBadCredentials = "Nieprawidłowy login lub hasło!"
	MsgBankLoading        = "Ładowanie bazy danych... spróbuj za chwilę."
	MsgBankFillAll        = "Wypełnij wszystkie pola!"
	MsgBankLoginTaken     = "Ten login jest już zajęty!"
	MsgBankRegistered     = "✅ Konto utworzone pomyślnie! Możesz się zalogować."
	MsgBankOffline        = "Brak połączenia z bazą! Wyślij to do admina:\n\n%s"
)

// BankService xử lý đăng nhập và đăng ký của người chơi
type BankService struct {
	store   *cache.Store
	adapter *remote.Adapter
}

// NewBankService tạo service
func NewBankService(store *cache.Store, adapter *remote.Adapter) *BankService {
	return &BankService{store: store, adapter: adapter}
}

func accountOf(u models.BankUser) *dto.BankAccount {
	return &dto.BankAccount{
		ID:         u.ID,
		Login:      u.Login,
		Saldo:      u.Saldo,
		SaldoClass: render.SaldoClass(u.Saldo),
	}
}

// Login so khớp login không phân biệt hoa thường và mật khẩu chính xác (sau trim)
func (s *BankService) Login(in dto.BankLoginInput) (*dto.BankAccount, error) {
	users := s.store.Bank.All()
	if len(users) == 0 {
		return nil, common.NewError(common.ErrCodeBusinessOperation, MsgBankLoading, common.StatusServiceUnavailable, nil)
	}
	login := strings.ToLower(strings.TrimSpace(in.Login))
	password := strings.TrimSpace(in.Password)
	for _, u := range users {
		if strings.ToLower(u.Login) == login && u.Haslo == password {
			return accountOf(u), nil
		}
	}
	return nil, common.NewAuthError(MsgBankBadCredentials)
}

// Register tạo tài khoản mới với saldo 0.
// Không có database thì trả về nội dung để người chơi gửi cho admin.
func (s *BankService) Register(ctx context.Context, in dto.BankRegisterInput) (*dto.BankRegisterResult, error) {
	login := strings.TrimSpace(in.Login)
	password := strings.TrimSpace(in.Password)
	if login == "" || password == "" {
		return nil, common.NewValidationError(MsgBankFillAll)
	}

	users := s.store.Bank.All()
	for _, u := range users {
		if strings.EqualFold(u.Login, login) {
			return nil, common.NewUniqueError(MsgBankLoginTaken, "login")
		}
	}
	user := models.BankUser{ID: models.NextBankID(users), Login: login, Haslo: password, Saldo: 0}

	spec, err := s.adapter.Spec(models.CollectionBank)
	if err != nil {
		return nil, err
	}
	if !s.adapter.RemoteFor(spec) {
		payload := fmt.Sprintf("Rejestracja Bank Wiktowice:\nLogin: %s\nHasło: %s", login, password)
		return &dto.BankRegisterResult{
			Message: fmt.Sprintf(MsgBankOffline, payload),
			Offline: true,
			Payload: payload,
		}, nil
	}

	rows, err := json.Marshal([]models.BankUser{user})
	if err != nil {
		return nil, err
	}
	// Chỉ insert: id trùng với tài khoản đã có trên database phải thất bại, không ghi đè
	if _, err := s.adapter.Insert(ctx, models.CollectionBank, rows); err != nil {
		logger.WithCollection("bank", string(models.CollectionBank)).WithError(err).Error("Register failed")
		return nil, common.NewError(common.ErrCodeBusinessOperation,
			"Błąd bazy danych: "+common.UserMessage(err), common.StatusBadGateway, nil)
	}

	// Không thêm trùng nếu cache đã có id này
	err = s.store.Bank.Mutate(func(items []models.BankUser) ([]models.BankUser, error) {
		for _, u := range items {
			if u.ID == user.ID {
				return items, nil
			}
		}
		return append(items, user), nil
	})
	if err != nil {
		return nil, err
	}
	return &dto.BankRegisterResult{Message: MsgBankRegistered, Account: accountOf(user)}, nil
}

// Users trả về danh sách tài khoản cho admin minigame (không có mật khẩu)
func (s *BankService) Users() []dto.BankAccount {
	users := s.store.Bank.All()
	out := make([]dto.BankAccount, 0, len(users))
	for _, u := range users {
		out = append(out, *accountOf(u))
	}
	return out
}
