package auth

import (
	"context"
	"strings"
	"time"

	"wiktowice_site/internal/common"
	"wiktowice_site/internal/logger"
	"wiktowice_site/internal/notify"
)

// Message hiển thị khi đăng nhập
const (
	MsgAdminPasswordMissing = "Błąd krytyczny: Nie można pobrać hasła z Supabase. Sprawdź tabelę system_config (klucz: admin_password)."
	MsgAccessDenied         = "Odmowa dostępu: Nieprawidłowe hasło"
	MsgBankAdminDenied      = "Błędne hasło admina!"
)

// SettingSource đọc giá trị cấu hình bí mật (system_config)
type SettingSource interface {
	FetchSetting(ctx context.Context, key string) (string, error)
}

// Session là kết quả đăng nhập thành công
type Session struct {
	Token     string    `json:"token"`
	Role      string    `json:"role"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Service xử lý đăng nhập admin panel và admin minigame bank
type Service struct {
	settings      SettingSource // nil khi không có database
	passwordKey   string
	localPassword string // dùng khi không có database
	bankAdminHash string
	issuer        *Issuer
	center        *notify.Center
}

// Options cấu hình Service
type Options struct {
	Settings      SettingSource
	PasswordKey   string
	LocalPassword string
	BankAdminHash string
	Issuer        *Issuer
	Center        *notify.Center
}

// NewService tạo Service
func NewService(o Options) *Service {
	return &Service{
		settings:      o.Settings,
		passwordKey:   o.PasswordKey,
		localPassword: o.LocalPassword,
		bankAdminHash: o.BankAdminHash,
		issuer:        o.Issuer,
		center:        o.Center,
	}
}

// adminPassword lấy mật khẩu admin đã lưu, ưu tiên system_config trên database
func (s *Service) adminPassword(ctx context.Context) (string, error) {
	if s.settings != nil {
		v, err := s.settings.FetchSetting(ctx, s.passwordKey)
		if err == nil && v != "" {
			return v, nil
		}
		if err != nil {
			logger.WithModule("auth").WithError(err).Error("Cannot read admin password from system_config")
		}
	}
	if s.localPassword != "" {
		return s.localPassword, nil
	}
	return "", common.NewError(common.ErrCodeAuthConfig, MsgAdminPasswordMissing, common.StatusServiceUnavailable, nil)
}

// Login kiểm tra mật khẩu admin và cấp token phiên
func (s *Service) Login(ctx context.Context, password string) (*Session, error) {
	stored, err := s.adminPassword(ctx)
	if err != nil {
		if s.center != nil {
			s.center.PushCritical(MsgAdminPasswordMissing)
		}
		return nil, err
	}
	if !VerifyPassword(stored, password) {
		if s.center != nil {
			s.center.Push(notify.LevelError, MsgAccessDenied)
		}
		return nil, common.NewAuthError(MsgAccessDenied)
	}
	return s.issue(SubjectAdmin)
}

// BankAdminLogin kiểm tra mật khẩu admin của minigame bank (digest SHA-256)
func (s *Service) BankAdminLogin(password string) (*Session, error) {
	if !VerifyPassword(s.bankAdminHash, strings.TrimSpace(password)) {
		return nil, common.NewAuthError(MsgBankAdminDenied)
	}
	return s.issue(SubjectBankAdmin)
}

// Verify kiểm tra token và trả về claims
func (s *Service) Verify(token string) (*SessionClaims, error) {
	return s.issuer.Parse(token)
}

func (s *Service) issue(role string) (*Session, error) {
	token, exp, err := s.issuer.Issue(role)
	if err != nil {
		return nil, common.NewError(common.ErrCodeInternalServer, common.MsgInternalError, common.StatusInternalServerError, nil)
	}
	return &Session{Token: token, Role: role, ExpiresAt: exp}, nil
}
