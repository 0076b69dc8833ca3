package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wiktowice_site/internal/common"
	"wiktowice_site/internal/notify"
)

type fakeSettings struct {
	value string
	err   error
}

func (f fakeSettings) FetchSetting(ctx context.Context, key string) (string, error) {
	return f.value, f.err
}

func TestVerifyPassword(t *testing.T) {
	t.Run("argon2id", func(t *testing.T) {
		hash, err := HashPassword("tajne")
		require.NoError(t, err)
		assert.True(t, VerifyPassword(hash, "tajne"))
		assert.False(t, VerifyPassword(hash, "Tajne"))
	})

	t.Run("SHA-256 hex", func(t *testing.T) {
		digest := SHA256Hex("bank123")
		assert.Len(t, digest, 64)
		assert.True(t, VerifyPassword(digest, "bank123"))
		assert.False(t, VerifyPassword(digest, "bank1234"))
	})

	t.Run("Plaintext", func(t *testing.T) {
		assert.True(t, VerifyPassword("admin", "admin"))
		assert.False(t, VerifyPassword("admin", "admin "))
		assert.False(t, VerifyPassword("", ""))
	})

	t.Run("Chuỗi argon2 hỏng", func(t *testing.T) {
		assert.False(t, VerifyPassword("$argon2id$v=19$broken", "x"))
	})
}

func TestIssuer(t *testing.T) {
	issuer := NewIssuer("secret", time.Hour)
	token, exp, err := issuer.Issue(SubjectAdmin)
	require.NoError(t, err)
	assert.True(t, exp.After(time.Now()))

	claims, err := issuer.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, SubjectAdmin, claims.Role)

	_, err = NewIssuer("other", time.Hour).Parse(token)
	assert.ErrorIs(t, err, common.ErrTokenInvalid)

	expired := NewIssuer("secret", time.Minute)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	old, _, err := expired.Issue(SubjectAdmin)
	require.NoError(t, err)
	_, err = issuer.Parse(old)
	assert.ErrorIs(t, err, common.ErrTokenExpired)
}

func TestLogin(t *testing.T) {
	issuer := NewIssuer("secret", time.Hour)

	t.Run("Mật khẩu đúng", func(t *testing.T) {
		s := NewService(Options{Settings: fakeSettings{value: "haslo"}, Issuer: issuer, Center: notify.NewCenter(0, nil)})
		sess, err := s.Login(context.Background(), "haslo")
		require.NoError(t, err)
		assert.Equal(t, SubjectAdmin, sess.Role)
		_, err = s.Verify(sess.Token)
		assert.NoError(t, err)
	})

	t.Run("Mật khẩu sai", func(t *testing.T) {
		center := notify.NewCenter(0, nil)
		s := NewService(Options{Settings: fakeSettings{value: "haslo"}, Issuer: issuer, Center: center})
		_, err := s.Login(context.Background(), "zle")
		require.Error(t, err)
		assert.True(t, common.IsAuthError(err))
		assert.Equal(t, MsgAccessDenied, center.Active()[0].Message)
	})

	t.Run("Không đọc được mật khẩu", func(t *testing.T) {
		center := notify.NewCenter(0, nil)
		s := NewService(Options{Settings: fakeSettings{err: errors.New("boom")}, Issuer: issuer, Center: center})
		_, err := s.Login(context.Background(), "haslo")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "system_config")
		require.Len(t, center.Active(), 1)
		assert.True(t, center.Active()[0].Critical)
	})

	t.Run("Dùng mật khẩu cục bộ khi không có database", func(t *testing.T) {
		s := NewService(Options{LocalPassword: SHA256Hex("lokalne"), Issuer: issuer})
		_, err := s.Login(context.Background(), "lokalne")
		assert.NoError(t, err)
	})

	t.Run("Admin bank", func(t *testing.T) {
		s := NewService(Options{BankAdminHash: SHA256Hex("bank"), Issuer: issuer})
		sess, err := s.BankAdminLogin("bank")
		require.NoError(t, err)
		assert.Equal(t, SubjectBankAdmin, sess.Role)
		_, err = s.BankAdminLogin("nie")
		assert.True(t, common.IsAuthError(err))
	})
}
