package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wiktowice_site/internal/api/site/models"
	"wiktowice_site/internal/common"
)

func TestNews(t *testing.T) {
	t.Run("Thiếu tiêu đề", func(t *testing.T) {
		err := News(models.NewsItem{Title: "   ", Content: "x"})
		require.Error(t, err)
		assert.True(t, common.IsValidationError(err))
		assert.Contains(t, err.Error(), "Tytuł jest wymagany!")
	})

	t.Run("Hợp lệ, nội dung HTML được chấp nhận", func(t *testing.T) {
		err := News(models.NewsItem{Title: "Festyn", Content: "<b>zapraszamy</b>"})
		assert.NoError(t, err)
	})
}

func TestOrder(t *testing.T) {
	t.Run("Thiếu số đơn", func(t *testing.T) {
		err := Order(models.RestaurantOrder{Status: models.OrderPending})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Numer zamówienia wymagany!")
	})

	t.Run("Status không hợp lệ", func(t *testing.T) {
		err := Order(models.RestaurantOrder{Number: "12", Status: "zjedzone"})
		require.Error(t, err)
		assert.True(t, common.IsValidationError(err))
	})

	t.Run("Hợp lệ", func(t *testing.T) {
		assert.NoError(t, Order(models.RestaurantOrder{Number: "12", Status: models.OrderReady}))
	})
}

func TestBankUserCreate(t *testing.T) {
	existing := []models.BankUser{{ID: 1, Login: "Jan", Haslo: "x", Saldo: 10}}

	t.Run("Login trùng khác hoa thường bị từ chối", func(t *testing.T) {
		err := BankUserCreate(models.BankUser{ID: 2, Login: "jan", Haslo: "y"}, existing)
		require.Error(t, err)
		assert.True(t, common.IsValidationError(err))
		assert.Contains(t, err.Error(), `Użytkownik "jan" już istnieje!`)
	})

	t.Run("Login khác một ký tự được chấp nhận", func(t *testing.T) {
		err := BankUserCreate(models.BankUser{ID: 2, Login: "jana", Haslo: "y"}, existing)
		assert.NoError(t, err)
	})

	t.Run("Id đã dùng", func(t *testing.T) {
		err := BankUserCreate(models.BankUser{ID: 1, Login: "Ola", Haslo: "y"}, existing)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "ID zajęte")
	})

	t.Run("Thiếu mật khẩu sau khi trim", func(t *testing.T) {
		u := NormalizeBankUser(models.BankUser{ID: 2, Login: " Ola ", Haslo: "   "})
		assert.Equal(t, "Ola", u.Login)
		err := BankUserCreate(u, existing)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Hasło jest wymagane!")
	})

	t.Run("Thiếu login", func(t *testing.T) {
		err := BankUserCreate(models.BankUser{ID: 2, Haslo: "y"}, existing)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Login jest wymagany!")
	})

	t.Run("Login chứa ký tự HTML vẫn hợp lệ", func(t *testing.T) {
		for _, login := range []string{"<script", "<SCRIPT>alert(1)</SCRIPT>", "a<iframe", "onload=x"} {
			assert.NoError(t, BankUserCreate(models.BankUser{ID: 2, Login: login, Haslo: "y"}, existing), login)
		}
	})
}

func TestBankUserUpdate(t *testing.T) {
	existing := []models.BankUser{
		{ID: 1, Login: "Jan", Haslo: "x"},
		{ID: 2, Login: "Ola", Haslo: "y"},
	}

	t.Run("Giữ nguyên login của chính mình", func(t *testing.T) {
		err := BankUserUpdate(models.BankUser{ID: 1, Login: "JAN", Haslo: "z"}, 1, existing)
		assert.NoError(t, err)
	})

	t.Run("Login của người khác", func(t *testing.T) {
		err := BankUserUpdate(models.BankUser{ID: 1, Login: "ola", Haslo: "z"}, 1, existing)
		require.Error(t, err)
		assert.Contains(t, err.Error(), `Login "ola" jest już zajęty.`)
	})

	t.Run("Đổi sang id đã dùng", func(t *testing.T) {
		err := BankUserUpdate(models.BankUser{ID: 2, Login: "Jan", Haslo: "z"}, 1, existing)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "ID zajęte")
	})
}
