package render

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wiktowice_site/internal/api/site/models"
	"wiktowice_site/internal/cache"
)

func TestCompare(t *testing.T) {
	t.Run("Cả hai là số", func(t *testing.T) {
		assert.Equal(t, -1, Compare("9", "10"))
		assert.Equal(t, 1, Compare(int64(10), "9.5"))
		assert.Equal(t, 0, Compare("2", 2.0))
	})

	t.Run("Một bên không phải số thì so sánh chuỗi", func(t *testing.T) {
		assert.Equal(t, -1, Compare("10", "9a"))
		assert.Equal(t, 1, Compare("b", "a"))
	})

	t.Run("Số không hữu hạn được coi là chuỗi", func(t *testing.T) {
		_, ok := toNumber(math.Inf(1))
		assert.False(t, ok)
		_, ok = toNumber("NaN")
		assert.False(t, ok)
	})

	t.Run("nil so sánh như chuỗi rỗng", func(t *testing.T) {
		assert.Equal(t, -1, Compare(nil, "a"))
	})
}

func TestSortState(t *testing.T) {
	s := NewSortState()
	assert.False(t, s.Current().Sorted())

	k := s.Click(models.CollectionBank, "saldo")
	assert.Equal(t, Asc, k.Dir)

	k = s.Click(models.CollectionBank, "saldo")
	assert.Equal(t, Desc, k.Dir)

	k = s.Click(models.CollectionBank, "login")
	assert.Equal(t, Asc, k.Dir, "Đổi key thì về tăng dần")

	k = s.Click(models.CollectionNews, "login")
	assert.Equal(t, models.CollectionNews, k.Collection)
	assert.Equal(t, Asc, k.Dir)

	s.Reset(models.CollectionConfig)
	assert.True(t, s.Current().Sorted(), "Load lại config không reset sort")

	s.Reset(models.CollectionNews)
	assert.False(t, s.Current().Sorted())

	t.Run("Load lại collection khác không xóa sort đang dùng", func(t *testing.T) {
		s := NewSortState()
		s.Click(models.CollectionBank, "saldo")
		s.Reset(models.CollectionNews)
		s.Reset(models.CollectionRestaurant)
		cur := s.Current()
		assert.True(t, cur.Sorted())
		assert.Equal(t, models.CollectionBank, cur.Collection)
		assert.Equal(t, "saldo", cur.Key)

		s.Reset(models.CollectionBank)
		assert.False(t, s.Current().Sorted())
	})
}

func TestSortRecords(t *testing.T) {
	users := []models.BankUser{
		{ID: 1, Login: "c", Saldo: 10},
		{ID: 2, Login: "a", Saldo: 5},
		{ID: 3, Login: "b", Saldo: 10},
		{ID: 4, Login: "d", Saldo: -1},
	}

	t.Run("Ổn định với giá trị bằng nhau", func(t *testing.T) {
		items := append([]models.BankUser(nil), users...)
		SortRecords(items, "saldo", Asc)
		ids := []int64{items[0].ID, items[1].ID, items[2].ID, items[3].ID}
		assert.Equal(t, []int64{4, 2, 1, 3}, ids)
	})

	t.Run("Sort lại cùng chiều không đổi thứ tự", func(t *testing.T) {
		items := append([]models.BankUser(nil), users...)
		SortRecords(items, "login", Asc)
		once := append([]models.BankUser(nil), items...)
		SortRecords(items, "login", Asc)
		assert.Equal(t, once, items)
	})

	t.Run("Đảo chiều hai lần trả về thứ tự ban đầu", func(t *testing.T) {
		items := append([]models.BankUser(nil), users...)
		SortRecords(items, "login", Asc)
		asc := append([]models.BankUser(nil), items...)
		SortRecords(items, "login", Desc)
		assert.Equal(t, "d", items[0].Login)
		SortRecords(items, "login", Asc)
		assert.Equal(t, asc, items)
	})
}

func TestApply(t *testing.T) {
	store := cache.NewStore()
	store.Restaurant.Replace([]models.RestaurantOrder{
		{Number: "10", Status: models.OrderPending},
		{Number: "9", Status: models.OrderReady},
	})
	require.NoError(t, Apply(store, SortKey{Collection: models.CollectionRestaurant, Key: "number", Dir: Asc}))
	assert.Equal(t, "9", store.Restaurant.All()[0].Number)

	assert.Error(t, Apply(store, SortKey{Collection: models.CollectionConfig, Key: "motd"}))
}

func TestRender(t *testing.T) {
	t.Run("Render là hàm thuần", func(t *testing.T) {
		store := cache.NewStore()
		store.News.Replace([]models.NewsItem{{Title: "<b>A</b>", Date: "2024-01-01"}})
		v1, err := Render(store, models.CollectionNews, Filter{})
		require.NoError(t, err)
		v2, err := Render(store, models.CollectionNews, Filter{})
		require.NoError(t, err)
		assert.Equal(t, v1, v2)
		assert.Contains(t, string(v1.HTML), "&lt;b&gt;A&lt;/b&gt;")
	})

	t.Run("Filter đơn hàng theo status", func(t *testing.T) {
		orders := []models.RestaurantOrder{
			{Number: "1", Status: models.OrderPending},
			{Number: "2", Status: models.OrderReady},
			{Number: "3", Status: models.OrderDelivered},
		}
		v, err := RenderRestaurant(orders, "gotowe")
		require.NoError(t, err)
		require.Len(t, v.Rows, 1)
		assert.Equal(t, "1", v.Rows[0].Key)
		assert.Equal(t, "status-ready", v.Rows[0].Class)

		v, err = RenderRestaurant(orders, models.OrderStatusAll)
		require.NoError(t, err)
		assert.Len(t, v.Rows, 3)
	})

	t.Run("Tìm bank theo login hoặc id", func(t *testing.T) {
		users := []models.BankUser{
			{ID: 12, Login: "Jan", Saldo: 10},
			{ID: 3, Login: "Ola", Saldo: -2.5},
		}
		v, err := RenderBank(users, "JA")
		require.NoError(t, err)
		require.Len(t, v.Rows, 1)
		assert.Equal(t, "12", v.Rows[0].Key)

		v, err = RenderBank(users, "3")
		require.NoError(t, err)
		require.Len(t, v.Rows, 1)
		assert.Equal(t, []string{"#3", "Ola", "$-2.5"}, v.Rows[0].Cells)
		assert.Equal(t, "saldo-danger", v.Rows[0].Class)
	})

	t.Run("Collection rỗng vẫn trả về mảng rỗng", func(t *testing.T) {
		v, err := RenderBank(nil, "")
		require.NoError(t, err)
		assert.NotNil(t, v.Rows)
		assert.Empty(t, v.Rows)
	})
}

func TestBuildDashboard(t *testing.T) {
	store := cache.NewStore()
	store.Bank.Replace([]models.BankUser{{ID: 1, Login: "Jan"}})
	d := BuildDashboard(store, NewSortState())
	assert.Equal(t, 1, d.BankCount)
	assert.Equal(t, "● SYSTEM ONLINE", d.Status)

	store.Config.Set(models.SiteConfig{Maintenance: true})
	d = BuildDashboard(store, nil)
	assert.Equal(t, "● MAINTENANCE MODE", d.Status)
	assert.Equal(t, "danger", d.StatusClass)
}
