package render

import (
	"bytes"
	"html/template"
	"strconv"
	"strings"

	"wiktowice_site/internal/api/site/models"
	"wiktowice_site/internal/cache"
	"wiktowice_site/internal/common"
)

// Filter là trạng thái lọc của view
type Filter struct {
	Search string `json:"search,omitempty"` // bank: chuỗi tìm trong login hoặc id
	Status string `json:"status,omitempty"` // restaurant: status chính xác hoặc "all"
}

// Row là một dòng bảng.
// Key là định danh dùng cho sửa/xóa: id với bank, vị trí trong mảng với news và restaurant.
type Row struct {
	Key   string   `json:"key"`
	Cells []string `json:"cells"`
	Class string   `json:"class,omitempty"`
}

// View là kết quả render một collection
type View struct {
	Collection models.CollectionName `json:"collection"`
	Columns    []string              `json:"columns"`
	Rows       []Row                 `json:"rows"`
	HTML       template.HTML         `json:"html"`
	Total      int                   `json:"total"`
}

var rowsTmpl = template.Must(template.New("rows").Parse(
	`{{range .}}<tr data-key="{{.Key}}"{{if .Class}} class="{{.Class}}"{{end}}>{{range .Cells}}<td>{{.}}</td>{{end}}</tr>
{{end}}`))

func finish(v View) (View, error) {
	if v.Rows == nil {
		v.Rows = []Row{}
	}
	var buf bytes.Buffer
	if err := rowsTmpl.Execute(&buf, v.Rows); err != nil {
		return View{}, err
	}
	v.HTML = template.HTML(buf.String())
	return v, nil
}

// FormatAmount hiển thị số dư giống số JavaScript (không có số 0 thừa)
func FormatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// SaldoClass trả về class màu của số dư
func SaldoClass(v float64) string {
	if v >= 0 {
		return "saldo-success"
	}
	return "saldo-danger"
}

// MatchBank kiểm tra người dùng khớp chuỗi tìm (không phân biệt hoa thường, login hoặc id)
func MatchBank(u models.BankUser, search string) bool {
	term := strings.ToLower(search)
	if term == "" {
		return true
	}
	return strings.Contains(strings.ToLower(u.Login), term) ||
		strings.Contains(strconv.FormatInt(u.ID, 10), term)
}

// MatchOrder kiểm tra đơn hàng khớp filter status ("all" hoặc rỗng = tất cả)
func MatchOrder(o models.RestaurantOrder, status string) bool {
	return status == "" || status == models.OrderStatusAll || string(o.Status) == status
}

// RenderNews render danh sách tin tức theo thứ tự hiện có
func RenderNews(items []models.NewsItem) (View, error) {
	v := View{Collection: models.CollectionNews, Columns: []string{"date", "title"}, Total: len(items)}
	for i, n := range items {
		v.Rows = append(v.Rows, Row{Key: strconv.Itoa(i), Cells: []string{n.Date, n.Title}})
	}
	return finish(v)
}

// RenderBank render người dùng bank khớp chuỗi tìm
func RenderBank(users []models.BankUser, search string) (View, error) {
	v := View{Collection: models.CollectionBank, Columns: []string{"id", "login", "saldo"}, Total: len(users)}
	for _, u := range users {
		if !MatchBank(u, search) {
			continue
		}
		v.Rows = append(v.Rows, Row{
			Key:   strconv.FormatInt(u.ID, 10),
			Cells: []string{"#" + strconv.FormatInt(u.ID, 10), u.Login, "$" + FormatAmount(u.Saldo)},
			Class: SaldoClass(u.Saldo),
		})
	}
	return finish(v)
}

// RenderRestaurant render đơn hàng theo filter status
func RenderRestaurant(orders []models.RestaurantOrder, status string) (View, error) {
	v := View{Collection: models.CollectionRestaurant, Columns: []string{"number", "status"}, Total: len(orders)}
	for i, o := range orders {
		if !MatchOrder(o, status) {
			continue
		}
		v.Rows = append(v.Rows, Row{
			Key:   strconv.Itoa(i),
			Cells: []string{"#" + o.Number, string(o.Status)},
			Class: o.Status.CSSClass(),
		})
	}
	return finish(v)
}

// RenderConfig render cấu hình site thành các cặp key/value
func RenderConfig(c models.SiteConfig) (View, error) {
	v := View{Collection: models.CollectionConfig, Columns: []string{"key", "value"}, Total: 1}
	v.Rows = []Row{
		{Key: "motd", Cells: []string{"motd", c.Motd}},
		{Key: "serverIp", Cells: []string{"serverIp", c.ServerIP}},
		{Key: "maintenance", Cells: []string{"maintenance", strconv.FormatBool(c.Maintenance)}},
		{Key: "alertMessage", Cells: []string{"alertMessage", c.AlertMessage}},
	}
	return finish(v)
}

// Render chọn hàm render theo collection, đọc snapshot mới từ store mỗi lần gọi
func Render(store *cache.Store, name models.CollectionName, f Filter) (View, error) {
	switch name {
	case models.CollectionNews:
		return RenderNews(store.News.All())
	case models.CollectionBank:
		return RenderBank(store.Bank.All(), f.Search)
	case models.CollectionRestaurant:
		return RenderRestaurant(store.Restaurant.All(), f.Status)
	case models.CollectionConfig:
		return RenderConfig(store.Config.Get())
	}
	return View{}, common.ErrUnknownCollection
}
