package models

import (
	"wiktowice_site/internal/registry"
)

// CollectionName là tên collection dùng trong toàn hệ thống
type CollectionName string

// Các collection của site
const (
	CollectionNews       CollectionName = "news"
	CollectionBank       CollectionName = "bank"
	CollectionRestaurant CollectionName = "restaurant"
	CollectionConfig     CollectionName = "config"
)

// Tên bảng system_config (chỉ có trên database)
const SystemConfigTable = "system_config"

// Record là entity có thể đọc field theo tên (dùng cho sort, filter, render)
type Record interface {
	Field(key string) any
}

// Identifiable là entity có thể mang id do database cấp
type Identifiable interface {
	RemoteID() (int64, bool)
}

// CollectionSpec mô tả cách một collection được lưu trữ
type CollectionSpec struct {
	Name      CollectionName // Tên collection
	Table     string         // Tên bảng/collection trên database ("" = không có)
	File      string         // Đường dẫn file tĩnh tương đối so với thư mục gốc
	Columns   []string       // Các cột khi upsert (cột đầu tiên là khóa)
	Singleton bool           // true nếu là object đơn (config)
	KeyedByID bool           // true nếu định danh là id (bank), false nếu là vị trí
}

// HasTable cho biết collection có bảng trên database không
func (s CollectionSpec) HasTable() bool {
	return s.Table != ""
}

// AllCollections liệt kê spec của các collection theo thứ tự load
var AllCollections = []CollectionSpec{
	{
		Name:    CollectionNews,
		Table:   "news",
		File:    "739_news_secure.json",
		Columns: []string{"id", "title", "date", "content"},
	},
	{
		Name:      CollectionBank,
		Table:     "bank_users",
		File:      "bank/884_users_secure.json",
		Columns:   []string{"id", "login", "haslo", "saldo"},
		KeyedByID: true,
	},
	{
		Name:    CollectionRestaurant,
		Table:   "orders",
		File:    "ogolna_restauracja/992_orders_secure.json",
		Columns: []string{"id", "number", "status"},
	},
	{
		Name:      CollectionConfig,
		File:      "site_config.json",
		Singleton: true,
	},
}

// NewCollectionRegistry tạo registry chứa spec của tất cả collection
func NewCollectionRegistry() *registry.Registry[CollectionSpec] {
	reg := registry.NewRegistry[CollectionSpec]()
	for _, spec := range AllCollections {
		_, _ = reg.Register(string(spec.Name), spec)
	}
	return reg
}

// Source cho biết dữ liệu của collection được load từ đâu
type Source string

// Các nguồn dữ liệu
const (
	SourceNone   Source = ""       // Chưa load
	SourceRemote Source = "remote" // Database từ xa (nguồn chuẩn)
	SourceStatic Source = "static" // File tĩnh, chỉ đọc trong phiên
)
