// Package remote là lớp truy cập dữ liệu của các collection.
// Nguồn chính là database từ xa (Postgres/Supabase hoặc MongoDB), nguồn dự phòng là file JSON tĩnh.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"wiktowice_site/internal/api/site/models"
	"wiktowice_site/internal/common"
)

// Client là giao diện chung của các backend từ xa.
// Dữ liệu vào/ra là mảng JSON các row, giữ nguyên tên cột như trong file tĩnh.
type Client interface {
	// Fetch đọc toàn bộ bảng, sắp xếp theo id
	Fetch(ctx context.Context, spec models.CollectionSpec) ([]byte, error)
	// Upsert ghi toàn bộ collection theo khóa id rồi trả về bảng sau khi ghi
	Upsert(ctx context.Context, spec models.CollectionSpec, rows []byte) ([]byte, error)
	// Insert chỉ thêm row mới, id đã tồn tại là lỗi (không ghi đè)
	Insert(ctx context.Context, spec models.CollectionSpec, rows []byte) ([]byte, error)
	// Delete xóa một row theo id
	Delete(ctx context.Context, spec models.CollectionSpec, id int64) error
	// FetchSetting đọc giá trị trong bảng system_config, rỗng nếu không có key
	FetchSetting(ctx context.Context, key string) (string, error)
	// Name là tên backend dùng cho log
	Name() string
}

// decodeRows decode mảng JSON thành danh sách row, giữ số dưới dạng json.Number
func decodeRows(data []byte) ([]map[string]interface{}, error) {
	rows := make([]map[string]interface{}, 0)
	if len(bytes.TrimSpace(data)) == 0 || string(bytes.TrimSpace(data)) == "null" {
		return rows, nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&rows); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidFormat, err)
	}
	return rows, nil
}

// normalizeValue chuyển json.Number sang int64/float64 để driver encode đúng kiểu
func normalizeValue(v interface{}) interface{} {
	n, ok := v.(json.Number)
	if !ok {
		return v
	}
	if i, err := n.Int64(); err == nil {
		return i
	}
	if f, err := n.Float64(); err == nil {
		return f
	}
	return n.String()
}

// rowID trả về id của row nếu có
func rowID(row map[string]interface{}) (int64, bool) {
	switch v := normalizeValue(row["id"]).(type) {
	case int64:
		return v, true
	case float64:
		return int64(v), true
	}
	return 0, false
}
