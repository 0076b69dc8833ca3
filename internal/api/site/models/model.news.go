// Package models - Các entity của site: tin tức, người dùng bank, đơn nhà hàng, cấu hình site.
package models

// NewsItem là một bài tin tức (news).
// ID chỉ có khi dữ liệu đến từ database; khi dùng file tĩnh, định danh là vị trí trong mảng.
type NewsItem struct {
	ID      *int64 `json:"id,omitempty" bson:"id,omitempty"`
	Title   string `json:"title" bson:"title" validate:"not_blank"`
	Date    string `json:"date" bson:"date"`
	Content string `json:"content" bson:"content"`
}

// Field trả về giá trị field theo tên JSON (dùng cho sort/render)
func (n NewsItem) Field(key string) any {
	switch key {
	case "id":
		if n.ID == nil {
			return nil
		}
		return *n.ID
	case "title":
		return n.Title
	case "date":
		return n.Date
	case "content":
		return n.Content
	}
	return nil
}

// RemoteID trả về id do database cấp (nếu có)
func (n NewsItem) RemoteID() (int64, bool) {
	if n.ID == nil {
		return 0, false
	}
	return *n.ID, true
}
