// Package render dựng view (dữ liệu bảng và markup HTML) từ cache, cùng với trạng thái sort/filter.
// Các hàm Render là thuần: cùng input luôn cho cùng output.
package render

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// toNumber trả về giá trị số nếu v là số hữu hạn hoặc chuỗi biểu diễn số hữu hạn
func toNumber(v interface{}) (float64, bool) {
	var f float64
	switch x := v.(type) {
	case int:
		f = float64(x)
	case int32:
		f = float64(x)
	case int64:
		f = float64(x)
	case float32:
		f = float64(x)
	case float64:
		f = x
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return 0, false
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// toText trả về dạng chuỗi để so sánh, nil thành chuỗi rỗng
func toText(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	}
	return fmt.Sprint(v)
}

// Compare so sánh hai giá trị field: theo số khi cả hai là số hữu hạn, còn lại theo chuỗi.
// Trả về -1, 0 hoặc 1.
func Compare(a, b interface{}) int {
	na, okA := toNumber(a)
	nb, okB := toNumber(b)
	if okA && okB {
		switch {
		case na < nb:
			return -1
		case na > nb:
			return 1
		}
		return 0
	}
	return strings.Compare(toText(a), toText(b))
}
