package logger

import (
	"strings"

	"github.com/sirupsen/logrus"
)

// filteredKey là field đánh dấu entry bị lọc, AsyncHook sẽ bỏ qua entry này
const filteredKey = "_filtered"

// FilterHook lọc log theo module và collection.
// Log từ warn trở lên luôn được giữ lại.
type FilterHook struct {
	allowedModules     map[string]bool
	allowedCollections map[string]bool
}

// NewFilterHook tạo filter hook từ cấu hình
func NewFilterHook(cfg *LogConfig) *FilterHook {
	return &FilterHook{
		allowedModules:     parseFilter(cfg.FilterModules),
		allowedCollections: parseFilter(cfg.FilterCollections),
	}
}

// parseFilter parse "a,b,c" thành set; "*" hoặc rỗng trả về nil (cho phép tất cả)
func parseFilter(s string) map[string]bool {
	s = strings.TrimSpace(s)
	if s == "" || s == "*" {
		return nil
	}
	set := make(map[string]bool)
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(strings.ToLower(part)); p != "" {
			set[p] = true
		}
	}
	return set
}

// Levels trả về các log levels mà hook xử lý
func (h *FilterHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

// Fire đánh dấu entry nếu không thỏa filter
func (h *FilterHook) Fire(entry *logrus.Entry) error {
	if entry.Level <= logrus.WarnLevel {
		return nil
	}
	if !matches(h.allowedModules, entry.Data["module"]) || !matches(h.allowedCollections, entry.Data["collection"]) {
		entry.Data[filteredKey] = true
	}
	return nil
}

// matches trả về true khi set rỗng, field không có, hoặc giá trị nằm trong set
func matches(set map[string]bool, value interface{}) bool {
	if set == nil || value == nil {
		return true
	}
	s, ok := value.(string)
	if !ok {
		return true
	}
	return set[strings.ToLower(s)]
}
