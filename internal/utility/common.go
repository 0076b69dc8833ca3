package utility

import (
	"runtime/debug"
	"time"

	"wiktowice_site/internal/logger"
)

// GoProtect chạy f và bắt panic nếu có, ghi log thay vì làm dừng chương trình
func GoProtect(f func()) {
	defer func() {
		if r := recover(); r != nil {
			logger.GetErrorLogger().WithFields(map[string]interface{}{
				"panic": r,
				"stack": string(debug.Stack()),
			}).Error("Đã bắt lỗi panic")
		}
	}()
	f()
}

// CurrentTimeInMilli trả về timestamp hiện tại tính bằng mili giây
func CurrentTimeInMilli() int64 {
	return time.Now().UnixMilli()
}
