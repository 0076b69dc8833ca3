// Package notify giữ các thông báo ngắn hạn (toast) hiển thị cho admin.
// Mỗi thông báo tự hết hạn sau TTL; thông báo có hành động retry được giữ đến khi bị đóng.
package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"wiktowice_site/internal/logger"
	"wiktowice_site/internal/utility"
)

// Level là mức độ của thông báo
type Level string

const (
	LevelSuccess Level = "success"
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Retry mô tả hành động thử lại gắn với thông báo
type Retry struct {
	Collection string `json:"collection"`
	Action     string `json:"action"` // "upload"
}

// Notification là một thông báo
type Notification struct {
	ID        string    `json:"id"`
	Level     Level     `json:"level"`
	Message   string    `json:"message"`
	Critical  bool      `json:"critical,omitempty"` // Cảnh báo chặn (thiếu bảng, thiếu mật khẩu admin)
	Retry     *Retry    `json:"retry,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt,omitempty"`
}

// Expired cho biết thông báo đã hết hạn tại thời điểm now
func (n Notification) Expired(now time.Time) bool {
	return !n.ExpiresAt.IsZero() && !now.Before(n.ExpiresAt)
}

// Relay chuyển tiếp thông báo sang kênh ngoài (email)
type Relay interface {
	Relay(n Notification) error
}

// Center lưu thông báo trong bộ nhớ
type Center struct {
	mu    sync.Mutex
	items []Notification
	ttl   time.Duration
	relay Relay
	// Now cho phép cố định thời gian trong test
	Now func() time.Time
}

// NewCenter tạo Center với TTL cho trước (<= 0 dùng mặc định 3 giây)
func NewCenter(ttl time.Duration, relay Relay) *Center {
	if ttl <= 0 {
		ttl = 3 * time.Second
	}
	return &Center{ttl: ttl, relay: relay, Now: time.Now}
}

func (c *Center) add(n Notification) Notification {
	n.ID = uuid.New().String()
	n.CreatedAt = c.Now()
	if n.Retry == nil && !n.Critical {
		n.ExpiresAt = n.CreatedAt.Add(c.ttl)
	}

	c.mu.Lock()
	c.prune(n.CreatedAt)
	c.items = append(c.items, n)
	c.mu.Unlock()

	logger.WithModule("notify").WithField("level", n.Level).Debug(n.Message)

	if c.relay != nil && n.Level == LevelError {
		relay := c.relay
		go utility.GoProtect(func() {
			if err := relay.Relay(n); err != nil {
				logger.WithModule("notify").WithError(err).Warn("Relay notification failed")
			}
		})
	}
	return n
}

// Push thêm thông báo thường
func (c *Center) Push(level Level, message string) Notification {
	return c.add(Notification{Level: level, Message: message})
}

// PushCritical thêm cảnh báo chặn, không tự hết hạn
func (c *Center) PushCritical(message string) Notification {
	return c.add(Notification{Level: LevelError, Message: message, Critical: true})
}

// PushRetry thêm thông báo lỗi kèm hành động thử lại
func (c *Center) PushRetry(message, collection, action string) Notification {
	return c.add(Notification{Level: LevelError, Message: message, Retry: &Retry{Collection: collection, Action: action}})
}

// prune bỏ các thông báo đã hết hạn, gọi khi đang giữ lock
func (c *Center) prune(now time.Time) {
	kept := c.items[:0]
	for _, n := range c.items {
		if !n.Expired(now) {
			kept = append(kept, n)
		}
	}
	c.items = kept
}

// Active trả về các thông báo còn hiệu lực, cũ nhất trước
func (c *Center) Active() []Notification {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.prune(c.Now())
	out := make([]Notification, len(c.items))
	copy(out, c.items)
	return out
}

// Dismiss đóng thông báo theo id
func (c *Center) Dismiss(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, n := range c.items {
		if n.ID == id {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return true
		}
	}
	return false
}

// DismissRetry đóng các thông báo retry của collection (sau khi thử lại)
func (c *Center) DismissRetry(collection string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	kept := c.items[:0]
	for _, n := range c.items {
		if n.Retry != nil && n.Retry.Collection == collection {
			continue
		}
		kept = append(kept, n)
	}
	c.items = kept
}
