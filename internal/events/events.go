// Package events phát sự kiện khi collection được ghi bền vững.
// Các phản ứng (đẩy sang RabbitMQ, ghi log) đăng ký qua Bus.On.
package events

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"wiktowice_site/internal/logger"
)

// Các loại thao tác
const (
	OpSave   = "save"
	OpDelete = "delete"
)

// RoutingKeySaved là routing key của sự kiện collection được lưu
const RoutingKeySaved = "collection.saved"

// CollectionEvent mô tả một lần collection thay đổi ở nơi lưu bền vững
type CollectionEvent struct {
	ID          string    `json:"id"`
	Collection  string    `json:"collection"`
	Operation   string    `json:"operation"`
	Destination string    `json:"destination"` // remote | dev-server | hosted-upload
	Count       int       `json:"count"`
	At          time.Time `json:"at"`
}

// NewCollectionEvent tạo sự kiện với id mới
func NewCollectionEvent(collection, operation, destination string, count int) CollectionEvent {
	return CollectionEvent{
		ID:          uuid.New().String(),
		Collection:  collection,
		Operation:   operation,
		Destination: destination,
		Count:       count,
		At:          time.Now().UTC(),
	}
}

// Handler xử lý sự kiện
type Handler func(ctx context.Context, e CollectionEvent)

// Bus phân phối sự kiện tới các handler đã đăng ký
type Bus struct {
	mu       sync.RWMutex
	handlers []Handler
}

// NewBus tạo bus rỗng
func NewBus() *Bus {
	return &Bus{}
}

// On đăng ký handler
func (b *Bus) On(h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers = append(b.handlers, h)
}

// Emit phát sự kiện. Mỗi handler chạy trong goroutine riêng, panic được recover.
// Context của request không được truyền xuống vì handler chạy sau khi request kết thúc.
func (b *Bus) Emit(e CollectionEvent) {
	if b == nil {
		return
	}
	b.mu.RLock()
	list := make([]Handler, len(b.handlers))
	copy(list, b.handlers)
	b.mu.RUnlock()

	for _, h := range list {
		go func(fn Handler) {
			defer func() {
				if r := recover(); r != nil {
					logger.WithModule("events").WithField("panic", r).Error("Event handler panic")
				}
			}()
			fn(context.Background(), e)
		}(h)
	}
}
