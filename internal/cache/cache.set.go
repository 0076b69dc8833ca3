// Package cache là bộ nhớ tạm cục bộ của các collection (Local Cache).
// Store được tạo khi khởi động và truyền tường minh vào Renderer và Sync Engine.
package cache

import (
	"sync"
)

// Set là danh sách record của một collection, thread-safe.
// Các thao tác sửa đổi áp dụng ngay (optimistic), không rollback khi lưu thất bại.
type Set[T any] struct {
	mu    sync.RWMutex
	items []T
}

// NewSet tạo Set rỗng
func NewSet[T any]() *Set[T] {
	return &Set[T]{items: []T{}}
}

// All trả về bản sao các record
func (s *Set[T]) All() []T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]T, len(s.items))
	copy(out, s.items)
	return out
}

// Replace thay toàn bộ nội dung (dùng khi load hoặc khi backend trả dữ liệu chuẩn)
func (s *Set[T]) Replace(items []T) {
	cp := make([]T, len(items))
	copy(cp, items)
	s.mu.Lock()
	s.items = cp
	s.mu.Unlock()
}

// Append thêm record vào cuối
func (s *Set[T]) Append(item T) {
	s.mu.Lock()
	s.items = append(s.items, item)
	s.mu.Unlock()
}

// At trả về record tại vị trí i
func (s *Set[T]) At(i int) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i < 0 || i >= len(s.items) {
		var zero T
		return zero, false
	}
	return s.items[i], true
}

// SetAt thay record tại vị trí i (full replace)
func (s *Set[T]) SetAt(i int, item T) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i < 0 || i >= len(s.items) {
		return false
	}
	s.items[i] = item
	return true
}

// RemoveAt xóa record tại vị trí i
func (s *Set[T]) RemoveAt(i int) (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i < 0 || i >= len(s.items) {
		var zero T
		return zero, false
	}
	removed := s.items[i]
	s.items = append(s.items[:i:i], s.items[i+1:]...)
	return removed, true
}

// RemoveWhere xóa mọi record thỏa pred, trả về số record đã xóa
func (s *Set[T]) RemoveWhere(pred func(T) bool) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := make([]T, 0, len(s.items))
	for _, it := range s.items {
		if !pred(it) {
			kept = append(kept, it)
		}
	}
	removed := len(s.items) - len(kept)
	s.items = kept
	return removed
}

// IndexWhere trả về vị trí record đầu tiên thỏa pred, -1 nếu không có
func (s *Set[T]) IndexWhere(pred func(T) bool) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i, it := range s.items {
		if pred(it) {
			return i
		}
	}
	return -1
}

// Mutate chạy fn trên danh sách hiện tại trong lock và lưu kết quả.
// Dùng cho thao tác cần kiểm tra và sửa trong cùng một bước (validate + add, sort).
func (s *Set[T]) Mutate(fn func(items []T) ([]T, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := make([]T, len(s.items))
	copy(cp, s.items)
	next, err := fn(cp)
	if err != nil {
		return err
	}
	s.items = next
	return nil
}

// Len trả về số record
func (s *Set[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Singleton giữ một object đơn (cấu hình site)
type Singleton[T any] struct {
	mu    sync.RWMutex
	value T
}

// Get trả về giá trị hiện tại
func (s *Singleton[T]) Get() T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.value
}

// Set thay giá trị
func (s *Singleton[T]) Set(v T) {
	s.mu.Lock()
	s.value = v
	s.mu.Unlock()
}
