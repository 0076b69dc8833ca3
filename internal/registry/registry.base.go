// Package registry cung cấp registry generic, thread-safe.
// Dùng để tra cứu spec của collection và các đối tượng dùng chung theo tên.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"wiktowice_site/internal/common"
)

// Registry là map name -> T được bảo vệ bởi sync.RWMutex.
//
// Example:
//
//	specs := NewRegistry[models.CollectionSpec]()
//	specs.Register("news", newsSpec)
//	if spec, ok := specs.Get("news"); ok {
//	    fmt.Println(spec.Table)
//	}
type Registry[T any] struct {
	items map[string]T
	mu    sync.RWMutex
}

// NewRegistry tạo registry rỗng
func NewRegistry[T any]() *Registry[T] {
	return &Registry[T]{
		items: make(map[string]T),
	}
}

// Register đăng ký item theo name, ghi đè nếu đã tồn tại.
//
// Returns:
//   - isNew: true nếu là item mới, false nếu ghi đè
//   - err: lỗi nếu name rỗng
func (r *Registry[T]) Register(name string, item T) (isNew bool, err error) {
	if name == "" {
		return false, fmt.Errorf("name cannot be empty: %w", common.ErrRequiredField)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	_, exists := r.items[name]
	r.items[name] = item
	return !exists, nil
}

// Get lấy item theo name
func (r *Registry[T]) Get(name string) (item T, exists bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	item, exists = r.items[name]
	return item, exists
}

// MustGet lấy item theo name, trả về lỗi nếu không có
func (r *Registry[T]) MustGet(name string) (T, error) {
	item, ok := r.Get(name)
	if !ok {
		var zero T
		return zero, fmt.Errorf("%q: %w", name, common.ErrUnknownCollection)
	}
	return item, nil
}

// GetOrCreate trả về item đã có hoặc tạo mới bằng creator.
// Creator được gọi khi đang giữ lock nên không được gọi lại registry.
func (r *Registry[T]) GetOrCreate(name string, creator func() (T, error)) (T, error) {
	if item, ok := r.Get(name); ok {
		return item, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if item, ok := r.items[name]; ok {
		return item, nil
	}
	item, err := creator()
	if err != nil {
		var zero T
		return zero, fmt.Errorf("failed to create item %q: %w", name, err)
	}
	r.items[name] = item
	return item, nil
}

// Names trả về danh sách name đã đăng ký, sắp xếp tăng dần
func (r *Registry[T]) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.items))
	for name := range r.items {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Clear xóa item theo name, gọi cleanup trước khi xóa nếu có
func (r *Registry[T]) Clear(name string, cleanup func(T) error) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[name]
	if !ok {
		return false, nil
	}
	if cleanup != nil {
		if err := cleanup(item); err != nil {
			return false, fmt.Errorf("cleanup %q: %w", name, err)
		}
	}
	delete(r.items, name)
	return true, nil
}
