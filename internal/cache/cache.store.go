package cache

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"wiktowice_site/internal/api/site/models"
	"wiktowice_site/internal/common"
	"wiktowice_site/internal/utility"
)

// LoadMeta lưu thông tin lần load gần nhất của một collection
type LoadMeta struct {
	Source   models.Source `json:"source"`
	ReadOnly bool          `json:"readOnly"` // true khi dữ liệu đến từ file tĩnh
	LoadedAt time.Time     `json:"loadedAt"`
}

// Store sở hữu dữ liệu trong bộ nhớ của tất cả collection
type Store struct {
	News       *Set[models.NewsItem]
	Bank       *Set[models.BankUser]
	Restaurant *Set[models.RestaurantOrder]
	Config     *Singleton[models.SiteConfig]

	metaMu sync.RWMutex
	meta   map[models.CollectionName]LoadMeta
}

// NewStore tạo Store rỗng
func NewStore() *Store {
	return &Store{
		News:       NewSet[models.NewsItem](),
		Bank:       NewSet[models.BankUser](),
		Restaurant: NewSet[models.RestaurantOrder](),
		Config:     &Singleton[models.SiteConfig]{},
		meta:       make(map[models.CollectionName]LoadMeta),
	}
}

// Snapshot trả về giá trị hiện tại của collection (slice hoặc object) để serialize
func (s *Store) Snapshot(name models.CollectionName) (interface{}, error) {
	switch name {
	case models.CollectionNews:
		return s.News.All(), nil
	case models.CollectionBank:
		return s.Bank.All(), nil
	case models.CollectionRestaurant:
		return s.Restaurant.All(), nil
	case models.CollectionConfig:
		return s.Config.Get(), nil
	}
	return nil, fmt.Errorf("%q: %w", name, common.ErrUnknownCollection)
}

// MarshalCollection serialize collection thành JSON thụt lề 4 dấu cách (định dạng file tĩnh)
func (s *Store) MarshalCollection(name models.CollectionName) ([]byte, error) {
	v, err := s.Snapshot(name)
	if err != nil {
		return nil, err
	}
	return utility.PrettyJSON(v)
}

// ReplaceJSON decode dữ liệu JSON và thay toàn bộ collection.
// null hoặc rỗng được coi là collection rỗng.
func (s *Store) ReplaceJSON(name models.CollectionName, data []byte) error {
	empty := len(data) == 0 || string(data) == "null"
	switch name {
	case models.CollectionNews:
		var items []models.NewsItem
		if !empty {
			if err := json.Unmarshal(data, &items); err != nil {
				return fmt.Errorf("decode news: %w", err)
			}
		}
		s.News.Replace(items)
	case models.CollectionBank:
		var items []models.BankUser
		if !empty {
			if err := json.Unmarshal(data, &items); err != nil {
				return fmt.Errorf("decode bank: %w", err)
			}
		}
		s.Bank.Replace(items)
	case models.CollectionRestaurant:
		var items []models.RestaurantOrder
		if !empty {
			if err := json.Unmarshal(data, &items); err != nil {
				return fmt.Errorf("decode restaurant: %w", err)
			}
		}
		s.Restaurant.Replace(items)
	case models.CollectionConfig:
		var cfg models.SiteConfig
		if !empty {
			if err := json.Unmarshal(data, &cfg); err != nil {
				return fmt.Errorf("decode config: %w", err)
			}
		}
		s.Config.Set(cfg)
	default:
		return fmt.Errorf("%q: %w", name, common.ErrUnknownCollection)
	}
	return nil
}

// Reset đưa collection về trạng thái rỗng (khi load thất bại hoàn toàn)
func (s *Store) Reset(name models.CollectionName) {
	_ = s.ReplaceJSON(name, nil)
	s.SetMeta(name, LoadMeta{})
}

// Len trả về số record của collection (config luôn là 1)
func (s *Store) Len(name models.CollectionName) int {
	switch name {
	case models.CollectionNews:
		return s.News.Len()
	case models.CollectionBank:
		return s.Bank.Len()
	case models.CollectionRestaurant:
		return s.Restaurant.Len()
	case models.CollectionConfig:
		return 1
	}
	return 0
}

// SetMeta ghi lại thông tin load
func (s *Store) SetMeta(name models.CollectionName, m LoadMeta) {
	s.metaMu.Lock()
	s.meta[name] = m
	s.metaMu.Unlock()
}

// Meta trả về thông tin load gần nhất
func (s *Store) Meta(name models.CollectionName) LoadMeta {
	s.metaMu.RLock()
	defer s.metaMu.RUnlock()
	return s.meta[name]
}
