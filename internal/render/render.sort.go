package render

import (
	"sort"
	"sync"

	"wiktowice_site/internal/api/site/models"
	"wiktowice_site/internal/cache"
	"wiktowice_site/internal/common"
)

// Direction là chiều sort
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// SortKey mô tả trạng thái SortedBy; Collection rỗng nghĩa là Unsorted
type SortKey struct {
	Collection models.CollectionName `json:"collection,omitempty"`
	Key        string                `json:"key,omitempty"`
	Dir        Direction             `json:"dir"`
}

// Sorted cho biết đang ở trạng thái SortedBy
func (k SortKey) Sorted() bool { return k.Collection != "" }

// SortState là máy trạng thái sort dùng chung cho toàn bộ panel
type SortState struct {
	mu  sync.Mutex
	cur SortKey
}

// NewSortState tạo trạng thái Unsorted
func NewSortState() *SortState {
	return &SortState{cur: SortKey{Dir: Asc}}
}

// Click chuyển trạng thái khi bấm sort (collection, key):
// khác cặp hiện tại thì sort tăng dần, trùng thì đảo chiều.
func (s *SortState) Click(collection models.CollectionName, key string) SortKey {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cur.Collection != collection || s.cur.Key != key {
		s.cur = SortKey{Collection: collection, Key: key, Dir: Asc}
	} else if s.cur.Dir == Asc {
		s.cur.Dir = Desc
	} else {
		s.cur.Dir = Asc
	}
	return s.cur
}

// Reset đưa về Unsorted sau khi collection được load lại.
// Sort đang áp dụng cho collection khác được giữ nguyên.
func (s *SortState) Reset(collection models.CollectionName) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cur.Collection != collection {
		return
	}
	s.cur = SortKey{Dir: Asc}
}

// Current trả về trạng thái hiện tại
func (s *SortState) Current() SortKey {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cur
}

// SortRecords sort ổn định theo field key
func SortRecords[T models.Record](items []T, key string, dir Direction) {
	sort.SliceStable(items, func(i, j int) bool {
		c := Compare(items[i].Field(key), items[j].Field(key))
		if dir == Desc {
			return c > 0
		}
		return c < 0
	})
}

func sortSet[T models.Record](set *cache.Set[T], key string, dir Direction) {
	_ = set.Mutate(func(items []T) ([]T, error) {
		SortRecords(items, key, dir)
		return items, nil
	})
}

// Apply sort collection trong cache theo trạng thái sk (thứ tự trong cache thay đổi)
func Apply(store *cache.Store, sk SortKey) error {
	switch sk.Collection {
	case models.CollectionNews:
		sortSet(store.News, sk.Key, sk.Dir)
	case models.CollectionBank:
		sortSet(store.Bank, sk.Key, sk.Dir)
	case models.CollectionRestaurant:
		sortSet(store.Restaurant, sk.Key, sk.Dir)
	default:
		return common.NewValidationError("Tej kolekcji nie można sortować")
	}
	return nil
}
