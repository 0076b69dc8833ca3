// Package services chứa nghiệp vụ của admin panel, minigame bank và các trang công khai.
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"wiktowice_site/internal/api/site/dto"
	"wiktowice_site/internal/api/site/models"
	"wiktowice_site/internal/cache"
	"wiktowice_site/internal/common"
	"wiktowice_site/internal/logger"
	"wiktowice_site/internal/notify"
	"wiktowice_site/internal/remote"
	"wiktowice_site/internal/render"
	"wiktowice_site/internal/syncer"
	"wiktowice_site/internal/validation"
)

// Message hiển thị sau thao tác
const (
	MsgSaved         = "Zapisano pomyślnie!"
	MsgDeleted       = "Element usunięty."
	MsgConfigUpdated = "Konfiguracja zaktualizowana (Lokalnie)"
)

// LoadResult là kết quả load một collection
type LoadResult struct {
	Collection models.CollectionName `json:"collection"`
	Source     models.Source         `json:"source"`
	ReadOnly   bool                  `json:"readOnly"`
	Count      int                   `json:"count"`
	Warning    string                `json:"warning,omitempty"`
	Error      string                `json:"error,omitempty"`
}

// MutationResult là kết quả thêm/sửa/xóa
type MutationResult struct {
	Collection models.CollectionName `json:"collection"`
	Key        string                `json:"key,omitempty"`
	Message    string                `json:"message"`
	Count      int                   `json:"count"`
	Outcome    syncer.Outcome        `json:"outcome"`
}

// CollectionService điều phối load, sửa và lưu các collection của admin panel
type CollectionService struct {
	store   *cache.Store
	adapter *remote.Adapter
	engine  *syncer.Engine
	sort    *render.SortState
	center  *notify.Center
}

// NewCollectionService tạo service
func NewCollectionService(store *cache.Store, adapter *remote.Adapter, engine *syncer.Engine,
	sort *render.SortState, center *notify.Center) *CollectionService {
	return &CollectionService{store: store, adapter: adapter, engine: engine, sort: sort, center: center}
}

// Store trả về cache dùng chung
func (s *CollectionService) Store() *cache.Store { return s.store }

// Center trả về trung tâm thông báo
func (s *CollectionService) Center() *notify.Center { return s.center }

// Load đọc lại collection từ nguồn và thay toàn bộ dữ liệu trong cache.
// Thất bại thì collection về rỗng và lỗi được trả về.
func (s *CollectionService) Load(ctx context.Context, name models.CollectionName) (*LoadResult, error) {
	log := logger.WithCollection("admin", string(name))
	result := &LoadResult{Collection: name}

	res, err := s.adapter.FetchCollection(ctx, name)
	if err != nil {
		s.reportLoadError(name, err)
		s.store.Reset(name)
		s.sort.Reset(name)
		result.Error = common.UserMessage(err)
		log.WithError(err).Error("Load failed")
		return result, err
	}

	if res.RemoteErr != nil {
		s.reportLoadError(name, res.RemoteErr)
		result.Warning = common.UserMessage(res.RemoteErr)
	}

	if err := s.store.ReplaceJSON(name, res.Raw); err != nil {
		s.store.Reset(name)
		s.sort.Reset(name)
		appErr := common.NewError(common.ErrCodeValidationFormat,
			fmt.Sprintf("Nieprawidłowy format danych (%s)", name), common.StatusBadGateway, nil)
		s.center.Push(notify.LevelError, common.UserMessage(appErr))
		log.WithError(err).Error("Decode failed")
		result.Error = common.UserMessage(appErr)
		return result, appErr
	}

	s.store.SetMeta(name, cache.LoadMeta{Source: res.Source, ReadOnly: res.ReadOnly, LoadedAt: nowFunc()})
	s.sort.Reset(name)

	result.Source = res.Source
	result.ReadOnly = res.ReadOnly
	result.Count = s.store.Len(name)
	log.WithFields(map[string]interface{}{"source": res.Source, "count": result.Count}).Info("Collection loaded")
	return result, nil
}

// reportLoadError chuyển lỗi load thành thông báo; thiếu bảng là cảnh báo chặn
func (s *CollectionService) reportLoadError(name models.CollectionName, err error) {
	if common.IsSchemaError(err) {
		s.center.PushCritical(common.UserMessage(err))
	}
	s.center.Push(notify.LevelError, fmt.Sprintf("Błąd bazy danych (%s): %s", name, common.UserMessage(err)))
}

// LoadAll load lần lượt mọi collection, lỗi của một collection không chặn các collection khác
func (s *CollectionService) LoadAll(ctx context.Context) []LoadResult {
	results := make([]LoadResult, 0, len(models.AllCollections))
	for _, spec := range models.AllCollections {
		res, _ := s.Load(ctx, spec.Name)
		results = append(results, *res)
	}
	return results
}

// View render collection với filter
func (s *CollectionService) View(name models.CollectionName, f render.Filter) (render.View, error) {
	return render.Render(s.store, name, f)
}

// Sort bấm sort theo key rồi trả về view mới
func (s *CollectionService) Sort(name models.CollectionName, key string, f render.Filter) (render.View, render.SortKey, error) {
	if name == models.CollectionConfig {
		return render.View{}, render.SortKey{}, common.NewValidationError("Tej kolekcji nie można sortować")
	}
	if strings.TrimSpace(key) == "" {
		return render.View{}, render.SortKey{}, common.ErrRequiredField
	}
	sk := s.sort.Click(name, key)
	if err := render.Apply(s.store, sk); err != nil {
		return render.View{}, sk, err
	}
	v, err := render.Render(s.store, name, f)
	return v, sk, err
}

// JSON trả về collection dạng JSON 4 dấu cách (bản xem trước)
func (s *CollectionService) JSON(name models.CollectionName) ([]byte, error) {
	return s.store.MarshalCollection(name)
}

// Dashboard trả về số liệu tổng quan
func (s *CollectionService) Dashboard() render.Dashboard {
	return render.BuildDashboard(s.store, s.sort)
}

func decodeBody(body []byte, v interface{}) error {
	if err := json.Unmarshal(body, v); err != nil {
		return common.ErrInvalidFormat
	}
	return nil
}

// parseIndex đọc key dạng vị trí trong mảng
func parseIndex(key string) (int, error) {
	i, err := strconv.Atoi(key)
	if err != nil || i < 0 {
		return 0, common.ErrRecordNotFound
	}
	return i, nil
}

// parseID đọc key dạng id
func parseID(key string) (int64, error) {
	id, err := strconv.ParseInt(key, 10, 64)
	if err != nil {
		return 0, common.ErrRecordNotFound
	}
	return id, nil
}

// bankUserFrom chuẩn hóa input: trim login/mật khẩu, số dư là số nguyên
func bankUserFrom(in dto.BankUserInput) models.BankUser {
	u := validation.NormalizeBankUser(models.BankUser{ID: in.ID, Login: in.Login, Haslo: in.Haslo, Saldo: in.Saldo})
	u.Saldo = math.Trunc(u.Saldo)
	return u
}

// Create thêm record mới vào collection rồi lưu
func (s *CollectionService) Create(ctx context.Context, name models.CollectionName, body []byte, env syncer.Environment) (*MutationResult, error) {
	key := ""
	switch name {
	case models.CollectionNews:
		var in dto.NewsInput
		if err := decodeBody(body, &in); err != nil {
			return nil, err
		}
		item := models.NewsItem{Title: in.Title, Date: in.Date, Content: in.Content}
		if err := validation.News(item); err != nil {
			return nil, err
		}
		s.store.News.Append(item)
		key = strconv.Itoa(s.store.News.Len() - 1)

	case models.CollectionBank:
		var in dto.BankUserInput
		if err := decodeBody(body, &in); err != nil {
			return nil, err
		}
		u := bankUserFrom(in)
		err := s.store.Bank.Mutate(func(items []models.BankUser) ([]models.BankUser, error) {
			if u.ID == 0 {
				u.ID = models.NextBankID(items)
			}
			if err := validation.BankUserCreate(u, items); err != nil {
				return nil, err
			}
			return append(items, u), nil
		})
		if err != nil {
			return nil, err
		}
		key = strconv.FormatInt(u.ID, 10)

	case models.CollectionRestaurant:
		var in dto.OrderInput
		if err := decodeBody(body, &in); err != nil {
			return nil, err
		}
		if in.Status == "" {
			in.Status = models.OrderPending
		}
		order := models.RestaurantOrder{Number: strings.TrimSpace(in.Number), Status: in.Status}
		if err := validation.Order(order); err != nil {
			return nil, err
		}
		s.store.Restaurant.Append(order)
		key = strconv.Itoa(s.store.Restaurant.Len() - 1)

	case models.CollectionConfig:
		return nil, common.NewValidationError("Konfigurację zmienia się przez PUT /config")
	default:
		return nil, common.ErrUnknownCollection
	}

	return s.persist(ctx, name, key, MsgSaved, env), nil
}

// Update sửa record theo key (vị trí với news/restaurant, id với bank) rồi lưu
func (s *CollectionService) Update(ctx context.Context, name models.CollectionName, key string, body []byte, env syncer.Environment) (*MutationResult, error) {
	switch name {
	case models.CollectionNews:
		idx, err := parseIndex(key)
		if err != nil {
			return nil, err
		}
		var in dto.NewsInput
		if err := decodeBody(body, &in); err != nil {
			return nil, err
		}
		item := models.NewsItem{Title: in.Title, Date: in.Date, Content: in.Content}
		if err := validation.News(item); err != nil {
			return nil, err
		}
		err = s.store.News.Mutate(func(items []models.NewsItem) ([]models.NewsItem, error) {
			if idx >= len(items) {
				return nil, common.ErrRecordNotFound
			}
			// Giữ id do database cấp
			item.ID = items[idx].ID
			items[idx] = item
			return items, nil
		})
		if err != nil {
			return nil, err
		}

	case models.CollectionBank:
		origID, err := parseID(key)
		if err != nil {
			return nil, err
		}
		var in dto.BankUserInput
		if err := decodeBody(body, &in); err != nil {
			return nil, err
		}
		u := bankUserFrom(in)
		if u.ID == 0 {
			u.ID = origID
		}
		err = s.store.Bank.Mutate(func(items []models.BankUser) ([]models.BankUser, error) {
			idx := -1
			for i, other := range items {
				if other.ID == origID {
					idx = i
					break
				}
			}
			if idx < 0 {
				return nil, common.ErrRecordNotFound
			}
			if err := validation.BankUserUpdate(u, origID, items); err != nil {
				return nil, err
			}
			items[idx] = u
			return items, nil
		})
		if err != nil {
			return nil, err
		}
		key = strconv.FormatInt(u.ID, 10)

	case models.CollectionRestaurant:
		idx, err := parseIndex(key)
		if err != nil {
			return nil, err
		}
		var in dto.OrderInput
		if err := decodeBody(body, &in); err != nil {
			return nil, err
		}
		order := models.RestaurantOrder{Number: strings.TrimSpace(in.Number), Status: in.Status}
		if err := validation.Order(order); err != nil {
			return nil, err
		}
		err = s.store.Restaurant.Mutate(func(items []models.RestaurantOrder) ([]models.RestaurantOrder, error) {
			if idx >= len(items) {
				return nil, common.ErrRecordNotFound
			}
			order.ID = items[idx].ID
			items[idx] = order
			return items, nil
		})
		if err != nil {
			return nil, err
		}

	case models.CollectionConfig:
		return nil, common.NewValidationError("Konfigurację zmienia się przez PUT /config")
	default:
		return nil, common.ErrUnknownCollection
	}

	return s.persist(ctx, name, key, MsgSaved, env), nil
}

// remoteIDFor tìm id trên database của record sắp xóa
func (s *CollectionService) remoteIDFor(name models.CollectionName, key string) (int64, bool, error) {
	switch name {
	case models.CollectionBank:
		id, err := parseID(key)
		if err != nil {
			return 0, false, err
		}
		if s.store.Bank.IndexWhere(func(u models.BankUser) bool { return u.ID == id }) < 0 {
			return 0, false, common.ErrRecordNotFound
		}
		return id, true, nil
	case models.CollectionNews:
		idx, err := parseIndex(key)
		if err != nil {
			return 0, false, err
		}
		item, ok := s.store.News.At(idx)
		if !ok {
			return 0, false, common.ErrRecordNotFound
		}
		id, has := item.RemoteID()
		return id, has, nil
	case models.CollectionRestaurant:
		idx, err := parseIndex(key)
		if err != nil {
			return 0, false, err
		}
		item, ok := s.store.Restaurant.At(idx)
		if !ok {
			return 0, false, common.ErrRecordNotFound
		}
		id, has := item.RemoteID()
		return id, has, nil
	case models.CollectionConfig:
		return 0, false, common.NewValidationError("Konfiguracji nie można usunąć")
	}
	return 0, false, common.ErrUnknownCollection
}

// Delete xóa record sau khi người dùng xác nhận.
// Nếu xóa trên database thất bại thì dừng, cache không bị động tới.
func (s *CollectionService) Delete(ctx context.Context, name models.CollectionName, key string, confirmed bool, env syncer.Environment) (*MutationResult, error) {
	if !confirmed {
		return nil, common.ErrNotConfirmed
	}
	id, hasID, err := s.remoteIDFor(name, key)
	if err != nil {
		return nil, err
	}

	spec, err := s.adapter.Spec(name)
	if err != nil {
		return nil, err
	}
	if hasID && s.adapter.RemoteFor(spec) && !s.store.Meta(name).ReadOnly {
		if err := s.adapter.DeleteRecord(ctx, name, id); err != nil {
			s.center.Push(notify.LevelError, "Błąd usuwania z Supabase: "+common.UserMessage(err))
			return nil, err
		}
	}

	removed := 0
	switch name {
	case models.CollectionBank:
		removed = s.store.Bank.RemoveWhere(func(u models.BankUser) bool { return u.ID == id })
	case models.CollectionNews:
		idx, _ := parseIndex(key)
		if _, ok := s.store.News.RemoveAt(idx); ok {
			removed = 1
		}
	case models.CollectionRestaurant:
		idx, _ := parseIndex(key)
		if _, ok := s.store.Restaurant.RemoveAt(idx); ok {
			removed = 1
		}
	}
	if removed == 0 {
		return nil, common.ErrRecordNotFound
	}

	return s.persist(ctx, name, key, MsgDeleted, env), nil
}

// UpdateConfig thay cấu hình site rồi lưu
func (s *CollectionService) UpdateConfig(ctx context.Context, cfg models.SiteConfig, env syncer.Environment) *MutationResult {
	s.store.Config.Set(cfg)
	return s.persist(ctx, models.CollectionConfig, "", MsgConfigUpdated, env)
}

// persist lưu collection qua sync engine, thông báo thành công của thao tác luôn được hiển thị
// vì thay đổi đã nằm trong cache
func (s *CollectionService) persist(ctx context.Context, name models.CollectionName, key, message string, env syncer.Environment) *MutationResult {
	outcome := s.engine.Persist(ctx, name, env)
	s.center.Push(notify.LevelSuccess, message)
	return &MutationResult{
		Collection: name,
		Key:        key,
		Message:    message,
		Count:      s.store.Len(name),
		Outcome:    outcome,
	}
}

// RetryUpload thử lại upload lên hosting
func (s *CollectionService) RetryUpload(ctx context.Context, name models.CollectionName, env syncer.Environment) (syncer.Outcome, error) {
	if _, err := s.adapter.Spec(name); err != nil {
		return syncer.Outcome{}, err
	}
	return s.engine.RetryUpload(ctx, name, env), nil
}

// SetHostingToken lưu token upload của hosting
func (s *CollectionService) SetHostingToken(token string) error {
	return s.engine.SetHostingToken(token)
}

// Notifications trả về các thông báo đang hiển thị
func (s *CollectionService) Notifications() []notify.Notification {
	return s.center.Active()
}
