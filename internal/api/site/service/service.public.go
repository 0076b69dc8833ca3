package services

import (
	"wiktowice_site/internal/api/site/models"
	"wiktowice_site/internal/cache"
)

// PublicService phục vụ dữ liệu cho các trang công khai
type PublicService struct {
	store *cache.Store
}

// NewPublicService tạo service
func NewPublicService(store *cache.Store) *PublicService {
	return &PublicService{store: store}
}

// News trả về tin tức, mới nhất trước (tin mới được thêm vào cuối mảng)
func (s *PublicService) News() []models.NewsItem {
	items := s.store.News.All()
	out := make([]models.NewsItem, 0, len(items))
	for i := len(items) - 1; i >= 0; i-- {
		out = append(out, items[i])
	}
	return out
}

// SiteConfig trả về cấu hình site (motd, ip server, bảo trì, thông báo)
func (s *PublicService) SiteConfig() models.SiteConfig {
	return s.store.Config.Get()
}
