package render

import (
	"wiktowice_site/internal/api/site/models"
	"wiktowice_site/internal/cache"
)

// Dashboard là số liệu tổng quan của panel
type Dashboard struct {
	NewsCount   int                       `json:"newsCount"`
	BankCount   int                       `json:"bankCount"`
	OrdersCount int                       `json:"ordersCount"`
	Maintenance bool                      `json:"maintenance"`
	Status      string                    `json:"status"`
	StatusClass string                    `json:"statusClass"`
	Sort        SortKey                   `json:"sort"`
	Sources     map[string]cache.LoadMeta `json:"sources"`
}

// BuildDashboard đọc số liệu hiện tại từ store
func BuildDashboard(store *cache.Store, sort *SortState) Dashboard {
	d := Dashboard{
		NewsCount:   store.News.Len(),
		BankCount:   store.Bank.Len(),
		OrdersCount: store.Restaurant.Len(),
		Maintenance: store.Config.Get().Maintenance,
		Sources:     make(map[string]cache.LoadMeta, len(models.AllCollections)),
	}
	if d.Maintenance {
		d.Status = "● MAINTENANCE MODE"
		d.StatusClass = "danger"
	} else {
		d.Status = "● SYSTEM ONLINE"
		d.StatusClass = "success"
	}
	if sort != nil {
		d.Sort = sort.Current()
	}
	for _, spec := range models.AllCollections {
		d.Sources[string(spec.Name)] = store.Meta(spec.Name)
	}
	return d
}
