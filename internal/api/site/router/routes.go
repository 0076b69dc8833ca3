// Package router đăng ký các route của site: admin panel, minigame bank, trang công khai, radio.
package router

import (
	"github.com/gofiber/fiber/v3"

	"wiktowice_site/internal/api/middleware"
	apirouter "wiktowice_site/internal/api/router"
	sitehdl "wiktowice_site/internal/api/site/handler"
	services "wiktowice_site/internal/api/site/service"
	"wiktowice_site/internal/auth"
)

// Deps là các service mà route của site cần
type Deps struct {
	Auth        *auth.Service
	Collections *services.CollectionService
	Bank        *services.BankService
	Public      *services.PublicService
	NowPlaying  sitehdl.NowPlayingSource
	PublicHost  string
}

// NewRegister trả về hàm đăng ký route của site lên v1
func NewRegister(d Deps) apirouter.RegisterFunc {
	return func(v1 fiber.Router, r *apirouter.Router) error {
		registerAdminRoutes(v1, d)
		registerBankRoutes(v1, d)
		registerPublicRoutes(v1, d)
		return nil
	}
}

func registerAdminRoutes(router fiber.Router, d Deps) {
	h := sitehdl.NewAdminHandler(d.Auth, d.Collections, d.PublicHost)

	// Đăng ký trước group /admin để không đi qua AuthMiddleware
	router.Post("/admin/login", h.HandleLogin)

	adminOnly := middleware.AuthMiddleware(d.Auth, auth.SubjectAdmin)
	apirouter.RegisterGroup(router, "/admin", []fiber.Handler{adminOnly},
		apirouter.Route{Method: fiber.MethodPost, Path: "/collections/load-all", Handler: h.HandleLoadAll},
		apirouter.Route{Method: fiber.MethodPost, Path: "/collections/:name/load", Handler: h.HandleLoad},
		apirouter.Route{Method: fiber.MethodGet, Path: "/collections/:name/view", Handler: h.HandleView},
		apirouter.Route{Method: fiber.MethodPost, Path: "/collections/:name/sort", Handler: h.HandleSort},
		apirouter.Route{Method: fiber.MethodGet, Path: "/collections/:name/json", Handler: h.HandleJSON},
		apirouter.Route{Method: fiber.MethodPost, Path: "/collections/:name/items", Handler: h.HandleCreate},
		apirouter.Route{Method: fiber.MethodPut, Path: "/collections/:name/items/:key", Handler: h.HandleUpdate},
		apirouter.Route{Method: fiber.MethodDelete, Path: "/collections/:name/items/:key", Handler: h.HandleDelete},
		apirouter.Route{Method: fiber.MethodPost, Path: "/collections/:name/upload-retry", Handler: h.HandleRetryUpload},
		apirouter.Route{Method: fiber.MethodPut, Path: "/config", Handler: h.HandleUpdateConfig},
		apirouter.Route{Method: fiber.MethodPut, Path: "/hosting-token", Handler: h.HandleSetHostingToken},
		apirouter.Route{Method: fiber.MethodGet, Path: "/dashboard", Handler: h.HandleDashboard},
		apirouter.Route{Method: fiber.MethodGet, Path: "/notifications", Handler: h.HandleNotifications},
		apirouter.Route{Method: fiber.MethodDelete, Path: "/notifications/:id", Handler: h.HandleDismissNotification},
	)
}

func registerBankRoutes(router fiber.Router, d Deps) {
	h := sitehdl.NewBankHandler(d.Bank, d.Auth)

	router.Post("/bank/login", h.HandleLogin)
	router.Post("/bank/register", h.HandleRegister)
	router.Post("/bank/admin/login", h.HandleAdminLogin)

	bankAdminOnly := middleware.AuthMiddleware(d.Auth, auth.SubjectBankAdmin, auth.SubjectAdmin)
	apirouter.RegisterRouteWithMiddleware(router, "/bank/admin", fiber.MethodGet, "/users", []fiber.Handler{bankAdminOnly}, h.HandleUsers)
}

func registerPublicRoutes(router fiber.Router, d Deps) {
	public := sitehdl.NewPublicHandler(d.Public)
	router.Get("/public/news", public.HandleNews)
	router.Get("/public/site-config", public.HandleSiteConfig)

	if d.NowPlaying != nil {
		radio := sitehdl.NewRadioHandler(d.NowPlaying)
		router.Get("/radio/now-playing", radio.HandleNowPlaying)
	}
}
