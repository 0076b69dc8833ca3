package router

import (
	"github.com/gofiber/fiber/v3"
)

// ============================================================================
// LƯU Ý: CÁCH ĐĂNG KÝ MIDDLEWARE VỚI FIBER V3
// ============================================================================
//
// Middleware truyền trực tiếp vào route (router.Get(path, mw, handler)) không được gọi.
// Phải đăng ký qua group.Use(), xem RegisterRouteWithMiddleware / RegisterGroup.
//
// Use() trên group khớp theo prefix: mọi path bắt đầu bằng prefix đều đi qua middleware.
// Route công khai nằm dưới cùng prefix (vd. /admin/login) phải được đăng ký TRƯỚC group
// có middleware.
// ============================================================================

// Router quản lý việc định tuyến cho API
type Router struct {
	app *fiber.App
}

// RoutePrefix chứa các prefix cơ bản cho API
type RoutePrefix struct {
	Base string // Prefix cơ bản (/api)
	V1   string // Prefix cho API version 1 (/api/v1)
}

// NewRoutePrefix tạo RoutePrefix với giá trị mặc định
func NewRoutePrefix() RoutePrefix {
	base := "/api"
	return RoutePrefix{
		Base: base,
		V1:   base + "/v1",
	}
}

// NewRouter tạo Router
func NewRouter(app *fiber.App) *Router {
	return &Router{
		app: app,
	}
}

// App trả về fiber app (dùng cho route ngoài /api/v1 như /health)
func (r *Router) App() *fiber.App { return r.app }

// Route mô tả một route trong group
type Route struct {
	Method  string
	Path    string
	Handler fiber.Handler
}

// RegisterRouteWithMiddleware đăng ký một route với middleware qua .Use()
//
// Ví dụ:
//
//	authMiddleware := middleware.AuthMiddleware(authService)
//	RegisterRouteWithMiddleware(v1, "/admin", "GET", "/dashboard", []fiber.Handler{authMiddleware}, handler)
func RegisterRouteWithMiddleware(router fiber.Router, prefix string, method string, path string, middlewares []fiber.Handler, handler fiber.Handler) {
	RegisterGroup(router, prefix, middlewares, Route{Method: method, Path: path, Handler: handler})
}

// RegisterGroup đăng ký nhiều route chung prefix, middleware chỉ gắn một lần cho cả group
func RegisterGroup(router fiber.Router, prefix string, middlewares []fiber.Handler, routes ...Route) {
	routeGroup := router.Group(prefix)
	for _, mw := range middlewares {
		routeGroup.Use(mw)
	}

	for _, rt := range routes {
		switch rt.Method {
		case fiber.MethodGet:
			routeGroup.Get(rt.Path, rt.Handler)
		case fiber.MethodPost:
			routeGroup.Post(rt.Path, rt.Handler)
		case fiber.MethodPut:
			routeGroup.Put(rt.Path, rt.Handler)
		case fiber.MethodDelete:
			routeGroup.Delete(rt.Path, rt.Handler)
		}
	}
}

// RegisterFunc là hàm đăng ký route của một domain (do domain/router export)
type RegisterFunc func(v1 fiber.Router, r *Router) error

// SetupRoutes thiết lập tất cả các route. Caller truyền lần lượt Register của từng domain
// để tránh import cycle.
func SetupRoutes(app *fiber.App, regs ...RegisterFunc) error {
	prefix := NewRoutePrefix()
	v1 := app.Group(prefix.V1)
	r := NewRouter(app)
	for _, reg := range regs {
		if err := reg(v1, r); err != nil {
			return err
		}
	}
	return nil
}
