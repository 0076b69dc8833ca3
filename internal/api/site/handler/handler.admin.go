package sitehdl

import (
	"github.com/gofiber/fiber/v3"

	basehdl "wiktowice_site/internal/api/base/handler"
	"wiktowice_site/internal/api/site/dto"
	"wiktowice_site/internal/api/site/models"
	services "wiktowice_site/internal/api/site/service"
	"wiktowice_site/internal/auth"
	"wiktowice_site/internal/logger"
	"wiktowice_site/internal/render"
)

// AdminHandler xử lý các route của admin panel
type AdminHandler struct {
	auth        *auth.Service
	collections *services.CollectionService
	publicHost  string
}

// NewAdminHandler tạo handler
func NewAdminHandler(authService *auth.Service, collections *services.CollectionService, publicHost string) *AdminHandler {
	return &AdminHandler{auth: authService, collections: collections, publicHost: publicHost}
}

// HandleLogin đăng nhập admin panel, trả về token phiên
func (h *AdminHandler) HandleLogin(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		var input dto.AdminLoginInput
		if err := parseBody(c, &input); err != nil {
			return basehdl.HandleResponse(c, nil, err)
		}
		session, err := h.auth.Login(c.Context(), input.Password)
		logger.LogAuth("admin_login", c, err == nil, nil)
		return basehdl.HandleResponse(c, session, err)
	})
}

// HandleLoadAll load lại mọi collection
func (h *AdminHandler) HandleLoadAll(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		results := h.collections.LoadAll(c.Context())
		return basehdl.HandleResponse(c, fiber.Map{
			"results":   results,
			"dashboard": h.collections.Dashboard(),
		}, nil)
	})
}

// HandleLoad load lại một collection
func (h *AdminHandler) HandleLoad(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		name, err := collectionParam(c)
		if err != nil {
			return basehdl.HandleResponse(c, nil, err)
		}
		result, err := h.collections.Load(c.Context(), name)
		return basehdl.HandleResponse(c, result, err)
	})
}

// HandleView trả về bảng đã render (search cho bank, status cho restaurant)
func (h *AdminHandler) HandleView(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		name, err := collectionParam(c)
		if err != nil {
			return basehdl.HandleResponse(c, nil, err)
		}
		view, err := h.collections.View(name, render.Filter{
			Search: c.Query("search"),
			Status: c.Query("status"),
		})
		return basehdl.HandleResponse(c, view, err)
	})
}

// HandleSort bấm sort theo ?key=
func (h *AdminHandler) HandleSort(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		name, err := collectionParam(c)
		if err != nil {
			return basehdl.HandleResponse(c, nil, err)
		}
		view, sk, err := h.collections.Sort(name, c.Query("key"), render.Filter{
			Search: c.Query("search"),
			Status: c.Query("status"),
		})
		if err != nil {
			return basehdl.HandleResponse(c, nil, err)
		}
		return basehdl.HandleResponse(c, fiber.Map{"sort": sk, "view": view}, nil)
	})
}

// HandleCreate thêm record
func (h *AdminHandler) HandleCreate(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		name, err := collectionParam(c)
		if err != nil {
			return basehdl.HandleResponse(c, nil, err)
		}
		result, err := h.collections.Create(c.Context(), name, c.Body(), environmentOf(c, h.publicHost))
		if err == nil {
			logger.LogCRUD("create", string(name), result.Key, c, nil)
		}
		return basehdl.HandleCreated(c, result, err)
	})
}

// HandleUpdate sửa record theo :key
func (h *AdminHandler) HandleUpdate(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		name, err := collectionParam(c)
		if err != nil {
			return basehdl.HandleResponse(c, nil, err)
		}
		key := c.Params("key")
		result, err := h.collections.Update(c.Context(), name, key, c.Body(), environmentOf(c, h.publicHost))
		if err == nil {
			logger.LogCRUD("update", string(name), key, c, nil)
		}
		return basehdl.HandleResponse(c, result, err)
	})
}

// HandleDelete xóa record theo :key, cần ?confirm=true
func (h *AdminHandler) HandleDelete(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		name, err := collectionParam(c)
		if err != nil {
			return basehdl.HandleResponse(c, nil, err)
		}
		key := c.Params("key")
		confirmed := c.Query("confirm") == "true"
		result, err := h.collections.Delete(c.Context(), name, key, confirmed, environmentOf(c, h.publicHost))
		if err == nil {
			logger.LogCRUD("delete", string(name), key, c, nil)
		}
		return basehdl.HandleResponse(c, result, err)
	})
}

// HandleUpdateConfig thay cấu hình site
func (h *AdminHandler) HandleUpdateConfig(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		var cfg models.SiteConfig
		if err := parseBody(c, &cfg); err != nil {
			return basehdl.HandleResponse(c, nil, err)
		}
		result := h.collections.UpdateConfig(c.Context(), cfg, environmentOf(c, h.publicHost))
		logger.LogCRUD("update", string(models.CollectionConfig), "", c, map[string]interface{}{"maintenance": cfg.Maintenance})
		return basehdl.HandleResponse(c, result, nil)
	})
}

// HandleRetryUpload thử lại upload lên hosting
func (h *AdminHandler) HandleRetryUpload(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		name, err := collectionParam(c)
		if err != nil {
			return basehdl.HandleResponse(c, nil, err)
		}
		outcome, err := h.collections.RetryUpload(c.Context(), name, environmentOf(c, h.publicHost))
		return basehdl.HandleResponse(c, outcome, err)
	})
}

// HandleSetHostingToken lưu token upload, token rỗng thì xóa
func (h *AdminHandler) HandleSetHostingToken(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		var input dto.HostingTokenInput
		if err := parseBody(c, &input); err != nil {
			return basehdl.HandleResponse(c, nil, err)
		}
		err := h.collections.SetHostingToken(input.Token)
		logger.LogAction("hosting_token", c, map[string]interface{}{"cleared": input.Token == ""})
		return basehdl.HandleResponse(c, fiber.Map{"saved": err == nil}, err)
	})
}

// HandleDashboard trả về số liệu tổng quan
func (h *AdminHandler) HandleDashboard(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		return basehdl.HandleResponse(c, h.collections.Dashboard(), nil)
	})
}

// HandleNotifications trả về các thông báo đang hiển thị
func (h *AdminHandler) HandleNotifications(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		return basehdl.HandleResponse(c, h.collections.Notifications(), nil)
	})
}

// HandleDismissNotification đóng một thông báo
func (h *AdminHandler) HandleDismissNotification(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		return basehdl.HandleResponse(c, fiber.Map{"dismissed": h.collections.Center().Dismiss(c.Params("id"))}, nil)
	})
}

// HandleJSON trả về collection dạng JSON đúng như khi ghi ra file
func (h *AdminHandler) HandleJSON(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		name, err := collectionParam(c)
		if err != nil {
			return basehdl.HandleResponse(c, nil, err)
		}
		raw, err := h.collections.JSON(name)
		if err != nil {
			return basehdl.HandleResponse(c, nil, err)
		}
		c.Set("Content-Type", "application/json; charset=utf-8")
		return c.Status(fiber.StatusOK).Send(raw)
	})
}
