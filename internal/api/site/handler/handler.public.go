package sitehdl

import (
	"github.com/gofiber/fiber/v3"

	basehdl "wiktowice_site/internal/api/base/handler"
	services "wiktowice_site/internal/api/site/service"
	"wiktowice_site/internal/worker"
)

// PublicHandler phục vụ các trang công khai
type PublicHandler struct {
	public *services.PublicService
}

// NewPublicHandler tạo handler
func NewPublicHandler(public *services.PublicService) *PublicHandler {
	return &PublicHandler{public: public}
}

// HandleNews trả về tin tức, mới nhất trước
func (h *PublicHandler) HandleNews(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		return basehdl.HandleResponse(c, h.public.News(), nil)
	})
}

// HandleSiteConfig trả về cấu hình site
func (h *PublicHandler) HandleSiteConfig(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		return basehdl.HandleResponse(c, h.public.SiteConfig(), nil)
	})
}

// NowPlayingSource cung cấp bài đang phát
type NowPlayingSource interface {
	Current() worker.Track
}

// RadioHandler phục vụ widget radio
type RadioHandler struct {
	source NowPlayingSource
}

// NewRadioHandler tạo handler
func NewRadioHandler(source NowPlayingSource) *RadioHandler {
	return &RadioHandler{source: source}
}

// HandleNowPlaying trả về bài đang phát
func (h *RadioHandler) HandleNowPlaying(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		c.Set("Cache-Control", "no-store")
		return basehdl.HandleResponse(c, h.source.Current(), nil)
	})
}
