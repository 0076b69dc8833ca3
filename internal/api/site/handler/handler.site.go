// Package sitehdl chứa HTTP handler của admin panel, minigame bank, trang công khai và radio.
package sitehdl

import (
	"strings"

	"github.com/gofiber/fiber/v3"

	"wiktowice_site/internal/api/site/models"
	"wiktowice_site/internal/common"
	"wiktowice_site/internal/syncer"
)

// HeaderSiteHost là host của trang admin đang mở (quyết định đích lưu: localhost, github.io, ...)
const HeaderSiteHost = "X-Site-Host"

// environmentOf xác định môi trường của người gọi: header X-Site-Host, sau đó Host của request,
// cuối cùng là host công khai trong cấu hình
func environmentOf(c fiber.Ctx, publicHost string) syncer.Environment {
	host := strings.TrimSpace(c.Get(HeaderSiteHost))
	if host == "" {
		host = c.Hostname()
	}
	if host == "" {
		host = publicHost
	}
	return syncer.Environment{Hostname: host}
}

// collectionParam đọc :name và kiểm tra collection có tồn tại
func collectionParam(c fiber.Ctx) (models.CollectionName, error) {
	name := models.CollectionName(c.Params("name"))
	for _, spec := range models.AllCollections {
		if spec.Name == name {
			return name, nil
		}
	}
	return "", common.ErrUnknownCollection
}

// parseBody đọc JSON body vào v
func parseBody(c fiber.Ctx, v interface{}) error {
	if err := c.Bind().Body(v); err != nil {
		return common.NewError(common.ErrCodeValidationFormat, common.MsgInvalidFormat, common.StatusBadRequest, nil)
	}
	return nil
}
