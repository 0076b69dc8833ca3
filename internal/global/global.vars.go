package global

import (
	"github.com/go-playground/validator/v10"

	"wiktowice_site/config"
)

// Các biến toàn cục (chỉ chứa cấu hình bất biến và validator; dữ liệu collection được sở hữu bởi cache.Store)
var (
	ServerConfig *config.Configuration // Cấu hình server
	Validate     *validator.Validate   // Validator dùng chung
)
