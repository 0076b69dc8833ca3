package sitehdl

import (
	"github.com/gofiber/fiber/v3"

	basehdl "wiktowice_site/internal/api/base/handler"
	"wiktowice_site/internal/api/site/dto"
	services "wiktowice_site/internal/api/site/service"
	"wiktowice_site/internal/auth"
	"wiktowice_site/internal/logger"
)

// BankHandler xử lý minigame bank
type BankHandler struct {
	bank *services.BankService
	auth *auth.Service
}

// NewBankHandler tạo handler
func NewBankHandler(bank *services.BankService, authService *auth.Service) *BankHandler {
	return &BankHandler{bank: bank, auth: authService}
}

// HandleLogin đăng nhập người chơi
func (h *BankHandler) HandleLogin(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		var input dto.BankLoginInput
		if err := parseBody(c, &input); err != nil {
			return basehdl.HandleResponse(c, nil, err)
		}
		account, err := h.bank.Login(input)
		logger.LogAuth("bank_login", c, err == nil, map[string]interface{}{"login": input.Login})
		return basehdl.HandleResponse(c, account, err)
	})
}

// HandleRegister đăng ký tài khoản mới
func (h *BankHandler) HandleRegister(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		var input dto.BankRegisterInput
		if err := parseBody(c, &input); err != nil {
			return basehdl.HandleResponse(c, nil, err)
		}
		result, err := h.bank.Register(c.Context(), input)
		logger.LogAuth("bank_register", c, err == nil, map[string]interface{}{"login": input.Login})
		if err != nil {
			return basehdl.HandleResponse(c, nil, err)
		}
		if result.Offline {
			return basehdl.HandleResponse(c, result, nil)
		}
		return basehdl.HandleCreated(c, result, nil)
	})
}

// HandleAdminLogin đăng nhập admin minigame
func (h *BankHandler) HandleAdminLogin(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		var input dto.BankAdminLoginInput
		if err := parseBody(c, &input); err != nil {
			return basehdl.HandleResponse(c, nil, err)
		}
		session, err := h.auth.BankAdminLogin(input.Password)
		logger.LogAuth("bank_admin_login", c, err == nil, nil)
		return basehdl.HandleResponse(c, session, err)
	})
}

// HandleUsers liệt kê tài khoản cho admin minigame
func (h *BankHandler) HandleUsers(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		return basehdl.HandleResponse(c, h.bank.Users(), nil)
	})
}
