package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/sirupsen/logrus"

	"wiktowice_site/internal/auth"
	"wiktowice_site/internal/common"
	"wiktowice_site/internal/logger"
)

// TokenVerifier kiểm tra token phiên
type TokenVerifier interface {
	Verify(token string) (*auth.SessionClaims, error)
}

// AuthMiddleware yêu cầu header "Authorization: Bearer <token>" hợp lệ.
// roles rỗng = mọi role đã đăng nhập đều được phép.
// Khi thành công, c.Locals("subject") chứa role của phiên.
func AuthMiddleware(verifier TokenVerifier, roles ...string) fiber.Handler {
	return func(c fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			logger.GetAppLogger().WithFields(logrus.Fields{
				"path":   c.Path(),
				"method": c.Method(),
			}).Warn("❌ [AUTH] Missing Authorization header")
			HandleErrorResponse(c, common.ErrTokenMissing)
			return nil
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			HandleErrorResponse(c, common.ErrTokenInvalid)
			return nil
		}

		claims, err := verifier.Verify(parts[1])
		if err != nil {
			HandleErrorResponse(c, err)
			return nil
		}

		if len(roles) > 0 && !hasRole(roles, claims.Role) {
			logger.GetAppLogger().WithFields(logrus.Fields{
				"path": c.Path(),
				"role": claims.Role,
			}).Warn("❌ [AUTH] Role not allowed")
			HandleErrorResponse(c, common.NewError(common.ErrCodeAuthToken,
				"Brak uprawnień", common.StatusForbidden, nil))
			return nil
		}

		c.Locals("subject", claims.Role)
		return c.Next()
	}
}

func hasRole(roles []string, role string) bool {
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}
