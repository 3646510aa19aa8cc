package middleware

import (
	"net/http"
	"strings"

	"storefront-service/internal/dto"
	"storefront-service/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Context keys for user info
const (
	CtxUserID   = "user_id"
	CtxUserRole = "user_role"
)

type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// AuthRequired проверяет Bearer JWT и кладёт данные пользователя в контекст
func AuthRequired(secret string, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authz := c.GetHeader("Authorization")
		if authz == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.Error("missing Authorization header"))
			return
		}
		token, ok := ExtractBearerToken(authz)
		if !ok || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.Error("invalid Authorization header"))
			return
		}

		claims := &Claims{}
		parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(secret), nil
		})
		if err != nil || !parsed.Valid {
			if err != nil {
				log.Warn("jwt parse failed", zap.Error(err))
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.Error("invalid token"))
			return
		}

		userID, err := uuid.Parse(claims.Subject)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.Error("invalid token subject"))
			return
		}

		c.Set(CtxUserID, userID)
		c.Set(CtxUserRole, service.Role(claims.Role))
		c.Next()
	}
}

// AdminRequired пускает дальше только администратора (после AuthRequired)
func AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := c.Get(CtxUserRole)
		if !ok || role.(service.Role) != service.RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, dto.Error("admin access required"))
			return
		}
		c.Next()
	}
}

// ExtractBearerToken извлекает токен из заголовка Authorization, устойчиво к лишним символам
func ExtractBearerToken(authz string) (string, bool) {
	if authz == "" {
		return "", false
	}
	parts := strings.SplitN(authz, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	t := strings.TrimSpace(parts[1])
	// Снять кавычки по краям, если они есть
	t = strings.Trim(t, " \"'")
	// Обрезать всё после первой запятой (если случайно прилепили JSON)
	if i := strings.IndexRune(t, ','); i >= 0 {
		t = strings.TrimSpace(t[:i])
	}
	t = strings.Trim(t, " \"'")
	// Взять первый токен до пробела
	if i := strings.IndexByte(t, ' '); i >= 0 {
		t = strings.TrimSpace(t[:i])
	}
	return strings.Trim(t, " \"'"), true
}
