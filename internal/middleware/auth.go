package middleware

import (
	"fmt"
	"strings"
	"worksheet_arc_backend/internal/config"
	"worksheet_arc_backend/internal/util"

	"github.com/gin-gonic/gin"
)

func AuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractToken(c)
		if tokenString == "" {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		claims, err := util.ParseJWT(tokenString, cfg.JWT.Secret)
		if err != nil {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		c.Set("user", claims)
		c.Next()
	}
}

// TryAuthMiddleware 可选认证：带合法 token 则识别用户，否则按游客放行
func TryAuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractToken(c)
		if tokenString != "" {
			if claims, err := util.ParseJWT(tokenString, cfg.JWT.Secret); err == nil {
				c.Set("user", claims)
			}
		}
		c.Next()
	}
}

// UserKeyMiddleware 统一登录用户与游客的存储键：
// 登录用户 "u:<id>"，游客凭 X-Device-ID 头取 "d:<device>"。
// 两者都没有时拒绝，历史与当前文档都依赖该键定位。
func UserKeyMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims := util.GetUserFromContext(c); claims != nil {
			c.Set("userKey", fmt.Sprintf("u:%d", claims.UserID))
			c.Next()
			return
		}

		device := strings.TrimSpace(c.GetHeader("X-Device-ID"))
		if device == "" || len(device) > 64 {
			util.BadRequest(c, "X-Device-ID header required for guest access")
			c.Abort()
			return
		}
		c.Set("userKey", "d:"+device)
		c.Next()
	}
}

func UserKey(c *gin.Context) string {
	key, _ := c.Get("userKey")
	s, _ := key.(string)
	return s
}

func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader != "" {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	return c.Query("token")
}
