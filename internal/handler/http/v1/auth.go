package v1

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/shenikar/safetracker_system/internal/config"
	"github.com/shenikar/safetracker_system/internal/models"
	"github.com/sirupsen/logrus"
)

const (
	ctxUserIDKey   = "userID"
	ctxUserRoleKey = "userRole"
)

// JWTAuthMiddleware - middleware для аутентификации по JWT сессии.
// Идентификатор и роль актора берутся только из подписанного токена,
// клиентские user_id в теле запроса не принимаются.
func JWTAuthMiddleware(cfg *config.Config, log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			log.Warn("Session token missing from request")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization token required"})
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return []byte(cfg.JWTSecret), nil
		})
		if err != nil || !token.Valid {
			log.WithError(err).Warn("Invalid session token provided")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		sub, _ := claims["sub"].(string)
		userID, err := uuid.Parse(sub)
		if err != nil {
			log.Warn("Session token has no valid subject")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		roleString, _ := claims["role"].(string)
		role, ok := models.ParseRole(roleString)
		if !ok {
			log.Warnf("Session token has unknown role: %s", roleString)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set(ctxUserIDKey, userID)
		c.Set(ctxUserRoleKey, role)
		c.Next()
	}
}

// RequireRole пропускает запрос только для перечисленных ролей
func RequireRole(log *logrus.Logger, roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		_, role, ok := actorFromContext(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization token required"})
			return
		}
		for _, allowed := range roles {
			if role == allowed {
				c.Next()
				return
			}
		}
		log.WithField("role", role).Warn("Request rejected by role guard")
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "insufficient permissions"})
	}
}

// actorFromContext возвращает идентификатор и роль актора, установленные middleware
func actorFromContext(c *gin.Context) (uuid.UUID, models.Role, bool) {
	idValue, exists := c.Get(ctxUserIDKey)
	if !exists {
		return uuid.Nil, "", false
	}
	roleValue, exists := c.Get(ctxUserRoleKey)
	if !exists {
		return uuid.Nil, "", false
	}

	userID, ok := idValue.(uuid.UUID)
	if !ok {
		return uuid.Nil, "", false
	}
	role, ok := roleValue.(models.Role)
	if !ok {
		return uuid.Nil, "", false
	}
	return userID, role, true
}
