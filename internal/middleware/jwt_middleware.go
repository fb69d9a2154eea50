package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/opsdeck/admin-api/internal/service"
	"github.com/opsdeck/admin-api/internal/utils"
)

// CurrentAdminKey is the gin context key under which the authenticated admin
// record is stored for downstream handlers.
const CurrentAdminKey = "current_admin"

// JWTMiddleware authenticates requests with a bearer token and loads the
// matching admin record into the request context.
type JWTMiddleware struct {
	store   service.AdminStore
	authSvc *service.AuthService
}

// NewJWTMiddleware creates a JWTMiddleware backed by the given store.
func NewJWTMiddleware(store service.AdminStore, authSvc *service.AuthService) *JWTMiddleware {
	return &JWTMiddleware{store: store, authSvc: authSvc}
}

func (m *JWTMiddleware) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.Error(c, 401, nil, "Missing authorization header")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			utils.Error(c, 401, nil, "Invalid authorization header")
			c.Abort()
			return
		}

		claims, err := utils.ValidateJWT(parts[1])
		if err != nil {
			utils.Error(c, 401, nil, "Invalid or expired token")
			c.Abort()
			return
		}

		if m.authSvc != nil {
			revoked, err := m.authSvc.IsTokenRevoked(c.Request.Context(), claims.ID)
			if err == nil && revoked {
				utils.Error(c, 401, nil, "Token has been revoked")
				c.Abort()
				return
			}
		}

		oid, err := primitive.ObjectIDFromHex(claims.AdminID)
		if err != nil {
			utils.Error(c, 401, nil, "Invalid or expired token")
			c.Abort()
			return
		}

		admin, err := m.store.GetByID(c.Request.Context(), oid)
		if err != nil {
			utils.Error(c, 401, nil, "Unknown admin account")
			c.Abort()
			return
		}

		c.Set(CurrentAdminKey, admin)
		c.Set("token_id", claims.ID)
		if claims.ExpiresAt != nil {
			c.Set("token_expires_at", claims.ExpiresAt.Time)
		}
		c.Next()
	}
}
