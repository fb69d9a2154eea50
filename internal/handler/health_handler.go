package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/opsdeck/admin-api/internal/cache"
	"github.com/opsdeck/admin-api/internal/utils"
)

var startTime = time.Now()

// HealthHandler provides health endpoint.
type HealthHandler struct {
	db    *mongo.Database
	redis *cache.RedisClient
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(db *mongo.Database, redis *cache.RedisClient) *HealthHandler {
	return &HealthHandler{db: db, redis: redis}
}

// GetHealth responds with service, MongoDB and Redis status.
func (h *HealthHandler) GetHealth(c *gin.Context) {
	ctx := c.Request.Context()

	mongoStatus := "connected"
	if h.db == nil || h.db.Client().Ping(ctx, nil) != nil {
		mongoStatus = "disconnected"
	}

	redisStatus := "connected"
	if h.redis == nil || h.redis.Ping(ctx) != nil {
		redisStatus = "disconnected"
	}

	utils.Success(c, 200, gin.H{
		"status":  "healthy",
		"version": "1.0.0",
		"uptime":  int(time.Since(startTime).Seconds()),
		"mongodb": mongoStatus,
		"redis":   redisStatus,
	}, "Service is healthy")
}
