package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Health reports whether the API can reach Postgres and Redis. Monitoring
// polls it unauthenticated, so the payload stays coarse: one word per
// dependency, no versions, no addresses.
func Health(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		postgres := "ok"
		if sqlDB, err := db.DB(); err != nil || sqlDB.PingContext(ctx) != nil {
			postgres = "indisponible"
		}

		cache := "ok"
		if rdb.Ping(ctx).Err() != nil {
			cache = "indisponible"
		}

		code := http.StatusOK
		if postgres != "ok" || cache != "ok" {
			code = http.StatusServiceUnavailable
		}
		c.JSON(code, gin.H{
			"ok":       code == http.StatusOK,
			"postgres": postgres,
			"redis":    cache,
		})
	}
}
