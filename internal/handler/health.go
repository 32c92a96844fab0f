package handler

import (
	"context"
	"net/http"
	"time"

	"jaymapos/internal/infra"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Health reports local store connectivity and the upstream circuit state.
// An open circuit is not an error: the terminal keeps selling offline.
func Health(db *gorm.DB, breaker *infra.CircuitBreaker) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		dbStatus := "connected"
		sqlDB, err := db.DB()
		if err != nil || sqlDB.PingContext(ctx) != nil {
			dbStatus = "error"
		}

		status := http.StatusOK
		if dbStatus != "connected" {
			status = http.StatusServiceUnavailable
		}

		c.JSON(status, gin.H{
			"ok":       status == http.StatusOK,
			"db":       dbStatus,
			"upstream": breaker.State().String(),
		})
	}
}
