package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Health reports liveness plus the state of the SQLite connection.
func Health(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		status := http.StatusOK
		dbStatus := "ok"

		sqlDB, err := db.DB()
		if err != nil {
			dbStatus = "error"
		} else if err := sqlDB.PingContext(c.Request.Context()); err != nil {
			dbStatus = "error"
		}
		overall := "ok"
		if dbStatus != "ok" {
			status = http.StatusServiceUnavailable
			overall = "degraded"
		}

		c.JSON(status, gin.H{
			"status":   overall,
			"database": dbStatus,
		})
	}
}
