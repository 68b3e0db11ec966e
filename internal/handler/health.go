package handler

import (
	"net/http"

	"myfinance/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Health reports whether the database is reachable.
func Health(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request.Context())
		}
		if err != nil {
			util.Error(c, http.StatusServiceUnavailable, util.CodeServerErr, "database unavailable")
			return
		}
		util.Success(c, http.StatusOK, gin.H{"status": "ok"})
	}
}
