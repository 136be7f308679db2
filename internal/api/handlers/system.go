package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// WorkerMetrics handles GET /api/v1/system/workers, exposing pool
// utilization for operational visibility.
func (s *Server) WorkerMetrics(c *gin.Context) {
	if s.pools == nil {
		c.JSON(http.StatusOK, gin.H{"pools": gin.H{}})
		return
	}
	c.JSON(http.StatusOK, gin.H{"pools": s.pools.Metrics()})
}
