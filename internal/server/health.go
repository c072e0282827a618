package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// HealthResponse represents health check response
type HealthResponse struct {
	Status    string    `json:"status"`
	Server    string    `json:"server"`
	Version   string    `json:"version"`
	Timestamp time.Time `json:"timestamp"`
}

// handleHealth handles GET /healthz. It does not call upstream.
func (s *MealDBServer) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:    "healthy",
		Server:    s.info.Name,
		Version:   s.info.Version,
		Timestamp: time.Now().UTC(),
	})
}
