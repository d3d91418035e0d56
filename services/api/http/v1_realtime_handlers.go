package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// handleV1RealtimeNow returns the latest stored observation of every series
// GET /api/v1/realtime/now
func (s *Server) handleV1RealtimeNow(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 15*time.Second)
	defer cancel()

	latest, err := s.store.LatestObservations(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if len(latest) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "no observations harvested yet"})
		return
	}

	newest := latest[0].Timestamp
	for _, o := range latest[1:] {
		if o.Timestamp.After(newest) {
			newest = o.Timestamp
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"data": latest,
		"meta": gin.H{
			"timestamp":    newest.Format(time.RFC3339),
			"series_count": len(latest),
			"generated_at": time.Now().UTC().Format(time.RFC3339),
		},
	})
}
