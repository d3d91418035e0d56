package http

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/02loveslollipop/thinsos/services/api/db"
)

// handleV1ListFeatures returns all harvested features
// GET /api/v1/core/features
func (s *Server) handleV1ListFeatures(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	features, err := s.store.ListFeatures(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": features,
		"meta": gin.H{
			"count": len(features),
		},
	})
}

// handleV1GetFeature returns details for a specific feature
// GET /api/v1/core/features/:id
func (s *Server) handleV1GetFeature(c *gin.Context) {
	featureID := c.Param("id")
	if featureID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "feature id is required"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	feature, err := s.store.GetFeature(ctx, featureID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if feature == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "feature not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": feature,
	})
}

// handleV1FeatureObservations returns stored observations of a feature
// GET /api/v1/core/features/:id/observations?procedure=&observedProperty=&last_n=&last_n_days=&start=&end=
func (s *Server) handleV1FeatureObservations(c *gin.Context) {
	featureID := c.Param("id")

	limit := s.cfg.DefaultLimit
	if limitStr := c.Query("last_n"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid last_n"})
			return
		}
		limit = parsed
	}

	var since *time.Time
	var until *time.Time

	if daysStr := c.Query("last_n_days"); daysStr != "" {
		days, err := strconv.Atoi(daysStr)
		if err != nil || days <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid last_n_days"})
			return
		}
		t := time.Now().UTC().Add(-time.Duration(days) * 24 * time.Hour)
		since = &t
	}

	if startStr := c.Query("start"); startStr != "" {
		t, err := time.Parse(time.RFC3339, startStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid start timestamp"})
			return
		}
		tt := t.UTC()
		since = &tt
	}

	if endStr := c.Query("end"); endStr != "" {
		t, err := time.Parse(time.RFC3339, endStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid end timestamp"})
			return
		}
		tt := t.UTC()
		until = &tt
	}

	if since == nil && until == nil && c.Query("last_n") == "" {
		t := time.Now().UTC().Add(-time.Duration(s.cfg.DefaultDays) * 24 * time.Hour)
		since = &t
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 15*time.Second)
	defer cancel()

	observations, err := s.store.FetchObservations(ctx, db.ObservationQuery{
		FeatureID:        featureID,
		Procedure:        c.Query("procedure"),
		ObservedProperty: c.Query("observedProperty"),
		Limit:            limit,
		Since:            since,
		Until:            until,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": observations,
		"meta": gin.H{
			"feature_id": featureID,
			"count":      len(observations),
		},
	})
}

// handleV1Runs returns paginated harvest runs
// GET /api/v1/core/runs?page=1&limit=20&status=success&start=2024-01-01T00:00:00Z
func (s *Server) handleV1Runs(c *gin.Context) {
	page := 1
	if p := c.Query("page"); p != "" {
		if val, err := strconv.Atoi(p); err == nil && val > 0 {
			page = val
		}
	}

	limit := 20
	if l := c.Query("limit"); l != "" {
		if val, err := strconv.Atoi(l); err == nil && val > 0 && val <= 100 {
			limit = val
		}
	}

	offset := (page - 1) * limit

	var since *time.Time
	if start := c.Query("start"); start != "" {
		if t, err := time.Parse(time.RFC3339, start); err == nil {
			since = &t
		} else {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid start time format, expected RFC3339"})
			return
		}
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 15*time.Second)
	defer cancel()

	result, err := s.store.ListRuns(ctx, limit, offset, c.Query("status"), since)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": result.Runs,
		"pagination": gin.H{
			"page":        page,
			"limit":       limit,
			"total_count": result.TotalCount,
			"total_pages": (result.TotalCount + limit - 1) / limit,
		},
	})
}
