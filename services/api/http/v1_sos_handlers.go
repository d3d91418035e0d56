package http

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/02loveslollipop/thinsos/sos"
)

// handleV1Capabilities returns the capabilities document
// GET /api/v1/sos/capabilities?level=all
func (s *Server) handleV1Capabilities(c *gin.Context) {
	level := sos.Level(c.DefaultQuery("level", string(sos.LevelAll)))
	if !level.Valid() {
		names := make([]string, len(sos.Levels))
		for i, l := range sos.Levels {
			names[i] = string(l)
		}
		c.JSON(http.StatusBadRequest, gin.H{
			"error":  "invalid level",
			"levels": names,
		})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), s.cfg.RequestTimeout)
	defer cancel()

	doc, err := s.client.GetCapabilities(ctx, level)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": doc,
		"meta": gin.H{"level": level},
	})
}

// handleV1Availability returns the data-availability index
// GET /api/v1/sos/availability?foi=&procedure=&observedProperty=&cached=true
func (s *Server) handleV1Availability(c *gin.Context) {
	var avail sos.Availability
	if c.Query("cached") == "true" {
		avail = s.client.DataAvailability()
	} else {
		ctx, cancel := context.WithTimeout(c.Request.Context(), s.cfg.RequestTimeout)
		defer cancel()

		var err error
		avail, err = s.client.GetDataAvailability(ctx, sos.AvailabilityQuery{
			FeatureOfInterest: c.Query("foi"),
			Procedure:         c.Query("procedure"),
			ObservedProperty:  c.Query("observedProperty"),
		})
		if err != nil {
			abortWithError(c, err)
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"data": avail.Table(),
		"meta": gin.H{
			"count":              len(avail),
			"features":           avail.Features(),
			"procedures":         avail.Procedures(),
			"observedProperties": avail.ObservedProperties(),
		},
	})
}

// handleV1Features returns the features of interest as flat rows
// GET /api/v1/sos/features?foi=
func (s *Server) handleV1Features(c *gin.Context) {
	features, ok := s.fetchFeatures(c)
	if !ok {
		return
	}

	rows := make([]sos.Record, len(features))
	for i, f := range features {
		rows[i] = f.Flat()
	}
	c.JSON(http.StatusOK, gin.H{
		"data": sos.NewTable(rows),
		"meta": gin.H{"count": len(features)},
	})
}

// handleV1FeaturesGeoJSON returns the features of interest as GeoJSON
// GET /api/v1/sos/features.geojson?foi=
func (s *Server) handleV1FeaturesGeoJSON(c *gin.Context) {
	features, ok := s.fetchFeatures(c)
	if !ok {
		return
	}

	c.Header("Content-Type", "application/geo+json")
	c.JSON(http.StatusOK, sos.FeaturesGeoJSON(features))
}

func (s *Server) fetchFeatures(c *gin.Context) ([]sos.FeatureOfInterest, bool) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), s.cfg.RequestTimeout)
	defer cancel()

	features, err := s.client.GetFeatures(ctx, c.Query("foi"))
	if err != nil {
		abortWithError(c, err)
		return nil, false
	}
	return features, true
}

// handleV1Observations returns flattened observations of one series
// GET /api/v1/sos/observations?foi=66401&observedProperty=Water%20Level&procedure=&from=&to=&format=json|csv
func (s *Server) handleV1Observations(c *gin.Context) {
	q := sos.FilterQuery{
		FeatureOfInterest: c.Query("foi"),
		ObservedProperty:  c.Query("observedProperty"),
		Procedure:         c.Query("procedure"),
		FromDate:          c.Query("from"),
		ToDate:            c.Query("to"),
	}

	format := strings.ToLower(c.DefaultQuery("format", "json"))
	if format != "json" && format != "csv" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid format, expected json or csv"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), s.cfg.RequestTimeout)
	defer cancel()

	table, err := s.client.GetObservation(ctx, q)
	if err != nil {
		abortWithError(c, err)
		return
	}

	if format == "csv" {
		c.Header("Content-Type", "text/csv; charset=utf-8")
		c.Status(http.StatusOK)
		if err := table.WriteCSV(c.Writer); err != nil {
			_ = c.Error(err)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": table,
		"meta": gin.H{
			"count":        table.Len(),
			"columns":      table.Columns(),
			"generated_at": time.Now().UTC().Format(time.RFC3339),
		},
	})
}
