package http

// registerV1Routes sets up the v1 API structure
// Groups: /api/v1/sos, /api/v1/core, /api/v1/realtime
func (s *Server) registerV1Routes() {
	v1 := s.engine.Group("/api/v1")
	v1.Use(apiVersionMiddleware())

	// Live pass-through to the SOS endpoint
	live := v1.Group("/sos")
	{
		live.GET("/capabilities", s.handleV1Capabilities)
		live.GET("/availability", s.handleV1Availability)
		live.GET("/features", s.handleV1Features)
		live.GET("/features.geojson", s.handleV1FeaturesGeoJSON)
		live.GET("/observations", s.handleV1Observations)
	}

	if s.store == nil {
		return
	}

	// Core endpoints - harvested features and observations
	core := v1.Group("/core")
	{
		core.GET("/features", s.handleV1ListFeatures)
		core.GET("/features/:id", s.handleV1GetFeature)
		core.GET("/features/:id/observations", s.handleV1FeatureObservations)
		core.GET("/runs", s.handleV1Runs)
	}

	// Realtime endpoints - latest data
	realtime := v1.Group("/realtime")
	{
		realtime.GET("/now", s.handleV1RealtimeNow)
	}
}
