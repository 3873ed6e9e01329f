package http

// registerV1Routes sets up the v1 API structure
// Groups: /api/v1/core, /api/v1/ai, /api/v1/sessions
func (s *Server) registerV1Routes() {
	v1 := s.engine.Group("/api/v1")
	v1.Use(apiVersionMiddleware()) // Add X-API-Version: v1 header

	// Core endpoints - registry, classification and trend series
	core := v1.Group("/core")
	{
		core.GET("/locations", s.handleV1ListLocations)
		core.GET("/locations/:id", s.handleV1GetLocation)
		core.GET("/locations/:id/history", s.handleV1LocationHistory)
		core.GET("/classify", s.handleV1Classify)
	}

	// AI endpoints - stateless model calls
	ai := v1.Group("/ai", s.rateLimit())
	{
		ai.GET("/insights/:id", s.handleV1LocationInsights)
		ai.POST("/insights", s.handleV1RecordInsights)
		ai.POST("/search", s.handleV1Search)
	}

	// Session endpoints - per-user dashboard state and chat
	sessions := v1.Group("/sessions")
	{
		sessions.POST("", s.rateLimit(), s.handleV1CreateSession)
		sessions.GET("/:id", s.handleV1GetSession)
		sessions.DELETE("/:id", s.handleV1DeleteSession)
		sessions.POST("/:id/select", s.rateLimit(), s.handleV1SessionSelect)
		sessions.POST("/:id/search", s.rateLimit(), s.handleV1SessionSearch)
		sessions.POST("/:id/insights/refresh", s.rateLimit(), s.handleV1SessionRefreshInsights)
		sessions.POST("/:id/chat", s.rateLimit(), s.handleV1SessionChat)
		sessions.POST("/:id/chat/reset", s.handleV1SessionResetChat)
	}
}
