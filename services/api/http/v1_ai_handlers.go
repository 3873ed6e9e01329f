package http

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/hyderaqi/hyderaqi/services/api/aqi"
	"github.com/hyderaqi/hyderaqi/services/api/resolver"
)

type searchRequest struct {
	Area string `json:"area"`
}

// handleV1LocationInsights returns health guidance for a registry location
// GET /api/v1/ai/insights/:id
func (s *Server) handleV1LocationInsights(c *gin.Context) {
	loc, ok := s.deps.Registry.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "location not found"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), s.modelTimeout())
	defer cancel()

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"location_id": loc.ID,
			"insights":    s.deps.Insights.Insights(ctx, loc),
		},
	})
}

// handleV1RecordInsights returns guidance for a posted location record,
// typically one produced by a live search
// POST /api/v1/ai/insights
func (s *Server) handleV1RecordInsights(c *gin.Context) {
	var loc aqi.Location
	if err := c.ShouldBindJSON(&loc); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid location record"})
		return
	}
	if strings.TrimSpace(loc.Name) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "location name is required"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), s.modelTimeout())
	defer cancel()

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"location_id": loc.ID,
			"insights":    s.deps.Insights.Insights(ctx, loc),
		},
	})
}

// handleV1Search resolves an area against the registry, then live search
// POST /api/v1/ai/search
func (s *Server) handleV1Search(c *gin.Context) {
	var req searchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	area := strings.TrimSpace(req.Area)
	if area == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "area is required"})
		return
	}

	if loc, ok := s.deps.Registry.Match(area); ok {
		c.JSON(http.StatusOK, gin.H{
			"data": gin.H{
				"location":  viewOf(loc),
				"citations": []aqi.Citation{},
			},
			"meta": gin.H{"source": "registry"},
		})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), s.modelTimeout())
	defer cancel()

	res, err := s.deps.Resolver.Resolve(ctx, area)
	if err != nil {
		s.logger.Warn("live search failed", "area", area, "err", err)
		if errors.Is(err, resolver.ErrInput) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "area is required"})
			return
		}
		c.JSON(http.StatusNotFound, gin.H{"error": "could not find air quality data for that area"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"location":  viewOf(res.Location),
			"citations": res.Citations,
		},
		"meta": gin.H{
			"source":    "live-search",
			"grounded":  len(res.Citations) > 0,
			"citations": len(res.Citations),
		},
	})
}
