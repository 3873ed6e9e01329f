package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/hyderaqi/hyderaqi/services/api/aqi"
)

// locationView is a location record with its derived category.
type locationView struct {
	aqi.Location
	Category aqi.CategoryInfo `json:"category"`
}

func viewOf(loc aqi.Location) locationView {
	return locationView{Location: loc, Category: aqi.Describe(loc.AQI)}
}

// handleV1ListLocations returns all registry locations
// GET /api/v1/core/locations
func (s *Server) handleV1ListLocations(c *gin.Context) {
	locations := s.deps.Registry.All()
	views := make([]locationView, 0, len(locations))
	for _, loc := range locations {
		views = append(views, viewOf(loc))
	}

	c.JSON(http.StatusOK, gin.H{
		"data": views,
		"meta": gin.H{
			"count": len(views),
		},
	})
}

// handleV1GetLocation returns one registry location
// GET /api/v1/core/locations/:id
func (s *Server) handleV1GetLocation(c *gin.Context) {
	loc, ok := s.deps.Registry.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "location not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": viewOf(loc),
	})
}

// handleV1LocationHistory returns a freshly generated 24-hour series
// GET /api/v1/core/locations/:id/history
func (s *Server) handleV1LocationHistory(c *gin.Context) {
	id := c.Param("id")
	if !s.deps.Registry.Contains(id) {
		c.JSON(http.StatusNotFound, gin.H{"error": "location not found"})
		return
	}

	series := s.deps.History.ForID(s.deps.Registry, id)
	c.JSON(http.StatusOK, gin.H{
		"data": series,
		"meta": gin.H{
			"location_id": id,
			"count":       len(series),
		},
	})
}

// handleV1Classify returns the category for an AQI value
// GET /api/v1/core/classify?aqi=N
func (s *Server) handleV1Classify(c *gin.Context) {
	raw := c.Query("aqi")
	value, err := strconv.Atoi(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid aqi"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": aqi.Describe(value),
		"meta": gin.H{"aqi": value},
	})
}
