package http

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/hyderaqi/hyderaqi/services/api/session"
)

type selectRequest struct {
	LocationID string `json:"location_id"`
}

type chatRequest struct {
	Message string `json:"message"`
}

// dashboard loads the session named in the path or writes a 404.
func (s *Server) dashboard(c *gin.Context) (*session.Dashboard, bool) {
	d, ok := s.deps.Sessions.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return nil, false
	}
	return d, true
}

// handleV1CreateSession starts a dashboard on the first registry location
// POST /api/v1/sessions
func (s *Server) handleV1CreateSession(c *gin.Context) {
	d := s.deps.Sessions.Create()

	ctx, cancel := context.WithTimeout(c.Request.Context(), s.modelTimeout())
	defer cancel()

	c.JSON(http.StatusCreated, gin.H{"data": d.RefreshInsights(ctx)})
}

// handleV1GetSession returns the current dashboard snapshot
// GET /api/v1/sessions/:id
func (s *Server) handleV1GetSession(c *gin.Context) {
	d, ok := s.dashboard(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": d.Snapshot()})
}

// handleV1DeleteSession ends a dashboard session
// DELETE /api/v1/sessions/:id
func (s *Server) handleV1DeleteSession(c *gin.Context) {
	if !s.deps.Sessions.Delete(c.Param("id")) {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}
	c.Status(http.StatusNoContent)
}

// handleV1SessionSelect makes a registry location current and refreshes its insights
// POST /api/v1/sessions/:id/select
func (s *Server) handleV1SessionSelect(c *gin.Context) {
	d, ok := s.dashboard(c)
	if !ok {
		return
	}

	var req selectRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.LocationID) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "location_id is required"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), s.modelTimeout())
	defer cancel()

	snap, err := d.Select(ctx, req.LocationID)
	if err != nil {
		s.writeSessionError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": snap})
}

// handleV1SessionSearch selects a registry match or a live-search result
// POST /api/v1/sessions/:id/search
func (s *Server) handleV1SessionSearch(c *gin.Context) {
	d, ok := s.dashboard(c)
	if !ok {
		return
	}

	var req searchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), s.modelTimeout())
	defer cancel()

	snap, err := d.Search(ctx, req.Area)
	if err != nil {
		s.writeSessionError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": snap})
}

// handleV1SessionRefreshInsights refetches guidance for the current selection
// POST /api/v1/sessions/:id/insights/refresh
func (s *Server) handleV1SessionRefreshInsights(c *gin.Context) {
	d, ok := s.dashboard(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), s.modelTimeout())
	defer cancel()

	c.JSON(http.StatusOK, gin.H{"data": d.RefreshInsights(ctx)})
}

// handleV1SessionChat sends one message to the session assistant
// POST /api/v1/sessions/:id/chat
func (s *Server) handleV1SessionChat(c *gin.Context) {
	d, ok := s.dashboard(c)
	if !ok {
		return
	}

	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Message) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "message is required"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), s.modelTimeout())
	defer cancel()

	reply := d.Chat(ctx, req.Message)
	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{"reply": reply},
		"meta": gin.H{"turns": d.Snapshot().ChatTurns},
	})
}

// handleV1SessionResetChat starts the assistant conversation over
// POST /api/v1/sessions/:id/chat/reset
func (s *Server) handleV1SessionResetChat(c *gin.Context) {
	d, ok := s.dashboard(c)
	if !ok {
		return
	}
	d.ResetChat()
	c.JSON(http.StatusOK, gin.H{"data": d.Snapshot()})
}

func (s *Server) writeSessionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, session.ErrEmptySearch):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, session.ErrUnknownLocation):
		c.JSON(http.StatusNotFound, gin.H{"error": "location not found"})
	case errors.Is(err, session.ErrAreaNotFound):
		s.logger.Warn("session search failed", "err", err)
		c.JSON(http.StatusNotFound, gin.H{"error": session.ErrAreaNotFound.Error()})
	case errors.Is(err, session.ErrSuperseded):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
