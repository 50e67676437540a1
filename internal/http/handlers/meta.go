package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/abhisek/courseforge/internal/http/response"
)

type MetaHandler struct {
	version string
	now     func() time.Time
}

func NewMetaHandler(version string) *MetaHandler {
	return &MetaHandler{version: version, now: time.Now}
}

func (h *MetaHandler) Info(c *gin.Context) {
	response.RespondOK(c, gin.H{
		"name":        "courseforge roadmap API",
		"version":     h.version,
		"description": "API for managing course roadmaps and user progress",
		"endpoints": gin.H{
			"roadmaps":      "/api/roadmap/",
			"user_progress": "/api/progress/",
			"courses":       "/api/courses/",
			"health":        "/api/health/",
			"info":          "/api/",
		},
	})
}

func (h *MetaHandler) Health(c *gin.Context) {
	response.RespondOK(c, gin.H{
		"status":    "healthy",
		"service":   "roadmap-api",
		"timestamp": h.now().UTC().Format(time.RFC3339),
	})
}
