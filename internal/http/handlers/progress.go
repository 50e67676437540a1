package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/abhisek/courseforge/internal/http/response"
	"github.com/abhisek/courseforge/internal/logger"
	"github.com/abhisek/courseforge/internal/service"
)

type ProgressHandler struct {
	log      *logger.Logger
	roadmaps *service.RoadmapService
}

func NewProgressHandler(log *logger.Logger, roadmaps *service.RoadmapService) *ProgressHandler {
	return &ProgressHandler{
		log:      log.With("handler", "ProgressHandler"),
		roadmaps: roadmaps,
	}
}

func (h *ProgressHandler) List(c *gin.Context) {
	roadmapID, err := queryInt(c, "roadmap_id")
	if err != nil {
		response.RespondServiceError(c, err, "invalid_query")
		return
	}
	rows, err := h.roadmaps.ListProgress(c.Request.Context(), c.Query("user_id"), roadmapID)
	if err != nil {
		response.RespondServiceError(c, err, "list_progress_failed")
		return
	}
	response.RespondOK(c, rows)
}

func (h *ProgressHandler) CompleteNode(c *gin.Context) {
	var in service.CompleteInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	p, err := h.roadmaps.CompleteNode(c.Request.Context(), in)
	if err != nil {
		response.RespondServiceError(c, err, "complete_node_failed")
		return
	}
	response.RespondOK(c, gin.H{
		"message":  "Node completed successfully",
		"progress": p,
	})
}

func (h *ProgressHandler) Stats(c *gin.Context) {
	roadmapID, err := queryInt(c, "roadmap_id")
	if err != nil {
		response.RespondServiceError(c, err, "invalid_query")
		return
	}
	st, err := h.roadmaps.Stats(c.Request.Context(), c.Query("user_id"), roadmapID)
	if err != nil {
		response.RespondServiceError(c, err, "stats_failed")
		return
	}
	response.RespondOK(c, st)
}
