package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/abhisek/courseforge/internal/apierr"
	"github.com/abhisek/courseforge/internal/http/response"
	"github.com/abhisek/courseforge/internal/logger"
	"github.com/abhisek/courseforge/internal/service"
	"github.com/abhisek/courseforge/internal/store"
)

type RoadmapHandler struct {
	log      *logger.Logger
	roadmaps *service.RoadmapService
}

func NewRoadmapHandler(log *logger.Logger, roadmaps *service.RoadmapService) *RoadmapHandler {
	return &RoadmapHandler{
		log:      log.With("handler", "RoadmapHandler"),
		roadmaps: roadmaps,
	}
}

func (h *RoadmapHandler) List(c *gin.Context) {
	limit, err := queryInt(c, "limit")
	if err != nil {
		response.RespondServiceError(c, err, "invalid_query")
		return
	}
	offset, err := queryInt(c, "offset")
	if err != nil {
		response.RespondServiceError(c, err, "invalid_query")
		return
	}

	list, err := h.roadmaps.List(c.Request.Context(), store.RoadmapFilter{
		CourseID: c.Query("course_id"),
		SkillTag: c.Query("skill_tag"),
		Limit:    limit,
		Offset:   offset,
	})
	if err != nil {
		h.log.Error("List roadmaps failed", "error", err)
		response.RespondServiceError(c, err, "list_roadmaps_failed")
		return
	}
	response.RespondOK(c, list)
}

func (h *RoadmapHandler) Create(c *gin.Context) {
	var in service.CreateRoadmapInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	rm, err := h.roadmaps.Create(c.Request.Context(), in)
	if err != nil {
		response.RespondServiceError(c, err, "create_roadmap_failed")
		return
	}
	response.RespondCreated(c, rm)
}

func (h *RoadmapHandler) Get(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.RespondServiceError(c, err, "invalid_id")
		return
	}
	rm, err := h.roadmaps.Get(c.Request.Context(), id)
	if err != nil {
		response.RespondServiceError(c, err, "load_roadmap_failed")
		return
	}
	response.RespondOK(c, rm)
}

func (h *RoadmapHandler) Delete(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.RespondServiceError(c, err, "invalid_id")
		return
	}
	if err := h.roadmaps.Delete(c.Request.Context(), id); err != nil {
		response.RespondServiceError(c, err, "delete_roadmap_failed")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *RoadmapHandler) Nodes(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.RespondServiceError(c, err, "invalid_id")
		return
	}
	nodes, err := h.roadmaps.Nodes(c.Request.Context(), id)
	if err != nil {
		response.RespondServiceError(c, err, "load_nodes_failed")
		return
	}
	response.RespondOK(c, gin.H{"nodes": nodes})
}

// GenerateFromCourse answers 201 when the roadmap was created and 200 when
// it already existed.
func (h *RoadmapHandler) GenerateFromCourse(c *gin.Context) {
	var in service.GenerateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	rm, created, err := h.roadmaps.GenerateFromCourse(c.Request.Context(), in)
	if err != nil {
		if apierr.StatusOf(err) >= 500 {
			h.log.Error("GenerateFromCourse failed", "course_id", in.CourseID, "error", err)
		}
		response.RespondServiceError(c, err, "generate_roadmap_failed")
		return
	}
	if created {
		response.RespondCreated(c, rm)
		return
	}
	response.RespondOK(c, rm)
}
