package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/abhisek/courseforge/internal/course"
	"github.com/abhisek/courseforge/internal/http/response"
	"github.com/abhisek/courseforge/internal/logger"
	"github.com/abhisek/courseforge/internal/service"
	"github.com/abhisek/courseforge/internal/store"
)

type CourseHandler struct {
	log     *logger.Logger
	courses *service.CourseService
}

func NewCourseHandler(log *logger.Logger, courses *service.CourseService) *CourseHandler {
	return &CourseHandler{
		log:     log.With("handler", "CourseHandler"),
		courses: courses,
	}
}

func (h *CourseHandler) List(c *gin.Context) {
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

	list, err := h.courses.List(c.Request.Context(), store.CourseFilter{
		Category:   c.Query("category"),
		Level:      c.Query("level"),
		Technology: c.Query("technology"),
		Limit:      limit,
		Offset:     offset,
	})
	if err != nil {
		h.log.Error("List courses failed", "error", err)
		response.RespondServiceError(c, err, "list_courses_failed")
		return
	}
	response.RespondOK(c, list)
}

func (h *CourseHandler) Get(c *gin.Context) {
	got, err := h.courses.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.RespondServiceError(c, err, "load_course_failed")
		return
	}
	response.RespondOK(c, got)
}

func (h *CourseHandler) Import(c *gin.Context) {
	var batch []course.Course
	if err := c.ShouldBindJSON(&batch); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	n, err := h.courses.Import(c.Request.Context(), batch)
	if err != nil {
		response.RespondServiceError(c, err, "import_courses_failed")
		return
	}
	response.RespondOK(c, gin.H{"imported": n})
}
