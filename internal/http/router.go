package http

import (
	"github.com/gin-gonic/gin"

	httpH "github.com/abhisek/courseforge/internal/http/handlers"
	httpMW "github.com/abhisek/courseforge/internal/http/middleware"
	"github.com/abhisek/courseforge/internal/logger"
)

type RouterConfig struct {
	Log         *logger.Logger
	CORSOrigins []string

	MetaHandler     *httpH.MetaHandler
	RoadmapHandler  *httpH.RoadmapHandler
	ProgressHandler *httpH.ProgressHandler
	CourseHandler   *httpH.CourseHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(httpMW.RequestID())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Recovery(cfg.Log))
	r.Use(httpMW.CORS(cfg.CORSOrigins))

	api := r.Group("/api")

	if cfg.MetaHandler != nil {
		api.GET("/", cfg.MetaHandler.Info)
		api.GET("/health/", cfg.MetaHandler.Health)
	}

	if cfg.RoadmapHandler != nil {
		rm := api.Group("/roadmap")
		rm.GET("/", cfg.RoadmapHandler.List)
		rm.POST("/", cfg.RoadmapHandler.Create)
		rm.POST("/generate_from_course/", cfg.RoadmapHandler.GenerateFromCourse)
		rm.GET("/:id/", cfg.RoadmapHandler.Get)
		rm.DELETE("/:id/", cfg.RoadmapHandler.Delete)
		rm.GET("/:id/nodes/", cfg.RoadmapHandler.Nodes)
	}

	if cfg.ProgressHandler != nil {
		pr := api.Group("/progress")
		pr.GET("/", cfg.ProgressHandler.List)
		pr.POST("/complete_node/", cfg.ProgressHandler.CompleteNode)
		pr.GET("/stats/", cfg.ProgressHandler.Stats)
	}

	if cfg.CourseHandler != nil {
		cr := api.Group("/courses")
		cr.GET("/", cfg.CourseHandler.List)
		cr.POST("/import", cfg.CourseHandler.Import)
		cr.GET("/:id/", cfg.CourseHandler.Get)
	}

	return r
}
