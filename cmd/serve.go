package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/abhisek/courseforge/internal/config"
	apphttp "github.com/abhisek/courseforge/internal/http"
	httpH "github.com/abhisek/courseforge/internal/http/handlers"
	"github.com/abhisek/courseforge/internal/service"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the roadmap, progress and course API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		s, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		if appCfg.Production() {
			gin.SetMode(gin.ReleaseMode)
		}

		roadmaps := service.NewRoadmapService(s.RoadmapRepo(), s.ProgressRepo(), s.CourseRepo(), appLog)
		courses := service.NewCourseService(s.CourseRepo(), appLog)

		srv := apphttp.NewServer(apphttp.RouterConfig{
			Log:             appLog,
			CORSOrigins:     appCfg.Serve.CORSOrigins,
			MetaHandler:     httpH.NewMetaHandler(version),
			RoadmapHandler:  httpH.NewRoadmapHandler(appLog, roadmaps),
			ProgressHandler: httpH.NewProgressHandler(appLog, roadmaps),
			CourseHandler:   httpH.NewCourseHandler(appLog, courses),
		})

		appLog.Info("serving", "addr", appCfg.Serve.Addr, "dialect", s.Dialect())
		return srv.Run(ctx, appCfg.Serve.Addr)
	},
}

func init() {
	serveCmd.Flags().String(config.KeyAddr, ":8000", "Listen address")
	serveCmd.Flags().String(config.KeyCORSOrigins, "", "Comma-separated allowed CORS origins, or * (default: local dev origins)")
}
