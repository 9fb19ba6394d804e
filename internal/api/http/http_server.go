package http

import (
	"net/http"
	"os"
	"path/filepath"
	"time"

	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/tradeflow/reconengine/internal/adapter/report"
	"github.com/tradeflow/reconengine/internal/api/dto"
	"github.com/tradeflow/reconengine/internal/middleware"
	"github.com/tradeflow/reconengine/internal/service"
)

type HTTPServer struct {
	runs     *service.RunService
	reports  *report.Generator
	log      *zap.Logger
	throttle time.Duration
}

func NewHTTPServer(runs *service.RunService, reports *report.Generator, log *zap.Logger, throttle time.Duration) *HTTPServer {
	return &HTTPServer{runs: runs, reports: reports, log: log, throttle: throttle}
}

func (s *HTTPServer) Router() *gin.Engine {
	r := gin.New()
	r.Use(ginzap.Ginzap(s.log, time.RFC3339, true))
	r.Use(ginzap.RecoveryWithZap(s.log, true))

	r.GET("/", s.welcome)
	r.GET("/healthz", s.health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	throttle := middleware.NewRunThrottle(s.throttle)
	r.POST("/reconciliation/runs", throttle.Middleware(), s.triggerRun)
	r.GET("/reconciliation/runs/:id", s.runStatus)
	r.GET("/reports/:type", s.downloadReport)

	return r
}

func (s *HTTPServer) Run(addr string) error {
	return s.Router().Run(addr)
}

func (s *HTTPServer) welcome(c *gin.Context) {
	c.JSON(http.StatusOK, dto.WelcomeResponse{Message: "Welcome to the Trade Reconciliation System"})
}

func (s *HTTPServer) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *HTTPServer) triggerRun(c *gin.Context) {
	taskID, err := s.runs.Trigger(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusAccepted, dto.TriggerRunResponse{TaskID: taskID})
}

func (s *HTTPServer) runStatus(c *gin.Context) {
	run, err := s.runs.Status(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if run == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
		return
	}
	c.JSON(http.StatusOK, dto.RunStatusResponse{
		TaskID:    run.ID,
		Status:    string(run.Status),
		Reason:    run.Reason,
		CreatedAt: run.CreatedAt,
		UpdatedAt: run.UpdatedAt,
	})
}

func (s *HTTPServer) downloadReport(c *gin.Context) {
	path, ok := s.reports.Path(c.Param("type"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown report type"})
		return
	}
	if _, err := os.Stat(path); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "report not found"})
		return
	}
	c.FileAttachment(path, filepath.Base(path))
}
