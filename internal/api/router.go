package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NewRouter wires every route onto a fresh engine.
func NewRouter(h *Handler, logger *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(requestLogger(logger), recovery(logger))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		plans := api.Group("/plans")
		{
			plans.POST("/compile", h.CompilePlan)
			plans.GET("", h.ListPlans)
			plans.POST("", h.CreatePlan)
			plans.PUT("/:id", h.ReplacePlan)
			plans.DELETE("/:id", h.DeletePlan)
		}

		textbooks := api.Group("/textbooks")
		{
			textbooks.GET("", h.ListTextbooks)
			textbooks.POST("", h.CreateTextbook)
			textbooks.GET("/:id/progress", h.TextbookProgress)
		}

		api.GET("/overview", h.Overview)
		api.GET("/timeline", h.Timeline)
		api.GET("/tasks/today", h.TodayTasks)

		logs := api.Group("/logs")
		{
			logs.GET("", h.ListLogs)
			logs.PUT("", h.UpsertLog)
			logs.GET("/yearly/:year", h.YearlyLogs)
		}

		universities := api.Group("/universities")
		{
			universities.GET("", h.ListUniversities)
			universities.POST("", h.CreateUniversity)
		}

		exams := api.Group("/exams")
		{
			exams.GET("", h.ListExams)
			exams.POST("", h.CreateExam)
			exams.PUT("/:id/scores", h.SaveExamScores)
		}
	}

	return r
}

func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		}
		if c.Writer.Status() >= http.StatusInternalServerError {
			logger.Warn("HTTP request", fields...)
			return
		}
		logger.Debug("HTTP request", fields...)
	}
}

func recovery(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				logger.Error("Panic in HTTP handler",
					zap.Any("panic", rec),
					zap.String("path", c.Request.URL.Path),
					zap.Stack("stack"))
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			}
		}()
		c.Next()
	}
}
