package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"study-planner/internal/calendar"
	"study-planner/internal/model"
	"study-planner/internal/service"
)

// Services groups what the HTTP handlers need.
type Services struct {
	Catalog  *service.CatalogService
	Plans    *service.PlanService
	Progress *service.ProgressService
	Timeline *service.TimelineService
	Tasks    *service.TaskService
	Exams    *service.ExamService
}

// Handler serves the JSON API on top of the service layer.
type Handler struct {
	svc    Services
	loc    *time.Location
	logger *zap.Logger
}

func NewHandler(svc Services, loc *time.Location, logger *zap.Logger) *Handler {
	if loc == nil {
		loc = time.UTC
	}
	return &Handler{svc: svc, loc: loc, logger: logger}
}

// respondError maps domain errors to HTTP statuses.
func (h *Handler) respondError(c *gin.Context, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("Request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Error(err))
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, model.ErrInvalidInput), errors.Is(err, model.ErrInvalidPlan):
		return http.StatusBadRequest
	case errors.Is(err, model.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, model.ErrDependency):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

// today reads the "today" query parameter, defaulting to the current date in
// the configured location.
func (h *Handler) today(c *gin.Context) (time.Time, error) {
	raw := c.Query("today")
	if raw == "" {
		return calendar.Today(h.loc), nil
	}
	day, err := calendar.Parse(raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: today: %v", model.ErrInvalidInput, err)
	}
	return day, nil
}

// optionalDay parses a query date; an empty value yields the zero time.
func optionalDay(c *gin.Context, key string) (time.Time, error) {
	raw := c.Query(key)
	if raw == "" {
		return time.Time{}, nil
	}
	day, err := calendar.Parse(raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s: %v", model.ErrInvalidInput, key, err)
	}
	return day, nil
}

func formatOptional(day time.Time) string {
	if day.IsZero() {
		return ""
	}
	return calendar.Format(day)
}

func idParam(c *gin.Context, key string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(key), 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("%w: invalid %s %q", model.ErrInvalidInput, key, c.Param(key))
	}
	return uint(id), nil
}

func emptyIfNil[T any](items []T) []T {
	if items == nil {
		return make([]T, 0)
	}
	return items
}
