package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"study-planner/internal/model"
	"study-planner/internal/service"
)

type universityInput struct {
	Name string `json:"name" binding:"required"`
}

type scoresInput struct {
	Scores []service.ScoreInput `json:"scores"`
}

func (h *Handler) ListTextbooks(c *gin.Context) {
	textbooks, err := h.svc.Catalog.ListTextbooks(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, emptyIfNil(textbooks))
}

func (h *Handler) CreateTextbook(c *gin.Context) {
	var input service.TextbookInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}
	tb, err := h.svc.Catalog.CreateTextbook(c.Request.Context(), input)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, tb)
}

func (h *Handler) ListUniversities(c *gin.Context) {
	universities, err := h.svc.Catalog.ListUniversities(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, emptyIfNil(universities))
}

func (h *Handler) CreateUniversity(c *gin.Context) {
	var input universityInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}
	u, err := h.svc.Catalog.CreateUniversity(c.Request.Context(), input.Name)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, u)
}

// ListLogs returns one textbook's logs; textbook_id is required.
func (h *Handler) ListLogs(c *gin.Context) {
	id, err := strconv.ParseUint(c.Query("textbook_id"), 10, 64)
	if err != nil || id == 0 {
		h.respondError(c, fmt.Errorf("%w: textbook_id is required", model.ErrInvalidInput))
		return
	}
	logs, err := h.svc.Tasks.Logs(c.Request.Context(), uint(id))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, emptyIfNil(logs))
}

// UpsertLog records work for one (date, textbook) pair.
func (h *Handler) UpsertLog(c *gin.Context) {
	var input service.LogInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}
	entry, err := h.svc.Tasks.RecordLog(c.Request.Context(), input)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entry)
}

func (h *Handler) YearlyLogs(c *gin.Context) {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil {
		h.respondError(c, fmt.Errorf("%w: invalid year %q", model.ErrInvalidInput, c.Param("year")))
		return
	}
	summary, err := h.svc.Timeline.Yearly(c.Request.Context(), year)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// ListExams filters by ?start= and ?end=, both optional.
func (h *Handler) ListExams(c *gin.Context) {
	start, err := optionalDay(c, "start")
	if err != nil {
		h.respondError(c, err)
		return
	}
	end, err := optionalDay(c, "end")
	if err != nil {
		h.respondError(c, err)
		return
	}
	exams, err := h.svc.Exams.List(c.Request.Context(), formatOptional(start), formatOptional(end))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, emptyIfNil(exams))
}

func (h *Handler) CreateExam(c *gin.Context) {
	var input service.ExamInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}
	exam, err := h.svc.Exams.Create(c.Request.Context(), input)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, exam)
}

// SaveExamScores applies a batch of scores atomically.
func (h *Handler) SaveExamScores(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		h.respondError(c, err)
		return
	}
	var input scoresInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}
	scores, err := h.svc.Exams.SaveScores(c.Request.Context(), id, input.Scores)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, emptyIfNil(scores))
}
