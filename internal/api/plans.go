package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"study-planner/internal/calendar"
	"study-planner/internal/planner"
	"study-planner/internal/service"
)

type compiledPlanResponse struct {
	StartDate     string              `json:"startDate"`
	EndDate       string              `json:"endDate"`
	TotalProblems int                 `json:"totalProblems"`
	BufferDays    int                 `json:"bufferDays"`
	WeeklyTotal   int                 `json:"weeklyTotal"`
	WeeksNeeded   int                 `json:"weeksNeeded"`
	TotalDays     int                 `json:"totalDays"`
	Days          []planner.DayTarget `json:"days"`
}

func newCompiledPlanResponse(p planner.CompiledPlan) compiledPlanResponse {
	return compiledPlanResponse{
		StartDate:     calendar.Format(p.Start),
		EndDate:       calendar.Format(p.End),
		TotalProblems: p.TotalProblems,
		BufferDays:    p.BufferDays,
		WeeklyTotal:   p.WeeklyTotal,
		WeeksNeeded:   p.WeeksNeeded,
		TotalDays:     p.TotalDays(),
		Days:          p.Days(),
	}
}

// CompilePlan previews a plan without storing it.
func (h *Handler) CompilePlan(c *gin.Context) {
	var input service.PlanInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}
	compiled, err := h.svc.Plans.Preview(c.Request.Context(), input)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newCompiledPlanResponse(compiled))
}

func (h *Handler) ListPlans(c *gin.Context) {
	plans, err := h.svc.Plans.List(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, emptyIfNil(plans))
}

func (h *Handler) CreatePlan(c *gin.Context) {
	var input service.PlanInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}
	plan, err := h.svc.Plans.Create(c.Request.Context(), input)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, plan)
}

func (h *Handler) ReplacePlan(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		h.respondError(c, err)
		return
	}
	var input service.PlanInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}
	plan, err := h.svc.Plans.Replace(c.Request.Context(), id, input)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, plan)
}

func (h *Handler) DeletePlan(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		h.respondError(c, err)
		return
	}
	if err := h.svc.Plans.Delete(c.Request.Context(), id); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// TextbookProgress evaluates one textbook's plan on ?today=.
func (h *Handler) TextbookProgress(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		h.respondError(c, err)
		return
	}
	today, err := h.today(c)
	if err != nil {
		h.respondError(c, err)
		return
	}
	snap, err := h.svc.Progress.Progress(c.Request.Context(), id, today)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

// Overview lists every textbook with its progress; progress is null for
// textbooks without a usable plan.
func (h *Handler) Overview(c *gin.Context) {
	today, err := h.today(c)
	if err != nil {
		h.respondError(c, err)
		return
	}
	items, err := h.svc.Progress.Overview(c.Request.Context(), today)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, emptyIfNil(items))
}

func (h *Handler) Timeline(c *gin.Context) {
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
	events, err := h.svc.Timeline.Timeline(c.Request.Context(), planner.Range{Start: start, End: end})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, emptyIfNil(events))
}

func (h *Handler) TodayTasks(c *gin.Context) {
	today, err := h.today(c)
	if err != nil {
		h.respondError(c, err)
		return
	}
	tasks, err := h.svc.Tasks.Today(c.Request.Context(), today)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"date": calendar.Format(today), "tasks": emptyIfNil(tasks)})
}
