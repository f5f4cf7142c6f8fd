package handler

import (
	"context"
	"errors"
	"net/http"
	"runtime"
	"time"

	"github.com/assetreg/backend/internal/infrastructure/scheduler"
	"github.com/assetreg/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// HealthCheck reports whether a dependency is reachable
type HealthCheck func(ctx context.Context) error

// JobController exposes the scheduled jobs to operators
type JobController interface {
	Status() []scheduler.JobState
	TriggerNow(ctx context.Context, name string) error
}

// SystemHandler handles health and operations endpoints
type SystemHandler struct {
	BaseHandler
	name      string
	startTime time.Time
	checks    map[string]HealthCheck
	jobs      JobController
}

// NewSystemHandler creates a new SystemHandler. jobs may be nil when the
// scheduler is disabled.
func NewSystemHandler(name string, checks map[string]HealthCheck, jobs JobController) *SystemHandler {
	return &SystemHandler{
		name:      name,
		startTime: time.Now(),
		checks:    checks,
		jobs:      jobs,
	}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string            `json:"status"`
	Name      string            `json:"name"`
	GoVersion string            `json:"go_version"`
	Uptime    string            `json:"uptime"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// Health godoc
// @Summary      Liveness and dependency check
// @Tags         system
// @Produce      json
// @Success      200 {object} dto.Response{data=HealthResponse}
// @Failure      503 {object} dto.Response{data=HealthResponse}
// @Router       /health [get]
func (h *SystemHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	resp := HealthResponse{
		Status:    "ok",
		Name:      h.name,
		GoVersion: runtime.Version(),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
	}

	status := http.StatusOK
	if len(h.checks) > 0 {
		resp.Checks = make(map[string]string, len(h.checks))
		for name, check := range h.checks {
			if err := check(ctx); err != nil {
				resp.Checks[name] = err.Error()
				resp.Status = "degraded"
				status = http.StatusServiceUnavailable
				continue
			}
			resp.Checks[name] = "ok"
		}
	}

	c.JSON(status, dto.Response{Success: status == http.StatusOK, Data: resp})
}

// JobStatus lists the scheduled jobs and their last run
// @Summary      Scheduled job status
// @Tags         system
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} dto.Response{data=[]scheduler.JobState}
// @Router       /system/jobs [get]
func (h *SystemHandler) JobStatus(c *gin.Context) {
	if h.jobs == nil {
		h.Success(c, []scheduler.JobState{})
		return
	}
	h.Success(c, h.jobs.Status())
}

// TriggerJob runs a scheduled job immediately
// @Summary      Trigger scheduled job
// @Tags         system
// @Produce      json
// @Security     BearerAuth
// @Param        name path string true "Job name"
// @Success      200 {object} dto.Response{data=MessageResponse}
// @Failure      404 {object} dto.Response
// @Router       /system/jobs/{name}/trigger [post]
func (h *SystemHandler) TriggerJob(c *gin.Context) {
	if h.jobs == nil {
		h.Error(c, http.StatusServiceUnavailable, dto.ErrCodeInvalidState, "Scheduler is disabled")
		return
	}

	name := c.Param("name")
	err := h.jobs.TriggerNow(c.Request.Context(), name)
	switch {
	case errors.Is(err, scheduler.ErrJobNotFound):
		h.Error(c, http.StatusNotFound, dto.ErrCodeNotFound, "Job not found: "+name)
	case errors.Is(err, scheduler.ErrSchedulerNotRunning):
		h.Error(c, http.StatusServiceUnavailable, dto.ErrCodeInvalidState, "Scheduler is not running")
	case err != nil:
		h.Error(c, http.StatusInternalServerError, dto.ErrCodeInternal, "Job failed: "+err.Error())
	default:
		h.Success(c, MessageResponse{Message: "Job " + name + " completed"})
	}
}
