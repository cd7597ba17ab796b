package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/alexanderramin/queuecast/internal/domain"
	"github.com/alexanderramin/queuecast/internal/features"
	"github.com/alexanderramin/queuecast/internal/predict"
	"github.com/alexanderramin/queuecast/internal/service"
)

// Handler serves the prediction API.
type Handler struct {
	predictions service.PredictionService
	forecasts   service.ForecastService
}

func NewHandler(predictions service.PredictionService, forecasts service.ForecastService) *Handler {
	return &Handler{predictions: predictions, forecasts: forecasts}
}

// RegisterRoutes mounts the versioned API plus the unversioned aliases older
// clients call. Each alias is bound to exactly one operation.
func (h *Handler) RegisterRoutes(r gin.IRouter) {
	r.GET("/health", h.Health)
	r.POST("/predict", h.PredictCompletion)
	r.POST("/predict_staffing", h.PredictStaffing)

	v1 := r.Group("/v1")
	v1.POST("/predict/completion", h.PredictCompletion)
	v1.POST("/predict/staffing", h.PredictStaffing)
	v1.GET("/tasks", h.ListTasks)
	v1.GET("/forecasts/staffing", h.GetStaffingForecast)
}

type completionRequest struct {
	Date   string `json:"date"`
	Time   string `json:"time"`
	TaskID string `json:"task_id"`
}

type CompletionResponse struct {
	Minutes     int                  `json:"expected_completion_time_minutes"`
	Source      domain.PredictorMode `json:"source"`
	Diagnostics *predict.Diagnostics `json:"diagnostics,omitempty"`
}

type staffingRequest struct {
	Date      string `json:"date"`
	SectionID string `json:"section_id"`
}

type StaffingResponse struct {
	Employees   int                  `json:"predicted_employee_count"`
	Source      domain.PredictorMode `json:"source"`
	Diagnostics *predict.Diagnostics `json:"diagnostics,omitempty"`
}

type HealthResponse struct {
	Status        string               `json:"status"`
	Mode          domain.PredictorMode `json:"mode"`
	StaffingMode  domain.PredictorMode `json:"staffing_mode"`
	UnknownPolicy domain.UnknownPolicy `json:"unknown_policy"`
	Tasks         int                  `json:"tasks"`
	StaffingRows  int                  `json:"staffing_rows"`
}

type TaskResponse struct {
	TaskID    string `json:"task_id"`
	TaskName  string `json:"task_name"`
	SectionID string `json:"section_id"`
}

type ForecastEntry struct {
	SectionID   string               `json:"section_id"`
	Employees   int                  `json:"predicted_employee_count"`
	Source      domain.PredictorMode `json:"source"`
	GeneratedAt time.Time            `json:"generated_at"`
}

// Health GET /health
func (h *Handler) Health(c *gin.Context) {
	st := h.predictions.Status()
	c.JSON(http.StatusOK, HealthResponse{
		Status:        "healthy",
		Mode:          st.Mode,
		StaffingMode:  st.StaffingMode,
		UnknownPolicy: st.UnknownPolicy,
		Tasks:         st.TaskCount,
		StaffingRows:  st.StaffingRows,
	})
}

// PredictCompletion POST /v1/predict/completion
func (h *Handler) PredictCompletion(c *gin.Context) {
	var req completionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid json body")
		return
	}
	res, err := h.predictions.PredictCompletion(c.Request.Context(), domain.CompletionRequest{
		Date:   req.Date,
		Time:   req.Time,
		TaskID: req.TaskID,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	resp := CompletionResponse{Minutes: res.Minutes, Source: res.Source}
	if debugRequested(c) {
		resp.Diagnostics = &res.Diagnostics
	}
	c.JSON(http.StatusOK, resp)
}

// PredictStaffing POST /v1/predict/staffing
func (h *Handler) PredictStaffing(c *gin.Context) {
	var req staffingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid json body")
		return
	}
	res, err := h.predictions.PredictStaffing(c.Request.Context(), domain.StaffingRequest{
		Date:      req.Date,
		SectionID: req.SectionID,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	resp := StaffingResponse{Employees: res.Employees, Source: res.Source}
	if debugRequested(c) {
		resp.Diagnostics = &res.Diagnostics
	}
	c.JSON(http.StatusOK, resp)
}

// ListTasks GET /v1/tasks
func (h *Handler) ListTasks(c *gin.Context) {
	tasks := h.predictions.Tasks()
	out := make([]TaskResponse, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, TaskResponse{TaskID: t.Code, TaskName: t.Name, SectionID: t.SectionCode})
	}
	c.JSON(http.StatusOK, gin.H{"tasks": out, "count": len(out)})
}

// GetStaffingForecast GET /v1/forecasts/staffing?date=YYYY-MM-DD
func (h *Handler) GetStaffingForecast(c *gin.Context) {
	raw := c.Query("date")
	day, err := features.ParseDate(raw)
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	stored, err := h.forecasts.Get(c.Request.Context(), day)
	if err != nil {
		writeError(c, err)
		return
	}
	out := make([]ForecastEntry, 0, len(stored))
	for _, f := range stored {
		out = append(out, ForecastEntry{
			SectionID:   f.SectionCode,
			Employees:   f.EmployeeCount,
			Source:      f.Mode,
			GeneratedAt: f.GeneratedAt,
		})
	}
	c.JSON(http.StatusOK, gin.H{"date": raw, "forecasts": out})
}

func debugRequested(c *gin.Context) bool {
	switch c.Query("debug") {
	case "1", "true", "yes":
		return true
	}
	return false
}
