package availability

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/clinicflow/agenda-api/internal/model"
	availabilityService "github.com/clinicflow/agenda-api/internal/service/availability"
)

type Handler struct {
	service *availabilityService.Service
}

func NewHandler(service *availabilityService.Service) *Handler {
	registerValidations()
	return &Handler{service: service}
}

// registerValidations adds the frequency check to gin's validator engine.
func registerValidations() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("frequency", func(fl validator.FieldLevel) bool {
			switch model.Frequency(fl.Field().String()) {
			case model.FrequencyWeekly, model.FrequencyBiweekly, model.FrequencyMonthly:
				return true
			}
			return false
		})
	}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	availability := r.Group("/availability")
	{
		availability.GET("/day", h.GetDaySchedule)
		availability.GET("/professionals", h.GetFreeProfessionals)
		availability.POST("/recurrence-check", h.CheckRecurrence)
		availability.POST("/conflict-check", h.CheckDates)
	}
}

// GetDaySchedule returns the half-hour verdict grid for one professional
// on one day.
func (h *Handler) GetDaySchedule(c *gin.Context) {
	professionalID, err := uuid.Parse(c.Query("professional_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid professional ID"})
		return
	}

	date, err := time.Parse("2006-01-02", c.Query("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid date format"})
		return
	}

	slots := h.service.VerifyDay(c.Request.Context(), professionalID, date)
	c.JSON(http.StatusOK, gin.H{"status": "success", "data": slots})
}

// CheckRecurrence reports conflicting dates in a proposed recurring series.
func (h *Handler) CheckRecurrence(c *gin.Context) {
	var req model.RecurrenceCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": err.Error()})
		return
	}

	resourceID := uuid.Nil
	if req.ResourceID != nil {
		resourceID = *req.ResourceID
	}

	report := h.service.VerifyRecurrence(c.Request.Context(), req.ProfessionalID, resourceID, req.StartTime, req.Rule())
	c.JSON(http.StatusOK, gin.H{"status": "success", "data": report})
}

// CheckDates reports conflicts for an explicit list of candidate
// date-times.
func (h *Handler) CheckDates(c *gin.Context) {
	var req model.DatesCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": err.Error()})
		return
	}

	resourceID := uuid.Nil
	if req.ResourceID != nil {
		resourceID = *req.ResourceID
	}

	report := h.service.VerifyDates(c.Request.Context(), req.ProfessionalID, resourceID, req.Dates)
	c.JSON(http.StatusOK, gin.H{"status": "success", "data": report})
}

// GetFreeProfessionals returns one verdict per professional for a single
// instant, for the booking UI's "who is free at T" picker.
func (h *Handler) GetFreeProfessionals(c *gin.Context) {
	at, err := time.Parse(time.RFC3339, c.Query("at"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid instant, expected RFC3339"})
		return
	}

	rawIDs := c.Query("ids")
	if rawIDs == "" {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "at least one professional ID is required"})
		return
	}

	parts := strings.Split(rawIDs, ",")
	ids := make([]uuid.UUID, 0, len(parts))
	for _, raw := range parts {
		id, err := uuid.Parse(strings.TrimSpace(raw))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid professional ID"})
			return
		}
		ids = append(ids, id)
	}

	slots := h.service.VerifyProfessionals(c.Request.Context(), ids, at)
	c.JSON(http.StatusOK, gin.H{"status": "success", "data": slots})
}
