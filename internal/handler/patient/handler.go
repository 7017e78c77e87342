package patient

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/medease/medease-api/internal/handler"
	"github.com/medease/medease-api/internal/middleware"
	"github.com/medease/medease-api/internal/model"
)

// Service is the surface of the patient service the handler uses. Every
// operation is scoped to the authenticated user's own record.
type Service interface {
	GetProfileByUser(ctx context.Context, userID uuid.UUID) (*model.Patient, error)
	GetHealthMetrics(ctx context.Context, userID uuid.UUID) (*model.HealthMetrics, error)
	UpdateHealthMetrics(ctx context.Context, userID uuid.UUID, req *model.UpdateHealthMetricsRequest) (*model.HealthMetrics, error)
	ListConditions(ctx context.Context, userID uuid.UUID, activeOnly bool) ([]*model.MedicalCondition, error)
	AddCondition(ctx context.Context, userID uuid.UUID, req *model.CreateConditionRequest) (*model.MedicalCondition, error)
	UpdateCondition(ctx context.Context, userID uuid.UUID, conditionID uuid.UUID, req *model.UpdateConditionRequest) (*model.MedicalCondition, error)
	DeleteCondition(ctx context.Context, userID uuid.UUID, conditionID uuid.UUID) error
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup, auth *middleware.AuthMiddleware) {
	patients := r.Group("/patients")
	patients.Use(auth.Authenticate(), auth.RequireRole(model.RolePatient))
	{
		patients.GET("/profile", h.GetProfile)
		patients.GET("/health-metrics", h.GetHealthMetrics)
		patients.PUT("/health-metrics", h.UpdateHealthMetrics)
		patients.GET("/conditions", h.ListConditions)
		patients.POST("/conditions", h.AddCondition)
		patients.PUT("/conditions/:id", h.UpdateCondition)
		patients.DELETE("/conditions/:id", h.DeleteCondition)
	}
}

func (h *Handler) GetProfile(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("authentication required"))
		return
	}

	patient, err := h.service.GetProfileByUser(c.Request.Context(), userID)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(patient))
}

func (h *Handler) GetHealthMetrics(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("authentication required"))
		return
	}

	metrics, err := h.service.GetHealthMetrics(c.Request.Context(), userID)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(metrics))
}

func (h *Handler) UpdateHealthMetrics(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("authentication required"))
		return
	}

	var req model.UpdateHealthMetricsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	metrics, err := h.service.UpdateHealthMetrics(c.Request.Context(), userID, &req)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(metrics))
}

func (h *Handler) ListConditions(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("authentication required"))
		return
	}

	activeOnly := c.Query("active") == "true"

	conditions, err := h.service.ListConditions(c.Request.Context(), userID, activeOnly)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(conditions))
}

func (h *Handler) AddCondition(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("authentication required"))
		return
	}

	var req model.CreateConditionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	condition, err := h.service.AddCondition(c.Request.Context(), userID, &req)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(condition))
}

func (h *Handler) UpdateCondition(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("authentication required"))
		return
	}

	conditionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid condition ID"))
		return
	}

	var req model.UpdateConditionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	condition, err := h.service.UpdateCondition(c.Request.Context(), userID, conditionID, &req)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(condition))
}

func (h *Handler) DeleteCondition(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("authentication required"))
		return
	}

	conditionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid condition ID"))
		return
	}

	if err := h.service.DeleteCondition(c.Request.Context(), userID, conditionID); err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(nil))
}
