package appointment

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/medease/medease-api/internal/handler"
	"github.com/medease/medease-api/internal/middleware"
	"github.com/medease/medease-api/internal/model"
)

// Service is the surface of the appointment service the handler uses.
type Service interface {
	Book(ctx context.Context, userID uuid.UUID, req *model.BookAppointmentRequest) (*model.Appointment, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*model.Appointment, error)
	Cancel(ctx context.Context, id uuid.UUID) (*model.Appointment, error)
	AddNotes(ctx context.Context, id uuid.UUID, notes string) (*model.Appointment, error)
	ListForPatient(ctx context.Context, userID uuid.UUID, upcomingOnly bool) ([]*model.Appointment, error)
	ListForDoctor(ctx context.Context, doctorID uuid.UUID, upcomingOnly bool) ([]*model.Appointment, error)
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup, auth *middleware.AuthMiddleware) {
	appointments := r.Group("/appointments")
	appointments.Use(auth.Authenticate())
	{
		asPatient := auth.RequireRole(model.RolePatient)
		asDoctor := auth.RequireRole(model.RoleDoctor)

		appointments.POST("/book", asPatient, h.Book)
		appointments.GET("/patient", asPatient, h.ListForPatient)
		appointments.GET("/patient/upcoming", asPatient, h.ListUpcomingForPatient)
		appointments.GET("/doctor", asDoctor, h.ListForDoctor)
		appointments.GET("/doctor/upcoming", asDoctor, h.ListUpcomingForDoctor)
		appointments.GET("/:id", h.Get)
		appointments.PUT("/:id/status", h.UpdateStatus)
		appointments.PUT("/:id/notes", asDoctor, h.AddNotes)
		appointments.DELETE("/:id", asPatient, h.Cancel)
	}
}

func (h *Handler) Book(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("authentication required"))
		return
	}

	var req model.BookAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	apt, err := h.service.Book(c.Request.Context(), userID, &req)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(apt))
}

func (h *Handler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid appointment ID"))
		return
	}

	apt, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(apt))
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid appointment ID"))
		return
	}

	var req model.UpdateAppointmentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	apt, err := h.service.UpdateStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(apt))
}

func (h *Handler) AddNotes(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid appointment ID"))
		return
	}

	var req model.AddNotesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	apt, err := h.service.AddNotes(c.Request.Context(), id, req.Notes)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(apt))
}

func (h *Handler) Cancel(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid appointment ID"))
		return
	}

	apt, err := h.service.Cancel(c.Request.Context(), id)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(apt))
}

func (h *Handler) ListForPatient(c *gin.Context) {
	h.listForPatient(c, false)
}

func (h *Handler) ListUpcomingForPatient(c *gin.Context) {
	h.listForPatient(c, true)
}

func (h *Handler) listForPatient(c *gin.Context, upcomingOnly bool) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("authentication required"))
		return
	}

	appointments, err := h.service.ListForPatient(c.Request.Context(), userID, upcomingOnly)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(appointments))
}

func (h *Handler) ListForDoctor(c *gin.Context) {
	h.listForDoctor(c, false)
}

func (h *Handler) ListUpcomingForDoctor(c *gin.Context) {
	h.listForDoctor(c, true)
}

// Doctors pass their doctor id explicitly; the token identifies a user,
// not a doctor profile.
func (h *Handler) listForDoctor(c *gin.Context, upcomingOnly bool) {
	doctorID, err := uuid.Parse(c.Query("doctorId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid doctor ID"))
		return
	}

	appointments, err := h.service.ListForDoctor(c.Request.Context(), doctorID, upcomingOnly)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(appointments))
}
