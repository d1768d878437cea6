package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"

	"learnplatform/services/progress-service/internal/application"
	"learnplatform/services/progress-service/internal/middleware"
	"learnplatform/services/progress-service/internal/progress"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type DashboardService interface {
	Dashboard(ctx context.Context, studentID uuid.UUID) (progress.DashboardPayload, error)
	MyCourses(ctx context.Context, studentID uuid.UUID) (progress.MyCourses, error)
	CourseProgress(ctx context.Context, studentID, courseID uuid.UUID) (progress.CourseDetail, error)
}

type DashboardHandler struct {
	service DashboardService
}

func NewDashboardHandler(service DashboardService) *DashboardHandler {
	return &DashboardHandler{service: service}
}

// GET /api/v1/dashboard
func (h *DashboardHandler) Dashboard(c *gin.Context) {
	studentID, ok := studentFromContext(c)
	if !ok {
		return
	}

	res, err := h.service.Dashboard(c.Request.Context(), studentID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// GET /api/v1/my-courses
func (h *DashboardHandler) MyCourses(c *gin.Context) {
	studentID, ok := studentFromContext(c)
	if !ok {
		return
	}

	res, err := h.service.MyCourses(c.Request.Context(), studentID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// GET /api/v1/courses/:id/progress
func (h *DashboardHandler) CourseProgress(c *gin.Context) {
	studentID, ok := studentFromContext(c)
	if !ok {
		return
	}

	courseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid course id"})
		return
	}

	res, err := h.service.CourseProgress(c.Request.Context(), studentID, courseID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// sub в токене должен быть uuid студента
func studentFromContext(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.GetString(middleware.UserIDKey))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid user id in token"})
		return uuid.Nil, false
	}
	return id, true
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, application.ErrNotEnrolled):
		c.JSON(http.StatusNotFound, gin.H{"error": "Course not found"})
	case errors.Is(err, application.ErrSnapshotUnavailable):
		log.Printf("progress snapshot failed: %v", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Progress is temporarily unavailable"})
	default:
		log.Printf("progress request failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
	}
}
