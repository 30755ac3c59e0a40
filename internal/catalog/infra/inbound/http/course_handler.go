package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/davicafu/campuslab/internal/catalog/application"
	"github.com/davicafu/campuslab/internal/catalog/domain"
	"github.com/davicafu/campuslab/pkg/utils"
)

// CourseHandler encapsula los endpoints HTTP del catálogo
type CourseHandler struct {
	service *application.CatalogService
}

// NewCourseHandler crea un nuevo CourseHandler
func NewCourseHandler(service *application.CatalogService) *CourseHandler {
	return &CourseHandler{service: service}
}

// ---------------- Handlers ----------------

// CreateCourse endpoint POST /courses
func (h *CourseHandler) CreateCourse(c *gin.Context) {
	var req struct {
		Title    string `json:"title" binding:"required"`
		Category string `json:"category" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendBadRequest(c, err.Error())
		return
	}

	course, err := h.service.CreateCourse(c.Request.Context(), req.Title, req.Category)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCourse) {
			utils.SendBadRequest(c, err.Error())
			return
		}
		if errors.Is(err, domain.ErrCourseAlreadyExists) {
			utils.SendConflict(c, "course already exists")
			return
		}
		utils.SendInternalServerError(c, err.Error())
		return
	}

	utils.SendSuccess(c, http.StatusCreated, course)
}

// GetCourse endpoint GET /courses/:id
func (h *CourseHandler) GetCourse(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.SendBadRequest(c, "invalid course id")
		return
	}

	course, err := h.service.GetCourse(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrCourseNotFound) {
			utils.SendNotFound(c, "course not found")
			return
		}
		utils.SendInternalServerError(c, err.Error())
		return
	}

	utils.SendSuccess(c, http.StatusOK, course)
}

// ArchiveCourse endpoint POST /courses/:id/archive
func (h *CourseHandler) ArchiveCourse(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.SendBadRequest(c, "invalid course id")
		return
	}

	course, err := h.service.ArchiveCourse(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrCourseNotFound) {
			utils.SendNotFound(c, "course not found")
			return
		}
		utils.SendInternalServerError(c, err.Error())
		return
	}

	utils.SendSuccess(c, http.StatusOK, course)
}
