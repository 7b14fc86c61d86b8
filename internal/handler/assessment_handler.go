package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/talentflow/talentflow-backend/internal/model"
	"github.com/talentflow/talentflow-backend/internal/response"
	"github.com/talentflow/talentflow-backend/internal/service"
	"github.com/talentflow/talentflow-backend/internal/validator"
)

// AssessmentHandler handles assessment lifecycle endpoints.
type AssessmentHandler struct {
	assessmentService *service.AssessmentService
}

// NewAssessmentHandler creates a new AssessmentHandler.
func NewAssessmentHandler(assessmentService *service.AssessmentService) *AssessmentHandler {
	return &AssessmentHandler{assessmentService: assessmentService}
}

// ListAssessments godoc
// GET /api/v1/assessments
func (h *AssessmentHandler) ListAssessments(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "10"))
	search := c.Query("search")

	items, pagination, err := h.assessmentService.List(c.Request.Context(), page, perPage, search)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, gin.H{"assessments": items}, pagination)
}

// CreateAssessment godoc
// POST /api/v1/assessments
// Creates a default assessment: one section, no questions.
func (h *AssessmentHandler) CreateAssessment(c *gin.Context) {
	a, err := h.assessmentService.Create(c.Request.Context())
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"assessment": a})
}

// GetAssessment godoc
// GET /api/v1/assessments/:id
// Loading the sentinel id "new" or an id with no stored document yields a
// fresh default document without persisting anything. The editor opens an
// empty assessment either way; only an edit creates a record.
func (h *AssessmentHandler) GetAssessment(c *gin.Context) {
	raw := c.Param("id")
	if raw == model.NewAssessmentID {
		a := h.assessmentService.Default()
		response.Success(c, http.StatusOK, gin.H{"assessment": a})
		return
	}

	id, err := uuid.Parse(raw)
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	a, err := h.assessmentService.Get(c.Request.Context(), id)
	if errors.Is(err, service.ErrAssessmentNotFound) {
		fresh := h.assessmentService.Default()
		response.Success(c, http.StatusOK, gin.H{"assessment": fresh})
		return
	}
	if err != nil {
		failAssessment(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"assessment": a})
}

// UpdateAssessment godoc
// PUT /api/v1/assessments/:id
// Merges partial metadata fields.
func (h *AssessmentHandler) UpdateAssessment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.UpdateAssessmentRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	a, err := h.assessmentService.UpdateMetadata(c.Request.Context(), id, req)
	if err != nil {
		failAssessment(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"assessment": a})
}

// DeleteAssessment godoc
// DELETE /api/v1/assessments/:id
func (h *AssessmentHandler) DeleteAssessment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	if err := h.assessmentService.Delete(c.Request.Context(), id); err != nil {
		failAssessment(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "assessment deleted"})
}

// failAssessment maps service errors onto the response envelope.
func failAssessment(c *gin.Context, err error) {
	if errors.Is(err, service.ErrAssessmentNotFound) {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}
	response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
}
