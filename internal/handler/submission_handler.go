package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/talentflow/talentflow-backend/internal/model"
	"github.com/talentflow/talentflow-backend/internal/response"
	"github.com/talentflow/talentflow-backend/internal/service"
	"github.com/talentflow/talentflow-backend/internal/validator"
)

// SubmissionHandler handles response evaluation and submission endpoints.
type SubmissionHandler struct {
	submissionService *service.SubmissionService
}

// NewSubmissionHandler creates a new SubmissionHandler.
func NewSubmissionHandler(submissionService *service.SubmissionService) *SubmissionHandler {
	return &SubmissionHandler{submissionService: submissionService}
}

// PreviewResponses godoc
// POST /api/v1/assessments/:id/preview
// Evaluates the response map without recording anything: per-question
// visibility, per-question errors, and overall submittability.
func (h *SubmissionHandler) PreviewResponses(c *gin.Context) {
	id, ok := parseAssessmentID(c)
	if !ok {
		return
	}

	var req model.SubmitRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	result, err := h.submissionService.Preview(c.Request.Context(), id, req.Responses)
	if err != nil {
		failAssessment(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"result":      result,
		"submittable": result.Submittable(),
	})
}

// SubmitResponses godoc
// POST /api/v1/assessments/:id/submit
// Runs the full submit-time pass. Validation failures come back as a
// per-question error map with 422; a clean pass queues the responses
// verbatim for recording and returns 202.
func (h *SubmissionHandler) SubmitResponses(c *gin.Context) {
	id, ok := parseAssessmentID(c)
	if !ok {
		return
	}

	var req model.SubmitRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	result, submissionID, err := h.submissionService.Submit(c.Request.Context(), id, req.Responses)
	if err != nil {
		failAssessment(c, err)
		return
	}

	if !result.Submittable() {
		response.FailWithFields(c, http.StatusUnprocessableEntity, response.ErrResponsesInvalid, result.Errors)
		return
	}

	response.Success(c, http.StatusAccepted, gin.H{
		"submission_id": submissionID,
		"status":        "accepted",
	})
}

// ListSubmissions godoc
// GET /api/v1/assessments/:id/submissions
func (h *SubmissionHandler) ListSubmissions(c *gin.Context) {
	id, ok := parseAssessmentID(c)
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "10"))

	subs, pagination, err := h.submissionService.List(c.Request.Context(), id, page, perPage)
	if err != nil {
		failAssessment(c, err)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, gin.H{"submissions": subs}, pagination)
}
