package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/talentflow/talentflow-backend/internal/builder"
	"github.com/talentflow/talentflow-backend/internal/model"
	"github.com/talentflow/talentflow-backend/internal/response"
	"github.com/talentflow/talentflow-backend/internal/service"
	"github.com/talentflow/talentflow-backend/internal/validator"
)

// BuilderHandler exposes the editor operations over an assessment's
// sections, questions, and options. Every endpoint loads the document,
// applies a pure transformation, saves the whole document back, and
// returns the new tree. Structural guards (last remaining section,
// two-option floor) refuse silently: the response is simply the unchanged
// document.
type BuilderHandler struct {
	assessmentService *service.AssessmentService
}

// NewBuilderHandler creates a new BuilderHandler.
func NewBuilderHandler(assessmentService *service.AssessmentService) *BuilderHandler {
	return &BuilderHandler{assessmentService: assessmentService}
}

// AddSection godoc
// POST /api/v1/assessments/:id/sections
func (h *BuilderHandler) AddSection(c *gin.Context) {
	h.apply(c, http.StatusCreated, builder.AddSection)
}

// UpdateSection godoc
// PUT /api/v1/assessments/:id/sections/:section_id
func (h *BuilderHandler) UpdateSection(c *gin.Context) {
	sectionID := c.Param("section_id")

	var req model.UpdateSectionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	h.apply(c, http.StatusOK, func(a model.Assessment) model.Assessment {
		return builder.UpdateSection(a, sectionID, req)
	})
}

// DeleteSection godoc
// DELETE /api/v1/assessments/:id/sections/:section_id
func (h *BuilderHandler) DeleteSection(c *gin.Context) {
	sectionID := c.Param("section_id")
	h.apply(c, http.StatusOK, func(a model.Assessment) model.Assessment {
		return builder.DeleteSection(a, sectionID)
	})
}

// AddQuestion godoc
// POST /api/v1/assessments/:id/sections/:section_id/questions
// Constructs a question with type-appropriate defaults and returns its id
// as the selected question.
func (h *BuilderHandler) AddQuestion(c *gin.Context) {
	id, ok := parseAssessmentID(c)
	if !ok {
		return
	}
	sectionID := c.Param("section_id")

	var req model.AddQuestionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	// A refused add (unknown section) must not persist anything, so the
	// save is skipped when no question id comes back.
	var selectedID string
	a, err := h.assessmentService.TryApply(c.Request.Context(), id, func(a model.Assessment) (model.Assessment, bool) {
		next, qid := builder.AddQuestion(a, sectionID, model.QuestionType(req.Type))
		selectedID = qid
		return next, qid != ""
	})
	if err != nil {
		failAssessment(c, err)
		return
	}
	if selectedID == "" {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{
		"assessment":  a,
		"selected_id": selectedID,
	})
}

// UpdateQuestion godoc
// PUT /api/v1/assessments/:id/questions/:question_id
func (h *BuilderHandler) UpdateQuestion(c *gin.Context) {
	questionID := c.Param("question_id")

	var req model.UpdateQuestionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	h.apply(c, http.StatusOK, func(a model.Assessment) model.Assessment {
		return builder.UpdateQuestion(a, questionID, req)
	})
}

// DeleteQuestion godoc
// DELETE /api/v1/assessments/:id/questions/:question_id
func (h *BuilderHandler) DeleteQuestion(c *gin.Context) {
	questionID := c.Param("question_id")
	h.apply(c, http.StatusOK, func(a model.Assessment) model.Assessment {
		return builder.DeleteQuestion(a, questionID)
	})
}

// MoveQuestion godoc
// POST /api/v1/assessments/:id/questions/:question_id/move
// Reorders a question, possibly across sections.
func (h *BuilderHandler) MoveQuestion(c *gin.Context) {
	questionID := c.Param("question_id")

	var req model.MoveQuestionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	h.apply(c, http.StatusOK, func(a model.Assessment) model.Assessment {
		return builder.MoveQuestion(a, questionID, req.ToSectionID, req.ToIndex)
	})
}

// AddOption godoc
// POST /api/v1/assessments/:id/questions/:question_id/options
func (h *BuilderHandler) AddOption(c *gin.Context) {
	questionID := c.Param("question_id")
	h.apply(c, http.StatusCreated, func(a model.Assessment) model.Assessment {
		return builder.AddOption(a, questionID)
	})
}

// UpdateOption godoc
// PUT /api/v1/assessments/:id/questions/:question_id/options/:index
func (h *BuilderHandler) UpdateOption(c *gin.Context) {
	questionID := c.Param("question_id")
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.UpdateOptionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	h.apply(c, http.StatusOK, func(a model.Assessment) model.Assessment {
		return builder.UpdateOption(a, questionID, index, req.Text)
	})
}

// RemoveOption godoc
// DELETE /api/v1/assessments/:id/questions/:question_id/options/:index
// Refused silently once only two options remain.
func (h *BuilderHandler) RemoveOption(c *gin.Context) {
	questionID := c.Param("question_id")
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	h.apply(c, http.StatusOK, func(a model.Assessment) model.Assessment {
		return builder.RemoveOption(a, questionID, index)
	})
}

// apply runs a pure builder operation through the load→transform→save
// cycle and writes the resulting document.
func (h *BuilderHandler) apply(c *gin.Context, statusCode int, op func(model.Assessment) model.Assessment) {
	id, ok := parseAssessmentID(c)
	if !ok {
		return
	}

	a, err := h.assessmentService.Apply(c.Request.Context(), id, op)
	if err != nil {
		failAssessment(c, err)
		return
	}

	response.Success(c, statusCode, gin.H{"assessment": a})
}

func parseAssessmentID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return uuid.Nil, false
	}
	return id, true
}
