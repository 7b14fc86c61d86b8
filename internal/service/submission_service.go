package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/talentflow/talentflow-backend/internal/config"
	"github.com/talentflow/talentflow-backend/internal/evaluator"
	"github.com/talentflow/talentflow-backend/internal/model"
	"github.com/talentflow/talentflow-backend/internal/repository"
	"github.com/talentflow/talentflow-backend/internal/response"
)

// SubmissionService evaluates candidate responses against an assessment
// and queues accepted submissions for persistence.
type SubmissionService struct {
	assessments    *AssessmentService
	submissionRepo *repository.SubmissionRepository
	rdb            *redis.Client
	log            zerolog.Logger
}

// NewSubmissionService creates a new SubmissionService.
func NewSubmissionService(
	assessments *AssessmentService,
	submissionRepo *repository.SubmissionRepository,
	rdb *redis.Client,
	log zerolog.Logger,
) *SubmissionService {
	return &SubmissionService{
		assessments:    assessments,
		submissionRepo: submissionRepo,
		rdb:            rdb,
		log:            log.With().Str("component", "submission_service").Logger(),
	}
}

// Preview runs a full evaluation pass for the live preview: visibility and
// validation errors for every question, without recording anything.
func (s *SubmissionService) Preview(ctx context.Context, id uuid.UUID, responses evaluator.ResponseMap) (evaluator.Result, error) {
	a, err := s.assessments.Get(ctx, id)
	if err != nil {
		return evaluator.Result{}, err
	}
	return evaluator.Evaluate(*a, responses), nil
}

// Submit evaluates the responses at submit time. When validation passes,
// the response map is queued verbatim for recording and the generated
// submission id is returned; otherwise the error map is returned and
// nothing is recorded.
func (s *SubmissionService) Submit(ctx context.Context, id uuid.UUID, responses evaluator.ResponseMap) (evaluator.Result, string, error) {
	a, err := s.assessments.Get(ctx, id)
	if err != nil {
		return evaluator.Result{}, "", err
	}

	result := evaluator.Evaluate(*a, responses)
	if !result.Submittable() {
		return result, "", nil
	}

	submissionID := uuid.New().String()
	payload, err := json.Marshal(map[string]interface{}{
		"submission_id": submissionID,
		"assessment_id": id.String(),
		"responses":     responses,
		"submitted_at":  time.Now().UTC().Format(time.RFC3339Nano),
	})
	if err != nil {
		return result, "", fmt.Errorf("encode submission: %w", err)
	}

	if err := s.rdb.RPush(ctx, config.WorkerKey.PersistSubmissionsQueue, payload).Err(); err != nil {
		return result, "", fmt.Errorf("queue submission: %w", err)
	}

	s.log.Info().
		Str("assessment_id", id.String()).
		Str("submission_id", submissionID).
		Int("answers", len(responses)).
		Msg("Submission accepted and queued")

	return result, submissionID, nil
}

// List retrieves recorded submissions for an assessment with pagination.
func (s *SubmissionService) List(ctx context.Context, id uuid.UUID, page, perPage int) ([]model.Submission, *response.Pagination, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 10
	}
	if perPage > 100 {
		perPage = 100
	}

	limit := perPage
	offset := (page - 1) * perPage

	subs, total, err := s.submissionRepo.ListByAssessment(ctx, id, limit, offset)
	if err != nil {
		return nil, nil, err
	}
	if subs == nil {
		subs = []model.Submission{}
	}

	totalPages := (total + perPage - 1) / perPage

	pagination := &response.Pagination{
		Page:       page,
		PerPage:    perPage,
		TotalItems: total,
		TotalPages: totalPages,
	}

	return subs, pagination, nil
}
