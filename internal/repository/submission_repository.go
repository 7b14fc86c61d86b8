package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/talentflow/talentflow-backend/internal/model"
)

// SubmissionRecord is the persistence form of an accepted submission.
// Responses is the candidate's response map, JSON-encoded verbatim.
type SubmissionRecord struct {
	ID           uuid.UUID
	AssessmentID uuid.UUID
	Responses    []byte
	SubmittedAt  time.Time
}

// SubmissionRepository handles recorded submission data access.
type SubmissionRepository struct {
	pool *pgxpool.Pool
}

// NewSubmissionRepository creates a new SubmissionRepository.
func NewSubmissionRepository(pool *pgxpool.Pool) *SubmissionRepository {
	return &SubmissionRepository{pool: pool}
}

// Insert persists a single submission.
func (r *SubmissionRepository) Insert(ctx context.Context, rec *SubmissionRecord) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO submissions (id, assessment_id, responses, submitted_at)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (id) DO NOTHING`,
		rec.ID, rec.AssessmentID, rec.Responses, rec.SubmittedAt,
	)
	return err
}

// BulkInsert persists a batch of submissions in one round trip using
// UNNEST. Duplicate ids (requeued items) are ignored.
func (r *SubmissionRepository) BulkInsert(ctx context.Context, batch []*SubmissionRecord) error {
	n := len(batch)
	if n == 0 {
		return nil
	}

	ids := make([]uuid.UUID, 0, n)
	assessmentIDs := make([]uuid.UUID, 0, n)
	responses := make([][]byte, 0, n)
	submittedAts := make([]time.Time, 0, n)

	for _, rec := range batch {
		ids = append(ids, rec.ID)
		assessmentIDs = append(assessmentIDs, rec.AssessmentID)
		responses = append(responses, rec.Responses)
		submittedAts = append(submittedAts, rec.SubmittedAt)
	}

	query := `
		INSERT INTO submissions (id, assessment_id, responses, submitted_at)
		SELECT u.id, u.assessment_id, u.responses, u.submitted_at
		FROM UNNEST(
			$1::uuid[],
			$2::uuid[],
			$3::jsonb[],
			$4::timestamptz[]
		) AS u (id, assessment_id, responses, submitted_at)
		ON CONFLICT (id) DO NOTHING
	`

	_, err := r.pool.Exec(ctx, query, ids, assessmentIDs, responses, submittedAts)
	return err
}

// ListByAssessment retrieves submissions for an assessment, newest first.
func (r *SubmissionRepository) ListByAssessment(ctx context.Context, assessmentID uuid.UUID, limit, offset int) ([]model.Submission, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM submissions WHERE assessment_id = $1`, assessmentID,
	).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT id, assessment_id, responses, submitted_at
		 FROM submissions WHERE assessment_id = $1
		 ORDER BY submitted_at DESC LIMIT $2 OFFSET $3`,
		assessmentID, limit, offset,
	)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var subs []model.Submission
	for rows.Next() {
		var (
			id  uuid.UUID
			aid uuid.UUID
			sub model.Submission
		)
		if err := rows.Scan(&id, &aid, &sub.Responses, &sub.SubmittedAt); err != nil {
			return nil, 0, err
		}
		sub.ID = id.String()
		sub.AssessmentID = aid.String()
		subs = append(subs, sub)
	}
	return subs, total, rows.Err()
}
