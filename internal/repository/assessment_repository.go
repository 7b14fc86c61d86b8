package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/talentflow/talentflow-backend/internal/model"
)

// AssessmentRepository handles assessment document data access. Documents
// are stored whole as jsonb; a few metadata columns are mirrored for
// listing.
type AssessmentRepository struct {
	pool *pgxpool.Pool
}

// NewAssessmentRepository creates a new AssessmentRepository.
func NewAssessmentRepository(pool *pgxpool.Pool) *AssessmentRepository {
	return &AssessmentRepository{pool: pool}
}

// GetByID retrieves a stored document by its UUID. Returns pgx.ErrNoRows
// when the assessment does not exist.
func (r *AssessmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Document, error) {
	var raw []byte
	err := r.pool.QueryRow(ctx,
		`SELECT document FROM assessments WHERE id = $1`, id,
	).Scan(&raw)
	if err != nil {
		return nil, err
	}

	var doc model.Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	return &doc, nil
}

// Create inserts a new document and returns the generated id.
func (r *AssessmentRepository) Create(ctx context.Context, doc *model.Document) (uuid.UUID, error) {
	raw, err := json.Marshal(doc)
	if err != nil {
		return uuid.Nil, fmt.Errorf("encode document: %w", err)
	}

	var id uuid.UUID
	err = r.pool.QueryRow(ctx,
		`INSERT INTO assessments (title, category, estimated_duration, document)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id`,
		doc.Title, doc.Type, doc.EstimatedDuration, raw,
	).Scan(&id)
	return id, err
}

// Update replaces the stored document and its mirrored metadata columns.
// Returns pgx.ErrNoRows when the assessment does not exist.
func (r *AssessmentRepository) Update(ctx context.Context, id uuid.UUID, doc *model.Document) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}

	tag, err := r.pool.Exec(ctx,
		`UPDATE assessments
		 SET title = $1, category = $2, estimated_duration = $3,
		     document = $4, updated_at = NOW()
		 WHERE id = $5`,
		doc.Title, doc.Type, doc.EstimatedDuration, raw, id,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// Delete removes an assessment and its recorded submissions (FK cascade).
func (r *AssessmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM assessments WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// ListPaginated retrieves assessment summaries ordered by recency.
func (r *AssessmentRepository) ListPaginated(ctx context.Context, limit, offset int, search string) ([]model.AssessmentSummary, int, error) {
	countQuery := `SELECT COUNT(*) FROM assessments`
	listQuery := `
		SELECT id, title, category, estimated_duration,
		       jsonb_array_length(document->'sections') AS section_count,
		       (SELECT COUNT(*)
		        FROM jsonb_array_elements(document->'sections') AS s,
		             jsonb_array_elements(s->'questions')) AS question_count,
		       created_at, updated_at
		FROM assessments`

	var args []interface{}
	if search != "" {
		countQuery += ` WHERE title ILIKE '%' || $1 || '%'`
		listQuery += ` WHERE title ILIKE '%' || $1 || '%'`
		args = append(args, search)
	}

	var total int
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	listQuery += fmt.Sprintf(` ORDER BY updated_at DESC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, listQuery, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []model.AssessmentSummary
	for rows.Next() {
		var (
			item model.AssessmentSummary
			id   uuid.UUID
		)
		if err := rows.Scan(&id, &item.Title, &item.Category, &item.EstimatedDuration,
			&item.SectionCount, &item.QuestionCount, &item.CreatedAt, &item.UpdatedAt); err != nil {
			return nil, 0, err
		}
		item.ID = id.String()
		items = append(items, item)
	}
	return items, total, rows.Err()
}

// ListAll returns every stored assessment id with its document. Used for
// cache prewarming on application startup.
func (r *AssessmentRepository) ListAll(ctx context.Context) (map[uuid.UUID]*model.Document, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, document FROM assessments`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	docs := make(map[uuid.UUID]*model.Document)
	for rows.Next() {
		var (
			id  uuid.UUID
			raw []byte
		)
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, err
		}
		var doc model.Document
		if err := json.Unmarshal(raw, &doc); err != nil {
			return nil, fmt.Errorf("decode document %s: %w", id, err)
		}
		docs[id] = &doc
	}
	return docs, rows.Err()
}
