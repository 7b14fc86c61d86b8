package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/talentflow/talentflow-backend/internal/builder"
	"github.com/talentflow/talentflow-backend/internal/config"
	"github.com/talentflow/talentflow-backend/internal/model"
	"github.com/talentflow/talentflow-backend/internal/response"
)

// Domain Errors
var (
	ErrAssessmentNotFound = errors.New("assessment not found")
)

// AssessmentStore is the persistence surface the service writes through,
// satisfied by repository.AssessmentRepository.
type AssessmentStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.Document, error)
	Create(ctx context.Context, doc *model.Document) (uuid.UUID, error)
	Update(ctx context.Context, id uuid.UUID, doc *model.Document) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListPaginated(ctx context.Context, limit, offset int, search string) ([]model.AssessmentSummary, int, error)
	ListAll(ctx context.Context) (map[uuid.UUID]*model.Document, error)
}

// AssessmentService handles assessment document lifecycle and Redis
// caching. Every edit persists the whole document; the cache always holds
// the latest saved copy.
type AssessmentService struct {
	repo AssessmentStore
	rdb  *redis.Client
	log  zerolog.Logger
}

// NewAssessmentService creates a new AssessmentService.
func NewAssessmentService(repo AssessmentStore, rdb *redis.Client, log zerolog.Logger) *AssessmentService {
	return &AssessmentService{
		repo: repo,
		rdb:  rdb,
		log:  log.With().Str("component", "assessment_service").Logger(),
	}
}

// Default returns a fresh unsaved assessment: one default section, no
// questions. Served when loading the "new" sentinel id.
func (s *AssessmentService) Default() model.Assessment {
	return builder.New()
}

// Get retrieves an assessment by id, cache first with PostgreSQL fallback
// and self-healing re-cache.
func (s *AssessmentService) Get(ctx context.Context, id uuid.UUID) (*model.Assessment, error) {
	key := config.CacheKey.AssessmentDocKey(id.String())

	raw, err := s.rdb.Get(ctx, key).Bytes()
	if err == nil {
		var doc model.Document
		if jsonErr := json.Unmarshal(raw, &doc); jsonErr == nil {
			a := model.FromDocument(id.String(), doc)
			return &a, nil
		}
		// Corrupt cache entry: fall through to the database.
		s.log.Warn().Str("assessment_id", id.String()).Msg("Corrupt cache entry, reloading from database")
	} else if !errors.Is(err, redis.Nil) {
		s.log.Warn().Err(err).Msg("Redis read failed, falling back to database")
	}

	doc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAssessmentNotFound
		}
		return nil, fmt.Errorf("get assessment: %w", err)
	}

	s.cacheDocument(ctx, id, doc)

	a := model.FromDocument(id.String(), *doc)
	return &a, nil
}

// Create persists a brand-new default assessment and returns it with its
// generated id.
func (s *AssessmentService) Create(ctx context.Context) (*model.Assessment, error) {
	a := builder.New()
	doc := a.ToDocument()

	id, err := s.repo.Create(ctx, &doc)
	if err != nil {
		return nil, fmt.Errorf("create assessment: %w", err)
	}

	s.cacheDocument(ctx, id, &doc)

	a.ID = id.String()
	s.log.Info().Str("assessment_id", a.ID).Msg("Assessment created")
	return &a, nil
}

// Save persists the whole document and refreshes the cache. The in-memory
// value is never mutated by a save, so a failure needs no rollback.
func (s *AssessmentService) Save(ctx context.Context, id uuid.UUID, a *model.Assessment) error {
	doc := a.ToDocument()
	if err := s.repo.Update(ctx, id, &doc); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrAssessmentNotFound
		}
		return fmt.Errorf("save assessment: %w", err)
	}
	s.cacheDocument(ctx, id, &doc)
	return nil
}

// Apply loads an assessment, runs a pure transformation over it, persists
// the result, and returns the new value. This is the backbone of every
// editor operation: persisted as a whole document on each edit.
func (s *AssessmentService) Apply(ctx context.Context, id uuid.UUID, op func(model.Assessment) model.Assessment) (*model.Assessment, error) {
	return s.TryApply(ctx, id, func(a model.Assessment) (model.Assessment, bool) {
		return op(a), true
	})
}

// TryApply is Apply for operations that can refuse. When the operation
// reports false, nothing is persisted: no row update, no cache rewrite,
// no updated_at bump.
func (s *AssessmentService) TryApply(ctx context.Context, id uuid.UUID, op func(model.Assessment) (model.Assessment, bool)) (*model.Assessment, error) {
	a, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	next, ok := op(*a)
	if !ok {
		return &next, nil
	}
	if err := s.Save(ctx, id, &next); err != nil {
		return nil, err
	}
	return &next, nil
}

// UpdateMetadata merges partial metadata fields into the assessment.
func (s *AssessmentService) UpdateMetadata(ctx context.Context, id uuid.UUID, req model.UpdateAssessmentRequest) (*model.Assessment, error) {
	return s.Apply(ctx, id, func(a model.Assessment) model.Assessment {
		out := a.Clone()
		if req.Title != nil {
			out.Title = *req.Title
		}
		if req.Description != nil {
			out.Description = *req.Description
		}
		if req.Category != nil {
			out.Category = *req.Category
		}
		if req.EstimatedDuration != nil {
			out.EstimatedDuration = *req.EstimatedDuration
		}
		return out
	})
}

// Delete removes an assessment and evicts it from the cache.
func (s *AssessmentService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrAssessmentNotFound
		}
		return fmt.Errorf("delete assessment: %w", err)
	}
	s.rdb.Del(ctx, config.CacheKey.AssessmentDocKey(id.String()))
	s.log.Info().Str("assessment_id", id.String()).Msg("Assessment deleted")
	return nil
}

// List retrieves assessment summaries with pagination.
func (s *AssessmentService) List(ctx context.Context, page, perPage int, search string) ([]model.AssessmentSummary, *response.Pagination, error) {
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

	items, total, err := s.repo.ListPaginated(ctx, limit, offset, search)
	if err != nil {
		return nil, nil, err
	}
	if items == nil {
		items = []model.AssessmentSummary{}
	}

	totalPages := (total + perPage - 1) / perPage

	pagination := &response.Pagination{
		Page:       page,
		PerPage:    perPage,
		TotalItems: total,
		TotalPages: totalPages,
	}

	return items, pagination, nil
}

// PrewarmCache loads all stored assessments into Redis on application
// startup, so the first editor load never races a cold cache.
func (s *AssessmentService) PrewarmCache(ctx context.Context) error {
	docs, err := s.repo.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("list assessments: %w", err)
	}

	if len(docs) == 0 {
		s.log.Info().Msg("No assessments to prewarm")
		return nil
	}

	pipe := s.rdb.Pipeline()
	for id, doc := range docs {
		raw, err := json.Marshal(doc)
		if err != nil {
			s.log.Warn().Err(err).Str("assessment_id", id.String()).Msg("Skipping unencodable document")
			continue
		}
		pipe.Set(ctx, config.CacheKey.AssessmentDocKey(id.String()), raw, 0)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("cache to redis: %w", err)
	}

	s.log.Info().Int("count", len(docs)).Msg("Prewarming complete")
	return nil
}

// cacheDocument stores the wire form in Redis. Cache failures are logged,
// never fatal: the database remains the source of truth.
func (s *AssessmentService) cacheDocument(ctx context.Context, id uuid.UUID, doc *model.Document) {
	raw, err := json.Marshal(doc)
	if err != nil {
		s.log.Warn().Err(err).Msg("Encode document for cache failed")
		return
	}
	if err := s.rdb.Set(ctx, config.CacheKey.AssessmentDocKey(id.String()), raw, 0).Err(); err != nil {
		s.log.Warn().Err(err).Str("assessment_id", id.String()).Msg("Cache write failed")
	}
}
