package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/talentflow/talentflow-backend/internal/config"
	"github.com/talentflow/talentflow-backend/internal/repository"
)

const (
	SubmissionBatchSize    = 50
	SubmissionBatchTimeout = 2 * time.Second
	SubmissionPollTimeout  = 1 * time.Second
)

// submissionStore is the subset of repository.SubmissionRepository the
// worker writes through.
type submissionStore interface {
	Insert(ctx context.Context, rec *repository.SubmissionRecord) error
	BulkInsert(ctx context.Context, batch []*repository.SubmissionRecord) error
}

// SubmissionWorker consumes persist_submissions_queue and batch-inserts
// accepted submissions into PostgreSQL.
type SubmissionWorker struct {
	store submissionStore
	rdb   *redis.Client
	log   zerolog.Logger
}

// NewSubmissionWorker creates a new SubmissionWorker.
func NewSubmissionWorker(store submissionStore, rdb *redis.Client, log zerolog.Logger) *SubmissionWorker {
	return &SubmissionWorker{
		store: store,
		rdb:   rdb,
		log:   log.With().Str("component", "submission_worker").Logger(),
	}
}

type submissionPayload struct {
	SubmissionID string          `json:"submission_id"`
	AssessmentID string          `json:"assessment_id"`
	Responses    json.RawMessage `json:"responses"`
	SubmittedAt  time.Time       `json:"submitted_at"`
}

// pendingSubmission pairs a parsed record with the original queue bytes,
// so a failed insert requeues exactly what was dequeued.
type pendingSubmission struct {
	raw string
	rec *repository.SubmissionRecord
}

// parseSubmission decodes and validates a queue item. Malformed items are
// rejected here, at dequeue time, and never enter a batch.
func parseSubmission(raw string) (*repository.SubmissionRecord, error) {
	var p submissionPayload
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return nil, fmt.Errorf("decode payload: %w", err)
	}
	id, err := uuid.Parse(p.SubmissionID)
	if err != nil {
		return nil, fmt.Errorf("parse submission id: %w", err)
	}
	assessmentID, err := uuid.Parse(p.AssessmentID)
	if err != nil {
		return nil, fmt.Errorf("parse assessment id: %w", err)
	}
	return &repository.SubmissionRecord{
		ID:           id,
		AssessmentID: assessmentID,
		Responses:    p.Responses,
		SubmittedAt:  p.SubmittedAt,
	}, nil
}

// ----------------------------------------------------------------
// Worker loop with batching
// ----------------------------------------------------------------

// Start begins the worker loop. Call in a goroutine; cancel the context to
// stop. Remaining items are flushed on shutdown.
func (w *SubmissionWorker) Start(ctx context.Context) {
	w.log.Info().Msg("SubmissionWorker started")

	batch := make([]pendingSubmission, 0, SubmissionBatchSize)
	lastFlush := time.Now()

	for {
		// Should flush?
		if len(batch) > 0 &&
			(len(batch) >= SubmissionBatchSize || time.Since(lastFlush) >= SubmissionBatchTimeout) {

			w.flushSafe(ctx, batch)
			batch = batch[:0]
			lastFlush = time.Now()
		}

		select {
		case <-ctx.Done():
			w.log.Info().Msg("Shutdown requested. Flushing remaining batch...")
			w.flushSafe(context.Background(), batch)
			return

		default:
			item, err := w.rdb.BLPop(ctx, SubmissionPollTimeout, config.WorkerKey.PersistSubmissionsQueue).Result()
			if err != nil {
				if err != redis.Nil && ctx.Err() == nil {
					w.log.Error().Err(err).Msg("BLPop error")
				}
				continue
			}

			if len(item) < 2 {
				continue
			}

			rec, err := parseSubmission(item[1])
			if err != nil {
				w.log.Error().Err(err).Msg("Dropping malformed submission payload")
				continue
			}

			batch = append(batch, pendingSubmission{raw: item[1], rec: rec})
		}
	}
}

// ----------------------------------------------------------------
// Batch insert wrapper
// ----------------------------------------------------------------

func (w *SubmissionWorker) flushSafe(ctx context.Context, batch []pendingSubmission) {
	if len(batch) == 0 {
		return
	}

	records := make([]*repository.SubmissionRecord, len(batch))
	for i, p := range batch {
		records[i] = p.rec
	}

	if err := w.store.BulkInsert(ctx, records); err != nil {
		w.log.Warn().Err(err).Msg("bulk submission insert failed, using fallback")

		for _, p := range batch {
			if err := w.store.Insert(ctx, p.rec); err != nil {
				w.log.Error().Err(err).Msg("single insert failed — requeueing")
				w.rdb.RPush(ctx, config.WorkerKey.PersistSubmissionsQueue, p.raw)
			}
		}
		return
	}

	w.log.Debug().Int("count", len(records)).Msg("Batch persisted")
}
