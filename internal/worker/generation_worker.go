package worker

// generation_worker.go
// Processes garden redesign jobs from QueueGeneration: runs the full
// image-generation + bill-of-materials pipeline via the garden service, with
// exponential backoff inside the job and scheduled re-attempts (retry_cron)
// across jobs.

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/NuttWarunyu/PlantPick-Backend/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// MaxGenerationRetries bounds scheduled re-attempts before a request is
// parked in the DLQ.
const MaxGenerationRetries = 3

// GenerationJobPayload is the job envelope sent to QueueGeneration.
type GenerationJobPayload struct {
	RequestID string `json:"request_id"`
}

// GenerationProcessor runs the redesign pipeline for one claimed request.
// Implemented by the garden service.
type GenerationProcessor interface {
	ProcessRequest(ctx context.Context, requestID uuid.UUID) error
}

// GenerationWorker processes redesign jobs from QueueGeneration.
type GenerationWorker struct {
	processor   GenerationProcessor
	requestRepo repository.RequestRepository
	rdb         *redis.Client
}

func NewGenerationWorker(processor GenerationProcessor, requestRepo repository.RequestRepository, rdb *redis.Client) *GenerationWorker {
	return &GenerationWorker{processor: processor, requestRepo: requestRepo, rdb: rdb}
}

// Process handles a single generation job:
//  1. Parse GenerationJobPayload from the job envelope
//  2. Run the pipeline with exponential backoff (max 3 in-job attempts)
//  3. On final failure, mark the request failed and either schedule a
//     re-attempt via retry_cron or park it in the DLQ
func (w *GenerationWorker) Process(ctx context.Context, raw json.RawMessage) {
	var payload GenerationJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("generation_worker: invalid payload")
		return
	}

	requestID, err := uuid.Parse(payload.RequestID)
	if err != nil {
		log.Error().Str("request_id", payload.RequestID).Msg("generation_worker: invalid request_id")
		return
	}

	jobErr := withRetry(ctx, 3, func(attempt int) error {
		if err := w.processor.ProcessRequest(ctx, requestID); err != nil {
			log.Warn().
				Err(err).
				Int("attempt", attempt+1).
				Str("request_id", payload.RequestID).
				Msg("generation_worker: attempt failed, retrying")
			return err
		}
		return nil
	})
	if jobErr == nil {
		log.Info().Str("request_id", payload.RequestID).Msg("generation_worker: request completed")
		return
	}

	log.Error().Err(jobErr).Str("request_id", payload.RequestID).Msg("generation_worker: pipeline failed after all attempts")

	req, err := w.requestRepo.FindByID(ctx, requestID)
	if err != nil {
		log.Error().Err(err).Str("request_id", payload.RequestID).Msg("generation_worker: request not found")
		return
	}

	if req.RetryCount+1 >= MaxGenerationRetries {
		// Exhausted — park in DLQ, no further retries
		if err := w.requestRepo.MarkFailed(ctx, requestID, jobErr.Error(), nil); err != nil {
			log.Error().Err(err).Str("request_id", payload.RequestID).Msg("generation_worker: mark failed")
		}
		SendToDLQ(ctx, w.rdb, QueueGeneration, "generation", raw,
			fmt.Sprintf("max retries (%d) exceeded: %s", MaxGenerationRetries, jobErr),
			req.RetryCount+1)
		return
	}

	nextRetry := time.Now().Add(computeRetryBackoff(req.RetryCount + 1))
	if err := w.requestRepo.MarkFailed(ctx, requestID, jobErr.Error(), &nextRetry); err != nil {
		log.Error().Err(err).Str("request_id", payload.RequestID).Msg("generation_worker: mark failed")
		return
	}
	log.Warn().
		Str("request_id", payload.RequestID).
		Time("next_retry_at", nextRetry).
		Msg("generation_worker: scheduled re-attempt")
}

// withRetry calls fn up to maxAttempts times with exponential backoff.
// Backoff schedule: attempt 1 = immediate, 2 = 1s, 3 = 2s.
// Returns nil if any attempt succeeds; last error otherwise.
func withRetry(ctx context.Context, maxAttempts int, fn func(attempt int) error) error {
	var lastErr error
	for i := 0; i < maxAttempts; i++ {
		if i > 0 {
			// 1s, 2s … (exponential backoff)
			wait := time.Duration(1<<uint(i-1)) * time.Second
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}
		}
		if err := fn(i); err != nil {
			lastErr = err
			continue
		}
		return nil
	}
	return lastErr
}

// computeRetryBackoff spaces scheduled re-attempts: 1m, 2m, 4m …
func computeRetryBackoff(retryCount int) time.Duration {
	if retryCount < 1 {
		retryCount = 1
	}
	return time.Duration(1<<uint(retryCount-1)) * time.Minute
}
