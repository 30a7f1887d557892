package worker

// retry_cron.go
// Background goroutine that periodically re-enqueues failed garden requests
// whose next_retry_at has passed. Uses the Circuit Breaker state to avoid
// hammering a downed image-generation API.

import (
	"context"
	"time"

	"github.com/NuttWarunyu/PlantPick-Backend/internal/infra"
	"github.com/NuttWarunyu/PlantPick-Backend/internal/repository"

	"github.com/rs/zerolog/log"
)

const (
	retryTickInterval = 30 * time.Second
	retryBatchSize    = 10
)

// RetryCronConfig holds all dependencies for the retry goroutine.
type RetryCronConfig struct {
	RequestRepo repository.RequestRepository
	Dispatcher  *Dispatcher
	CB          *infra.CircuitBreaker
}

// StartRetryCron launches a background goroutine that ticks every 30s,
// queries failed requests due for a re-attempt, and re-enqueues them. It
// respects the context for graceful shutdown.
func StartRetryCron(ctx context.Context, cfg RetryCronConfig) {
	go func() {
		ticker := time.NewTicker(retryTickInterval)
		defer ticker.Stop()

		log.Info().Msg("retry_cron: started")

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("retry_cron: shutting down")
				return
			case <-ticker.C:
				processRetries(ctx, cfg)
			}
		}
	}()
}

func processRetries(ctx context.Context, cfg RetryCronConfig) {
	// If CB is open, skip entirely — don't hammer a downed upstream
	if cfg.CB.State() == infra.CBOpen {
		log.Debug().Msg("retry_cron: circuit breaker is open, skipping tick")
		return
	}

	requests, err := cfg.RequestRepo.ListPendingRetries(ctx, retryBatchSize)
	if err != nil {
		log.Error().Err(err).Msg("retry_cron: failed to query pending retries")
		return
	}
	if len(requests) == 0 {
		return
	}

	log.Info().Int("count", len(requests)).Msg("retry_cron: re-enqueueing failed requests")

	for i := range requests {
		req := &requests[i]
		if err := cfg.Dispatcher.EnqueueGeneration(ctx, GenerationJobPayload{RequestID: req.ID.String()}); err != nil {
			log.Error().Err(err).Str("request_id", req.ID.String()).Msg("retry_cron: enqueue failed")
			continue
		}
		// Clear the schedule so the next tick does not double-enqueue; the
		// worker sets a new one if the attempt fails again.
		req.NextRetryAt = nil
		if err := cfg.RequestRepo.Update(ctx, req); err != nil {
			log.Error().Err(err).Str("request_id", req.ID.String()).Msg("retry_cron: update failed")
		}
	}
}
