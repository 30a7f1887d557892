package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrQuotaExceeded is returned when an IP has used up its daily generations.
var ErrQuotaExceeded = errors.New("daily generation limit reached")

// QuotaService enforces the per-IP daily generation limit.
type QuotaService interface {
	// Consume takes one generation slot for the IP, or returns
	// ErrQuotaExceeded when none remain today.
	Consume(ctx context.Context, clientIP string) error
	// Remaining reports how many generations the IP has left today.
	Remaining(ctx context.Context, clientIP string) (int, error)
}

type quotaService struct {
	rdb        *redis.Client
	dailyLimit int
	// now is replaceable in tests to pin the day bucket
	now func() time.Time
}

func NewQuotaService(rdb *redis.Client, dailyLimit int) QuotaService {
	return &quotaService{rdb: rdb, dailyLimit: dailyLimit, now: time.Now}
}

// quotaKey buckets usage per IP per UTC day: quota:{ip}:{yyyy-mm-dd}.
func (s *quotaService) quotaKey(clientIP string) string {
	return fmt.Sprintf("quota:%s:%s", clientIP, s.now().UTC().Format("2006-01-02"))
}

func (s *quotaService) Consume(ctx context.Context, clientIP string) error {
	key := s.quotaKey(clientIP)

	count, err := s.rdb.Incr(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("quota: incr: %w", err)
	}
	if count == 1 {
		// First use today — expire the key at the end of the UTC day plus
		// slack so clock skew cannot drop an active bucket early.
		s.rdb.Expire(ctx, key, 25*time.Hour)
	}
	if count > int64(s.dailyLimit) {
		return ErrQuotaExceeded
	}
	return nil
}

func (s *quotaService) Remaining(ctx context.Context, clientIP string) (int, error) {
	used, err := s.rdb.Get(ctx, s.quotaKey(clientIP)).Int()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return s.dailyLimit, nil
		}
		return 0, fmt.Errorf("quota: get: %w", err)
	}
	remaining := s.dailyLimit - used
	if remaining < 0 {
		remaining = 0
	}
	return remaining, nil
}
