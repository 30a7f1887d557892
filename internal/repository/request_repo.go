package repository

import (
	"context"
	"time"

	"github.com/NuttWarunyu/PlantPick-Backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RequestRepository defines the data access contract for redesign jobs.
type RequestRepository interface {
	Create(ctx context.Context, req *model.GardenRequest) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.GardenRequest, error)
	Update(ctx context.Context, req *model.GardenRequest) error

	// MarkProcessing transitions pending → processing; it reports false when
	// the row was already claimed by another worker.
	MarkProcessing(ctx context.Context, id uuid.UUID) (bool, error)
	MarkCompleted(ctx context.Context, id, historyID uuid.UUID) error
	MarkFailed(ctx context.Context, id uuid.UUID, cause string, nextRetryAt *time.Time) error

	// ListPendingRetries returns failed jobs whose next_retry_at has passed.
	ListPendingRetries(ctx context.Context, limit int) ([]model.GardenRequest, error)

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type requestRepo struct{ db *gorm.DB }

func NewRequestRepository(db *gorm.DB) RequestRepository { return &requestRepo{db: db} }

func (r *requestRepo) Create(ctx context.Context, req *model.GardenRequest) error {
	return r.db.WithContext(ctx).Create(req).Error
}

func (r *requestRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.GardenRequest, error) {
	var req model.GardenRequest
	err := r.db.WithContext(ctx).First(&req, id).Error
	return &req, err
}

func (r *requestRepo) Update(ctx context.Context, req *model.GardenRequest) error {
	return r.db.WithContext(ctx).Save(req).Error
}

func (r *requestRepo) MarkProcessing(ctx context.Context, id uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.GardenRequest{}).
		Where("id = ? AND status IN ('pending', 'failed')", id).
		Update("status", "processing")
	return res.RowsAffected > 0, res.Error
}

func (r *requestRepo) MarkCompleted(ctx context.Context, id, historyID uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.GardenRequest{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     "completed",
			"history_id": historyID,
			"last_error": nil,
		}).Error
}

func (r *requestRepo) MarkFailed(ctx context.Context, id uuid.UUID, cause string, nextRetryAt *time.Time) error {
	return r.db.WithContext(ctx).Model(&model.GardenRequest{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":        "failed",
			"last_error":    cause,
			"retry_count":   gorm.Expr("retry_count + 1"),
			"next_retry_at": nextRetryAt,
		}).Error
}

func (r *requestRepo) ListPendingRetries(ctx context.Context, limit int) ([]model.GardenRequest, error) {
	var reqs []model.GardenRequest
	err := r.db.WithContext(ctx).
		Where("status = 'failed' AND next_retry_at IS NOT NULL AND next_retry_at <= ?", time.Now()).
		Order("next_retry_at ASC").Limit(limit).Find(&reqs).Error
	return reqs, err
}

func (r *requestRepo) DB() *gorm.DB { return r.db }
