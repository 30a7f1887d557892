package repository

import (
	"context"

	"github.com/NuttWarunyu/PlantPick-Backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// HistoryRepository defines the data access contract for completed
// generations and their bill-of-materials rows.
type HistoryRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.GenerationHistory, error)
	ListByClientIP(ctx context.Context, clientIP string, limit int) ([]model.GenerationHistory, error)
	Update(ctx context.Context, h *model.GenerationHistory) error

	// Used inside transactions — callers must pass the tx instance. A history
	// and its detail rows are always written together.
	CreateTx(tx *gorm.DB, h *model.GenerationHistory) error
	CreateDetailsTx(tx *gorm.DB, details []model.BOMDetail) error

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type historyRepo struct{ db *gorm.DB }

func NewHistoryRepository(db *gorm.DB) HistoryRepository { return &historyRepo{db: db} }

func (r *historyRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.GenerationHistory, error) {
	var h model.GenerationHistory
	err := r.db.WithContext(ctx).Preload("Details").First(&h, id).Error
	return &h, err
}

func (r *historyRepo) ListByClientIP(ctx context.Context, clientIP string, limit int) ([]model.GenerationHistory, error) {
	var histories []model.GenerationHistory
	err := r.db.WithContext(ctx).Where("client_ip = ?", clientIP).
		Order("created_at DESC").Limit(limit).Find(&histories).Error
	return histories, err
}

func (r *historyRepo) Update(ctx context.Context, h *model.GenerationHistory) error {
	return r.db.WithContext(ctx).Save(h).Error
}

func (r *historyRepo) CreateTx(tx *gorm.DB, h *model.GenerationHistory) error {
	return tx.Create(h).Error
}

func (r *historyRepo) CreateDetailsTx(tx *gorm.DB, details []model.BOMDetail) error {
	if len(details) == 0 {
		return nil
	}
	return tx.Create(&details).Error
}

func (r *historyRepo) DB() *gorm.DB { return r.db }
