package repository

import (
	"context"

	"github.com/ybertrand/shopseo/internal/domain"
	"gorm.io/gorm"
)

// DiagnosticRepository handles diagnostic run data operations.
type DiagnosticRepository struct {
	db *gorm.DB
}

// NewDiagnosticRepository creates a new DiagnosticRepository.
func NewDiagnosticRepository(db *gorm.DB) *DiagnosticRepository {
	return &DiagnosticRepository{db: db}
}

// Create inserts a new diagnostic run.
func (r *DiagnosticRepository) Create(ctx context.Context, run *domain.DiagnosticRun) error {
	return r.db.WithContext(ctx).Create(run).Error
}

// Update persists the run's current fields. Runs are written once at
// completion; history is never deleted.
func (r *DiagnosticRepository) Update(ctx context.Context, run *domain.DiagnosticRun) error {
	return r.db.WithContext(ctx).Save(run).Error
}

// GetByID retrieves a diagnostic run by its ID.
func (r *DiagnosticRepository) GetByID(ctx context.Context, id string) (*domain.DiagnosticRun, error) {
	var run domain.DiagnosticRun
	if err := r.db.WithContext(ctx).First(&run, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &run, nil
}

// ListByShop retrieves a shop's diagnostic history, newest first.
func (r *DiagnosticRepository) ListByShop(ctx context.Context, shopID string, limit int) ([]domain.DiagnosticRun, error) {
	var runs []domain.DiagnosticRun
	if err := r.db.WithContext(ctx).
		Where("shop_id = ?", shopID).
		Order("created_at DESC").
		Limit(limit).
		Find(&runs).Error; err != nil {
		return nil, err
	}
	return runs, nil
}
