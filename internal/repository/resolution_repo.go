package repository

import (
	"context"
	"time"

	"github.com/ybertrand/shopseo/internal/domain"
	"gorm.io/gorm"
)

// ResolutionRepository handles resolution run data operations.
type ResolutionRepository struct {
	db *gorm.DB
}

// NewResolutionRepository creates a new ResolutionRepository.
func NewResolutionRepository(db *gorm.DB) *ResolutionRepository {
	return &ResolutionRepository{db: db}
}

// Create inserts a new resolution run.
func (r *ResolutionRepository) Create(ctx context.Context, run *domain.ResolutionRun) error {
	return r.db.WithContext(ctx).Create(run).Error
}

// Update rewrites the run's progress snapshot. Called after every processed
// item so a polling client sees near-real-time state.
func (r *ResolutionRepository) Update(ctx context.Context, run *domain.ResolutionRun) error {
	return r.db.WithContext(ctx).Save(run).Error
}

// Heartbeat stamps the run's heartbeat so a watchdog can detect a stall.
func (r *ResolutionRepository) Heartbeat(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Model(&domain.ResolutionRun{}).
		Where("id = ?", id).
		Update("heartbeat_at", time.Now()).Error
}

// GetByID retrieves a resolution run by its ID.
func (r *ResolutionRepository) GetByID(ctx context.Context, id string) (*domain.ResolutionRun, error) {
	var run domain.ResolutionRun
	if err := r.db.WithContext(ctx).First(&run, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &run, nil
}
