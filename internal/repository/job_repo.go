package repository

import (
	"context"
	"time"

	"github.com/ybertrand/shopseo/internal/domain"
	"gorm.io/gorm"
)

// JobRepository handles generation job data operations.
type JobRepository struct {
	db *gorm.DB
}

// NewJobRepository creates a new JobRepository.
func NewJobRepository(db *gorm.DB) *JobRepository {
	return &JobRepository{db: db}
}

// CreateBatch inserts a set of jobs in one statement.
func (r *JobRepository) CreateBatch(ctx context.Context, jobs []domain.GenerationJob) error {
	if len(jobs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&jobs).Error
}

// GetByID retrieves a job by its ID.
func (r *JobRepository) GetByID(ctx context.Context, id string) (*domain.GenerationJob, error) {
	var job domain.GenerationJob
	if err := r.db.WithContext(ctx).First(&job, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &job, nil
}

// ListPending returns up to limit pending jobs, oldest first. Claiming is a
// read followed by a status write: two overlapping dispatcher ticks can both
// see the same row. The race is accepted; jobs are safe to re-run.
func (r *JobRepository) ListPending(ctx context.Context, limit int) ([]domain.GenerationJob, error) {
	var jobs []domain.GenerationJob
	if err := r.db.WithContext(ctx).
		Where("status = ?", domain.JobStatusPending).
		Order("created_at ASC").
		Limit(limit).
		Find(&jobs).Error; err != nil {
		return nil, err
	}
	return jobs, nil
}

// ListByShop retrieves jobs of one shop, newest first.
func (r *JobRepository) ListByShop(ctx context.Context, shopID string, limit, offset int) ([]domain.GenerationJob, error) {
	var jobs []domain.GenerationJob
	if err := r.db.WithContext(ctx).
		Where("shop_id = ?", shopID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&jobs).Error; err != nil {
		return nil, err
	}
	return jobs, nil
}

// MarkProcessing flips a job to processing and records the start time.
func (r *JobRepository) MarkProcessing(ctx context.Context, id string) error {
	now := time.Now()
	return r.db.WithContext(ctx).
		Model(&domain.GenerationJob{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     domain.JobStatusProcessing,
			"started_at": &now,
		}).Error
}

// MarkCompleted records a successful terminal state.
func (r *JobRepository) MarkCompleted(ctx context.Context, id string) error {
	now := time.Now()
	return r.db.WithContext(ctx).
		Model(&domain.GenerationJob{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":        domain.JobStatusCompleted,
			"completed_at":  &now,
			"error_message": "",
		}).Error
}

// MarkFailed records a failed terminal state with the error text.
func (r *JobRepository) MarkFailed(ctx context.Context, id string, errMsg string) error {
	now := time.Now()
	return r.db.WithContext(ctx).
		Model(&domain.GenerationJob{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":        domain.JobStatusFailed,
			"completed_at":  &now,
			"error_message": errMsg,
		}).Error
}
