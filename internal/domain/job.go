package domain

import "time"

// JobStatus represents the status of a generation job.
// A row moves pending → processing → completed|failed; terminal states are
// final and failed jobs are only ever re-enqueued as new rows.
type JobStatus string

const (
	JobStatusPending    JobStatus = "pending"
	JobStatusProcessing JobStatus = "processing"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusFailed     JobStatus = "failed"
)

// JobAction enumerates the content-generation actions a job can carry.
type JobAction string

const (
	ActionComplete          JobAction = "complete"
	ActionLongDescriptions  JobAction = "long_descriptions"
	ActionShortDescriptions JobAction = "short_descriptions"
	ActionAltImages         JobAction = "alt_images"
	ActionInternalLinking   JobAction = "internal_linking"
	ActionTranslate         JobAction = "translate"
)

// GenerationJob is one queued unit of content-generation work for a product.
type GenerationJob struct {
	ID                    string     `gorm:"type:text;primaryKey" json:"id"`
	ShopID                string     `gorm:"type:text;not null;index:idx_generation_jobs_shop" json:"shop_id"`
	ProductID             string     `gorm:"type:text;not null;index" json:"product_id"`
	Action                JobAction  `gorm:"type:text;not null" json:"action"`
	Status                JobStatus  `gorm:"type:text;index:idx_generation_jobs_status;default:pending" json:"status"`
	Language              string     `gorm:"type:text;default:fr" json:"language"`
	PreserveInternalLinks bool       `gorm:"default:false" json:"preserve_internal_links"`
	ErrorMessage          string     `gorm:"type:text" json:"error_message,omitempty"`
	CreatedBy             string     `gorm:"type:text" json:"created_by"`
	CreatedAt             time.Time  `json:"created_at"`
	StartedAt             *time.Time `json:"started_at,omitempty"`
	CompletedAt           *time.Time `json:"completed_at,omitempty"`
}

// TableName returns the database table name for GenerationJob.
func (GenerationJob) TableName() string {
	return "generation_jobs"
}
