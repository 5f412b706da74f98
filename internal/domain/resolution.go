package domain

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// ItemResult records the outcome of one remediated affected item.
type ItemResult struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Message string `json:"message,omitempty"`
}

// ItemResultList stores per-item outcomes as a JSON column.
type ItemResultList []ItemResult

// Value implements the driver.Valuer interface for database serialization.
func (l ItemResultList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements the sql.Scanner interface for database deserialization.
func (l *ItemResultList) Scan(value interface{}) error {
	if value == nil {
		*l = ItemResultList{}
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		str, ok := value.(string)
		if !ok {
			return errors.New("failed to scan ItemResultList")
		}
		bytes = []byte(str)
	}
	return json.Unmarshal(bytes, l)
}

// ResolutionRun tracks one issue-resolution pass over affected items.
// Progress and per-item outcomes are rewritten after every processed item so
// a polling client sees near-real-time state; HeartbeatAt lets an external
// watchdog spot a stalled run.
type ResolutionRun struct {
	ID           string         `gorm:"type:text;primaryKey" json:"id"`
	ShopID       string         `gorm:"type:text;not null;index:idx_resolution_runs_shop" json:"shop_id"`
	DiagnosticID string         `gorm:"type:text;index" json:"diagnostic_id"`
	Category     string         `gorm:"type:text;not null" json:"category"`
	Status       RunStatus      `gorm:"type:text;index;default:pending" json:"status"`
	Progress     int            `json:"progress"`
	CurrentItem  string         `gorm:"type:text" json:"current_item"`
	TotalItems   int            `json:"total_items"`
	Success      ItemResultList `gorm:"type:text" json:"success"`
	Failed       ItemResultList `gorm:"type:text" json:"failed"`
	Skipped      ItemResultList `gorm:"type:text" json:"skipped"`
	ErrorMessage string         `gorm:"type:text" json:"error_message,omitempty"`
	HeartbeatAt  time.Time      `json:"heartbeat_at"`
	CreatedAt    time.Time      `json:"created_at"`
	CompletedAt  *time.Time     `json:"completed_at,omitempty"`
}

// TableName returns the database table name for ResolutionRun.
func (ResolutionRun) TableName() string {
	return "resolution_runs"
}
