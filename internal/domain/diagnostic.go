package domain

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// IssueSeverity classifies one diagnostic finding.
type IssueSeverity string

const (
	SeverityError   IssueSeverity = "error"
	SeverityWarning IssueSeverity = "warning"
	SeverityInfo    IssueSeverity = "info"
	SeveritySuccess IssueSeverity = "success"
)

// Issue categories are user-facing French labels; the UI keys off them.
const (
	CategoryImages         = "Images"
	CategoryContent        = "Contenu"
	CategorySEO            = "SEO"
	CategoryInternalLinks  = "Maillage interne"
	CategoryStructure      = "Structure"
	CategoryPerformance    = "Performance"
	CategoryStructuredData = "Données structurées"
)

// AffectedItem references one catalog item impacted by an issue.
type AffectedItem struct {
	ID   string `json:"id"`
	Type string `json:"type"` // product, collection, blog
	Name string `json:"name"`
}

// Issue is one weighted finding within a DiagnosticRun.
type Issue struct {
	Category        string         `json:"category"`
	Severity        IssueSeverity  `json:"severity"`
	Title           string         `json:"title"`
	Description     string         `json:"description"`
	Recommendation  string         `json:"recommendation"`
	AffectedItems   []AffectedItem `json:"affected_items"`
	ActionAvailable bool           `json:"action_available"`
	MaxPoints       int            `json:"maxPoints"`
	EarnedPoints    int            `json:"earnedPoints"`
}

// ScoreImprovement returns the points recoverable by resolving the issue.
func (i Issue) ScoreImprovement() int {
	return i.MaxPoints - i.EarnedPoints
}

// IssueList stores a run's issues as a JSON column.
type IssueList []Issue

// Value implements the driver.Valuer interface for database serialization.
func (l IssueList) Value() (driver.Value, error) {
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
func (l *IssueList) Scan(value interface{}) error {
	if value == nil {
		*l = IssueList{}
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		str, ok := value.(string)
		if !ok {
			return errors.New("failed to scan IssueList")
		}
		bytes = []byte(str)
	}
	return json.Unmarshal(bytes, l)
}

// RunStatus represents the lifecycle of a diagnostic or resolution run.
type RunStatus string

const (
	RunStatusPending   RunStatus = "pending"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

// DiagnosticRun is one scoring pass over a shop's catalog. Runs are kept
// forever; completed runs are immutable apart from manual-resolution notes.
type DiagnosticRun struct {
	ID           string    `gorm:"type:text;primaryKey" json:"id"`
	ShopID       string    `gorm:"type:text;not null;index:idx_diagnostic_runs_shop" json:"shop_id"`
	Score        int       `json:"score"`
	ErrorCount   int       `json:"error_count"`
	WarningCount int       `json:"warning_count"`
	InfoCount    int       `json:"info_count"`
	Issues       IssueList `gorm:"type:text" json:"issues"`
	Status       RunStatus `gorm:"type:text;index;default:pending" json:"status"`
	ErrorMessage string    `gorm:"type:text" json:"error_message,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
}

// TableName returns the database table name for DiagnosticRun.
func (DiagnosticRun) TableName() string {
	return "diagnostic_runs"
}
