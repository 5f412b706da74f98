package domain

import "time"

// Shop represents one connected e-commerce store (tenant).
type Shop struct {
	ID             string    `gorm:"type:text;primaryKey" json:"id"`
	Name           string    `gorm:"type:text;not null" json:"name"`
	Platform       string    `gorm:"type:text;default:woocommerce" json:"platform"`
	URL            string    `gorm:"type:text;not null" json:"url"`
	ConsumerKey    string    `gorm:"type:text" json:"-"`
	ConsumerSecret string    `gorm:"type:text" json:"-"`
	Language       string    `gorm:"type:text;default:fr" json:"language"`
	OwnerID        string    `gorm:"type:text;index" json:"owner_id"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// TableName returns the database table name for Shop.
func (Shop) TableName() string {
	return "shops"
}
