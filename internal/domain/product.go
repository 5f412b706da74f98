package domain

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// ProductImage is one catalog image with its alt text.
type ProductImage struct {
	Src string `json:"src"`
	Alt string `json:"alt"`
}

// ImageList stores product images as a JSON column.
type ImageList []ProductImage

// Value implements the driver.Valuer interface for database serialization.
func (l ImageList) Value() (driver.Value, error) {
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
func (l *ImageList) Scan(value interface{}) error {
	if value == nil {
		*l = ImageList{}
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		str, ok := value.(string)
		if !ok {
			return errors.New("failed to scan ImageList")
		}
		bytes = []byte(str)
	}
	return json.Unmarshal(bytes, l)
}

// Product mirrors one store product used for diagnostics and generation.
type Product struct {
	ID               string    `gorm:"type:text;primaryKey" json:"id"`
	ShopID           string    `gorm:"type:text;not null;index:idx_products_shop" json:"shop_id"`
	ExternalID       int64     `gorm:"index:idx_products_external,unique;not null" json:"external_id"`
	Name             string    `gorm:"type:text;not null" json:"name"`
	Slug             string    `gorm:"type:text;index" json:"slug"`
	Description      string    `gorm:"type:text" json:"description"`
	ShortDescription string    `gorm:"type:text" json:"short_description"`
	MetaTitle        string    `gorm:"type:text" json:"meta_title"`
	MetaDescription  string    `gorm:"type:text" json:"meta_description"`
	FocusKeyword     string    `gorm:"type:text" json:"focus_keyword"`
	Category         string    `gorm:"type:text" json:"category"`
	Images           ImageList `gorm:"type:text" json:"images"`
	FeaturedImage    string    `gorm:"type:text" json:"featured_image"`
	Price            float64   `json:"price"`
	Language         string    `gorm:"type:text;default:fr" json:"language"`
	SyncedAt         time.Time `json:"synced_at"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// TableName returns the database table name for Product.
func (Product) TableName() string {
	return "products"
}
