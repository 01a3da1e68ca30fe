package model

import (
	"time"

	"github.com/google/uuid"
)

// BannerModel mirrors the 'banners' table.
type BannerModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	Description string    `gorm:"type:text"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Images []BannerImageModel `gorm:"foreignKey:BannerID;constraint:OnDelete:CASCADE"`
}

// TableName explicitly sets the table name for GORM.
func (BannerModel) TableName() string {
	return "banners"
}

// BannerImageModel mirrors the 'banner_images' table.
type BannerImageModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	BannerID  uuid.UUID `gorm:"type:uuid;not null;index"`
	URL       string    `gorm:"type:text;not null"`
	PublicID  string    `gorm:"type:varchar(255)"`
	AltText   string    `gorm:"type:varchar(255)"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName explicitly sets the table name for GORM.
func (BannerImageModel) TableName() string {
	return "banner_images"
}
