package model

import (
	"time"

	"github.com/google/uuid"
)

// ProductModel mirrors the 'products' table. Images and reviews are owned
// rows that cascade at the database level when the product is deleted.
type ProductModel struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	Name          string    `gorm:"type:varchar(255);not null"`
	Slug          string    `gorm:"type:varchar(280);unique;not null"`
	Description   string    `gorm:"type:text"`
	Price         int64     `gorm:"not null"`
	DiscountPrice *int64
	IsPublished   bool      `gorm:"not null;default:false;index"`
	CategoryID    uuid.UUID `gorm:"type:uuid;not null;index"`
	CreatedAt     time.Time
	UpdatedAt     time.Time

	Category *CategoryModel      `gorm:"foreignKey:CategoryID"`
	Images   []ProductImageModel `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	Reviews  []ReviewModel       `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
}

// TableName explicitly sets the table name for GORM.
func (ProductModel) TableName() string {
	return "products"
}

// ProductImageModel mirrors the 'product_images' table. The 'position' column
// holds the explicit ordering within a product's image set; rows are deleted
// and recreated wholesale on every image update.
type ProductImageModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;index"`
	URL       string    `gorm:"type:text;not null"`
	PublicID  string    `gorm:"type:varchar(255)"`
	Position  int       `gorm:"not null;default:0"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName explicitly sets the table name for GORM.
func (ProductImageModel) TableName() string {
	return "product_images"
}
