package product

import (
	"time"

	"github.com/frahmantamala/project-expenses/internal/core/money"
)

type Product struct {
	ID          int64        `gorm:"primaryKey;column:id"`
	Name        string       `gorm:"column:name;not null"`
	Description string       `gorm:"column:description"`
	Price       money.Amount `gorm:"column:price;type:numeric(12,2);not null"`
	Stock       int          `gorm:"column:stock;not null;default:0"`
	Category    string       `gorm:"column:category;index"`
	SKU         string       `gorm:"column:sku;uniqueIndex;not null"`
	Active      bool         `gorm:"column:active;not null"`
	CreatedAt   time.Time    `gorm:"column:created_at;autoCreateTime:false"`
	UpdatedAt   time.Time    `gorm:"column:updated_at;autoUpdateTime:false"`
}

func (Product) TableName() string {
	return "products"
}
