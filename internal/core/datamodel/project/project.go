package project

import (
	"time"

	"github.com/frahmantamala/project-expenses/internal/core/money"
)

type Project struct {
	ID          string       `gorm:"primaryKey;column:id"`
	Name        string       `gorm:"column:name;not null"`
	Description string       `gorm:"column:description"`
	ClientName  string       `gorm:"column:client_name"`
	ClientEmail string       `gorm:"column:client_email"`
	Status      string       `gorm:"column:status"`
	Category    string       `gorm:"column:category"`
	StartDate   *time.Time   `gorm:"column:start_date"`
	EndDate     *time.Time   `gorm:"column:end_date"`
	Budget      money.Amount `gorm:"column:budget;type:numeric(14,2)"`
	UserID      string       `gorm:"column:user_id;not null;index"`
	CreatedAt   time.Time    `gorm:"column:created_at;autoCreateTime:false"`
	UpdatedAt   time.Time    `gorm:"column:updated_at;autoUpdateTime:false"`
}

func (Project) TableName() string {
	return "projects"
}
