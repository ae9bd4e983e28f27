// Package entity defines the domain entities for the tasks feature.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// DefaultPriority is the lowest urgency. Priorities run from 1 (high) to 3 (low).
const DefaultPriority = 3

// Task is a unit of work owned by exactly one user.
type Task struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey"`

	// UserID is the owner. It never changes after creation.
	UserID uuid.UUID `gorm:"type:uuid;not null;index:idx_tasks_user_created,priority:1"`

	Title       string `gorm:"size:255;not null"`
	Description string `gorm:"type:text;not null"`
	Completed   bool   `gorm:"not null"`
	Priority    int    `gorm:"not null"`

	// DueDate is optional.
	DueDate *time.Time

	// タイムスタンプはusecaseが設定する。GORMの自動更新は無効
	CreatedAt time.Time `gorm:"not null;autoCreateTime:false;index:idx_tasks_user_created,priority:2,sort:desc"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime:false"`
}

// TableName returns the table name for GORM.
func (Task) TableName() string {
	return "tasks"
}
