package models

import (
	"time"

	"gorm.io/gorm"
)

// Course is only read for its title; the course catalogue is owned elsewhere.
type Course struct {
	ID         string `json:"id" gorm:"primaryKey;size:36"`
	Title      string `json:"title" gorm:"not null;size:200"`
	EducatorID string `json:"educator_id" gorm:"index;size:255"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (Course) TableName() string {
	return "courses"
}
