package models

import (
	"time"

	"github.com/lib/pq"
)

type Book struct {
	ID              int64          `json:"id" gorm:"primaryKey;autoIncrement"`
	Title           string         `json:"title" gorm:"not null"`
	Author          string         `json:"author" gorm:"not null"`
	Description     string         `json:"description" gorm:"not null;type:text"`
	Genre           pq.StringArray `json:"genre" gorm:"type:text[];not null"`
	CoverImage      string         `json:"cover_image" gorm:"not null"`
	ISBN            string         `json:"isbn" gorm:"uniqueIndex;not null"`
	PublicationDate time.Time      `json:"publication_date" gorm:"not null"`
	Publisher       string         `json:"publisher" gorm:"not null"`
	PageCount       int            `json:"page_count" gorm:"not null;check:page_count > 0"`
	Featured        bool           `json:"featured" gorm:"not null;default:false;index"`
	CreatedAt       time.Time      `json:"created_at" gorm:"autoCreateTime;index"`
	UpdatedAt       time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
}

func (Book) TableName() string {
	return "books"
}
