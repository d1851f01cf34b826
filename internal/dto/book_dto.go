package dto

import (
	"time"

	"bookreview/internal/models"
)

// CreateBookDTO used for POST /api/books
type CreateBookDTO struct {
	Title           string    `json:"title" binding:"required"`
	Author          string    `json:"author" binding:"required"`
	Description     string    `json:"description" binding:"required"`
	Genre           []string  `json:"genre" binding:"required,min=1,dive,required"`
	CoverImage      string    `json:"cover_image" binding:"required"`
	ISBN            string    `json:"isbn" binding:"required"`
	PublicationDate time.Time `json:"publication_date" binding:"required"`
	Publisher       string    `json:"publisher" binding:"required"`
	PageCount       int       `json:"page_count" binding:"required,min=1"`
	Featured        *bool     `json:"featured,omitempty"`
}

// BookResponse DTO for responses
type BookResponse struct {
	ID              int64     `json:"id"`
	Title           string    `json:"title"`
	Author          string    `json:"author"`
	Description     string    `json:"description"`
	Genre           []string  `json:"genre"`
	CoverImage      string    `json:"cover_image"`
	ISBN            string    `json:"isbn"`
	PublicationDate time.Time `json:"publication_date"`
	Publisher       string    `json:"publisher"`
	PageCount       int       `json:"page_count"`
	Featured        bool      `json:"featured"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// BookListResponse is one catalog page plus the totals.
type BookListResponse struct {
	Books []BookResponse `json:"books"`
	Page  int            `json:"page"`
	Pages int            `json:"pages"`
	Total int64          `json:"total"`
}

// Converters
func (d CreateBookDTO) ToModel() models.Book {
	featured := false
	if d.Featured != nil {
		featured = *d.Featured
	}
	return models.Book{
		Title:           d.Title,
		Author:          d.Author,
		Description:     d.Description,
		Genre:           d.Genre,
		CoverImage:      d.CoverImage,
		ISBN:            d.ISBN,
		PublicationDate: d.PublicationDate,
		Publisher:       d.Publisher,
		PageCount:       d.PageCount,
		Featured:        featured,
	}
}

func FromModelToBookResponse(b models.Book) BookResponse {
	return BookResponse{
		ID:              b.ID,
		Title:           b.Title,
		Author:          b.Author,
		Description:     b.Description,
		Genre:           b.Genre,
		CoverImage:      b.CoverImage,
		ISBN:            b.ISBN,
		PublicationDate: b.PublicationDate,
		Publisher:       b.Publisher,
		PageCount:       b.PageCount,
		Featured:        b.Featured,
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}
}
