package dto

import (
	"time"

	"bookreview/internal/models"
)

// CreateReviewDTO for submitting a review
type CreateReviewDTO struct {
	BookID  int64  `json:"book_id" binding:"required"`
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment" binding:"required"`
}

// ReviewResponse carries a review annotated with the reviewer's display
// name; the name is joined at read time, never stored on the review.
type ReviewResponse struct {
	ID        int64     `json:"id"`
	BookID    int64     `json:"book_id"`
	UserName  string    `json:"user_name"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FromModelToReviewResponse converts a Review model to ReviewResponse DTO
func FromModelToReviewResponse(review *models.Review) *ReviewResponse {
	return &ReviewResponse{
		ID:        review.ID,
		BookID:    review.BookID,
		UserName:  review.User.Name,
		Rating:    review.Rating,
		Comment:   review.Comment,
		CreatedAt: review.CreatedAt,
		UpdatedAt: review.UpdatedAt,
	}
}
