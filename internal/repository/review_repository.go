package repository

import (
	"context"
	"fmt"

	"bookreview/internal/models"

	"gorm.io/gorm"
)

type ReviewRepository interface {
	Create(ctx context.Context, review *models.Review) error
	GetByID(ctx context.Context, id int64) (*models.Review, error)
	ListByBook(ctx context.Context, bookID int64) ([]models.Review, error)
	Aggregate(ctx context.Context, bookID int64) (avg float64, count int64, err error)
}

type reviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

// Create inserts the review. A second review for the same (user, book)
// pair trips the uq_reviews_user_book index; callers detect that with
// IsDuplicateKey. There is deliberately no find-then-insert here.
func (r *reviewRepository) Create(ctx context.Context, review *models.Review) error {
	return r.db.WithContext(ctx).Create(review).Error
}

func (r *reviewRepository) GetByID(ctx context.Context, id int64) (*models.Review, error) {
	var review models.Review
	if err := r.db.WithContext(ctx).
		Preload("User").
		First(&review, id).Error; err != nil {
		return nil, err
	}
	return &review, nil
}

// ListByBook returns all reviews for a book, newest first, with the
// reviewer loaded for the display-name join.
func (r *reviewRepository) ListByBook(ctx context.Context, bookID int64) ([]models.Review, error) {
	var reviews []models.Review
	if err := r.db.WithContext(ctx).
		Where("book_id = ?", bookID).
		Preload("User").
		Order("created_at DESC").
		Find(&reviews).Error; err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	return reviews, nil
}

// Aggregate computes the average rating and review count for a book in one
// query. Zero reviews yields 0/0.
func (r *reviewRepository) Aggregate(ctx context.Context, bookID int64) (float64, int64, error) {
	var agg struct {
		Average float64
		Total   int64
	}

	err := r.db.WithContext(ctx).Model(&models.Review{}).
		Select("COALESCE(AVG(rating), 0) as average, COUNT(*) as total").
		Where("book_id = ?", bookID).
		Scan(&agg).Error
	if err != nil {
		return 0, 0, err
	}

	return agg.Average, agg.Total, nil
}
