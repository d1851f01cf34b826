package service

import (
	"context"
	"errors"
	"strings"

	"bookreview/internal/models"
	"bookreview/internal/repository"

	"gorm.io/gorm"
)

var (
	ErrAlreadyReviewed = errors.New("you have already reviewed this book")
	ErrInvalidRating   = errors.New("rating must be between 1 and 5")
	ErrCommentRequired = errors.New("comment is required")
)

// RatingSummary is the aggregate over a book's reviews. A book with no
// reviews has Average 0 and Count 0; callers must treat Count 0 specially
// rather than rendering a zero-star rating.
type RatingSummary struct {
	Average float64 `json:"average_rating"`
	Count   int64   `json:"review_count"`
}

type ReviewService interface {
	Submit(ctx context.Context, userID string, bookID int64, rating int, comment string) (*models.Review, error)
	ListForBook(ctx context.Context, bookID int64) ([]models.Review, error)
	Aggregate(ctx context.Context, bookID int64) (RatingSummary, error)
}

type reviewService struct {
	reviewRepo repository.ReviewRepository
	bookRepo   repository.BookRepository
}

func NewReviewService(reviewRepo repository.ReviewRepository, bookRepo repository.BookRepository) ReviewService {
	return &reviewService{
		reviewRepo: reviewRepo,
		bookRepo:   bookRepo,
	}
}

// Submit creates the acting user's review of a book. Uniqueness of the
// (user, book) pair is enforced by the store's unique index, so two
// concurrent submissions cannot both succeed; the loser gets
// ErrAlreadyReviewed.
func (s *reviewService) Submit(ctx context.Context, userID string, bookID int64, rating int, comment string) (*models.Review, error) {
	if rating < 1 || rating > 5 {
		return nil, ErrInvalidRating
	}
	if strings.TrimSpace(comment) == "" {
		return nil, ErrCommentRequired
	}

	if _, err := s.bookRepo.GetByID(ctx, bookID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookNotFound
		}
		return nil, err
	}

	review := &models.Review{
		UserID:  userID,
		BookID:  bookID,
		Rating:  rating,
		Comment: comment,
	}
	if err := s.reviewRepo.Create(ctx, review); err != nil {
		if repository.IsDuplicateKey(err) {
			return nil, ErrAlreadyReviewed
		}
		return nil, err
	}

	// Reload with the reviewer attached for the display-name join.
	return s.reviewRepo.GetByID(ctx, review.ID)
}

// ListForBook returns all reviews for a book, newest first, each with the
// reviewer loaded.
func (s *reviewService) ListForBook(ctx context.Context, bookID int64) ([]models.Review, error) {
	if _, err := s.bookRepo.GetByID(ctx, bookID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookNotFound
		}
		return nil, err
	}
	return s.reviewRepo.ListByBook(ctx, bookID)
}

func (s *reviewService) Aggregate(ctx context.Context, bookID int64) (RatingSummary, error) {
	if _, err := s.bookRepo.GetByID(ctx, bookID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return RatingSummary{}, ErrBookNotFound
		}
		return RatingSummary{}, err
	}

	avg, count, err := s.reviewRepo.Aggregate(ctx, bookID)
	if err != nil {
		return RatingSummary{}, err
	}
	return RatingSummary{Average: avg, Count: count}, nil
}
