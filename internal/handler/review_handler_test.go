package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"bookreview/internal/dto"
	"bookreview/internal/handler"
	"bookreview/internal/models"
	"bookreview/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockReviewService mocks the ReviewService interface
type MockReviewService struct {
	mock.Mock
}

func (m *MockReviewService) Submit(ctx context.Context, userID string, bookID int64, rating int, comment string) (*models.Review, error) {
	args := m.Called(ctx, userID, bookID, rating, comment)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Review), args.Error(1)
}

func (m *MockReviewService) ListForBook(ctx context.Context, bookID int64) ([]models.Review, error) {
	args := m.Called(ctx, bookID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Review), args.Error(1)
}

func (m *MockReviewService) Aggregate(ctx context.Context, bookID int64) (service.RatingSummary, error) {
	args := m.Called(ctx, bookID)
	return args.Get(0).(service.RatingSummary), args.Error(1)
}

func setupReviewRouter(svc service.ReviewService, authn gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := handler.NewReviewHandler(svc)
	h.RegisterRoutes(r.Group("/api/reviews"), authn)
	return r
}

func TestListReviews_OK(t *testing.T) {
	mockSvc := new(MockReviewService)
	r := setupReviewRouter(mockSvc, stubAuth("u1", false))

	reviews := []models.Review{
		{ID: 2, BookID: 7, Rating: 5, Comment: "Loved it", User: models.User{Name: "Alice"}},
		{ID: 1, BookID: 7, Rating: 3, Comment: "Fine", User: models.User{Name: "Bob"}},
	}
	mockSvc.On("ListForBook", mock.Anything, int64(7)).Return(reviews, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/reviews/7", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp []dto.ReviewResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp, 2)
	assert.Equal(t, "Alice", resp[0].UserName)
	mockSvc.AssertExpectations(t)
}

func TestListReviews_BookNotFound(t *testing.T) {
	mockSvc := new(MockReviewService)
	r := setupReviewRouter(mockSvc, stubAuth("u1", false))

	mockSvc.On("ListForBook", mock.Anything, int64(999)).Return(nil, service.ErrBookNotFound)

	req := httptest.NewRequest(http.MethodGet, "/api/reviews/999", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	mockSvc.AssertExpectations(t)
}

func TestReviewSummary_NoReviews(t *testing.T) {
	mockSvc := new(MockReviewService)
	r := setupReviewRouter(mockSvc, stubAuth("u1", false))

	mockSvc.On("Aggregate", mock.Anything, int64(7)).Return(service.RatingSummary{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/reviews/7/summary", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp service.RatingSummary
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 0.0, resp.Average)
	assert.Equal(t, int64(0), resp.Count)
	mockSvc.AssertExpectations(t)
}

func TestCreateReview_OK(t *testing.T) {
	mockSvc := new(MockReviewService)
	r := setupReviewRouter(mockSvc, stubAuth("u1", false))

	saved := &models.Review{
		ID: 101, BookID: 7, UserID: "u1", Rating: 4, Comment: "Enjoyed it",
		User: models.User{Name: "Test User"},
	}
	mockSvc.On("Submit", mock.Anything, "u1", int64(7), 4, "Enjoyed it").Return(saved, nil)

	body := `{"book_id": 7, "rating": 4, "comment": "Enjoyed it"}`
	req := httptest.NewRequest(http.MethodPost, "/api/reviews", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp dto.ReviewResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, int64(101), resp.ID)
	assert.Equal(t, "Test User", resp.UserName)
	mockSvc.AssertExpectations(t)
}

func TestCreateReview_Duplicate(t *testing.T) {
	mockSvc := new(MockReviewService)
	r := setupReviewRouter(mockSvc, stubAuth("u1", false))

	mockSvc.On("Submit", mock.Anything, "u1", int64(7), 5, "again").
		Return(nil, service.ErrAlreadyReviewed)

	body := `{"book_id": 7, "rating": 5, "comment": "again"}`
	req := httptest.NewRequest(http.MethodPost, "/api/reviews", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
	mockSvc.AssertExpectations(t)
}

func TestCreateReview_RatingOutOfRange(t *testing.T) {
	mockSvc := new(MockReviewService)
	r := setupReviewRouter(mockSvc, stubAuth("u1", false))

	// Binding rejects rating 6 before the service is reached
	body := `{"book_id": 7, "rating": 6, "comment": "too good"}`
	req := httptest.NewRequest(http.MethodPost, "/api/reviews", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockSvc.AssertNotCalled(t, "Submit")
}
