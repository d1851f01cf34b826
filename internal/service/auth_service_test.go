package service

import (
	"testing"
	"time"

	"bookreview/internal/config"
	"bookreview/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// MockUserRepository mocks the UserRepository interface
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(id string) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(email string) (*models.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) Update(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret: "test-secret-at-least-32-characters!!",
		JWTExpiry: 30 * 24 * time.Hour,
	}
}

func TestRegister_Success(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	authService := NewAuthService(mockUserRepo, testConfig())

	mockUserRepo.On("FindByEmail", "test@example.com").Return(nil, gorm.ErrRecordNotFound)
	mockUserRepo.On("Create", mock.AnythingOfType("*models.User")).Return(nil)

	user, token, err := authService.Register("Test User", "test@example.com", "password123")

	assert.NoError(t, err)
	assert.NotNil(t, user)
	assert.NotEmpty(t, token)
	assert.Equal(t, "Test User", user.Name)
	assert.Equal(t, "test@example.com", user.Email)
	// The stored password must be a hash, never the plaintext
	assert.NotEqual(t, "password123", user.Password)
	mockUserRepo.AssertExpectations(t)
}

func TestRegister_EmailExists(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	authService := NewAuthService(mockUserRepo, testConfig())

	existingUser := &models.User{Email: "test@example.com"}
	mockUserRepo.On("FindByEmail", "test@example.com").Return(existingUser, nil)

	user, token, err := authService.Register("Test User", "test@example.com", "password123")

	assert.Error(t, err)
	assert.Equal(t, ErrEmailInUse, err)
	assert.Nil(t, user)
	assert.Empty(t, token)
	mockUserRepo.AssertExpectations(t)
}

func TestRegister_DuplicateKeyOnInsert(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	authService := NewAuthService(mockUserRepo, testConfig())

	// The pre-check misses but the unique index catches a concurrent insert
	mockUserRepo.On("FindByEmail", "test@example.com").Return(nil, gorm.ErrRecordNotFound)
	mockUserRepo.On("Create", mock.AnythingOfType("*models.User")).Return(gorm.ErrDuplicatedKey)

	user, token, err := authService.Register("Test User", "test@example.com", "password123")

	assert.Error(t, err)
	assert.Equal(t, ErrEmailInUse, err)
	assert.Nil(t, user)
	assert.Empty(t, token)
	mockUserRepo.AssertExpectations(t)
}

func TestLogin_Success(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	authService := NewAuthService(mockUserRepo, testConfig())

	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	user := &models.User{
		ID:       "user-id",
		Name:     "Test User",
		Email:    "test@example.com",
		Password: string(hashedPassword),
	}

	mockUserRepo.On("FindByEmail", "test@example.com").Return(user, nil)

	returnedUser, token, err := authService.Login("test@example.com", "password123")

	assert.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, user.Email, returnedUser.Email)
	mockUserRepo.AssertExpectations(t)
}

func TestLogin_InvalidPassword(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	authService := NewAuthService(mockUserRepo, testConfig())

	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	user := &models.User{
		ID:       "user-id",
		Email:    "test@example.com",
		Password: string(hashedPassword),
	}

	mockUserRepo.On("FindByEmail", "test@example.com").Return(user, nil)

	returnedUser, token, err := authService.Login("test@example.com", "wrongpassword")

	assert.Error(t, err)
	assert.Equal(t, ErrInvalidCredentials, err)
	assert.Empty(t, token)
	assert.Nil(t, returnedUser)
	mockUserRepo.AssertExpectations(t)
}

func TestLogin_UserNotFound(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	authService := NewAuthService(mockUserRepo, testConfig())

	mockUserRepo.On("FindByEmail", "nobody@example.com").Return(nil, gorm.ErrRecordNotFound)

	returnedUser, token, err := authService.Login("nobody@example.com", "password123")

	assert.Error(t, err)
	assert.Equal(t, ErrInvalidCredentials, err)
	assert.Empty(t, token)
	assert.Nil(t, returnedUser)
	mockUserRepo.AssertExpectations(t)
}

func TestValidateToken_Success(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	cfg := testConfig()
	authService := NewAuthService(mockUserRepo, cfg)

	user := &models.User{ID: "user-id", IsAdmin: true}
	tokenString, err := authService.GenerateToken(user)
	assert.NoError(t, err)

	claims, err := authService.ValidateToken(tokenString)

	assert.NoError(t, err)
	assert.NotNil(t, claims)
	assert.Equal(t, "user-id", claims.UserID)
	assert.True(t, claims.IsAdmin)
}

func TestValidateToken_ThirtyDayExpiry(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	cfg := testConfig()
	authService := NewAuthService(mockUserRepo, cfg)

	tokenString, err := authService.GenerateToken(&models.User{ID: "user-id"})
	assert.NoError(t, err)

	claims, err := authService.ValidateToken(tokenString)
	assert.NoError(t, err)

	lifetime := claims.ExpiresAt.Sub(claims.IssuedAt.Time)
	assert.Equal(t, 30*24*time.Hour, lifetime)
}

func TestValidateToken_Expired(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	cfg := testConfig()
	authService := NewAuthService(mockUserRepo, cfg)

	claims := Claims{
		UserID: "user-id",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "bookreview",
			Subject:   "user-id",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-1 * time.Hour)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, _ := token.SignedString([]byte(cfg.JWTSecret))

	validatedClaims, err := authService.ValidateToken(tokenString)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "expired")
	assert.Nil(t, validatedClaims)
}

func TestValidateToken_InvalidIssuer(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	cfg := testConfig()
	authService := NewAuthService(mockUserRepo, cfg)

	claims := Claims{
		UserID: "user-id",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "someone-else",
			Subject:   "user-id",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, _ := token.SignedString([]byte(cfg.JWTSecret))

	validatedClaims, err := authService.ValidateToken(tokenString)

	assert.Error(t, err)
	assert.Nil(t, validatedClaims)
}

func TestValidateToken_WrongSecret(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	authService := NewAuthService(mockUserRepo, testConfig())

	claims := Claims{
		UserID: "user-id",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "bookreview",
			Subject:   "user-id",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, _ := token.SignedString([]byte("a-completely-different-secret-value"))

	validatedClaims, err := authService.ValidateToken(tokenString)

	assert.Error(t, err)
	assert.Nil(t, validatedClaims)
}

func TestValidateToken_EmptyUserID(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	cfg := testConfig()
	authService := NewAuthService(mockUserRepo, cfg)

	claims := Claims{
		UserID: "",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "bookreview",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, _ := token.SignedString([]byte(cfg.JWTSecret))

	validatedClaims, err := authService.ValidateToken(tokenString)

	assert.Error(t, err)
	assert.Equal(t, ErrInvalidToken, err)
	assert.Nil(t, validatedClaims)
}

func TestAuthenticate_Success(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	authService := NewAuthService(mockUserRepo, testConfig())

	user := &models.User{ID: "user-id", Name: "Test User"}
	tokenString, _ := authService.GenerateToken(user)

	mockUserRepo.On("FindByID", "user-id").Return(user, nil)

	resolved, err := authService.Authenticate(tokenString)

	assert.NoError(t, err)
	assert.Equal(t, "user-id", resolved.ID)
	mockUserRepo.AssertExpectations(t)
}

func TestAuthenticate_UserDeleted(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	authService := NewAuthService(mockUserRepo, testConfig())

	// Token is valid but its user no longer exists
	tokenString, _ := authService.GenerateToken(&models.User{ID: "gone-user"})
	mockUserRepo.On("FindByID", "gone-user").Return(nil, gorm.ErrRecordNotFound)

	resolved, err := authService.Authenticate(tokenString)

	assert.Error(t, err)
	assert.Equal(t, ErrInvalidToken, err)
	assert.Nil(t, resolved)
	mockUserRepo.AssertExpectations(t)
}

func TestUpdateProfile_ReissuesToken(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	authService := NewAuthService(mockUserRepo, testConfig())

	user := &models.User{ID: "user-id", Name: "Old Name", Email: "old@example.com"}
	mockUserRepo.On("FindByID", "user-id").Return(user, nil)
	mockUserRepo.On("Update", mock.AnythingOfType("*models.User")).Return(nil)

	updated, token, err := authService.UpdateProfile("user-id", ProfileUpdate{Name: "New Name"})

	assert.NoError(t, err)
	assert.Equal(t, "New Name", updated.Name)
	assert.Equal(t, "old@example.com", updated.Email)
	assert.NotEmpty(t, token)
	mockUserRepo.AssertExpectations(t)
}

func TestUpdateProfile_EmailTaken(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	authService := NewAuthService(mockUserRepo, testConfig())

	user := &models.User{ID: "user-id", Email: "old@example.com"}
	mockUserRepo.On("FindByID", "user-id").Return(user, nil)
	mockUserRepo.On("Update", mock.AnythingOfType("*models.User")).Return(gorm.ErrDuplicatedKey)

	updated, token, err := authService.UpdateProfile("user-id", ProfileUpdate{Email: "taken@example.com"})

	assert.Error(t, err)
	assert.Equal(t, ErrEmailInUse, err)
	assert.Nil(t, updated)
	assert.Empty(t, token)
	mockUserRepo.AssertExpectations(t)
}

func TestUpdateProfile_UserNotFound(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	authService := NewAuthService(mockUserRepo, testConfig())

	mockUserRepo.On("FindByID", "missing").Return(nil, gorm.ErrRecordNotFound)

	updated, token, err := authService.UpdateProfile("missing", ProfileUpdate{Name: "x"})

	assert.Error(t, err)
	assert.Equal(t, ErrUserNotFound, err)
	assert.Nil(t, updated)
	assert.Empty(t, token)
	mockUserRepo.AssertExpectations(t)
}

func TestUpdateProfile_PasswordRehashed(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	authService := NewAuthService(mockUserRepo, testConfig())

	hashed, _ := bcrypt.GenerateFromPassword([]byte("oldpassword"), bcrypt.DefaultCost)
	user := &models.User{ID: "user-id", Password: string(hashed)}
	mockUserRepo.On("FindByID", "user-id").Return(user, nil)
	mockUserRepo.On("Update", mock.AnythingOfType("*models.User")).Return(nil)

	updated, _, err := authService.UpdateProfile("user-id", ProfileUpdate{Password: "newpassword"})

	assert.NoError(t, err)
	assert.NotEqual(t, string(hashed), updated.Password)
	assert.NotEqual(t, "newpassword", updated.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(updated.Password), []byte("newpassword")))
	mockUserRepo.AssertExpectations(t)
}

func TestGetProfile_NotFound(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	authService := NewAuthService(mockUserRepo, testConfig())

	mockUserRepo.On("FindByID", "missing").Return(nil, gorm.ErrRecordNotFound)

	user, err := authService.GetProfile("missing")

	assert.Error(t, err)
	assert.Equal(t, ErrUserNotFound, err)
	assert.Nil(t, user)
	mockUserRepo.AssertExpectations(t)
}
