package service

import (
	"errors"
	"strings"
	"time"

	"bookreview/internal/config"
	"bookreview/internal/middleware/auth"
	"bookreview/internal/models"
	"bookreview/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"
)

var (
	ErrEmailInUse         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid token")
	ErrUserNotFound       = errors.New("user not found")
)

const tokenIssuer = "bookreview"

// dummyHash is compared against when the email is unknown so that login
// failures take the same time either way.
const dummyHash = "$2a$10$7EqJtq98hPqEX7fNZaFWoOHi6VbU5h6K9v8u5rO0m3j0h6dX5r8e"

// Claims is the JWT payload binding a token to a user identity.
type Claims struct {
	UserID  string `json:"user_id"`
	IsAdmin bool   `json:"is_admin"`
	jwt.RegisteredClaims
}

// ProfileUpdate carries the optional profile fields; empty strings mean
// "leave unchanged".
type ProfileUpdate struct {
	Name     string
	Email    string
	Password string
}

type AuthService interface {
	Register(name, email, password string) (*models.User, string, error)
	Login(email, password string) (*models.User, string, error)
	GetProfile(userID string) (*models.User, error)
	UpdateProfile(userID string, update ProfileUpdate) (*models.User, string, error)
	GetUserByID(id string) (*models.User, error)
	GenerateToken(user *models.User) (string, error)
	ValidateToken(tokenString string) (*Claims, error)
	Authenticate(tokenString string) (*models.User, error)
}

type authService struct {
	userRepo  repository.UserRepository
	jwtSecret string
	tokenTTL  time.Duration
}

func NewAuthService(userRepo repository.UserRepository, cfg *config.Config) AuthService {
	return &authService{
		userRepo:  userRepo,
		jwtSecret: cfg.JWTSecret,
		tokenTTL:  cfg.JWTExpiry, // 30 days; no refresh or revocation
	}
}

// Register creates a new user and issues a token for it.
func (s *authService) Register(name, email, password string) (*models.User, string, error) {
	email = strings.TrimSpace(email)

	// Check if email exists
	if _, err := s.userRepo.FindByEmail(email); err == nil {
		return nil, "", ErrEmailInUse
	}

	hashedPassword, err := auth.HashPassword(password)
	if err != nil {
		return nil, "", err
	}

	user := &models.User{
		Name:     name,
		Email:    email,
		Password: hashedPassword,
	}

	if err := s.userRepo.Create(user); err != nil {
		// The unique index on email is the real arbiter; the check above
		// only gives a friendlier fast path.
		if repository.IsDuplicateKey(err) {
			return nil, "", ErrEmailInUse
		}
		return nil, "", err
	}

	token, err := s.GenerateToken(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Login authenticates a user by email and password and issues a token.
func (s *authService) Login(email, password string) (*models.User, string, error) {
	user, err := s.userRepo.FindByEmail(strings.TrimSpace(email))
	if err != nil {
		// Unknown email: dummy compare to mitigate timing attacks.
		_ = auth.VerifyPassword(dummyHash, password)
		return nil, "", ErrInvalidCredentials
	}

	if err := auth.VerifyPassword(user.Password, password); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.GenerateToken(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (s *authService) GetProfile(userID string) (*models.User, error) {
	return s.GetUserByID(userID)
}

// UpdateProfile applies the provided fields and re-issues a token.
// Previously issued tokens stay valid for their full 30-day lifetime even
// after a password change.
func (s *authService) UpdateProfile(userID string, update ProfileUpdate) (*models.User, string, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrUserNotFound
		}
		return nil, "", err
	}

	if name := strings.TrimSpace(update.Name); name != "" {
		user.Name = name
	}
	if email := strings.TrimSpace(update.Email); email != "" {
		user.Email = email
	}
	if update.Password != "" {
		hashed, err := auth.HashPassword(update.Password)
		if err != nil {
			return nil, "", err
		}
		user.Password = hashed
	}

	if err := s.userRepo.Update(user); err != nil {
		if repository.IsDuplicateKey(err) {
			return nil, "", ErrEmailInUse
		}
		return nil, "", err
	}

	token, err := s.GenerateToken(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (s *authService) GetUserByID(id string) (*models.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *authService) GenerateToken(user *models.User) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:  user.ID,
		IsAdmin: user.IsAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

// ValidateToken verifies signature, expiry and issuer, returning the claims.
func (s *authService) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return []byte(s.jwtSecret), nil
	}, jwt.WithIssuer(tokenIssuer))
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.UserID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// Authenticate resolves a bearer token to a live user. A valid token whose
// user no longer exists is rejected.
func (s *authService) Authenticate(tokenString string) (*models.User, error) {
	claims, err := s.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByID(claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	return user, nil
}
