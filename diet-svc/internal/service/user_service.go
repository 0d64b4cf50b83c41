package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"dietmap/diet-svc/internal/domain"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const DefaultMode = "NORMAL"

type RegisterRequest struct {
	Username       string   `json:"username"`
	Password       string   `json:"password"`
	Mode           string   `json:"mode"`
	Budget         float64  `json:"budget"`
	TargetCalories *int     `json:"targetCalories"`
	TargetProtein  *float64 `json:"targetProtein"`
	TargetFat      *float64 `json:"targetFat"`
}

type Claims struct {
	UserID   int    `json:"user_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

type UserService struct {
	repo   UserRepository
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewUserService(repo UserRepository, secret string, ttl time.Duration) *UserService {
	return &UserService{repo: repo, secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (s *UserService) Register(ctx context.Context, req RegisterRequest) (*domain.User, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" || req.Password == "" {
		return nil, domain.NewValidationError("credentials", "username and password are required")
	}
	if req.Budget < 0 {
		return nil, domain.NewValidationError("budget", "must not be negative")
	}
	if req.TargetCalories != nil && *req.TargetCalories < 0 {
		return nil, domain.NewValidationError("targetCalories", "must not be negative")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	mode := strings.ToUpper(strings.TrimSpace(req.Mode))
	if mode == "" {
		mode = DefaultMode
	}
	user := &domain.User{
		Username:       username,
		PasswordHash:   string(hash),
		Mode:           mode,
		Budget:         req.Budget,
		TargetCalories: req.TargetCalories,
		TargetProtein:  req.TargetProtein,
		TargetFat:      req.TargetFat,
	}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login returns a signed token. Unknown users and wrong passwords both
// report ErrUnauthorized.
func (s *UserService) Login(ctx context.Context, username, password string) (string, error) {
	if strings.TrimSpace(username) == "" || password == "" {
		return "", domain.NewValidationError("credentials", "username and password are required")
	}
	user, err := s.repo.GetUserByUsername(ctx, strings.TrimSpace(username))
	if errors.Is(err, domain.ErrNotFound) {
		return "", domain.ErrUnauthorized
	}
	if err != nil {
		return "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", domain.ErrUnauthorized
	}
	return s.issue(user)
}

func (s *UserService) issue(user *domain.User) (string, error) {
	now := s.now()
	claims := &Claims{
		UserID:   user.ID,
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprint(user.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s *UserService) Profile(ctx context.Context, userID int) (*domain.User, error) {
	return s.repo.GetUser(ctx, userID)
}

// ParseToken validates an HS256 token and returns its user id.
func (s *UserService) ParseToken(token string) (int, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil || !parsed.Valid || claims.UserID <= 0 {
		return 0, domain.ErrUnauthorized
	}
	return claims.UserID, nil
}
