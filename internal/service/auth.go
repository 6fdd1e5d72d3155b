package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/aidar/taskhub/internal/domain"
	"github.com/aidar/taskhub/internal/repository"
	"github.com/aidar/taskhub/internal/telegram"
)

// Claims represents JWT claims
type Claims struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username,omitempty"`
	Role     string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// TelegramAuthData represents the auth payload sent by the Telegram widget
type TelegramAuthData struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name,omitempty"`
	Username  string `json:"username,omitempty"`
	PhotoURL  string `json:"photo_url,omitempty"`
	AuthDate  int64  `json:"auth_date"`
	Hash      string `json:"hash"`
}

// AuthService handles Telegram authentication and JWT operations
type AuthService struct {
	userRepo  repository.UserRepository
	botToken  string
	jwtSecret string
	jwtExpiry time.Duration
}

// NewAuthService creates a new AuthService
func NewAuthService(userRepo repository.UserRepository, botToken, jwtSecret string, jwtExpiry time.Duration) *AuthService {
	return &AuthService{
		userRepo:  userRepo,
		botToken:  botToken,
		jwtSecret: jwtSecret,
		jwtExpiry: jwtExpiry,
	}
}

// TelegramLogin verifies the Telegram auth signature, loads the user from
// the directory and issues a JWT. The user record is the source of truth
// for the role; Telegram only proves the identity.
func (s *AuthService) TelegramLogin(ctx context.Context, data *TelegramAuthData) (string, *domain.User, error) {
	if data.ID == 0 || data.Hash == "" {
		return "", nil, domain.ErrUnauthorized
	}

	checkMap := map[string]string{
		"id":         strconv.FormatInt(data.ID, 10),
		"first_name": data.FirstName,
		"auth_date":  strconv.FormatInt(data.AuthDate, 10),
		"hash":       data.Hash,
	}
	if data.LastName != "" {
		checkMap["last_name"] = data.LastName
	}
	if data.Username != "" {
		checkMap["username"] = data.Username
	}
	if data.PhotoURL != "" {
		checkMap["photo_url"] = data.PhotoURL
	}

	if err := telegram.CheckAuth(checkMap, s.botToken); err != nil {
		return "", nil, domain.ErrUnauthorized
	}

	user, err := s.userRepo.GetByTelegramID(ctx, data.ID)
	if err != nil {
		return "", nil, err
	}
	if !user.MayToOpen {
		return "", nil, domain.ErrAccessClosed
	}

	// Профиль Telegram может быть свежее справочника
	refreshed := false
	if user.Username == "" && data.Username != "" {
		user.Username = domain.CanonicalUsername(data.Username)
		refreshed = true
	}
	if user.FullName == "" {
		user.FirstName = data.FirstName
		user.LastName = data.LastName
		refreshed = true
	}
	if refreshed {
		if err := s.userRepo.CreateOrUpdate(ctx, user); err != nil {
			return "", nil, err
		}
	}

	token, err := s.issueToken(user)
	if err != nil {
		return "", nil, err
	}

	return token, user, nil
}

func (s *AuthService) issueToken(user *domain.User) (string, error) {
	claims := &Claims{
		UserID:   user.TelegramID,
		Username: domain.CanonicalUsername(user.Username),
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.jwtExpiry)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}

// ValidateToken validates a JWT token and returns claims
func (s *AuthService) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		// Verify signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	})

	if err != nil {
		return nil, domain.ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, domain.ErrInvalidToken
	}

	return claims, nil
}
