// Package auth provides email+password accounts and JWT session tokens.
package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	// ErrInvalidCredentials covers both unknown accounts and wrong
	// passwords; callers must not distinguish the two.
	ErrInvalidCredentials = errors.New("auth: invalid credentials")

	// ErrEmailTaken indicates a duplicate registration.
	ErrEmailTaken = errors.New("auth: email already registered")

	// ErrInvalidToken indicates an unparseable or expired session token.
	ErrInvalidToken = errors.New("auth: invalid token")
)

// User is one registered account.
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Email        string    `gorm:"uniqueIndex;size:255;not null" json:"email"`
	PasswordHash string    `gorm:"size:100;not null" json:"-"`
	DisplayName  string    `gorm:"size:100" json:"display_name"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Claims are the session token claims.
type Claims struct {
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// Service issues and validates sessions against the accounts table.
type Service struct {
	db       *gorm.DB
	secret   []byte
	tokenTTL time.Duration
	issuer   string
}

// NewService migrates the users table and returns the service.
func NewService(db *gorm.DB, secret []byte, tokenTTL time.Duration) (*Service, error) {
	if len(secret) == 0 {
		return nil, errors.New("auth: empty signing secret")
	}
	if err := db.AutoMigrate(&User{}); err != nil {
		return nil, fmt.Errorf("auth: migrate: %w", err)
	}
	return &Service{
		db:       db,
		secret:   secret,
		tokenTTL: tokenTTL,
		issuer:   "skywatch",
	}, nil
}

// Register creates an account with a bcrypt-hashed password.
func (s *Service) Register(email, password, displayName string) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, errors.New("auth: invalid email")
	}
	if len(password) < 8 {
		return nil, errors.New("auth: password must be at least 8 characters")
	}

	var count int64
	if err := s.db.Model(&User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user := &User{Email: email, PasswordHash: string(hash), DisplayName: displayName}
	if err := s.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// Login verifies the credentials and returns a signed session token.
func (s *Service) Login(email, password string) (string, *User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var user User
	err := s.db.First(&user, "email = ?", email).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil, ErrInvalidCredentials
	}
	if err != nil {
		return "", nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.issueToken(&user)
	if err != nil {
		return "", nil, err
	}
	return token, &user, nil
}

// ParseToken validates a session token and returns its claims.
func (s *Service) ParseToken(raw string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (s *Service) issueToken(user *User) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID: user.ID,
		Email:  user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}
