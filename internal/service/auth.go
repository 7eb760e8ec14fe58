package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/pageza/pantry/backend/internal/models"
	"github.com/pageza/pantry/backend/internal/types"
)

// MinPasswordLength is the shortest password accepted for an account
const MinPasswordLength = 5

// UserUpdate carries the fields a user may change on their own account.
// Nil fields are left as they are.
type UserUpdate struct {
	Name     *string
	Password *string
}

type AuthService struct {
	db        *gorm.DB
	jwtSecret []byte
	tokenTTL  time.Duration
	logger    *zap.Logger
}

func NewAuthService(db *gorm.DB, jwtSecret string, tokenTTL time.Duration, logger *zap.Logger) *AuthService {
	return &AuthService{
		db:        db,
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  tokenTTL,
		logger:    logger.Named("auth"),
	}
}

// Register creates a regular active account
func (s *AuthService) Register(ctx context.Context, email, password, name string) (*models.User, error) {
	return s.createUser(ctx, email, password, name, false)
}

// CreateSuperuser creates an active staff account
func (s *AuthService) CreateSuperuser(ctx context.Context, email, password, name string) (*models.User, error) {
	return s.createUser(ctx, email, password, name, true)
}

func (s *AuthService) createUser(ctx context.Context, email, password, name string, staff bool) (*models.User, error) {
	email = NormalizeEmail(email)

	var errs ValidationErrors
	if email == "" || !strings.Contains(email, "@") {
		errs = append(errs, ValidationError{Field: "email", Message: "enter a valid email address"})
	}
	if err := validatePassword(password); err != nil {
		errs = append(errs, *err)
	}
	if strings.TrimSpace(name) == "" {
		errs = append(errs, ValidationError{Field: "name", Message: "this field may not be blank"})
	}
	if len(errs) > 0 {
		return nil, errs
	}

	db := s.db.WithContext(ctx)
	var existing int64
	if err := db.Model(&models.User{}).Where("email = ?", email).Count(&existing).Error; err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if existing > 0 {
		return nil, ErrEmailTaken
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		Email:        email,
		Name:         name,
		IsActive:     true,
		IsStaff:      staff,
		PasswordHash: string(hashedPassword),
	}
	if err := db.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("user created", zap.String("id", user.ID.String()), zap.Bool("staff", staff))
	return &user, nil
}

// Authenticate checks email and password and returns the matching active user.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	if password == "" {
		return nil, ErrInvalidCredentials
	}
	var user models.User
	err := s.db.WithContext(ctx).Where("email = ?", NormalizeEmail(email)).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrInactiveUser
	}
	return &user, nil
}

// IssueToken signs a token for user and returns it with its expiry
func (s *AuthService) IssueToken(user *models.User) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(s.tokenTTL)
	claims := &types.TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		UserID:  user.ID,
		Email:   user.Email,
		IsStaff: user.IsStaff,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, expiresAt, nil
}

func (s *AuthService) ValidateToken(tokenString string) (*types.TokenClaims, error) {
	claims := &types.TokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return s.jwtSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnauthenticated, err)
	}
	if !token.Valid || claims.UserID == uuid.Nil {
		return nil, ErrUnauthenticated
	}
	return claims, nil
}

// AuthenticateToken validates tokenString and checks that its user still
// exists and is active.
func (s *AuthService) AuthenticateToken(ctx context.Context, tokenString string) (*types.TokenClaims, error) {
	claims, err := s.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}
	user, err := s.GetUserByID(ctx, claims.UserID)
	if errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("%w: unknown user", ErrUnauthenticated)
	}
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, fmt.Errorf("%w: %v", ErrUnauthenticated, ErrInactiveUser)
	}
	return claims, nil
}

func (s *AuthService) GetUserByID(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).First(&user, "id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

// UpdateUser changes the name and/or password of an account. The email
// address is never changed here.
func (s *AuthService) UpdateUser(ctx context.Context, userID uuid.UUID, update UserUpdate) (*models.User, error) {
	user, err := s.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	var errs ValidationErrors
	cols := make(map[string]interface{})
	if update.Name != nil {
		if strings.TrimSpace(*update.Name) == "" {
			errs = append(errs, ValidationError{Field: "name", Message: "this field may not be blank"})
		} else {
			cols["name"] = *update.Name
		}
	}
	if update.Password != nil {
		if verr := validatePassword(*update.Password); verr != nil {
			errs = append(errs, *verr)
		} else {
			hashed, err := bcrypt.GenerateFromPassword([]byte(*update.Password), bcrypt.DefaultCost)
			if err != nil {
				return nil, fmt.Errorf("failed to hash password: %w", err)
			}
			cols["password_hash"] = string(hashed)
		}
	}
	if len(errs) > 0 {
		return nil, errs
	}
	if len(cols) == 0 {
		return user, nil
	}

	if err := s.db.WithContext(ctx).Model(user).Updates(cols).Error; err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return s.GetUserByID(ctx, userID)
}

// NormalizeEmail trims the address and lower-cases its domain part
func NormalizeEmail(email string) string {
	email = strings.TrimSpace(email)
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return email
	}
	return email[:at] + "@" + strings.ToLower(email[at+1:])
}

func validatePassword(password string) *ValidationError {
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return &ValidationError{
			Field:   "password",
			Message: fmt.Sprintf("ensure this field has at least %d characters", MinPasswordLength),
		}
	}
	return nil
}
