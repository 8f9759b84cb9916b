package auth

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/skychimp/newsletter-service/internal/database/repository"
	"github.com/skychimp/newsletter-service/internal/mailer"
	"github.com/skychimp/newsletter-service/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	emailConfirmTokenTTL  = 24 * time.Hour
	passwordResetTokenTTL = time.Hour
)

type AuthService struct {
	userRepo         *repository.UserRepository
	refreshTokenRepo *repository.RefreshTokenRepository
	userTokenRepo    *repository.UserTokenRepository
	sender           mailer.Sender
	jwtSecret        []byte
	accessTokenTTL   time.Duration
	refreshTokenTTL  time.Duration
}

func NewAuthService(db *gorm.DB, sender mailer.Sender) *AuthService {
	jwtSecret := []byte(os.Getenv("JWT_SECRET"))
	if len(jwtSecret) == 0 {
		jwtSecret = []byte("default-secret-key-change-in-production")
	}

	accessTokenTTL := 15 * time.Minute
	if ttl := os.Getenv("ACCESS_TOKEN_TTL"); ttl != "" {
		if parsed, err := time.ParseDuration(ttl); err == nil {
			accessTokenTTL = parsed
		}
	}

	refreshTokenTTL := 7 * 24 * time.Hour // 7 days
	if ttl := os.Getenv("REFRESH_TOKEN_TTL"); ttl != "" {
		if parsed, err := time.ParseDuration(ttl); err == nil {
			refreshTokenTTL = parsed
		}
	}

	logrus.Infof("Access token TTL: %f", accessTokenTTL.Hours())
	logrus.Infof("Refresh token TTL: %f", refreshTokenTTL.Hours())

	return &AuthService{
		userRepo:         repository.NewUserRepository(db),
		refreshTokenRepo: repository.NewRefreshTokenRepository(db),
		userTokenRepo:    repository.NewUserTokenRepository(db),
		sender:           sender,
		jwtSecret:        jwtSecret,
		accessTokenTTL:   accessTokenTTL,
		refreshTokenTTL:  refreshTokenTTL,
	}
}

// Register creates a new user account. The account is created inactive and
// unverified; a confirmation token is mailed to the given address and the
// account becomes usable only after ConfirmEmail.
func (s *AuthService) Register(req *models.RegisterRequest) (*models.User, error) {
	// Check if email already exists
	exists, err := s.userRepo.CheckEmailExists(req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		return nil, errors.New("user with this email already exists")
	}

	// Hash password
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Email:         req.Email,
		PasswordHash:  string(hashedPassword),
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		MiddleName:    req.MiddleName,
		IsActive:      false,
		EmailVerified: false,
		TokenVersion:  0,
	}

	if err := s.userRepo.Create(user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	token := &models.UserToken{
		Token:     uuid.NewString(),
		Purpose:   models.TokenPurposeEmailConfirm,
		UserID:    user.ID,
		ExpiresAt: time.Now().Add(emailConfirmTokenTTL),
	}
	if err := s.userTokenRepo.Create(token); err != nil {
		return nil, fmt.Errorf("failed to create confirmation token: %w", err)
	}

	subject := "Confirm your registration"
	body := fmt.Sprintf("Hello %s,\n\nUse this token to confirm your account: %s\n\nThe token expires in 24 hours.", user.FirstName, token.Token)
	if err := s.sender.Send(user.Email, subject, body); err != nil {
		logrus.Warnf("Failed to send confirmation email to %s: %v", user.Email, err)
		// Account exists either way; the user can request a resend later
	}

	return user, nil
}

// ConfirmEmail redeems an email confirmation token and activates the account
func (s *AuthService) ConfirmEmail(tokenStr string) error {
	token, err := s.userTokenRepo.GetByToken(tokenStr, models.TokenPurposeEmailConfirm)
	if err != nil {
		return errors.New("invalid confirmation token")
	}
	if !token.IsUsable(time.Now()) {
		return errors.New("confirmation token expired")
	}

	user, err := s.userRepo.GetByID(token.UserID)
	if err != nil {
		return errors.New("user not found")
	}

	user.EmailVerified = true
	user.IsActive = true
	if err := s.userRepo.Update(user); err != nil {
		return fmt.Errorf("failed to activate user: %w", err)
	}

	return s.userTokenRepo.MarkUsed(token)
}

// Login authenticates a user by email and password
func (s *AuthService) Login(req *models.LoginRequest) (*models.AuthResponse, error) {
	user, err := s.userRepo.GetByEmail(req.Email)
	if err != nil {
		return nil, errors.New("invalid credentials")
	}

	if !user.EmailVerified {
		return nil, errors.New("email not confirmed")
	}

	if !user.IsActive {
		return nil, errors.New("account is blocked")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, errors.New("invalid credentials")
	}

	if err := s.userRepo.UpdateLastLogin(user.ID); err != nil {
		logrus.Warnf("Failed to update last login for user %d: %v", user.ID, err)
	}

	return s.generateAuthResponse(user)
}

// RefreshToken refreshes an access token using a refresh token
func (s *AuthService) RefreshToken(refreshTokenStr string) (*models.AuthResponse, error) {
	refreshToken, err := s.refreshTokenRepo.GetByToken(refreshTokenStr)
	if err != nil {
		return nil, errors.New("invalid refresh token")
	}

	if refreshToken.ExpiresAt.Before(time.Now()) {
		s.refreshTokenRepo.RevokeToken(refreshTokenStr)
		return nil, errors.New("refresh token expired")
	}

	user, err := s.userRepo.GetByID(refreshToken.UserID)
	if err != nil {
		return nil, errors.New("user not found")
	}

	if !user.IsActive {
		return nil, errors.New("account is blocked")
	}

	// Rotate: revoke the used refresh token before issuing a new pair
	if err := s.refreshTokenRepo.RevokeToken(refreshTokenStr); err != nil {
		return nil, fmt.Errorf("failed to revoke refresh token: %w", err)
	}

	return s.generateAuthResponse(user)
}

// Logout revokes the given refresh token, or every token of the user when
// no specific token is supplied.
func (s *AuthService) Logout(refreshTokenStr string, userID uint) error {
	if refreshTokenStr != "" {
		return s.refreshTokenRepo.RevokeToken(refreshTokenStr)
	}
	if err := s.userRepo.IncrementTokenVersion(userID); err != nil {
		return fmt.Errorf("failed to increment token version: %w", err)
	}
	if err := s.refreshTokenRepo.RevokeAllUserTokens(userID); err != nil {
		return fmt.Errorf("failed to revoke all refresh tokens: %w", err)
	}
	return nil
}

// ValidateToken validates and parses a JWT access token
func (s *AuthService) ValidateToken(tokenString string) (*models.TokenInfo, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})

	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	if claims, ok := token.Claims.(*models.JWTClaims); ok && token.Valid {
		user, err := s.userRepo.GetByID(claims.UserID)
		if err != nil {
			return nil, errors.New("user not found")
		}

		if !user.IsActive {
			return nil, errors.New("account is blocked")
		}

		if claims.TokenVersion != user.TokenVersion {
			return nil, errors.New("token version mismatch")
		}

		return &models.TokenInfo{
			UserID:       claims.UserID,
			Email:        claims.Email,
			TokenVersion: claims.TokenVersion,
			ExpiresAt:    claims.ExpiresAt.Time,
		}, nil
	}

	return nil, errors.New("invalid token claims")
}

// GetUserByID loads a user by its primary key
func (s *AuthService) GetUserByID(id uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(id)
	if err != nil {
		return nil, errors.New("user not found")
	}
	return user, nil
}

// UpdateProfile updates the profile fields of the current user
func (s *AuthService) UpdateProfile(userID uint, req *models.UpdateProfileRequest) (*models.User, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, errors.New("user not found")
	}

	user.FirstName = req.FirstName
	user.LastName = req.LastName
	user.MiddleName = req.MiddleName
	user.Comment = req.Comment

	if err := s.userRepo.Update(user); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return user, nil
}

// ChangePassword changes a user's own password
func (s *AuthService) ChangePassword(userID uint, currentPassword, newPassword string) error {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return fmt.Errorf("user not found: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(currentPassword)); err != nil {
		return errors.New("current password is incorrect")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	// Update password and invalidate all issued tokens
	user.PasswordHash = string(hashedPassword)
	user.TokenVersion++

	return s.userRepo.Update(user)
}

// RequestPasswordReset starts the password reset flow. Unknown addresses are
// ignored silently so the endpoint does not leak which emails are registered.
func (s *AuthService) RequestPasswordReset(email string) error {
	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		logrus.Debugf("Password reset requested for unknown email %s", email)
		return nil
	}

	token := &models.UserToken{
		Token:     uuid.NewString(),
		Purpose:   models.TokenPurposePasswordReset,
		UserID:    user.ID,
		ExpiresAt: time.Now().Add(passwordResetTokenTTL),
	}
	if err := s.userTokenRepo.Create(token); err != nil {
		return fmt.Errorf("failed to create reset token: %w", err)
	}

	subject := "Password reset"
	body := fmt.Sprintf("Hello %s,\n\nUse this token to reset your password: %s\n\nThe token expires in 1 hour. If you did not request a reset, ignore this message.", user.FirstName, token.Token)
	if err := s.sender.Send(user.Email, subject, body); err != nil {
		return fmt.Errorf("failed to send reset email: %w", err)
	}
	return nil
}

// ConfirmPasswordReset redeems a reset token and sets the new password
func (s *AuthService) ConfirmPasswordReset(tokenStr, newPassword string) error {
	token, err := s.userTokenRepo.GetByToken(tokenStr, models.TokenPurposePasswordReset)
	if err != nil {
		return errors.New("invalid reset token")
	}
	if !token.IsUsable(time.Now()) {
		return errors.New("reset token expired")
	}

	user, err := s.userRepo.GetByID(token.UserID)
	if err != nil {
		return errors.New("user not found")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	user.PasswordHash = string(hashedPassword)
	user.TokenVersion++
	if err := s.userRepo.Update(user); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	if err := s.refreshTokenRepo.RevokeAllUserTokens(user.ID); err != nil {
		logrus.Warnf("Failed to revoke refresh tokens for user %d: %v", user.ID, err)
	}

	return s.userTokenRepo.MarkUsed(token)
}

// CreateAdminUser creates the bootstrap superuser if it doesn't exist.
// Email and password come from ADMIN_EMAIL and ADMIN_PASSWORD.
func (s *AuthService) CreateAdminUser() error {
	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		return nil
	}

	existingUser, err := s.userRepo.GetByEmail(email)
	if err == nil && existingUser != nil {
		return nil // Admin user already exists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	adminUser := &models.User{
		Email:         email,
		PasswordHash:  string(hashedPassword),
		FirstName:     "Admin",
		LastName:      "User",
		IsActive:      true,
		IsStaff:       true,
		IsSuperuser:   true,
		EmailVerified: true,
		TokenVersion:  0,
	}

	if err := s.userRepo.Create(adminUser); err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}

	logrus.Infof("Created admin user %s", email)
	return nil
}

// generateAuthResponse generates access and refresh tokens for a user
func (s *AuthService) generateAuthResponse(user *models.User) (*models.AuthResponse, error) {
	accessToken, err := s.generateAccessToken(user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, err := s.generateRefreshToken(user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	return &models.AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    int64(s.accessTokenTTL.Seconds()),
		User:         *user,
	}, nil
}

// generateAccessToken generates a JWT access token
func (s *AuthService) generateAccessToken(user *models.User) (string, error) {
	claims := &models.JWTClaims{
		UserID:       user.ID,
		Email:        user.Email,
		TokenVersion: user.TokenVersion,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.accessTokenTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
			Issuer:    "newsletter-service",
			Subject:   fmt.Sprintf("%d", user.ID),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

// generateRefreshToken generates a refresh token and stores it in the database
func (s *AuthService) generateRefreshToken(user *models.User) (string, error) {
	tokenBytes := make([]byte, 32)
	if _, err := rand.Read(tokenBytes); err != nil {
		return "", fmt.Errorf("failed to generate random token: %w", err)
	}
	token := hex.EncodeToString(tokenBytes)

	refreshToken := &models.RefreshToken{
		Token:     token,
		UserID:    user.ID,
		ExpiresAt: time.Now().Add(s.refreshTokenTTL),
		IsRevoked: false,
	}

	if err := s.refreshTokenRepo.Create(refreshToken); err != nil {
		return "", fmt.Errorf("failed to store refresh token: %w", err)
	}

	return token, nil
}
