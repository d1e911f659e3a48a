package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"go-crop-api/config"
	"go-crop-api/logger"
	"go-crop-api/model"
	"go-crop-api/repository"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrEmailTaken         = errors.New("email is already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("refresh token not found or expired")
	ErrStorageUnavailable = errors.New("storage temporarily unavailable")
)

func getJwtKey() []byte {
	return []byte(config.AppConfig.JWT.SecretKey)
}

// HashPassword hashes a plaintext password with bcrypt. This is the only
// place a password touches a hashing function; any digest computed by a
// client is treated as an opaque password, never as a verifier.
func HashPassword(password string) (string, error) {
	cost := config.AppConfig.Auth.BcryptCost
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to hash password")
		return "", err
	}
	return string(bytes), nil
}

func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// AuthService orchestrates the session lifecycle: signup, login, refresh
// rotation and logout.
type AuthService struct {
	userRepo       repository.IUserRepository
	tokenRepo      repository.ITokenRepository
	accessTTL      time.Duration
	refreshTTL     time.Duration
	storageTimeout time.Duration
}

func NewAuthService(userRepo repository.IUserRepository, tokenRepo repository.ITokenRepository) *AuthService {
	cfg := config.AppConfig

	accessTTL := time.Duration(cfg.JWT.AccessTTLMinutes) * time.Minute
	if accessTTL <= 0 {
		accessTTL = 15 * time.Minute
	}
	refreshTTL := time.Duration(cfg.JWT.RefreshTTLDays) * 24 * time.Hour
	if refreshTTL <= 0 {
		refreshTTL = 7 * 24 * time.Hour
	}
	storageTimeout := time.Duration(cfg.Auth.StorageTimeoutSec) * time.Second
	if storageTimeout <= 0 {
		storageTimeout = 5 * time.Second
	}

	return &AuthService{
		userRepo:       userRepo,
		tokenRepo:      tokenRepo,
		accessTTL:      accessTTL,
		refreshTTL:     refreshTTL,
		storageTimeout: storageTimeout,
	}
}

// GenerateAccessToken signs a short-lived JWT carrying the user's id and role.
func (s *AuthService) GenerateAccessToken(user *model.User) (string, error) {
	now := time.Now()
	claims := &model.AppClaims{
		UserID: user.ID,
		Role:   string(user.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(getJwtKey())
	if err != nil {
		logger.Log.WithError(err).WithField("email", user.Email).Error("Failed to sign JWT")
		return "", fmt.Errorf("failed to sign token string: %w", err)
	}

	return tokenString, nil
}

// VerifyAccessToken parses and validates an access token, returning its claims.
func (s *AuthService) VerifyAccessToken(tokenString string) (*model.AppClaims, error) {
	claims := &model.AppClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return getJwtKey(), nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// newRefreshToken mints a high-entropy opaque value and the digest under
// which it is persisted.
func newRefreshToken() (raw string, hash string, err error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", "", fmt.Errorf("failed to generate refresh token: %w", err)
	}
	raw = hex.EncodeToString(buf)
	return raw, hashToken(raw), nil
}

func hashToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

// issueTokenPair mints an access token and a persisted refresh token.
func (s *AuthService) issueTokenPair(ctx context.Context, user *model.User) (*model.TokenPair, error) {
	accessToken, err := s.GenerateAccessToken(user)
	if err != nil {
		return nil, err
	}

	raw, hash, err := newRefreshToken()
	if err != nil {
		return nil, err
	}

	record := &model.RefreshToken{
		UserID:    user.ID,
		TokenHash: hash,
		ExpiresAt: time.Now().Add(s.refreshTTL),
	}
	if err := s.tokenRepo.Create(ctx, record); err != nil {
		return nil, s.mapStorageErr(err)
	}

	return &model.TokenPair{AccessToken: accessToken, RefreshToken: raw}, nil
}

// Signup registers a new user and opens their first session.
func (s *AuthService) Signup(ctx context.Context, req model.SignupRequest) (*model.User, *model.TokenPair, error) {
	hashedPassword, err := HashPassword(req.Password)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		Email:        req.Email,
		Name:         req.Name,
		Role:         model.RoleUser,
		PasswordHash: hashedPassword,
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if err := s.userRepo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, nil, ErrEmailTaken
		}
		return nil, nil, s.mapStorageErr(err)
	}

	pair, err := s.issueTokenPair(ctx, user)
	if err != nil {
		return nil, nil, err
	}

	logger.Log.WithField("user_id", user.ID).Info("User registered successfully")
	return user, pair, nil
}

// Login authenticates a user by email and password. Unknown email and wrong
// password produce the same error so login cannot be used to probe for
// registered addresses.
func (s *AuthService) Login(ctx context.Context, req model.LoginRequest) (*model.User, *model.TokenPair, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	user, err := s.userRepo.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, s.mapStorageErr(err)
	}

	if !CheckPasswordHash(req.Password, user.PasswordHash) {
		return nil, nil, ErrInvalidCredentials
	}

	if err := s.userRepo.TouchLastLogin(ctx, user.ID); err != nil {
		// A failed timestamp update must not fail the login itself.
		logger.Log.WithError(err).WithField("user_id", user.ID).Warn("Failed to update last login timestamp")
	}

	pair, err := s.issueTokenPair(ctx, user)
	if err != nil {
		return nil, nil, err
	}

	logger.Log.WithField("user_id", user.ID).Info("User logged in successfully")
	return user, pair, nil
}

// Refresh rotates a refresh token: the presented token is consumed
// atomically and a fresh pair is issued. A token can therefore be used for
// exactly one rotation; replaying it yields ErrInvalidToken.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*model.TokenPair, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	userID, err := s.tokenRepo.DeleteForRotation(ctx, hashToken(refreshToken))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrInvalidToken
		}
		return nil, s.mapStorageErr(err)
	}

	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrInvalidToken
		}
		return nil, s.mapStorageErr(err)
	}

	return s.issueTokenPair(ctx, user)
}

// Logout invalidates a refresh token. Logging out an unknown or already
// expired token succeeds; a client must always be able to end its session.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if err := s.tokenRepo.Delete(ctx, hashToken(refreshToken)); err != nil {
		return s.mapStorageErr(err)
	}
	return nil
}

// LogoutAll invalidates every refresh token belonging to the user.
func (s *AuthService) LogoutAll(ctx context.Context, userID int) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if err := s.tokenRepo.DeleteByUserID(ctx, userID); err != nil {
		return s.mapStorageErr(err)
	}
	return nil
}

// SweepExpired removes expired refresh tokens. Run periodically from app.Run.
func (s *AuthService) SweepExpired(ctx context.Context) (int64, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.tokenRepo.DeleteExpired(ctx)
}

func (s *AuthService) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.storageTimeout)
}

// mapStorageErr classifies persistence failures: deadline overruns become
// ErrStorageUnavailable (surfaced as 503), everything else passes through
// for the handler to map to 500.
func (s *AuthService) mapStorageErr(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return err
}
