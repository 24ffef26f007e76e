package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"phPortfolio/internal/database"
)

// CredentialProvider 是邮箱密码登录在 account 表中的 providerId。
const CredentialProvider = "credential"

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrSessionNotFound    = errors.New("session not found or expired")
)

// AuthService 负责登录、会话校验与退出。令牌是 HS256 JWT，必须对应一条未过期的 session 记录。
type AuthService struct {
	db         *gorm.DB
	secret     []byte
	sessionTTL time.Duration
}

// TokenClaims 是写入 JWT 的会话信息。
type TokenClaims struct {
	SessionID string `json:"sid"`
	UserID    string `json:"uid"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	jwt.RegisteredClaims
}

// Principal 是通过校验的当前登录者。
type Principal struct {
	User    database.User
	Session database.Session
}

func NewAuthService(db *gorm.DB, secret string, sessionTTL time.Duration) (*AuthService, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, errors.New("auth secret is required")
	}
	if sessionTTL <= 0 {
		return nil, errors.New("session ttl must be positive")
	}
	return &AuthService{db: db, secret: []byte(secret), sessionTTL: sessionTTL}, nil
}

// SessionTTL 暴露会话有效期，用于 cookie Max-Age。
func (s *AuthService) SessionTTL() time.Duration {
	return s.sessionTTL
}

// SignIn 校验邮箱密码，创建 session 并签发令牌。
func (s *AuthService) SignIn(ctx context.Context, email, password, ip, userAgent string) (string, *Principal, error) {
	db := s.db.WithContext(ctx)
	email = normalizeEmail(email)

	var user database.User
	if err := db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("query user: %w", err)
	}

	var account database.Account
	err := db.Where("user_id = ? AND provider_id = ?", user.ID, CredentialProvider).First(&account).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("query account: %w", err)
	}
	if account.Password == nil || !CheckPasswordHash(password, *account.Password) {
		return "", nil, ErrInvalidCredentials
	}

	secret, err := randomToken()
	if err != nil {
		return "", nil, err
	}
	now := time.Now()
	sess := database.Session{
		ID:        uuid.NewString(),
		Token:     secret,
		ExpiresAt: now.Add(s.sessionTTL),
		IPAddress: ip,
		UserAgent: userAgent,
		UserID:    user.ID,
	}
	if err := db.Omit("User").Create(&sess).Error; err != nil {
		return "", nil, fmt.Errorf("create session: %w", err)
	}

	token, err := s.sign(TokenClaims{
		SessionID: sess.ID,
		UserID:    user.ID,
		Name:      user.Name,
		Email:     user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        sess.Token,
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(sess.ExpiresAt),
		},
	})
	if err != nil {
		return "", nil, err
	}

	sess.User = user
	return token, &Principal{User: user, Session: sess}, nil
}

// Authenticate 校验签名，并确认会话仍然存在。
func (s *AuthService) Authenticate(ctx context.Context, token string) (*Principal, error) {
	claims, err := s.parse(token)
	if err != nil {
		return nil, err
	}

	var sess database.Session
	err = s.db.WithContext(ctx).
		Preload("User").
		Where("id = ? AND expires_at > ?", claims.SessionID, time.Now()).
		First(&sess).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("query session: %w", err)
	}
	if sess.Token != claims.ID || sess.UserID != claims.UserID {
		return nil, ErrSessionNotFound
	}

	return &Principal{User: sess.User, Session: sess}, nil
}

// SignOut 删除令牌对应的 session；令牌无效或会话已不存在时视为成功。
func (s *AuthService) SignOut(ctx context.Context, token string) error {
	claims, err := s.parse(token)
	if err != nil {
		return nil
	}
	if err := s.db.WithContext(ctx).Where("id = ?", claims.SessionID).Delete(&database.Session{}).Error; err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// EnsureAdmin 在该邮箱尚无用户时创建管理员及其密码凭据，返回是否新建。
func (s *AuthService) EnsureAdmin(ctx context.Context, name, email, password string) (bool, error) {
	email = normalizeEmail(email)
	if email == "" {
		return false, errors.New("admin email is required")
	}
	if strings.TrimSpace(name) == "" {
		name = "Admin"
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&database.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return false, fmt.Errorf("query user: %w", err)
	}
	if count > 0 {
		return false, nil
	}
	if err := ValidatePassword(password); err != nil {
		return false, err
	}

	hashed, err := HashPassword(password)
	if err != nil {
		return false, err
	}

	user := database.User{
		ID:            uuid.NewString(),
		Name:          name,
		Email:         email,
		EmailVerified: true,
	}
	account := database.Account{
		ID:         uuid.NewString(),
		AccountID:  user.ID,
		ProviderID: CredentialProvider,
		UserID:     user.ID,
		Password:   &hashed,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return fmt.Errorf("create user: %w", err)
		}
		if err := tx.Omit("User").Create(&account).Error; err != nil {
			return fmt.Errorf("create account: %w", err)
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *AuthService) parse(tokenString string) (*TokenClaims, error) {
	if tokenString == "" {
		return nil, ErrSessionNotFound
	}

	token, err := jwt.ParseWithClaims(tokenString, &TokenClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, fmt.Errorf("unexpected signing method: %s", token.Method.Alg())
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSessionNotFound, err)
	}

	claims, ok := token.Claims.(*TokenClaims)
	if !ok || !token.Valid || claims.SessionID == "" {
		return nil, ErrSessionNotFound
	}
	return claims, nil
}

func (s *AuthService) sign(claims TokenClaims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func randomToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate session token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
