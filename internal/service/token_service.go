package service

import (
	"errors"
	"time"

	"github.com/yushan-next/user-service/internal/config"
	"github.com/yushan-next/user-service/internal/constants"
	"github.com/yushan-next/user-service/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// UserClaims 用户 JWT 声明
type UserClaims struct {
	UserID    string `json:"userId"`
	Email     string `json:"email"`
	TokenType string `json:"tokenType"`
	IsAuthor  bool   `json:"is_author"`
	IsAdmin   bool   `json:"is_admin"`
	jwt.RegisteredClaims
}

// TokenPair 一次签发的访问/刷新令牌对
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int64
}

// TokenService 无状态 JWT 令牌服务
type TokenService struct {
	secret     []byte
	issuer     string
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewTokenService 创建令牌服务
func NewTokenService(cfg *config.JWTConfig) *TokenService {
	issuer := cfg.Issuer
	if issuer == "" {
		issuer = "yushan-user-service"
	}
	return &TokenService{
		secret:     []byte(cfg.Secret),
		issuer:     issuer,
		accessTTL:  cfg.AccessTTL(),
		refreshTTL: cfg.RefreshTTL(),
	}
}

// AccessExpiresIn 访问令牌有效期秒数
func (s *TokenService) AccessExpiresIn() int64 {
	return int64(s.accessTTL / time.Second)
}

// Mint 为用户签发访问/刷新令牌对
func (s *TokenService) Mint(user *models.User) (*TokenPair, error) {
	access, err := s.sign(user, constants.TokenTypeAccess, s.accessTTL)
	if err != nil {
		return nil, err
	}
	refresh, err := s.sign(user, constants.TokenTypeRefresh, s.refreshTTL)
	if err != nil {
		return nil, err
	}
	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    s.AccessExpiresIn(),
	}, nil
}

func (s *TokenService) sign(user *models.User, tokenType string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := UserClaims{
		UserID:    user.UUID,
		Email:     user.Email,
		TokenType: tokenType,
		IsAuthor:  user.IsAuthor,
		IsAdmin:   user.IsAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   user.Email,
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Parse 解析并校验令牌签名与有效期
func (s *TokenService) Parse(tokenString string) (*UserClaims, error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	claims := &UserClaims{}
	token, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}
	if parsed, ok := token.Claims.(*UserClaims); ok && token.Valid {
		return parsed, nil
	}
	return nil, ErrTokenInvalid
}

// ParseAccess 解析访问令牌
func (s *TokenService) ParseAccess(tokenString string) (*UserClaims, error) {
	claims, err := s.Parse(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.TokenType != constants.TokenTypeAccess {
		return nil, ErrWrongTokenType
	}
	return claims, nil
}

// ParseRefresh 解析刷新令牌
func (s *TokenService) ParseRefresh(tokenString string) (*UserClaims, error) {
	claims, err := s.Parse(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.TokenType != constants.TokenTypeRefresh {
		return nil, ErrWrongTokenType
	}
	return claims, nil
}
