package utils

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("无效的 token")
	ErrExpiredToken = errors.New("token 已过期")

	jwtSecret   = []byte("your-secret-key-change-in-production")
	tokenExpire = 24 * time.Hour
)

// AdminClaims 管理后台会话的 JWT 声明
// 没有多用户体系，Subject 固定为 admin
type AdminClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// GenerateAdminToken 签发管理后台会话 token
func GenerateAdminToken() (string, error) {
	claims := &AdminClaims{
		Role: "admin",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "admin",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(tokenExpire)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret)
}

// ParseAdminToken 解析并校验管理后台会话 token
func ParseAdminToken(tokenString string) (*AdminClaims, error) {
	claims := &AdminClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		return jwtSecret, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, err
	}

	if !token.Valid {
		return nil, ErrInvalidToken
	}

	if claims.ExpiresAt != nil && claims.ExpiresAt.Before(time.Now()) {
		return nil, ErrExpiredToken
	}

	return claims, nil
}

// SetJWTSecret 设置 JWT 密钥（来自配置）
func SetJWTSecret(secret string) {
	jwtSecret = []byte(secret)
}

// SetTokenExpire 设置会话有效期（来自配置）
func SetTokenExpire(d time.Duration) {
	if d > 0 {
		tokenExpire = d
	}
}
