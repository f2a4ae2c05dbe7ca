package services

import (
	"errors"

	"github.com/Gopher0727/InviteShare/internal/utils"
	jwtutils "github.com/Gopher0727/InviteShare/pkg/utils"
)

var (
	ErrPasswordIncorrect  = errors.New("password incorrect")
	ErrAdminNotConfigured = errors.New("admin password hash not configured")
)

// AuthService 管理后台认证
// 凭证是配置里的 bcrypt 哈希，校验只发生在服务端，
// 通过后签发带过期时间的 JWT 作为会话
type AuthService struct {
	passwordHash string
}

func NewAuthService(passwordHash string) *AuthService {
	return &AuthService{passwordHash: passwordHash}
}

// Login 校验管理员密码并签发会话 token
func (s *AuthService) Login(password string) (string, error) {
	if s.passwordHash == "" {
		return "", ErrAdminNotConfigured
	}
	if !utils.CheckPassword(s.passwordHash, password) {
		return "", ErrPasswordIncorrect
	}
	return jwtutils.GenerateAdminToken()
}
