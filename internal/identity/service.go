package identity

import (
	"context"
	"log"
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/mivura/feedbed/database/models"
	"github.com/mivura/feedbed/database/repo/accounts"
	"github.com/mivura/feedbed/internal/apperr"
	"github.com/mivura/feedbed/utils"
	cryptopackage "github.com/mivura/feedbed/utils/crypto"
)

// 密码去除首尾空白后的最小长度
const minPasswordLength = 5

// Service 用户注册服务层
type Service struct {
	repo *accounts.Repository
}

// NewService 创建新的注册服务
func NewService(repo *accounts.Repository) *Service {
	return &Service{repo: repo}
}

// Signup 校验并创建新用户，返回新用户ID
// 邮箱唯一性检查与写入不是原子操作，数据库唯一索引兜底并发注册
func (s *Service) Signup(ctx context.Context, email, name, password string) (uint, error) {
	email = NormalizeEmail(email)
	name = strings.TrimSpace(name)
	password = strings.TrimSpace(password)

	if _, err := mail.ParseAddress(email); err != nil {
		return 0, apperr.Validation("Validation failed, entered data is incorrect.")
	}
	// 按字符数而不是字节数计长
	if utf8.RuneCountInString(password) < minPasswordLength {
		return 0, apperr.Validation("Validation failed, entered data is incorrect.")
	}
	if name == "" {
		return 0, apperr.Validation("Validation failed, entered data is incorrect.")
	}

	exists, err := s.repo.WithContext(ctx).EmailExists(email)
	if err != nil {
		return 0, apperr.Internal("Signup failed.", err)
	}
	if exists {
		return 0, apperr.Validation("E-Mail address already exists!")
	}

	hashedPassword, err := cryptopackage.GenerateFromPassword(password)
	if err != nil {
		return 0, apperr.Internal("Signup failed.", err)
	}

	user := &models.User{
		Email:    email,
		Password: hashedPassword,
		Name:     name,
	}
	if err := s.repo.WithContext(ctx).CreateUser(user); err != nil {
		log.Printf("Failed to create user %s: %v", utils.SanitizeLogEmail(email), err)
		return 0, apperr.Internal("Signup failed.", err)
	}

	return user.ID, nil
}

// NormalizeEmail 邮箱规范化：去空白并小写
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
