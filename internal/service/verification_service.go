package service

import (
	"context"
	"crypto/rand"
	"errors"
	"family_habit_backend/internal/config"
	"family_habit_backend/internal/model"
	"family_habit_backend/internal/repository"
	"family_habit_backend/internal/util"
	"fmt"
	"math/big"
	"regexp"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"family_habit_backend/pkg/logger"
)

var phonePattern = regexp.MustCompile(`^1[3-9]\d{9}$`)

type VerifyLoginInput struct {
	Phone       string         `json:"phone" binding:"required"`
	Code        string         `json:"code" binding:"required"`
	Name        string         `json:"name"`
	Role        model.UserRole `json:"role"`
	ParentPhone string         `json:"parentPhone"`
}

// CodeStore 验证码与重发限制的短时 KV 存储。LoadCode 在验证码
// 不存在或已过期时返回空串而不是错误。
type CodeStore interface {
	SaveCode(ctx context.Context, phone, code string, ttl time.Duration) error
	LoadCode(ctx context.Context, phone string) (string, error)
	DropCode(ctx context.Context, phone string) error
	TryLockResend(ctx context.Context, phone string, interval time.Duration) (bool, error)
}

// redisCodeStore 生产实现。重发锁用 SETNX 抢占，检查和占位
// 一步完成，多实例部署不会重复放行。
type redisCodeStore struct {
	rdb *redis.Client
}

func NewRedisCodeStore(rdb *redis.Client) CodeStore {
	return &redisCodeStore{rdb: rdb}
}

func codeKey(phone string) string {
	return "sms:code:" + phone
}

func resendKey(phone string) string {
	return "sms:resend:" + phone
}

func (s *redisCodeStore) SaveCode(ctx context.Context, phone, code string, ttl time.Duration) error {
	return s.rdb.Set(ctx, codeKey(phone), code, ttl).Err()
}

func (s *redisCodeStore) LoadCode(ctx context.Context, phone string) (string, error) {
	code, err := s.rdb.Get(ctx, codeKey(phone)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		return "", err
	}
	return code, nil
}

func (s *redisCodeStore) DropCode(ctx context.Context, phone string) error {
	return s.rdb.Del(ctx, codeKey(phone)).Err()
}

func (s *redisCodeStore) TryLockResend(ctx context.Context, phone string, interval time.Duration) (bool, error) {
	return s.rdb.SetNX(ctx, resendKey(phone), "1", interval).Result()
}

// VerificationService 手机验证码登录。验证码和重发限制都放在 Redis，
// 带 TTL 自动过期，多实例部署共用同一份状态。
type VerificationService struct {
	Store    CodeStore
	UserRepo *repository.UserRepository
	Config   *config.Config
}

func NewVerificationService(rdb *redis.Client, userRepo *repository.UserRepository, cfg *config.Config) *VerificationService {
	return NewVerificationServiceWithStore(NewRedisCodeStore(rdb), userRepo, cfg)
}

func NewVerificationServiceWithStore(store CodeStore, userRepo *repository.UserRepository, cfg *config.Config) *VerificationService {
	return &VerificationService{
		Store:    store,
		UserRepo: userRepo,
		Config:   cfg,
	}
}

// SendCode 生成 6 位验证码写入存储。同一手机号在重发间隔内
// 再次请求返回 ErrCodeResendTooSoon。返回验证码供调试模式回显，
// 接入真实短信通道后调用方不应再透出。
func (s *VerificationService) SendCode(ctx context.Context, phone string) (string, error) {
	if !phonePattern.MatchString(phone) {
		return "", util.ErrInvalidPhone
	}

	ok, err := s.Store.TryLockResend(ctx, phone, s.Config.SMS.ResendInterval)
	if err != nil {
		return "", fmt.Errorf("check resend limit: %w", err)
	}
	if !ok {
		return "", util.ErrCodeResendTooSoon
	}

	code, err := generateCode()
	if err != nil {
		return "", fmt.Errorf("generate code: %w", err)
	}

	if err := s.Store.SaveCode(ctx, phone, code, s.Config.SMS.CodeTTL); err != nil {
		return "", fmt.Errorf("store code: %w", err)
	}

	logger.Log.Info("验证码已发送",
		zap.String("phone", phone),
		zap.Duration("ttl", s.Config.SMS.CodeTTL))

	return code, nil
}

// VerifyLogin 校验验证码并登录。手机号首次登录时自动建号，
// 此时必须携带姓名；孩子账号可通过家长手机号完成关联。
// 验证码一次有效，校验通过即删除。
func (s *VerificationService) VerifyLogin(ctx context.Context, input *VerifyLoginInput) (*model.User, string, error) {
	if !phonePattern.MatchString(input.Phone) {
		return nil, "", util.ErrInvalidPhone
	}

	stored, err := s.Store.LoadCode(ctx, input.Phone)
	if err != nil {
		return nil, "", fmt.Errorf("load code: %w", err)
	}
	if stored == "" || stored != input.Code {
		return nil, "", util.ErrCodeInvalid
	}
	if err := s.Store.DropCode(ctx, input.Phone); err != nil {
		return nil, "", fmt.Errorf("drop code: %w", err)
	}

	user, err := s.UserRepo.FindByPhone(input.Phone)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", fmt.Errorf("find user: %w", err)
		}
		user, err = s.createPhoneUser(input)
		if err != nil {
			return nil, "", err
		}
	}

	token, err := util.GenerateJWT(user, s.Config.JWT.Secret, s.Config.JWT.ExpireTime)
	if err != nil {
		return nil, "", fmt.Errorf("generate token: %w", err)
	}

	if err := s.UserRepo.UpdateLastLogin(user.ID); err != nil {
		return nil, "", fmt.Errorf("update last login: %w", err)
	}

	return user, token, nil
}

func (s *VerificationService) createPhoneUser(input *VerifyLoginInput) (*model.User, error) {
	if input.Name == "" {
		return nil, util.ErrNameRequired
	}

	role := input.Role
	if role != model.Parent {
		role = model.Child
	}

	var parentID *uint
	if role == model.Child && input.ParentPhone != "" {
		parent, err := s.UserRepo.FindByPhone(input.ParentPhone)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, util.ErrParentNotFound
			}
			return nil, fmt.Errorf("find parent: %w", err)
		}
		if parent.Role != model.Parent {
			return nil, util.ErrNotParentAccount
		}
		parentID = &parent.ID
	}

	phone := input.Phone
	now := time.Now()
	user := &model.User{
		Name:      input.Name,
		Phone:     &phone,
		Role:      role,
		ParentID:  parentID,
		LastLogin: now,
		LastSeen:  now,
	}
	if err := s.UserRepo.Create(user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	logger.Log.Info("手机号首次登录自动建号",
		zap.String("phone", input.Phone),
		zap.String("role", string(role)))

	return user, nil
}

func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
