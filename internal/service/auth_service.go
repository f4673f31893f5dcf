package service

import (
	"errors"
	"family_habit_backend/internal/config"
	"family_habit_backend/internal/model"
	"family_habit_backend/internal/repository"
	"family_habit_backend/internal/util"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type RegisterInput struct {
	Name        string         `json:"name" binding:"required"`
	Email       string         `json:"email" binding:"required,email"`
	Password    string         `json:"password" binding:"required,min=6"`
	Role        model.UserRole `json:"role" binding:"required,oneof=PARENT CHILD"`
	ParentEmail string         `json:"parentEmail"`
}

type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AuthService 邮箱密码注册登录
type AuthService struct {
	UserRepo *repository.UserRepository
	Config   *config.Config
}

func NewAuthService(userRepo *repository.UserRepository, cfg *config.Config) *AuthService {
	return &AuthService{UserRepo: userRepo, Config: cfg}
}

// Register 注册新账号。孩子账号需要提供家长邮箱完成关联，
// 家长账号必须已存在且角色为 PARENT。
func (s *AuthService) Register(input *RegisterInput) (*model.User, string, error) {
	if _, err := s.UserRepo.FindByEmail(input.Email); err == nil {
		return nil, "", util.ErrEmailRegistered
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", fmt.Errorf("check email: %w", err)
	}

	var parentID *uint
	if input.Role == model.Child && input.ParentEmail != "" {
		parent, err := s.UserRepo.FindByEmail(input.ParentEmail)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, "", util.ErrParentNotFound
			}
			return nil, "", fmt.Errorf("find parent: %w", err)
		}
		if parent.Role != model.Parent {
			return nil, "", util.ErrNotParentAccount
		}
		parentID = &parent.ID
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	email := input.Email
	now := time.Now()
	user := &model.User{
		Name:      input.Name,
		Email:     &email,
		Password:  string(hashed),
		Role:      input.Role,
		ParentID:  parentID,
		LastLogin: now,
		LastSeen:  now,
	}
	if err := s.UserRepo.Create(user); err != nil {
		return nil, "", fmt.Errorf("create user: %w", err)
	}

	token, err := util.GenerateJWT(user, s.Config.JWT.Secret, s.Config.JWT.ExpireTime)
	if err != nil {
		return nil, "", fmt.Errorf("generate token: %w", err)
	}

	return user, token, nil
}

// Login 邮箱密码登录。账号不存在和密码错误返回同一个错误，不泄露账号是否存在。
func (s *AuthService) Login(input *LoginInput) (*model.User, string, error) {
	user, err := s.UserRepo.FindByEmail(input.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", util.ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("find user: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)) != nil {
		return nil, "", util.ErrInvalidCredentials
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

// GetCurrentUser 根据令牌里的用户 ID 取当前用户
func (s *AuthService) GetCurrentUser(userID uint) (*model.User, error) {
	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}
