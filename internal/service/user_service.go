package service

import (
	"context"
	"errors"
	"family_habit_backend/internal/model"
	"family_habit_backend/internal/repository"
	"family_habit_backend/internal/util"
	"fmt"
	"mime/multipart"
	"path/filepath"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProfileInput struct {
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}

// UserService 个人资料维护与家庭成员查询
type UserService struct {
	UserRepo *repository.UserRepository
	Storage  StorageProvider
}

func NewUserService(userRepo *repository.UserRepository, storage StorageProvider) *UserService {
	return &UserService{UserRepo: userRepo, Storage: storage}
}

func (s *UserService) Get(userID uint) (*model.User, error) {
	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *UserService) UpdateProfile(userID uint, input *ProfileInput) (*model.User, error) {
	user, err := s.Get(userID)
	if err != nil {
		return nil, err
	}

	if input.Name != "" {
		user.Name = input.Name
	}
	if input.Avatar != "" {
		user.Avatar = input.Avatar
	}

	if err := s.UserRepo.Update(user); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return user, nil
}

// UploadAvatar 保存头像文件并更新用户头像地址
func (s *UserService) UploadAvatar(ctx context.Context, userID uint, file *multipart.FileHeader) (string, error) {
	user, err := s.Get(userID)
	if err != nil {
		return "", err
	}

	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	filename := fmt.Sprintf("avatars/%s%s", uuid.New().String(), filepath.Ext(file.Filename))
	url, err := s.Storage.Upload(ctx, filename, src, file.Size, file.Header.Get("Content-Type"))
	if err != nil {
		return "", fmt.Errorf("store avatar: %w", err)
	}

	user.Avatar = url
	if err := s.UserRepo.Update(user); err != nil {
		return "", fmt.Errorf("update avatar: %w", err)
	}
	return url, nil
}

// Children 家长查看名下孩子账号
func (s *UserService) Children(parentID uint) ([]model.User, error) {
	parent, err := s.Get(parentID)
	if err != nil {
		return nil, err
	}
	if parent.Role != model.Parent {
		return nil, util.ErrNotParentAccount
	}
	return s.UserRepo.FindChildren(parentID)
}
