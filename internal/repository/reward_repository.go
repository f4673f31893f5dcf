package repository

import (
	"family_habit_backend/internal/model"

	"gorm.io/gorm"
)

type RewardRepository struct {
	DB *gorm.DB
}

func NewRewardRepository(db *gorm.DB) *RewardRepository {
	return &RewardRepository{DB: db}
}

func (r *RewardRepository) Create(reward *model.Reward) error {
	return r.DB.Create(reward).Error
}

func (r *RewardRepository) FindByUser(userID uint) ([]model.Reward, error) {
	var rewards []model.Reward
	err := r.DB.Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&rewards).Error
	return rewards, err
}

func (r *RewardRepository) FindEarnedByUser(userID uint) ([]model.Reward, error) {
	var rewards []model.Reward
	err := r.DB.Where("user_id = ? AND earned = ?", userID, true).
		Order("created_at ASC").
		Find(&rewards).Error
	return rewards, err
}

func (r *RewardRepository) FindByIDAndUser(id, userID uint) (*model.Reward, error) {
	var reward model.Reward
	err := r.DB.Where("id = ? AND user_id = ?", id, userID).First(&reward).Error
	if err != nil {
		return nil, err
	}
	return &reward, nil
}

func (r *RewardRepository) CountByUser(userID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.Reward{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}
