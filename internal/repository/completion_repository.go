package repository

import (
	"family_habit_backend/internal/model"

	"gorm.io/gorm"
)

type CompletionRepository struct {
	DB *gorm.DB
}

func NewCompletionRepository(db *gorm.DB) *CompletionRepository {
	return &CompletionRepository{DB: db}
}

func (r *CompletionRepository) FindByUser(userID uint) ([]model.TaskCompletion, error) {
	var completions []model.TaskCompletion
	err := r.DB.Where("user_id = ?", userID).
		Order("date ASC, id ASC").
		Find(&completions).Error
	return completions, err
}

// FindByUserAndDate 返回用户某个自然日的全部打卡记录
func (r *CompletionRepository) FindByUserAndDate(userID uint, date string) ([]model.TaskCompletion, error) {
	var completions []model.TaskCompletion
	err := r.DB.Where("user_id = ? AND date = ?", userID, date).
		Find(&completions).Error
	return completions, err
}

func (r *CompletionRepository) FindByUserTaskAndDate(userID, taskID uint, date string) (*model.TaskCompletion, error) {
	var completion model.TaskCompletion
	err := r.DB.Where("user_id = ? AND task_id = ? AND date = ?", userID, taskID, date).
		First(&completion).Error
	if err != nil {
		return nil, err
	}
	return &completion, nil
}
