package repository

import (
	"family_habit_backend/internal/model"

	"gorm.io/gorm"
)

type HabitRepository struct {
	DB *gorm.DB
}

func NewHabitRepository(db *gorm.DB) *HabitRepository {
	return &HabitRepository{DB: db}
}

func (r *HabitRepository) Create(habit *model.Habit) error {
	return r.DB.Create(habit).Error
}

// FindByUser 返回用户全部习惯，任务按 task_order 升序预载
func (r *HabitRepository) FindByUser(userID uint) ([]model.Habit, error) {
	var habits []model.Habit
	err := r.DB.Where("user_id = ?", userID).
		Preload("Tasks", func(db *gorm.DB) *gorm.DB {
			return db.Order("task_order ASC")
		}).
		Order("created_at ASC").
		Find(&habits).Error
	return habits, err
}

// FindActiveByUser 仅返回启用中的习惯，用于生成今日任务
func (r *HabitRepository) FindActiveByUser(userID uint) ([]model.Habit, error) {
	var habits []model.Habit
	err := r.DB.Where("user_id = ? AND active = ?", userID, true).
		Preload("Tasks", func(db *gorm.DB) *gorm.DB {
			return db.Order("task_order ASC")
		}).
		Order("created_at ASC").
		Find(&habits).Error
	return habits, err
}

func (r *HabitRepository) FindByIDAndUser(id, userID uint) (*model.Habit, error) {
	var habit model.Habit
	err := r.DB.Where("id = ? AND user_id = ?", id, userID).
		Preload("Tasks", func(db *gorm.DB) *gorm.DB {
			return db.Order("task_order ASC")
		}).
		First(&habit).Error
	if err != nil {
		return nil, err
	}
	return &habit, nil
}

func (r *HabitRepository) Update(habit *model.Habit) error {
	return r.DB.Save(habit).Error
}

// Delete 删除习惯及其任务；历史打卡记录保留（悬空引用用于统计）
func (r *HabitRepository) Delete(id uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("habit_id = ?", id).Delete(&model.Task{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Habit{}, id).Error
	})
}

func (r *HabitRepository) ReplaceTasks(habitID uint, tasks []model.Task) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("habit_id = ?", habitID).Delete(&model.Task{}).Error; err != nil {
			return err
		}
		for i := range tasks {
			tasks[i].HabitID = habitID
			if err := tx.Create(&tasks[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
