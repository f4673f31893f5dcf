package service

import (
	"errors"
	"family_habit_backend/internal/model"
	"family_habit_backend/internal/repository"
	"family_habit_backend/internal/util"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

type TaskInput struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
}

type HabitInput struct {
	Name        string      `json:"name" binding:"required"`
	Description string      `json:"description"`
	Category    string      `json:"category"`
	Tasks       []TaskInput `json:"tasks"`
}

// HabitService 习惯的增删改查与启停
type HabitService struct {
	HabitRepo *repository.HabitRepository
}

func NewHabitService(habitRepo *repository.HabitRepository) *HabitService {
	return &HabitService{HabitRepo: habitRepo}
}

func (s *HabitService) List(userID uint) ([]model.Habit, error) {
	return s.HabitRepo.FindByUser(userID)
}

func (s *HabitService) Get(id, userID uint) (*model.Habit, error) {
	habit, err := s.HabitRepo.FindByIDAndUser(id, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrHabitNotFound
		}
		return nil, err
	}
	return habit, nil
}

// Create 新建习惯，任务顺序按提交顺序从 1 开始编号
func (s *HabitService) Create(userID uint, input *HabitInput) (*model.Habit, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, util.ErrNameRequired
	}

	habit := &model.Habit{
		UserID:      userID,
		Name:        strings.TrimSpace(input.Name),
		Description: input.Description,
		Category:    input.Category,
		Active:      true,
		Tasks:       buildTasks(input.Tasks),
	}

	if err := s.HabitRepo.Create(habit); err != nil {
		return nil, fmt.Errorf("create habit: %w", err)
	}
	return habit, nil
}

// Update 更新习惯基本信息；提交了 tasks 字段时整体替换任务列表
func (s *HabitService) Update(id, userID uint, input *HabitInput) (*model.Habit, error) {
	habit, err := s.Get(id, userID)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(input.Name) != "" {
		habit.Name = strings.TrimSpace(input.Name)
	}
	habit.Description = input.Description
	if input.Category != "" {
		habit.Category = input.Category
	}

	if input.Tasks != nil {
		if err := s.HabitRepo.ReplaceTasks(habit.ID, buildTasks(input.Tasks)); err != nil {
			return nil, fmt.Errorf("replace tasks: %w", err)
		}
	}

	habit.Tasks = nil
	if err := s.HabitRepo.Update(habit); err != nil {
		return nil, fmt.Errorf("update habit: %w", err)
	}

	return s.Get(id, userID)
}

// Toggle 启停习惯。停用后不再出现在今日任务里，历史数据保留。
func (s *HabitService) Toggle(id, userID uint) (*model.Habit, error) {
	habit, err := s.Get(id, userID)
	if err != nil {
		return nil, err
	}

	habit.Active = !habit.Active
	habit.Tasks = nil
	if err := s.HabitRepo.Update(habit); err != nil {
		return nil, fmt.Errorf("toggle habit: %w", err)
	}

	return s.Get(id, userID)
}

// Delete 删除习惯及其任务，打卡历史保留用于统计
func (s *HabitService) Delete(id, userID uint) error {
	habit, err := s.Get(id, userID)
	if err != nil {
		return err
	}
	return s.HabitRepo.Delete(habit.ID)
}

func buildTasks(inputs []TaskInput) []model.Task {
	tasks := make([]model.Task, 0, len(inputs))
	for i, t := range inputs {
		if strings.TrimSpace(t.Title) == "" {
			continue
		}
		tasks = append(tasks, model.Task{
			Title:       strings.TrimSpace(t.Title),
			Description: t.Description,
			Order:       i + 1,
		})
	}
	return tasks
}
