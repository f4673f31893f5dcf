package service

import (
	"errors"
	"family_habit_backend/internal/model"
	"family_habit_backend/internal/repository"
	"family_habit_backend/internal/util"
	"family_habit_backend/pkg/monitoring"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TodayTask 今日任务实例：习惯任务摊平后附带完成标记
type TodayTask struct {
	ID          uint   `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Order       int    `json:"order"`
	HabitID     uint   `json:"habitId"`
	HabitName   string `json:"habitName"`
	Completed   bool   `json:"completed"`
}

// TaskService 负责每日任务清单与打卡/撤销
type TaskService struct {
	HabitRepo      *repository.HabitRepository
	CompletionRepo *repository.CompletionRepository
	DB             *gorm.DB
}

func NewTaskService(habitRepo *repository.HabitRepository, completionRepo *repository.CompletionRepository, db *gorm.DB) *TaskService {
	return &TaskService{
		HabitRepo:      habitRepo,
		CompletionRepo: completionRepo,
		DB:             db,
	}
}

// Today 返回服务器本地时区的当前日期（自然日）
func Today() string {
	return time.Now().Format(util.DateFormat)
}

// TodayTasks 生成今日任务清单：启用中习惯的全部任务，按顺序摊平，
// 标记当日已完成的项。
func (s *TaskService) TodayTasks(userID uint, date string) ([]TodayTask, error) {
	habits, err := s.HabitRepo.FindActiveByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("list active habits: %w", err)
	}

	completions, err := s.CompletionRepo.FindByUserAndDate(userID, date)
	if err != nil {
		return nil, fmt.Errorf("list today completions: %w", err)
	}

	completedTaskIDs := make(map[uint]bool, len(completions))
	for _, c := range completions {
		completedTaskIDs[c.TaskID] = true
	}

	tasks := make([]TodayTask, 0)
	for _, habit := range habits {
		for _, task := range habit.Tasks {
			tasks = append(tasks, TodayTask{
				ID:          task.ID,
				Title:       task.Title,
				Description: task.Description,
				Order:       task.Order,
				HabitID:     habit.ID,
				HabitName:   habit.Name,
				Completed:   completedTaskIDs[task.ID],
			})
		}
	}

	return tasks, nil
}

// Complete 打卡：同一任务每天只能完成一次，打卡与积分入账在同一事务内。
// 唯一索引 + OnConflict DoNothing 保证并发打卡也只成功一次。
func (s *TaskService) Complete(userID, taskID, habitID uint, date string) (*model.TaskCompletion, error) {
	completion := model.TaskCompletion{
		UserID:       userID,
		TaskID:       taskID,
		HabitID:      habitID,
		Date:         date,
		PointsEarned: util.TaskCompletionPoints,
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		insert := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "task_id"}, {Name: "date"}},
			DoNothing: true,
		}).Create(&completion)
		if insert.Error != nil {
			return insert.Error
		}
		if insert.RowsAffected == 0 {
			return util.ErrTaskAlreadyCompleted
		}

		return tx.Create(&model.PointTransaction{
			UserID:      userID,
			Amount:      util.TaskCompletionPoints,
			Type:        model.PointEarn,
			Description: fmt.Sprintf("完成任务: %d", taskID),
		}).Error
	})
	if err != nil {
		return nil, err
	}

	monitoring.TaskCompletions.Inc()
	return &completion, nil
}

// Uncomplete 撤销当日打卡：物理删除记录并记一笔扣分流水。
func (s *TaskService) Uncomplete(userID, taskID uint, date string) error {
	existing, err := s.CompletionRepo.FindByUserTaskAndDate(userID, taskID, date)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrTaskNotCompleted
		}
		return fmt.Errorf("find completion: %w", err)
	}

	return s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&model.TaskCompletion{}, existing.ID).Error; err != nil {
			return err
		}

		return tx.Create(&model.PointTransaction{
			UserID:      userID,
			Amount:      existing.PointsEarned,
			Type:        model.PointSpend,
			Description: fmt.Sprintf("撤销任务完成: %d", taskID),
		}).Error
	})
}
