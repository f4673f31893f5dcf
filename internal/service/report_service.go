package service

import (
	"family_habit_backend/internal/repository"
	"fmt"
)

// ReportService 当日成长报告
type ReportService struct {
	HabitRepo   *repository.HabitRepository
	TaskService *TaskService
}

func NewReportService(habitRepo *repository.HabitRepository, taskService *TaskService) *ReportService {
	return &ReportService{HabitRepo: habitRepo, TaskService: taskService}
}

func (s *ReportService) Daily(userID uint, date string) (*DailyReport, error) {
	habits, err := s.HabitRepo.FindActiveByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("list habits: %w", err)
	}

	tasks, err := s.TaskService.TodayTasks(userID, date)
	if err != nil {
		return nil, err
	}

	report := BuildDailyReport(habits, tasks)
	report.Date = date
	return report, nil
}
