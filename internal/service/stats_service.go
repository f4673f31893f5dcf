package service

import (
	"family_habit_backend/internal/repository"
	"fmt"
	"time"
)

// StatsService 拉取快照后交给纯计算的 BuildOverview
type StatsService struct {
	HabitRepo      *repository.HabitRepository
	CompletionRepo *repository.CompletionRepository
	PointRepo      *repository.PointRepository
}

func NewStatsService(habitRepo *repository.HabitRepository, completionRepo *repository.CompletionRepository, pointRepo *repository.PointRepository) *StatsService {
	return &StatsService{
		HabitRepo:      habitRepo,
		CompletionRepo: completionRepo,
		PointRepo:      pointRepo,
	}
}

func (s *StatsService) Overview(userID uint) (*OverviewStats, error) {
	habits, err := s.HabitRepo.FindByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("list habits: %w", err)
	}

	completions, err := s.CompletionRepo.FindByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("list completions: %w", err)
	}

	balance, err := s.PointRepo.Balance(userID)
	if err != nil {
		return nil, fmt.Errorf("compute balance: %w", err)
	}

	return BuildOverview(habits, completions, balance, time.Now()), nil
}
