package service

import (
	"family_habit_backend/internal/model"
	"family_habit_backend/internal/repository"
	"family_habit_backend/internal/util"
	"fmt"
)

// PointsSummary 积分页数据：当前余额加最近流水
type PointsSummary struct {
	Balance      int                      `json:"balance"`
	Transactions []model.PointTransaction `json:"transactions"`
}

type PointsService struct {
	PointRepo *repository.PointRepository
}

func NewPointsService(pointRepo *repository.PointRepository) *PointsService {
	return &PointsService{PointRepo: pointRepo}
}

// Summary 余额由流水实时推导，不维护独立余额字段
func (s *PointsService) Summary(userID uint) (*PointsSummary, error) {
	balance, err := s.PointRepo.Balance(userID)
	if err != nil {
		return nil, fmt.Errorf("compute balance: %w", err)
	}

	txns, err := s.PointRepo.FindRecentByUser(userID, util.RecentTransactionLimit)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}

	return &PointsSummary{
		Balance:      balance,
		Transactions: txns,
	}, nil
}
