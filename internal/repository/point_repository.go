package repository

import (
	"family_habit_backend/internal/model"

	"gorm.io/gorm"
)

type PointRepository struct {
	DB *gorm.DB
}

func NewPointRepository(db *gorm.DB) *PointRepository {
	return &PointRepository{DB: db}
}

func (r *PointRepository) Create(txn *model.PointTransaction) error {
	return r.DB.Create(txn).Error
}

// Balance 按流水推导当前余额：ΣEARN - ΣSPEND
func (r *PointRepository) Balance(userID uint) (int, error) {
	var balance int
	err := r.DB.Model(&model.PointTransaction{}).
		Select("COALESCE(SUM(CASE WHEN type = 'EARN' THEN amount ELSE -amount END), 0)").
		Where("user_id = ?", userID).
		Scan(&balance).Error
	return balance, err
}

// FindRecentByUser 返回最近的 limit 条流水，新的在前
func (r *PointRepository) FindRecentByUser(userID uint, limit int) ([]model.PointTransaction, error) {
	var txns []model.PointTransaction
	err := r.DB.Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&txns).Error
	return txns, err
}
