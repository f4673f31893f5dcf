package service

import (
	"errors"
	"family_habit_backend/internal/model"
	"family_habit_backend/internal/repository"
	"family_habit_backend/internal/util"
	"family_habit_backend/pkg/monitoring"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RewardInput struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Points      int    `json:"points" binding:"required"`
	Image       string `json:"image"`
}

// defaultRewards 新用户首次打开奖励页时播种的默认奖励目录
var defaultRewards = []model.Reward{
	{Name: "阅读达人", Description: "连续阅读打卡30天", Points: 300, Type: model.RewardBadge, Image: "📚"},
	{Name: "自律小能手", Description: "连续完成所有任务7天", Points: 500, Type: model.RewardBadge, Image: "⭐"},
	{Name: "习惯养成者", Description: "累计完成100个任务", Points: 1000, Type: model.RewardBadge, Image: "🏆"},
	{Name: "冰淇淋", Description: "一个美味的冰淇淋", Points: 500, Type: model.RewardPhysical, Image: "🍦"},
	{Name: "小玩具", Description: "心仪的小玩具一个", Points: 800, Type: model.RewardPhysical, Image: "🧸"},
	{Name: "画画套装", Description: "全新的画画工具", Points: 1000, Type: model.RewardPhysical, Image: "🎨"},
	{Name: "故事书", Description: "喜欢的故事书一本", Points: 600, Type: model.RewardPhysical, Image: "📖"},
}

// RewardService 奖励目录与兑换。徽章只能兑换一次，
// 实物和自定义心愿可反复兑换。
type RewardService struct {
	RewardRepo *repository.RewardRepository
	DB         *gorm.DB
}

func NewRewardService(rewardRepo *repository.RewardRepository, db *gorm.DB) *RewardService {
	return &RewardService{RewardRepo: rewardRepo, DB: db}
}

// List 返回用户的奖励目录，目录为空时先播种默认奖励
func (s *RewardService) List(userID uint) ([]model.Reward, error) {
	count, err := s.RewardRepo.CountByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("count rewards: %w", err)
	}

	if count == 0 {
		if err := s.seedDefaults(userID); err != nil {
			return nil, fmt.Errorf("seed rewards: %w", err)
		}
	}

	return s.RewardRepo.FindByUser(userID)
}

// ListEarned 已获得的徽章墙
func (s *RewardService) ListEarned(userID uint) ([]model.Reward, error) {
	return s.RewardRepo.FindEarnedByUser(userID)
}

// CreateCustom 添加自定义心愿，积分门槛 50 起
func (s *RewardService) CreateCustom(userID uint, input *RewardInput) (*model.Reward, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, util.ErrNameRequired
	}
	if input.Points < util.RewardMinPoints {
		return nil, util.ErrRewardPointsTooLow
	}

	reward := &model.Reward{
		UserID:      userID,
		Name:        strings.TrimSpace(input.Name),
		Description: input.Description,
		Points:      input.Points,
		Type:        model.RewardCustom,
		Image:       input.Image,
	}
	if err := s.RewardRepo.Create(reward); err != nil {
		return nil, fmt.Errorf("create reward: %w", err)
	}
	return reward, nil
}

// Redeem 兑换奖励：校验余额后记一笔扣分流水，徽章同时置位 Earned。
// 奖励行加 FOR UPDATE 锁，同一奖励的并发兑换在锁上排队，余额校验
// 和徽章判定都在锁后进行；徽章置位再带 earned = false 条件兜底，
// 保证至多兑换一次。
func (s *RewardService) Redeem(userID, rewardID uint) (*model.Reward, error) {
	var redeemed *model.Reward

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var reward model.Reward
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ? AND user_id = ?", rewardID, userID).
			First(&reward).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return util.ErrRewardNotFound
			}
			return err
		}

		if reward.Type == model.RewardBadge && reward.Earned {
			return util.ErrBadgeAlreadyEarned
		}

		var balance int
		if err := tx.Model(&model.PointTransaction{}).
			Select("COALESCE(SUM(CASE WHEN type = 'EARN' THEN amount ELSE -amount END), 0)").
			Where("user_id = ?", userID).
			Scan(&balance).Error; err != nil {
			return err
		}
		if balance < reward.Points {
			return util.ErrInsufficientPoints
		}

		if err := tx.Create(&model.PointTransaction{
			UserID:      userID,
			Amount:      reward.Points,
			Type:        model.PointSpend,
			Description: fmt.Sprintf("兑换奖励: %s", reward.Name),
		}).Error; err != nil {
			return err
		}

		if reward.Type == model.RewardBadge {
			res := tx.Model(&model.Reward{}).
				Where("id = ? AND earned = ?", reward.ID, false).
				Update("earned", true)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return util.ErrBadgeAlreadyEarned
			}
			reward.Earned = true
		}

		redeemed = &reward
		return nil
	})
	if err != nil {
		return nil, err
	}

	monitoring.RewardRedemptions.Inc()
	return redeemed, nil
}

func (s *RewardService) seedDefaults(userID uint) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		for _, r := range defaultRewards {
			reward := r
			reward.UserID = userID
			if err := tx.Create(&reward).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
