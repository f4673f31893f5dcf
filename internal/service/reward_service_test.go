package service

import (
	"errors"
	"family_habit_backend/internal/model"
	"family_habit_backend/internal/repository"
	"family_habit_backend/internal/util"
	"testing"

	"gorm.io/gorm"
)

func newRewardService(db *gorm.DB) *RewardService {
	return NewRewardService(repository.NewRewardRepository(db), db)
}

func givePoints(t *testing.T, db *gorm.DB, userID uint, amount int) {
	t.Helper()
	if err := db.Create(&model.PointTransaction{
		UserID:      userID,
		Amount:      amount,
		Type:        model.PointEarn,
		Description: "测试积分",
	}).Error; err != nil {
		t.Fatalf("failed to seed points: %v", err)
	}
}

func TestListSeedsDefaultRewards(t *testing.T) {
	db, cleanup := setupServiceTestDB(t, "reward-seed")
	defer cleanup()

	svc := newRewardService(db)

	rewards, err := svc.List(1)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(rewards) != len(defaultRewards) {
		t.Fatalf("expected %d seeded rewards, got %d", len(defaultRewards), len(rewards))
	}

	badges := 0
	for _, r := range rewards {
		if r.UserID != 1 {
			t.Fatalf("seeded reward must belong to user: %+v", r)
		}
		if r.Type == model.RewardBadge {
			badges++
		}
	}
	if badges != 3 {
		t.Fatalf("expected 3 badge rewards, got %d", badges)
	}

	// 再次访问不重复播种
	rewards, err = svc.List(1)
	if err != nil {
		t.Fatalf("second list failed: %v", err)
	}
	if len(rewards) != len(defaultRewards) {
		t.Fatalf("seeding must be idempotent, got %d", len(rewards))
	}
}

func TestCreateCustomRewardMinPoints(t *testing.T) {
	db, cleanup := setupServiceTestDB(t, "reward-min")
	defer cleanup()

	svc := newRewardService(db)

	if _, err := svc.CreateCustom(1, &RewardInput{Name: "小心愿", Points: 49}); !errors.Is(err, util.ErrRewardPointsTooLow) {
		t.Fatalf("expected ErrRewardPointsTooLow, got %v", err)
	}

	reward, err := svc.CreateCustom(1, &RewardInput{Name: "小心愿", Points: util.RewardMinPoints})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if reward.Type != model.RewardCustom {
		t.Fatalf("expected custom type, got %s", reward.Type)
	}
}

func TestRedeemDeductsPoints(t *testing.T) {
	db, cleanup := setupServiceTestDB(t, "reward-redeem")
	defer cleanup()

	svc := newRewardService(db)
	givePoints(t, db, 1, 600)

	reward, err := svc.CreateCustom(1, &RewardInput{Name: "冰淇淋券", Points: 500})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if _, err := svc.Redeem(1, reward.ID); err != nil {
		t.Fatalf("redeem failed: %v", err)
	}

	balance, _ := repository.NewPointRepository(db).Balance(1)
	if balance != 100 {
		t.Fatalf("expected balance 100, got %d", balance)
	}

	// 余额不足时拒绝二次兑换
	if _, err := svc.Redeem(1, reward.ID); !errors.Is(err, util.ErrInsufficientPoints) {
		t.Fatalf("expected ErrInsufficientPoints, got %v", err)
	}
}

func TestRedeemBadgeOnlyOnce(t *testing.T) {
	db, cleanup := setupServiceTestDB(t, "reward-badge")
	defer cleanup()

	svc := newRewardService(db)
	givePoints(t, db, 1, 1000)

	badge := &model.Reward{UserID: 1, Name: "阅读达人", Points: 300, Type: model.RewardBadge}
	if err := db.Create(badge).Error; err != nil {
		t.Fatalf("failed to seed badge: %v", err)
	}

	redeemed, err := svc.Redeem(1, badge.ID)
	if err != nil {
		t.Fatalf("redeem failed: %v", err)
	}
	if !redeemed.Earned {
		t.Fatalf("badge must be marked earned after redemption")
	}

	// 积分充足也不允许重复兑换徽章
	if _, err := svc.Redeem(1, badge.ID); !errors.Is(err, util.ErrBadgeAlreadyEarned) {
		t.Fatalf("expected ErrBadgeAlreadyEarned, got %v", err)
	}

	earned, err := svc.ListEarned(1)
	if err != nil {
		t.Fatalf("earned list failed: %v", err)
	}
	if len(earned) != 1 || earned[0].ID != badge.ID {
		t.Fatalf("expected badge in earned list, got %+v", earned)
	}
}

func countSpends(t *testing.T, db *gorm.DB, userID uint) int64 {
	t.Helper()
	var n int64
	if err := db.Model(&model.PointTransaction{}).
		Where("user_id = ? AND type = ?", userID, model.PointSpend).
		Count(&n).Error; err != nil {
		t.Fatalf("count spends: %v", err)
	}
	return n
}

func TestRedeemExactBalance(t *testing.T) {
	db, cleanup := setupServiceTestDB(t, "reward-boundary")
	defer cleanup()

	svc := newRewardService(db)
	givePoints(t, db, 1, 500)

	reward := &model.Reward{UserID: 1, Name: "冰淇淋", Points: 500, Type: model.RewardPhysical}
	if err := db.Create(reward).Error; err != nil {
		t.Fatalf("failed to seed reward: %v", err)
	}

	// 余额恰好等于价格时允许兑换
	if _, err := svc.Redeem(1, reward.ID); err != nil {
		t.Fatalf("redeem failed: %v", err)
	}
	balance, _ := repository.NewPointRepository(db).Balance(1)
	if balance != 0 {
		t.Fatalf("expected balance 0, got %d", balance)
	}
	if n := countSpends(t, db, 1); n != 1 {
		t.Fatalf("expected exactly 1 spend row, got %d", n)
	}

	// 再次兑换被拒绝，余额不被扣成负数，流水也不多记
	if _, err := svc.Redeem(1, reward.ID); !errors.Is(err, util.ErrInsufficientPoints) {
		t.Fatalf("expected ErrInsufficientPoints, got %v", err)
	}
	balance, _ = repository.NewPointRepository(db).Balance(1)
	if balance != 0 {
		t.Fatalf("balance must never go negative, got %d", balance)
	}
	if n := countSpends(t, db, 1); n != 1 {
		t.Fatalf("rejected redeem must not write a spend row, got %d", n)
	}
}

func TestRedeemEarnedBadgeLeavesNoSpend(t *testing.T) {
	db, cleanup := setupServiceTestDB(t, "reward-earned-rollback")
	defer cleanup()

	svc := newRewardService(db)
	givePoints(t, db, 1, 1000)

	badge := &model.Reward{UserID: 1, Name: "阅读达人", Points: 300, Type: model.RewardBadge, Earned: true}
	if err := db.Create(badge).Error; err != nil {
		t.Fatalf("failed to seed badge: %v", err)
	}

	if _, err := svc.Redeem(1, badge.ID); !errors.Is(err, util.ErrBadgeAlreadyEarned) {
		t.Fatalf("expected ErrBadgeAlreadyEarned, got %v", err)
	}

	// 兑换失败时整个事务回滚，积分不被扣走
	if n := countSpends(t, db, 1); n != 0 {
		t.Fatalf("failed badge redeem must not write a spend row, got %d", n)
	}
	balance, _ := repository.NewPointRepository(db).Balance(1)
	if balance != 1000 {
		t.Fatalf("expected balance 1000, got %d", balance)
	}
}

func TestRedeemPhysicalRepeatable(t *testing.T) {
	db, cleanup := setupServiceTestDB(t, "reward-physical")
	defer cleanup()

	svc := newRewardService(db)
	givePoints(t, db, 1, 1200)

	physical := &model.Reward{UserID: 1, Name: "冰淇淋", Points: 500, Type: model.RewardPhysical}
	if err := db.Create(physical).Error; err != nil {
		t.Fatalf("failed to seed reward: %v", err)
	}

	if _, err := svc.Redeem(1, physical.ID); err != nil {
		t.Fatalf("first redeem failed: %v", err)
	}
	if _, err := svc.Redeem(1, physical.ID); err != nil {
		t.Fatalf("second redeem failed: %v", err)
	}

	balance, _ := repository.NewPointRepository(db).Balance(1)
	if balance != 200 {
		t.Fatalf("expected balance 200, got %d", balance)
	}
}

func TestRedeemOtherUsersReward(t *testing.T) {
	db, cleanup := setupServiceTestDB(t, "reward-scope")
	defer cleanup()

	svc := newRewardService(db)
	givePoints(t, db, 2, 1000)

	reward := &model.Reward{UserID: 1, Name: "冰淇淋", Points: 500, Type: model.RewardPhysical}
	if err := db.Create(reward).Error; err != nil {
		t.Fatalf("failed to seed reward: %v", err)
	}

	if _, err := svc.Redeem(2, reward.ID); !errors.Is(err, util.ErrRewardNotFound) {
		t.Fatalf("expected ErrRewardNotFound, got %v", err)
	}
}
