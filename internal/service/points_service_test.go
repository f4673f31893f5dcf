package service

import (
	"family_habit_backend/internal/model"
	"family_habit_backend/internal/repository"
	"testing"
)

func TestPointsSummary(t *testing.T) {
	db, cleanup := setupServiceTestDB(t, "points-summary")
	defer cleanup()

	svc := NewPointsService(repository.NewPointRepository(db))

	// 12笔收入加1笔支出
	for i := 0; i < 12; i++ {
		if err := db.Create(&model.PointTransaction{
			UserID: 1, Amount: 100, Type: model.PointEarn, Description: "完成任务",
		}).Error; err != nil {
			t.Fatalf("seed failed: %v", err)
		}
	}
	if err := db.Create(&model.PointTransaction{
		UserID: 1, Amount: 500, Type: model.PointSpend, Description: "兑换奖励",
	}).Error; err != nil {
		t.Fatalf("seed failed: %v", err)
	}
	// 其他用户的流水不参与
	if err := db.Create(&model.PointTransaction{
		UserID: 2, Amount: 999, Type: model.PointEarn, Description: "别人的",
	}).Error; err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	summary, err := svc.Summary(1)
	if err != nil {
		t.Fatalf("summary failed: %v", err)
	}

	if summary.Balance != 700 {
		t.Fatalf("expected balance 700, got %d", summary.Balance)
	}
	if len(summary.Transactions) != 10 {
		t.Fatalf("expected 10 recent transactions, got %d", len(summary.Transactions))
	}
	// 新的在前
	if summary.Transactions[0].Type != model.PointSpend {
		t.Fatalf("expected newest transaction first, got %+v", summary.Transactions[0])
	}
}

func TestPointsSummaryEmpty(t *testing.T) {
	db, cleanup := setupServiceTestDB(t, "points-empty")
	defer cleanup()

	svc := NewPointsService(repository.NewPointRepository(db))
	summary, err := svc.Summary(1)
	if err != nil {
		t.Fatalf("summary failed: %v", err)
	}
	if summary.Balance != 0 || len(summary.Transactions) != 0 {
		t.Fatalf("expected empty summary, got %+v", summary)
	}
}
