package service

import (
	"family_habit_backend/internal/model"
	"strings"
	"testing"
)

func reportHabit(id uint, name string, active bool) model.Habit {
	h := model.Habit{Name: name, Active: active}
	h.ID = id
	return h
}

func reportTask(habitID uint, completed bool) TodayTask {
	return TodayTask{HabitID: habitID, Completed: completed}
}

func TestBuildDailyReportEmpty(t *testing.T) {
	report := BuildDailyReport(nil, nil)

	if report.OverallCompletion != 0 {
		t.Fatalf("expected 0%%, got %d", report.OverallCompletion)
	}
	if report.Achievement.Title != "开始起步" {
		t.Fatalf("expected 开始起步, got %s", report.Achievement.Title)
	}
	if len(report.Suggestions) == 0 || report.Suggestions[0].Title != "需要加油" {
		t.Fatalf("expected 需要加油 suggestion, got %+v", report.Suggestions)
	}
}

func TestBuildDailyReportPerfect(t *testing.T) {
	habits := []model.Habit{reportHabit(1, "晨读", true)}
	tasks := []TodayTask{
		reportTask(1, true),
		reportTask(1, true),
	}

	report := BuildDailyReport(habits, tasks)

	if report.OverallCompletion != 100 {
		t.Fatalf("expected 100%%, got %d", report.OverallCompletion)
	}
	// 100% 有独立的成就档位
	if report.Achievement.Title != "完美达成" {
		t.Fatalf("expected 完美达成, got %s", report.Achievement.Title)
	}
	if report.Suggestions[0].Type != suggestionPositive || report.Suggestions[0].Title != "继续保持" {
		t.Fatalf("expected positive suggestion, got %+v", report.Suggestions[0])
	}
}

func TestBuildDailyReportHighCompletion(t *testing.T) {
	habits := []model.Habit{reportHabit(1, "晨读", true)}
	tasks := []TodayTask{
		reportTask(1, true),
		reportTask(1, true),
		reportTask(1, true),
		reportTask(1, true),
		reportTask(1, false),
	}

	report := BuildDailyReport(habits, tasks)

	if report.OverallCompletion != 80 {
		t.Fatalf("expected 80%%, got %d", report.OverallCompletion)
	}
	if report.Achievement.Title != "优秀表现" {
		t.Fatalf("expected 优秀表现, got %s", report.Achievement.Title)
	}
}

func TestBuildDailyReportMidCompletion(t *testing.T) {
	habits := []model.Habit{reportHabit(1, "晨读", true)}
	tasks := []TodayTask{
		reportTask(1, true),
		reportTask(1, false),
	}

	report := BuildDailyReport(habits, tasks)

	if report.OverallCompletion != 50 {
		t.Fatalf("expected 50%%, got %d", report.OverallCompletion)
	}
	if report.Achievement.Title != "稳步前进" {
		t.Fatalf("expected 稳步前进, got %s", report.Achievement.Title)
	}
	if report.Suggestions[0].Title != "还可以更好" {
		t.Fatalf("expected 还可以更好, got %s", report.Suggestions[0].Title)
	}
}

func TestBuildDailyReportPerHabitSuggestions(t *testing.T) {
	habits := []model.Habit{
		reportHabit(1, "晨读", true),
		reportHabit(2, "运动", true),
	}
	tasks := []TodayTask{
		reportTask(1, true),
		reportTask(1, true),
		reportTask(2, false),
		reportTask(2, false),
		reportTask(2, true),
	}

	report := BuildDailyReport(habits, tasks)

	// 完成度低于50%的习惯有针对性建议
	found := false
	for _, s := range report.Suggestions {
		if strings.Contains(s.Title, "运动") {
			found = true
			if s.Type != suggestionImprovement {
				t.Fatalf("per-habit suggestion must be improvement type")
			}
		}
		if strings.Contains(s.Title, "晨读") {
			t.Fatalf("habit at 100%% must not get a suggestion")
		}
	}
	if !found {
		t.Fatalf("expected per-habit suggestion for 运动, got %+v", report.Suggestions)
	}
}

func TestBuildDailyReportHabitScoping(t *testing.T) {
	habits := []model.Habit{
		reportHabit(1, "晨读", true),
		reportHabit(2, "停用的", false),
		reportHabit(3, "无任务", true),
	}
	tasks := []TodayTask{reportTask(1, true)}

	report := BuildDailyReport(habits, tasks)

	if len(report.HabitCompletions) != 2 {
		t.Fatalf("expected 2 habit entries, got %d", len(report.HabitCompletions))
	}
	for _, hc := range report.HabitCompletions {
		if hc.Name == "停用的" {
			t.Fatalf("inactive habit must not appear in report")
		}
		// 启用但没有任务的习惯保留在报告里，完成率 0
		if hc.Name == "无任务" && (hc.Completion != 0 || hc.Total != 0) {
			t.Fatalf("zero-task habit should report 0, got %+v", hc)
		}
	}
}

func TestBuildDailyReportRounding(t *testing.T) {
	habits := []model.Habit{reportHabit(1, "晨读", true)}
	tasks := []TodayTask{
		reportTask(1, true),
		reportTask(1, true),
		reportTask(1, false),
	}

	report := BuildDailyReport(habits, tasks)

	// 2/3 四舍五入为 67
	if report.OverallCompletion != 67 {
		t.Fatalf("expected 67%%, got %d", report.OverallCompletion)
	}
}
