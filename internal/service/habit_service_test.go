package service

import (
	"errors"
	"family_habit_backend/internal/model"
	"family_habit_backend/internal/repository"
	"family_habit_backend/internal/util"
	"testing"
)

func newHabitService(t *testing.T, name string) (*HabitService, func()) {
	t.Helper()
	db, cleanup := setupServiceTestDB(t, name)
	return NewHabitService(repository.NewHabitRepository(db)), cleanup
}

func TestCreateHabitNumbersTasks(t *testing.T) {
	svc, cleanup := newHabitService(t, "habit-create")
	defer cleanup()

	habit, err := svc.Create(1, &HabitInput{
		Name:     "晨读",
		Category: "学习",
		Tasks: []TaskInput{
			{Title: "读10分钟"},
			{Title: "记一句话"},
		},
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if !habit.Active {
		t.Fatalf("new habit must be active")
	}
	if len(habit.Tasks) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(habit.Tasks))
	}
	if habit.Tasks[0].Order != 1 || habit.Tasks[1].Order != 2 {
		t.Fatalf("tasks must be numbered in submission order: %+v", habit.Tasks)
	}
}

func TestCreateHabitRequiresName(t *testing.T) {
	svc, cleanup := newHabitService(t, "habit-noname")
	defer cleanup()

	if _, err := svc.Create(1, &HabitInput{Name: "   "}); !errors.Is(err, util.ErrNameRequired) {
		t.Fatalf("expected ErrNameRequired, got %v", err)
	}
}

func TestUpdateHabitReplacesTasks(t *testing.T) {
	svc, cleanup := newHabitService(t, "habit-update")
	defer cleanup()

	habit, err := svc.Create(1, &HabitInput{
		Name:  "晨读",
		Tasks: []TaskInput{{Title: "旧任务"}},
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	updated, err := svc.Update(habit.ID, 1, &HabitInput{
		Name: "晚读",
		Tasks: []TaskInput{
			{Title: "新任务1"},
			{Title: "新任务2"},
		},
	})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}

	if updated.Name != "晚读" {
		t.Fatalf("expected renamed habit, got %s", updated.Name)
	}
	if len(updated.Tasks) != 2 || updated.Tasks[0].Title != "新任务1" {
		t.Fatalf("tasks not replaced: %+v", updated.Tasks)
	}
}

func TestToggleHabit(t *testing.T) {
	svc, cleanup := newHabitService(t, "habit-toggle")
	defer cleanup()

	habit, err := svc.Create(1, &HabitInput{Name: "晨读"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	toggled, err := svc.Toggle(habit.ID, 1)
	if err != nil {
		t.Fatalf("toggle failed: %v", err)
	}
	if toggled.Active {
		t.Fatalf("expected habit deactivated")
	}

	toggled, err = svc.Toggle(habit.ID, 1)
	if err != nil {
		t.Fatalf("second toggle failed: %v", err)
	}
	if !toggled.Active {
		t.Fatalf("expected habit reactivated")
	}
}

func TestHabitOwnershipScoping(t *testing.T) {
	svc, cleanup := newHabitService(t, "habit-scope")
	defer cleanup()

	habit, err := svc.Create(1, &HabitInput{Name: "晨读"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	// 其他用户看不到也改不了
	if _, err := svc.Get(habit.ID, 2); !errors.Is(err, util.ErrHabitNotFound) {
		t.Fatalf("expected ErrHabitNotFound for other user, got %v", err)
	}
	if err := svc.Delete(habit.ID, 2); !errors.Is(err, util.ErrHabitNotFound) {
		t.Fatalf("expected ErrHabitNotFound on delete, got %v", err)
	}
}

func TestDeleteHabitKeepsCompletions(t *testing.T) {
	db, cleanup := setupServiceTestDB(t, "habit-delete")
	defer cleanup()

	habitSvc := NewHabitService(repository.NewHabitRepository(db))
	taskSvc := newTaskService(db)

	habit, err := habitSvc.Create(1, &HabitInput{
		Name:  "晨读",
		Tasks: []TaskInput{{Title: "读10分钟"}},
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if _, err := taskSvc.Complete(1, habit.Tasks[0].ID, habit.ID, "2026-03-10"); err != nil {
		t.Fatalf("complete failed: %v", err)
	}

	if err := habitSvc.Delete(habit.ID, 1); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	var taskCount int64
	db.Model(&model.Task{}).Where("habit_id = ?", habit.ID).Count(&taskCount)
	if taskCount != 0 {
		t.Fatalf("expected tasks deleted, got %d", taskCount)
	}

	// 打卡历史保留，统计里作为悬空引用继续计数
	var completionCount int64
	db.Model(&model.TaskCompletion{}).Count(&completionCount)
	if completionCount != 1 {
		t.Fatalf("expected completion retained, got %d", completionCount)
	}
}
