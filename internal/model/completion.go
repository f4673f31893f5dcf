package model

import "time"

// TaskCompletion 打卡流水：某个任务在某个自然日被完成一次。
// (user_id, task_id, date) 唯一索引保证同一任务每天最多完成一次。
// 撤销打卡是物理删除，因此不带软删除列；习惯被删除后历史记录保留，
// habit_id/task_id 允许悬空引用。
// swagger:model TaskCompletion
type TaskCompletion struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID       uint      `gorm:"index;not null;uniqueIndex:idx_user_task_date" json:"userId"`
	TaskID       uint      `gorm:"not null;uniqueIndex:idx_user_task_date" json:"taskId"`
	HabitID      uint      `gorm:"index;not null" json:"habitId"`
	Date         string    `gorm:"size:10;index;not null;uniqueIndex:idx_user_task_date" json:"date"` // YYYY-MM-DD
	PointsEarned int       `gorm:"default:0" json:"pointsEarned"`
	CreatedAt    time.Time `json:"completedAt"`
}

func (TaskCompletion) TableName() string {
	return "task_completions"
}
