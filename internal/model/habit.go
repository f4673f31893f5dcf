package model

// Habit 习惯：由若干有序任务组成的培养目标。
// 停用的习惯不再生成每日任务，但历史统计仍然保留。
// swagger:model Habit
type Habit struct {
	BaseModel
	UserID      uint   `gorm:"index;not null" json:"userId"`
	Name        string `gorm:"size:100;not null" json:"name"`
	Description string `gorm:"size:500" json:"description"`
	Category    string `gorm:"size:50;index" json:"category"` // 学习/生活/社交/运动/健康 等自由分类
	Active      bool   `gorm:"default:true" json:"active"`
	Tasks       []Task `gorm:"constraint:OnDelete:CASCADE" json:"tasks"`
}

func (Habit) TableName() string {
	return "habits"
}

// Task 习惯中的单个可执行步骤，Order 决定展示顺序。
// swagger:model Task
type Task struct {
	BaseModel
	HabitID     uint   `gorm:"index;not null" json:"habitId"`
	Title       string `gorm:"size:100;not null" json:"title"`
	Description string `gorm:"size:500" json:"description"`
	Order       int    `gorm:"column:task_order;default:0" json:"order"`
}

func (Task) TableName() string {
	return "tasks"
}
