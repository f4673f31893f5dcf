package model

type RewardType string

const (
	RewardBadge    RewardType = "badge"
	RewardPhysical RewardType = "physical"
	RewardCustom   RewardType = "custom"
)

// Reward 可兑换奖励。徽章只能兑换一次（Earned 置位后不可重复），
// 实物和自定义心愿可以反复兑换，每次都扣积分。
// swagger:model Reward
type Reward struct {
	BaseModel
	UserID      uint       `gorm:"index;not null" json:"userId"`
	Name        string     `gorm:"size:100;not null" json:"name"`
	Description string     `gorm:"size:500" json:"description"`
	Points      int        `gorm:"not null" json:"points"`
	Type        RewardType `gorm:"size:10;default:'custom'" json:"type"`
	Image       string     `gorm:"size:255" json:"image,omitempty"`
	Earned      bool       `gorm:"default:false" json:"earned"` // 仅对徽章有意义
}

func (Reward) TableName() string {
	return "rewards"
}
