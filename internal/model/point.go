package model

type PointTransactionType string

const (
	PointEarn  PointTransactionType = "EARN"
	PointSpend PointTransactionType = "SPEND"
)

// PointTransaction 积分流水，金额恒为正数，方向由 Type 决定。
// 当前余额 = ΣEARN - ΣSPEND，不单独存储余额字段。
// swagger:model PointTransaction
type PointTransaction struct {
	BaseModel
	UserID      uint                 `gorm:"index;not null" json:"userId"`
	Amount      int                  `gorm:"not null" json:"amount"`
	Type        PointTransactionType `gorm:"size:10;not null" json:"type"`
	Description string               `gorm:"size:255" json:"description"`
}

func (PointTransaction) TableName() string {
	return "point_transactions"
}
