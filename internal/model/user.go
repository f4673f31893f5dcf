package model

import (
	"time"
)

type UserRole string

const (
	Parent UserRole = "PARENT"
	Child  UserRole = "CHILD"
)

// 家庭成员账号。邮箱注册用户带密码，手机验证码用户可以没有邮箱和密码。
// swagger:model User
type User struct {
	BaseModel
	Name      string    `gorm:"size:100;not null" json:"name"`
	Email     *string   `gorm:"size:100;uniqueIndex" json:"email,omitempty"`
	Phone     *string   `gorm:"size:20;uniqueIndex" json:"phone,omitempty"`
	Password  string    `gorm:"size:100" json:"-"`
	Role      UserRole  `gorm:"size:10;default:'CHILD'" json:"role"`
	ParentID  *uint     `gorm:"index" json:"parentId,omitempty"` // 孩子账号关联的家长
	Avatar    string    `gorm:"size:255" json:"avatar,omitempty"`
	LastLogin time.Time `json:"lastLogin"`
	LastSeen  time.Time `json:"lastSeen"`
}

func (User) TableName() string {
	return "users"
}
