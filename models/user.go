package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User 用户模型
// PasswordHash 永远不参与 JSON 序列化；邮箱全局唯一，由数据库唯一索引保证
type User struct {
	ID           string         `json:"id" gorm:"type:char(36);primaryKey"`
	Email        string         `json:"email" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash string         `json:"-" gorm:"size:255;not null"`
	FirstName    string         `json:"first_name" gorm:"size:100;not null"`
	LastName     string         `json:"last_name" gorm:"size:100;not null"`
	Settings     map[string]any `json:"settings,omitempty" gorm:"serializer:json"`
	HouseholdID  string         `json:"household_id" gorm:"type:char(36);not null;index"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	Household    Household      `json:"-" gorm:"foreignKey:HouseholdID"`
}

// TableName 设置表名
func (User) TableName() string {
	return "users"
}

// BeforeCreate 创建前生成 UUID 主键
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}
