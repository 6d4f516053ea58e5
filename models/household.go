package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Household 家庭组，是所有数据的租户边界
// 用户、账户、类别均归属于某个家庭组，正常运行中不会被删除
type Household struct {
	ID        string    `json:"id" gorm:"type:char(36);primaryKey"`
	Name      string    `json:"name" gorm:"size:255;not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName 设置表名
func (Household) TableName() string {
	return "households"
}

// BeforeCreate 创建前生成 UUID 主键
func (h *Household) BeforeCreate(tx *gorm.DB) error {
	if h.ID == "" {
		h.ID = uuid.NewString()
	}
	return nil
}
