package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Category 交易类别，通过 parent_id 构成树形结构
// 一个类别至多一个父类别；树的遍历通过按 id 查找进行，不做对象图导航
type Category struct {
	ID          string         `json:"id" gorm:"type:char(36);primaryKey"`
	Name        string         `json:"name" gorm:"size:255;not null"`
	Description string         `json:"description" gorm:"type:text"`
	Color       string         `json:"color" gorm:"size:50"` // 颜色代码，如 #ef4444
	Icon        string         `json:"icon" gorm:"size:50"`
	ParentID    *string        `json:"parent_id" gorm:"type:char(36);index"`
	HouseholdID string         `json:"household_id" gorm:"type:char(36);not null;index"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`
	Household   Household      `json:"-" gorm:"foreignKey:HouseholdID"`
}

// TableName 设置表名
func (Category) TableName() string {
	return "categories"
}

// BeforeCreate 创建前生成 UUID 主键
func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}
