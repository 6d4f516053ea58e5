package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Transaction 交易记录模型
// 金额带符号：负数为支出，正数为收入，保留两位小数
// added_by_user_id 由服务端根据登录身份写入，owner_user_id 表示这笔交易归属于谁
// 交易创建后不可修改，不提供更新/删除操作
type Transaction struct {
	ID            string    `json:"id" gorm:"type:char(36);primaryKey"`
	AccountID     string    `json:"account_id" gorm:"type:char(36);not null;index"`
	Date          time.Time `json:"date" gorm:"type:date;not null;index"`
	Amount        float64   `json:"amount" gorm:"type:decimal(12,2);not null"`
	Merchant      string    `json:"merchant" gorm:"size:255"`
	Description   string    `json:"description" gorm:"size:1000"`
	CategoryID    *string   `json:"category_id" gorm:"type:char(36);index"`
	AddedByUserID string    `json:"added_by_user_id" gorm:"type:char(36);not null;index"`
	OwnerUserID   *string   `json:"owner_user_id" gorm:"type:char(36)"`
	// TODO: 建模 Card 实体后补充外键关联
	CardID    *string   `json:"card_id" gorm:"type:char(36)"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Account     Account   `json:"account" gorm:"foreignKey:AccountID"`
	Category    *Category `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
	AddedByUser User      `json:"added_by_user" gorm:"foreignKey:AddedByUserID"`
	OwnerUser   *User     `json:"owner_user,omitempty" gorm:"foreignKey:OwnerUserID"`
}

// TableName 设置表名
func (Transaction) TableName() string {
	return "transactions"
}

// BeforeCreate 创建前生成 UUID 主键
func (t *Transaction) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}
