package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// 账户类型，固定枚举
const (
	AccountTypeChecking   = "checking"
	AccountTypeSavings    = "savings"
	AccountTypeCreditCard = "credit_card"
	AccountTypeInvestment = "investment"
	AccountTypeLoan       = "loan"
	AccountTypeOther      = "other"
)

// GetAccountTypes 获取所有账户类型
func GetAccountTypes() []string {
	return []string{
		AccountTypeChecking,
		AccountTypeSavings,
		AccountTypeCreditCard,
		AccountTypeInvestment,
		AccountTypeLoan,
		AccountTypeOther,
	}
}

// IsValidAccountType 检查账户类型是否合法
func IsValidAccountType(t string) bool {
	for _, v := range GetAccountTypes() {
		if v == t {
			return true
		}
	}
	return false
}

// Account 账户模型
// 通过 is_active 软控制是否参与默认列表，不做物理删除
type Account struct {
	ID          string         `json:"id" gorm:"type:char(36);primaryKey"`
	Name        string         `json:"name" gorm:"size:255;not null"`
	Institution string         `json:"institution" gorm:"size:255"`
	Type        string         `json:"type" gorm:"size:20;not null"`
	LastFour    string         `json:"last_four" gorm:"size:4"`
	Balance     float64        `json:"balance" gorm:"type:decimal(12,2);default:0"`
	IsActive    bool           `json:"is_active" gorm:"default:true"`
	HouseholdID string         `json:"household_id" gorm:"type:char(36);not null;index"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`
	Household   Household      `json:"-" gorm:"foreignKey:HouseholdID"`
}

// TableName 设置表名
func (Account) TableName() string {
	return "accounts"
}

// BeforeCreate 创建前生成 UUID 主键
func (a *Account) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}
