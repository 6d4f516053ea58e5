package service

import (
	"errors"

	"homeledger/models"
	"homeledger/validation"

	"gorm.io/gorm"
)

var (
	// ErrAccountNotInHousehold 引用的账户不存在或不属于当前家庭组
	ErrAccountNotInHousehold = errors.New("账户不存在或不属于当前家庭组")
	// ErrCategoryNotInHousehold 引用的类别不存在或不属于当前家庭组
	ErrCategoryNotInHousehold = errors.New("类别不存在或不属于当前家庭组")
)

// TransactionService 交易服务
// 负责把校验通过的创建参数落库，以及按月份区间查询交易
type TransactionService struct {
	db *gorm.DB
}

// NewTransactionService 创建交易服务
func NewTransactionService(db *gorm.DB) *TransactionService {
	return &TransactionService{db: db}
}

// Create 创建一笔交易
// added_by_user_id 一律取登录身份，客户端传入的值不生效；
// 引用的账户（以及类别，如果给了）必须属于操作者所在家庭组；
// 存储层错误原样上抛，由调用方决定如何呈现
func (s *TransactionService) Create(in *validation.CreateTransactionInput, actingUserID, householdID string) (*models.Transaction, error) {
	var account models.Account
	if err := s.db.Where("id = ? AND household_id = ?", in.AccountID, householdID).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotInHousehold
		}
		return nil, err
	}

	if in.CategoryID != nil {
		var category models.Category
		if err := s.db.Where("id = ? AND household_id = ?", *in.CategoryID, householdID).First(&category).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrCategoryNotInHousehold
			}
			return nil, err
		}
	}

	txn := models.Transaction{
		AccountID:     in.AccountID,
		Date:          in.Date,
		Amount:        in.Amount,
		Merchant:      in.Merchant,
		Description:   in.Description,
		CategoryID:    in.CategoryID,
		AddedByUserID: actingUserID,
		OwnerUserID:   in.OwnerUserID,
		CardID:        in.CardID,
	}

	if err := s.db.Create(&txn).Error; err != nil {
		return nil, err
	}
	return &txn, nil
}

// FindAll 查询家庭组的交易列表，按日期倒序
// monthToken 非空时限定在该月的闭区间内；没有匹配记录返回空切片而不是错误
// 交易本身不带 household_id，租户边界通过所属账户的 household_id 限定
func (s *TransactionService) FindAll(householdID, monthToken string) ([]models.Transaction, error) {
	query := s.db.Model(&models.Transaction{}).
		Joins("JOIN accounts ON accounts.id = transactions.account_id").
		Where("accounts.household_id = ?", householdID)

	if monthToken != "" {
		start, end, err := ResolveMonthRange(monthToken)
		if err != nil {
			return nil, err
		}
		query = query.Where("transactions.date >= ? AND transactions.date <= ?", start, end)
	}

	txns := make([]models.Transaction, 0)
	err := query.
		Preload("Account").
		Preload("Category").
		Preload("AddedByUser").
		Preload("OwnerUser").
		Order("transactions.date DESC").
		Find(&txns).Error
	if err != nil {
		return nil, err
	}
	return txns, nil
}

// FindOne 按ID查询单笔交易及其关联信息
// 未找到返回 (nil, nil)，属于正常结果而不是错误
func (s *TransactionService) FindOne(id string) (*models.Transaction, error) {
	var txn models.Transaction
	err := s.db.
		Preload("Account").
		Preload("Category").
		Preload("AddedByUser").
		Preload("OwnerUser").
		Where("id = ?", id).
		First(&txn).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &txn, nil
}
