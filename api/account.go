package api

import (
	"homeledger/database"
	"homeledger/middleware"
	"homeledger/models"

	"github.com/gin-gonic/gin"
)

// AccountHandler 账户处理器
type AccountHandler struct{}

// NewAccountHandler 创建账户处理器
func NewAccountHandler() *AccountHandler {
	return &AccountHandler{}
}

// CreateAccountRequest 创建账户请求
type CreateAccountRequest struct {
	Name        string  `json:"name" binding:"required,max=255" example:"招行储蓄卡"`
	Institution string  `json:"institution" binding:"omitempty,max=255" example:"招商银行"`
	Type        string  `json:"type" binding:"required" example:"savings"`
	LastFour    string  `json:"last_four" binding:"omitempty,len=4" example:"8888"`
	Balance     float64 `json:"balance" example:"1000.00"`
}

// List 查询账户列表
// @Summary 查询账户列表
// @Description 查询当前家庭的所有启用账户，按名称排序
// @Tags 账户
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=[]models.Account} "查询成功"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/accounts [get]
func (h *AccountHandler) List(c *gin.Context) {
	householdID := middleware.GetCurrentHouseholdID(c)

	var accounts []models.Account
	if err := database.DB.
		Where("household_id = ? AND is_active = ?", householdID, true).
		Order("name ASC").
		Find(&accounts).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "查询账户失败"))
		return
	}

	Success(c, accounts)
}

// Create 创建账户
// @Summary 创建账户
// @Description 在当前家庭下创建账户
// @Tags 账户
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateAccountRequest true "账户信息"
// @Success 200 {object} Response{data=models.Account} "创建成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/accounts [post]
func (h *AccountHandler) Create(c *gin.Context) {
	var req CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	if !models.IsValidAccountType(req.Type) {
		BadRequest(c, "不支持的账户类型")
		return
	}

	account := models.Account{
		Name:        req.Name,
		Institution: req.Institution,
		Type:        req.Type,
		LastFour:    req.LastFour,
		Balance:     req.Balance,
		IsActive:    true,
		HouseholdID: middleware.GetCurrentHouseholdID(c),
	}

	if err := database.DB.Create(&account).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "创建账户失败"))
		return
	}

	SuccessWithMessage(c, "创建成功", account)
}

// GetTypes 查询支持的账户类型
// @Summary 查询账户类型列表
// @Tags 账户
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=[]string} "查询成功"
// @Router /api/v1/accounts/types [get]
func (h *AccountHandler) GetTypes(c *gin.Context) {
	Success(c, models.GetAccountTypes())
}
