package api

import (
	"errors"

	"homeledger/database"
	"homeledger/middleware"
	"homeledger/service"
	"homeledger/validation"

	"github.com/gin-gonic/gin"
)

// TransactionHandler 交易记录处理器
type TransactionHandler struct{}

// NewTransactionHandler 创建交易记录处理器
func NewTransactionHandler() *TransactionHandler {
	return &TransactionHandler{}
}

// Create 创建交易
// @Summary 创建交易
// @Description 创建一条交易记录。金额有符号：正为收入，负为支出。添加人由登录态决定，不接受客户端指定。
// @Tags 交易
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body validation.CreateTransactionInput true "交易信息"
// @Success 200 {object} Response{data=models.Transaction} "创建成功"
// @Failure 400 {object} Response{data=[]validation.FieldViolation} "字段校验失败"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/transactions [post]
func (h *TransactionHandler) Create(c *gin.Context) {
	var payload map[string]any
	if err := c.ShouldBindJSON(&payload); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	input, violations := validation.ValidateCreateTransaction(payload)
	if len(violations) > 0 {
		ErrorWithData(c, 400, "字段校验失败", violations)
		return
	}

	svc := service.NewTransactionService(database.DB)
	tx, err := svc.Create(input, middleware.GetCurrentUserID(c), middleware.GetCurrentHouseholdID(c))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAccountNotInHousehold):
			BadRequest(c, "账户不存在或不属于当前家庭")
		case errors.Is(err, service.ErrCategoryNotInHousehold):
			BadRequest(c, "分类不存在或不属于当前家庭")
		default:
			InternalError(c, SafeErrorMessage(err, "创建交易失败"))
		}
		return
	}

	SuccessWithMessage(c, "创建成功", tx)
}

// List 查询交易列表
// @Summary 查询交易列表
// @Description 查询当前家庭的全部交易，按日期倒序。可选 month 参数（YYYY-MM）按自然月过滤。
// @Tags 交易
// @Produce json
// @Security BearerAuth
// @Param month query string false "月份，YYYY-MM" example("2024-01")
// @Success 200 {object} Response{data=[]models.Transaction} "查询成功"
// @Failure 400 {object} Response "月份参数错误"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/transactions [get]
func (h *TransactionHandler) List(c *gin.Context) {
	svc := service.NewTransactionService(database.DB)
	list, err := svc.FindAll(middleware.GetCurrentHouseholdID(c), c.Query("month"))
	if err != nil {
		if errors.Is(err, service.ErrInvalidMonth) {
			BadRequest(c, err.Error())
			return
		}
		InternalError(c, SafeErrorMessage(err, "查询交易失败"))
		return
	}

	Success(c, list)
}

// Get 查询单条交易
// @Summary 查询单条交易
// @Tags 交易
// @Produce json
// @Security BearerAuth
// @Param id path string true "交易 ID"
// @Success 200 {object} Response{data=models.Transaction} "查询成功"
// @Failure 404 {object} Response "记录不存在"
// @Router /api/v1/transactions/{id} [get]
func (h *TransactionHandler) Get(c *gin.Context) {
	svc := service.NewTransactionService(database.DB)
	tx, err := svc.FindOne(c.Param("id"))
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "查询交易失败"))
		return
	}
	if tx == nil {
		NotFound(c, "记录不存在")
		return
	}

	Success(c, tx)
}
