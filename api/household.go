package api

import (
	"fmt"

	"homeledger/config"
	"homeledger/database"
	"homeledger/middleware"
	"homeledger/models"
	"homeledger/service"

	"github.com/gin-gonic/gin"
)

// HouseholdHandler 家庭处理器
type HouseholdHandler struct {
	cfg          *config.Config
	emailService *service.EmailService
}

// NewHouseholdHandler 创建家庭处理器
func NewHouseholdHandler(cfg *config.Config) *HouseholdHandler {
	return &HouseholdHandler{
		cfg:          cfg,
		emailService: service.NewEmailService(&cfg.Email),
	}
}

// InviteRequest 邀请成员请求
type InviteRequest struct {
	Email string `json:"email" binding:"required,email" example:"new-member@example.com"`
}

// Get 查询当前家庭信息
// @Summary 查询当前家庭信息
// @Tags 家庭
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=models.Household} "查询成功"
// @Failure 404 {object} Response "家庭不存在"
// @Router /api/v1/households/current [get]
func (h *HouseholdHandler) Get(c *gin.Context) {
	householdID := middleware.GetCurrentHouseholdID(c)

	var household models.Household
	if err := database.DB.Where("id = ?", householdID).First(&household).Error; err != nil {
		NotFound(c, "家庭不存在")
		return
	}

	Success(c, household)
}

// Invite 邀请新成员加入家庭
// @Summary 邀请新成员加入家庭
// @Description 向指定邮箱发送邀请邮件，邮件内含注册链接，注册后自动加入当前家庭
// @Tags 家庭
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body InviteRequest true "邀请信息"
// @Success 200 {object} Response "发送成功"
// @Failure 400 {object} Response "请求参数错误或邮箱已被注册"
// @Failure 500 {object} Response "邮件发送失败"
// @Router /api/v1/households/invite [post]
func (h *HouseholdHandler) Invite(c *gin.Context) {
	var req InviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "请输入有效的邮箱地址")
		return
	}

	// 已注册的邮箱不需要邀请
	var existingUser models.User
	if err := database.DB.Where("email = ?", req.Email).First(&existingUser).Error; err == nil {
		BadRequest(c, "该邮箱已被注册")
		return
	}

	var household models.Household
	if err := database.DB.Where("id = ?", middleware.GetCurrentHouseholdID(c)).First(&household).Error; err != nil {
		NotFound(c, "家庭不存在")
		return
	}

	var inviter models.User
	if err := database.DB.Where("id = ?", middleware.GetCurrentUserID(c)).First(&inviter).Error; err != nil {
		NotFound(c, "用户不存在")
		return
	}

	registerLink := fmt.Sprintf("%s/register?household_id=%s", h.cfg.Server.BaseURL, household.ID)
	inviterName := inviter.FirstName + " " + inviter.LastName

	if err := h.emailService.SendHouseholdInviteEmail(req.Email, inviterName, household.Name, registerLink); err != nil {
		InternalError(c, SafeErrorMessage(err, "邮件发送失败"))
		return
	}

	SuccessWithMessage(c, "邀请邮件已发送", nil)
}
