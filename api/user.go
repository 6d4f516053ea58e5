package api

import (
	"homeledger/database"
	"homeledger/middleware"
	"homeledger/models"

	"github.com/gin-gonic/gin"
)

// UserHandler 用户处理器
type UserHandler struct{}

// NewUserHandler 创建用户处理器
func NewUserHandler() *UserHandler {
	return &UserHandler{}
}

// List 查询家庭成员列表
// @Summary 查询家庭成员列表
// @Description 查询当前家庭的所有成员，按姓名排序
// @Tags 用户
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=[]UserSummary} "查询成功"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/users [get]
func (h *UserHandler) List(c *gin.Context) {
	householdID := middleware.GetCurrentHouseholdID(c)

	var users []models.User
	if err := database.DB.
		Where("household_id = ?", householdID).
		Order("first_name ASC, last_name ASC").
		Find(&users).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "查询成员失败"))
		return
	}

	summaries := make([]UserSummary, 0, len(users))
	for i := range users {
		summaries = append(summaries, summarize(&users[i]))
	}

	Success(c, summaries)
}
