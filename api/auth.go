package api

import (
	"errors"

	"homeledger/config"
	"homeledger/database"
	"homeledger/middleware"
	"homeledger/models"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AuthHandler 认证处理器
type AuthHandler struct {
	cfg *config.Config
}

// NewAuthHandler 创建认证处理器
func NewAuthHandler(cfg *config.Config) *AuthHandler {
	return &AuthHandler{cfg: cfg}
}

// RegisterRequest 注册请求
type RegisterRequest struct {
	Email       string `json:"email" binding:"required,email" example:"alice@example.com"`
	Password    string `json:"password" binding:"required,min=6,max=72" example:"password123"`
	FirstName   string `json:"first_name" binding:"required,max=100" example:"Alice"`
	LastName    string `json:"last_name" binding:"required,max=100" example:"Wang"`
	HouseholdID string `json:"household_id" binding:"omitempty,uuid" example:"550e8400-e29b-41d4-a716-446655440000"` // 为空则新建家庭
}

// LoginRequest 登录请求
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email" example:"alice@example.com"`
	Password string `json:"password" binding:"required" example:"password123"`
}

// UserSummary 返回给客户端的用户摘要，不含密码散列
type UserSummary struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	HouseholdID string `json:"household_id"`
}

// AuthResponse 认证响应
type AuthResponse struct {
	AccessToken string      `json:"access_token"`
	User        UserSummary `json:"user"`
}

func summarize(u *models.User) UserSummary {
	return UserSummary{
		ID:          u.ID,
		Email:       u.Email,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		HouseholdID: u.HouseholdID,
	}
}

// Register 用户注册
// @Summary 用户注册
// @Description 创建新用户。household_id 为空时自动创建新家庭；否则加入指定家庭（通常来自邀请链接）。
// @Tags 认证
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "注册信息"
// @Success 200 {object} Response{data=AuthResponse} "注册成功"
// @Failure 400 {object} Response "请求参数错误或邮箱已被注册"
// @Failure 500 {object} Response "服务器错误"
// @Router /api/v1/auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	// 检查邮箱是否已存在
	var existingUser models.User
	if err := database.DB.Where("email = ?", req.Email).First(&existingUser).Error; err == nil {
		BadRequest(c, "该邮箱已被注册")
		return
	}

	// 确定所属家庭：指定则校验存在，否则新建
	householdID := req.HouseholdID
	if householdID != "" {
		var household models.Household
		if err := database.DB.Where("id = ?", householdID).First(&household).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				BadRequest(c, "家庭不存在")
				return
			}
			InternalError(c, SafeErrorMessage(err, "查询家庭失败"))
			return
		}
	}

	// 加密密码
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		InternalError(c, "密码加密失败")
		return
	}

	user := models.User{
		Email:        req.Email,
		PasswordHash: string(hashedPassword),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
	}

	// 新建家庭与用户放在同一事务里
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if householdID == "" {
			household := models.Household{Name: req.LastName + "的家庭"}
			if err := tx.Create(&household).Error; err != nil {
				return err
			}
			householdID = household.ID
		}
		user.HouseholdID = householdID
		return tx.Create(&user).Error
	})
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "创建用户失败"))
		return
	}

	token, err := middleware.GenerateToken(user.ID, user.HouseholdID, user.Email, h.cfg.JWT.ExpireTime)
	if err != nil {
		InternalError(c, "生成 token 失败")
		return
	}

	SuccessWithMessage(c, "注册成功", AuthResponse{
		AccessToken: token,
		User:        summarize(&user),
	})
}

// Login 用户登录
// @Summary 用户登录
// @Description 邮箱密码登录，获取 JWT token
// @Tags 认证
// @Accept json
// @Produce json
// @Param request body LoginRequest true "登录信息"
// @Success 200 {object} Response{data=AuthResponse} "登录成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 401 {object} Response "邮箱或密码错误"
// @Router /api/v1/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	var user models.User
	if err := database.DB.Where("email = ?", req.Email).First(&user).Error; err != nil {
		Unauthorized(c, "邮箱或密码错误")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		Unauthorized(c, "邮箱或密码错误")
		return
	}

	token, err := middleware.GenerateToken(user.ID, user.HouseholdID, user.Email, h.cfg.JWT.ExpireTime)
	if err != nil {
		InternalError(c, "生成 token 失败")
		return
	}

	Success(c, AuthResponse{
		AccessToken: token,
		User:        summarize(&user),
	})
}

// GetProfile 获取当前用户信息
// @Summary 获取当前用户信息
// @Tags 认证
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=models.User} "获取成功"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/auth/profile [get]
func (h *AuthHandler) GetProfile(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var user models.User
	if err := database.DB.Where("id = ?", userID).First(&user).Error; err != nil {
		NotFound(c, "用户不存在")
		return
	}

	Success(c, user)
}
