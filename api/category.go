package api

import (
	"errors"

	"homeledger/database"
	"homeledger/middleware"
	"homeledger/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// CategoryHandler 分类处理器
type CategoryHandler struct{}

// NewCategoryHandler 创建分类处理器
func NewCategoryHandler() *CategoryHandler {
	return &CategoryHandler{}
}

// CreateCategoryRequest 创建分类请求
type CreateCategoryRequest struct {
	Name        string  `json:"name" binding:"required,max=255" example:"餐饮"`
	Description string  `json:"description" binding:"omitempty,max=1000" example:"外出就餐和外卖"`
	Color       string  `json:"color" binding:"omitempty,max=32" example:"#FF6B6B"`
	Icon        string  `json:"icon" binding:"omitempty,max=64" example:"utensils"`
	ParentID    *string `json:"parent_id" binding:"omitempty,uuid"`
}

// UpdateCategoryRequest 更新分类请求，指针字段表示“未提供则不改”
type UpdateCategoryRequest struct {
	Name        *string `json:"name" binding:"omitempty,max=255"`
	Description *string `json:"description" binding:"omitempty,max=1000"`
	Color       *string `json:"color" binding:"omitempty,max=32"`
	Icon        *string `json:"icon" binding:"omitempty,max=64"`
	ParentID    *string `json:"parent_id" binding:"omitempty,uuid"`
}

// findHouseholdCategory 在当前家庭内按 ID 查分类
func findHouseholdCategory(id, householdID string) (*models.Category, error) {
	var category models.Category
	err := database.DB.Where("id = ? AND household_id = ?", id, householdID).First(&category).Error
	if err != nil {
		return nil, err
	}
	return &category, nil
}

// wouldCreateCycle 判断把 category 挂到 newParentID 下是否会成环。
// 从 newParentID 沿 parent_id 向上走，途中遇到 category 自身即成环。
func wouldCreateCycle(categoryID, newParentID, householdID string) (bool, error) {
	current := newParentID
	for current != "" {
		if current == categoryID {
			return true, nil
		}
		var parent models.Category
		err := database.DB.Select("parent_id").
			Where("id = ? AND household_id = ?", current, householdID).
			First(&parent).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return false, nil
			}
			return false, err
		}
		if parent.ParentID == nil {
			return false, nil
		}
		current = *parent.ParentID
	}
	return false, nil
}

// List 查询分类列表
// @Summary 查询分类列表
// @Description 查询当前家庭的分类。返回扁平列表，父子关系由 parent_id 表达，树形结构由客户端自行组装。
// @Tags 分类
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=[]models.Category} "查询成功"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/categories [get]
func (h *CategoryHandler) List(c *gin.Context) {
	householdID := middleware.GetCurrentHouseholdID(c)

	var categories []models.Category
	if err := database.DB.
		Where("household_id = ?", householdID).
		Order("name ASC").
		Find(&categories).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "查询分类失败"))
		return
	}

	Success(c, categories)
}

// Create 创建分类
// @Summary 创建分类
// @Description 在当前家庭下创建分类。parent_id 非空时必须指向本家庭已有分类。
// @Tags 分类
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateCategoryRequest true "分类信息"
// @Success 200 {object} Response{data=models.Category} "创建成功"
// @Failure 400 {object} Response "请求参数错误或父分类不存在"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/categories [post]
func (h *CategoryHandler) Create(c *gin.Context) {
	var req CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	householdID := middleware.GetCurrentHouseholdID(c)

	// 父分类必须属于本家庭
	if req.ParentID != nil {
		if _, err := findHouseholdCategory(*req.ParentID, householdID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				BadRequest(c, "父分类不存在或不属于当前家庭")
				return
			}
			InternalError(c, SafeErrorMessage(err, "查询父分类失败"))
			return
		}
	}

	category := models.Category{
		Name:        req.Name,
		Description: req.Description,
		Color:       req.Color,
		Icon:        req.Icon,
		ParentID:    req.ParentID,
		HouseholdID: householdID,
	}

	if err := database.DB.Create(&category).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "创建分类失败"))
		return
	}

	SuccessWithMessage(c, "创建成功", category)
}

// Update 更新分类
// @Summary 更新分类
// @Description 更新当前家庭下的分类。变更 parent_id 时校验新父分类存在于本家庭，且不会形成环。
// @Tags 分类
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "分类 ID"
// @Param request body UpdateCategoryRequest true "分类信息"
// @Success 200 {object} Response{data=models.Category} "更新成功"
// @Failure 400 {object} Response "请求参数错误或父子关系成环"
// @Failure 404 {object} Response "分类不存在"
// @Router /api/v1/categories/{id} [put]
func (h *CategoryHandler) Update(c *gin.Context) {
	var req UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	householdID := middleware.GetCurrentHouseholdID(c)
	categoryID := c.Param("id")

	category, err := findHouseholdCategory(categoryID, householdID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, "分类不存在")
			return
		}
		InternalError(c, SafeErrorMessage(err, "查询分类失败"))
		return
	}

	if req.ParentID != nil {
		newParentID := *req.ParentID
		if newParentID == categoryID {
			BadRequest(c, "分类不能作为自己的父分类")
			return
		}
		if _, err := findHouseholdCategory(newParentID, householdID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				BadRequest(c, "父分类不存在或不属于当前家庭")
				return
			}
			InternalError(c, SafeErrorMessage(err, "查询父分类失败"))
			return
		}
		cyclic, err := wouldCreateCycle(categoryID, newParentID, householdID)
		if err != nil {
			InternalError(c, SafeErrorMessage(err, "校验分类层级失败"))
			return
		}
		if cyclic {
			BadRequest(c, "不能把分类挂到自己的子分类下")
			return
		}
		category.ParentID = req.ParentID
	}

	if req.Name != nil {
		category.Name = *req.Name
	}
	if req.Description != nil {
		category.Description = *req.Description
	}
	if req.Color != nil {
		category.Color = *req.Color
	}
	if req.Icon != nil {
		category.Icon = *req.Icon
	}

	if err := database.DB.Save(category).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "更新分类失败"))
		return
	}

	SuccessWithMessage(c, "更新成功", category)
}
