package api

import (
	"errors"

	"homeledger/database"
	"homeledger/middleware"
	"homeledger/models"
	"homeledger/service"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SummaryHandler 统计处理器
type SummaryHandler struct{}

// NewSummaryHandler 创建统计处理器
func NewSummaryHandler() *SummaryHandler {
	return &SummaryHandler{}
}

// CategoryBreakdown 单个分类的支出占比
type CategoryBreakdown struct {
	CategoryID   *string `json:"category_id"`
	CategoryName string  `json:"category_name"`
	Total        float64 `json:"total"`
	Percentage   float64 `json:"percentage"`
}

// MonthSummaryResponse 月度汇总返回
type MonthSummaryResponse struct {
	Month        string              `json:"month,omitempty"`
	TotalIncome  float64             `json:"total_income"`
	TotalExpense float64             `json:"total_expense"`
	Net          float64             `json:"net"`
	ByCategory   []CategoryBreakdown `json:"by_category"`
}

// GetMonthSummary 获取月度收支汇总
// @Summary 获取月度收支汇总
// @Description 统计当前家庭的收入总和、支出总和、净额，以及支出按分类的占比。可选 month 参数（YYYY-MM），不传则统计全部时间。
// @Tags 统计
// @Produce json
// @Security BearerAuth
// @Param month query string false "月份，YYYY-MM"
// @Success 200 {object} Response{data=MonthSummaryResponse} "获取成功"
// @Failure 400 {object} Response "月份参数错误"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/statistics/summary [get]
func (h *SummaryHandler) GetMonthSummary(c *gin.Context) {
	householdID := middleware.GetCurrentHouseholdID(c)
	month := c.Query("month")

	scoped := func() *gorm.DB {
		q := database.DB.Model(&models.Transaction{}).
			Joins("JOIN accounts ON accounts.id = transactions.account_id").
			Where("accounts.household_id = ?", householdID)
		return q
	}

	applyMonth := func(q *gorm.DB) (*gorm.DB, error) {
		if month == "" {
			return q, nil
		}
		start, end, err := service.ResolveMonthRange(month)
		if err != nil {
			return nil, err
		}
		return q.Where("transactions.date >= ? AND transactions.date <= ?", start, end), nil
	}

	var totalIncome, totalExpense float64

	incomeQ, err := applyMonth(scoped())
	if err != nil {
		h.badMonth(c, err)
		return
	}
	incomeQ.Where("transactions.amount >= 0").
		Select("COALESCE(SUM(transactions.amount), 0)").Scan(&totalIncome)

	expenseQ, err := applyMonth(scoped())
	if err != nil {
		h.badMonth(c, err)
		return
	}
	expenseQ.Where("transactions.amount < 0").
		Select("COALESCE(SUM(-transactions.amount), 0)").Scan(&totalExpense)

	// 支出按分类分组，未分类的归入「未分类」
	type categoryRow struct {
		CategoryID   *string
		CategoryName *string
		Total        float64
	}
	var rows []categoryRow

	breakdownQ, err := applyMonth(scoped())
	if err != nil {
		h.badMonth(c, err)
		return
	}
	breakdownQ.Where("transactions.amount < 0").
		Joins("LEFT JOIN categories ON categories.id = transactions.category_id").
		Select("transactions.category_id AS category_id, categories.name AS category_name, COALESCE(SUM(-transactions.amount), 0) AS total").
		Group("transactions.category_id, categories.name").
		Order("total DESC").
		Scan(&rows)

	byCategory := make([]CategoryBreakdown, 0, len(rows))
	for _, row := range rows {
		name := "未分类"
		if row.CategoryName != nil {
			name = *row.CategoryName
		}
		percentage := 0.0
		if totalExpense > 0 {
			percentage = row.Total / totalExpense * 100
		}
		byCategory = append(byCategory, CategoryBreakdown{
			CategoryID:   row.CategoryID,
			CategoryName: name,
			Total:        row.Total,
			Percentage:   percentage,
		})
	}

	Success(c, MonthSummaryResponse{
		Month:        month,
		TotalIncome:  totalIncome,
		TotalExpense: totalExpense,
		Net:          totalIncome - totalExpense,
		ByCategory:   byCategory,
	})
}

func (h *SummaryHandler) badMonth(c *gin.Context, err error) {
	if errors.Is(err, service.ErrInvalidMonth) {
		BadRequest(c, err.Error())
		return
	}
	InternalError(c, SafeErrorMessage(err, "统计失败"))
}
