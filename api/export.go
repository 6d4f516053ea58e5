package api

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"net/http"

	"homeledger/database"
	"homeledger/middleware"
	"homeledger/models"
	"homeledger/service"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

// ExportHandler 导出处理器
type ExportHandler struct{}

// NewExportHandler 创建导出处理器
func NewExportHandler() *ExportHandler {
	return &ExportHandler{}
}

// fetchTransactions 按月份拉取当前家庭的交易，month 为空则全量
func (h *ExportHandler) fetchTransactions(c *gin.Context) ([]models.Transaction, bool) {
	svc := service.NewTransactionService(database.DB)
	list, err := svc.FindAll(middleware.GetCurrentHouseholdID(c), c.Query("month"))
	if err != nil {
		if errors.Is(err, service.ErrInvalidMonth) {
			BadRequest(c, err.Error())
		} else {
			InternalError(c, SafeErrorMessage(err, "查询交易失败"))
		}
		return nil, false
	}
	return list, true
}

func categoryName(tx *models.Transaction) string {
	if tx.Category != nil {
		return tx.Category.Name
	}
	return ""
}

func addedByName(tx *models.Transaction) string {
	return tx.AddedByUser.FirstName + " " + tx.AddedByUser.LastName
}

func exportFileSuffix(month string) string {
	if month == "" {
		return "all"
	}
	return month
}

// ExportCSV 导出交易为 CSV
// @Summary 导出交易为 CSV
// @Description 导出当前家庭的交易记录为 CSV 文件，可选 month 参数（YYYY-MM）按月导出
// @Tags 导出
// @Produce text/csv
// @Security BearerAuth
// @Param month query string false "月份，YYYY-MM"
// @Success 200 {file} file "CSV 文件"
// @Failure 400 {object} Response "月份参数错误"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/export/csv [get]
func (h *ExportHandler) ExportCSV(c *gin.Context) {
	transactions, ok := h.fetchTransactions(c)
	if !ok {
		return
	}

	buf := new(bytes.Buffer)
	// 添加 BOM 以支持 Excel 中文显示
	buf.WriteString("\xEF\xBB\xBF")

	writer := csv.NewWriter(buf)

	headers := []string{"日期", "金额", "商户", "描述", "账户", "分类", "添加人"}
	if err := writer.Write(headers); err != nil {
		InternalError(c, "生成 CSV 失败")
		return
	}

	for i := range transactions {
		tx := &transactions[i]
		row := []string{
			tx.Date.Format("2006-01-02"),
			fmt.Sprintf("%.2f", tx.Amount),
			tx.Merchant,
			tx.Description,
			tx.Account.Name,
			categoryName(tx),
			addedByName(tx),
		}
		if err := writer.Write(row); err != nil {
			InternalError(c, "生成 CSV 失败")
			return
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		InternalError(c, "生成 CSV 失败")
		return
	}

	filename := fmt.Sprintf("transactions_%s.csv", exportFileSuffix(c.Query("month")))
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Header("Content-Length", fmt.Sprintf("%d", buf.Len()))

	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// ExportJSON 导出交易为 JSON
// @Summary 导出交易为 JSON
// @Description 导出当前家庭的交易记录及汇总信息，可选 month 参数（YYYY-MM）按月导出
// @Tags 导出
// @Produce json
// @Security BearerAuth
// @Param month query string false "月份，YYYY-MM"
// @Success 200 {object} Response "导出成功"
// @Failure 400 {object} Response "月份参数错误"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/export/json [get]
func (h *ExportHandler) ExportJSON(c *gin.Context) {
	transactions, ok := h.fetchTransactions(c)
	if !ok {
		return
	}

	// 计算汇总信息
	var totalIncome, totalExpense float64
	for i := range transactions {
		if transactions[i].Amount >= 0 {
			totalIncome += transactions[i].Amount
		} else {
			totalExpense += -transactions[i].Amount
		}
	}

	Success(c, gin.H{
		"month":         c.Query("month"),
		"total_count":   len(transactions),
		"total_income":  totalIncome,
		"total_expense": totalExpense,
		"transactions":  transactions,
	})
}

// ExportExcel 导出交易为 Excel
// @Summary 导出交易为 Excel
// @Description 导出当前家庭的交易记录为 xlsx 文件，可选 month 参数（YYYY-MM）按月导出
// @Tags 导出
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Param month query string false "月份，YYYY-MM"
// @Success 200 {file} file "Excel 文件"
// @Failure 400 {object} Response "月份参数错误"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/export/excel [get]
func (h *ExportHandler) ExportExcel(c *gin.Context) {
	transactions, ok := h.fetchTransactions(c)
	if !ok {
		return
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "交易记录"
	f.SetSheetName("Sheet1", sheetName)

	// 设置表头样式
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 12, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4F81BD"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
	})

	// 数据样式
	dataStyle, _ := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
	})

	// 设置列宽
	f.SetColWidth(sheetName, "A", "A", 12)
	f.SetColWidth(sheetName, "B", "B", 12)
	f.SetColWidth(sheetName, "C", "C", 20)
	f.SetColWidth(sheetName, "D", "D", 30)
	f.SetColWidth(sheetName, "E", "E", 18)
	f.SetColWidth(sheetName, "F", "F", 14)
	f.SetColWidth(sheetName, "G", "G", 14)

	// 写入表头
	headers := []string{"日期", "金额", "商户", "描述", "账户", "分类", "添加人"}
	for i, header := range headers {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheetName, cell, header)
		f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	// 写入数据
	var netAmount float64
	for i := range transactions {
		tx := &transactions[i]
		row := i + 2
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), tx.Date.Format("2006-01-02"))
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), tx.Amount)
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), tx.Merchant)
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), tx.Description)
		f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), tx.Account.Name)
		f.SetCellValue(sheetName, fmt.Sprintf("F%d", row), categoryName(tx))
		f.SetCellValue(sheetName, fmt.Sprintf("G%d", row), addedByName(tx))

		f.SetCellStyle(sheetName, fmt.Sprintf("A%d", row), fmt.Sprintf("G%d", row), dataStyle)
		netAmount += tx.Amount
	}

	// 添加汇总行
	summaryRow := len(transactions) + 2
	summaryStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"FFC000"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
	})

	f.SetCellValue(sheetName, fmt.Sprintf("A%d", summaryRow), "净额")
	f.SetCellValue(sheetName, fmt.Sprintf("B%d", summaryRow), netAmount)
	f.SetCellValue(sheetName, fmt.Sprintf("C%d", summaryRow), fmt.Sprintf("共 %d 条记录", len(transactions)))
	f.MergeCell(sheetName, fmt.Sprintf("C%d", summaryRow), fmt.Sprintf("G%d", summaryRow))
	f.SetCellStyle(sheetName, fmt.Sprintf("A%d", summaryRow), fmt.Sprintf("G%d", summaryRow), summaryStyle)

	filename := fmt.Sprintf("交易记录_%s.xlsx", exportFileSuffix(c.Query("month")))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename*=UTF-8''%s", filename))

	if err := f.Write(c.Writer); err != nil {
		InternalError(c, "生成 Excel 失败")
		return
	}
}
