package api

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newExportRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(authAs(txUserID, txHouseholdID))
	h := NewExportHandler()
	router.GET("/export/csv", h.ExportCSV)
	router.GET("/export/json", h.ExportJSON)
	router.GET("/export/excel", h.ExportExcel)
	return router
}

func expectExportQueries(mock sqlmock.Sqlmock) {
	mock.MatchExpectationsInOrder(false)

	mock.ExpectQuery("SELECT .* FROM `transactions` JOIN accounts").
		WithArgs(txHouseholdID).
		WillReturnRows(sqlmock.NewRows(transactionColumns()).
			AddRow("tx-1", txAccountID, time.Date(2024, 1, 15, 0, 0, 0, 0, time.Local), -50.25, "超市", "买菜", nil, txUserID, nil, nil, time.Now(), time.Now()).
			AddRow("tx-2", txAccountID, time.Date(2024, 1, 10, 0, 0, 0, 0, time.Local), 8000.00, "公司", "工资", nil, txUserID, nil, nil, time.Now(), time.Now()))

	mock.ExpectQuery("SELECT .* FROM `accounts`").
		WithArgs(txAccountID).
		WillReturnRows(accountRow())
	mock.ExpectQuery("SELECT .* FROM `users`").
		WithArgs(txUserID).
		WillReturnRows(sqlmock.NewRows(userColumns()).
			AddRow(txUserID, "alice@example.com", "hash", "Alice", "Wang", nil, txHouseholdID, time.Now(), time.Now()))
}

func TestExportHandler_CSV(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()
	expectExportQueries(mock)

	router := newExportRouter()

	req := httptest.NewRequest("GET", "/export/csv", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/csv")

	body := w.Body.String()
	// BOM 开头，Excel 打开不乱码
	assert.True(t, strings.HasPrefix(body, "\xEF\xBB\xBF"))
	assert.Contains(t, body, "日期,金额,商户,描述,账户,分类,添加人")
	assert.Contains(t, body, "2024-01-15,-50.25,超市,买菜,招行储蓄卡,,Alice Wang")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestExportHandler_JSON(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()
	expectExportQueries(mock)

	router := newExportRouter()

	req := httptest.NewRequest("GET", "/export/json", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, float64(2), data["total_count"])
	assert.Equal(t, 8000.00, data["total_income"])
	assert.Equal(t, 50.25, data["total_expense"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestExportHandler_Excel(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()
	expectExportQueries(mock)

	router := newExportRouter()

	req := httptest.NewRequest("GET", "/export/excel", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "spreadsheetml")
	// xlsx 是 zip 容器，以 PK 开头
	assert.True(t, strings.HasPrefix(w.Body.String(), "PK"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestExportHandler_InvalidMonth(t *testing.T) {
	_, cleanup := setupMockDB(t)
	defer cleanup()

	router := newExportRouter()

	req := httptest.NewRequest("GET", "/export/csv?month=2024-99", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 400, w.Code)
}
