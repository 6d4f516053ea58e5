package validation

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	validAccountID = "123e4567-e89b-12d3-a456-426614174000"
	validCatID     = "123e4567-e89b-12d3-a456-426614174001"
	validOwnerID   = "123e4567-e89b-12d3-a456-426614174002"
	validCardID    = "123e4567-e89b-12d3-a456-426614174003"
)

// validPayload 返回一份最小合法 payload，测试中按需覆盖字段
func validPayload() map[string]any {
	return map[string]any{
		"account_id": validAccountID,
		"date":       "2024-01-15",
		"amount":     50.25,
	}
}

func violationFields(vs []FieldViolation) []string {
	fields := make([]string, 0, len(vs))
	for _, v := range vs {
		fields = append(fields, v.Field)
	}
	return fields
}

func TestValidateCreateTransaction_MinimalValid(t *testing.T) {
	in, vs := ValidateCreateTransaction(validPayload())
	require.Empty(t, vs)
	require.NotNil(t, in)

	assert.Equal(t, validAccountID, in.AccountID)
	assert.Equal(t, 50.25, in.Amount)
	assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.Local), in.Date)
	// 未提供的可选字段保持零值
	assert.Empty(t, in.Merchant)
	assert.Empty(t, in.Description)
	assert.Nil(t, in.CategoryID)
	assert.Nil(t, in.OwnerUserID)
	assert.Nil(t, in.CardID)
}

func TestValidateCreateTransaction_AllFields(t *testing.T) {
	payload := validPayload()
	payload["merchant"] = "  Test  "
	payload["description"] = "  每周采购  "
	payload["category_id"] = validCatID
	payload["owner_user_id"] = validOwnerID
	payload["card_id"] = validCardID

	in, vs := ValidateCreateTransaction(payload)
	require.Empty(t, vs)

	// 首尾空白被去除
	assert.Equal(t, "Test", in.Merchant)
	assert.Equal(t, "每周采购", in.Description)
	require.NotNil(t, in.CategoryID)
	assert.Equal(t, validCatID, *in.CategoryID)
	require.NotNil(t, in.OwnerUserID)
	assert.Equal(t, validOwnerID, *in.OwnerUserID)
	require.NotNil(t, in.CardID)
	assert.Equal(t, validCardID, *in.CardID)
}

func TestValidateCreateTransaction_RequiredFields(t *testing.T) {
	// 全部缺失时三个必填字段一起报错，不在第一个错误处短路
	in, vs := ValidateCreateTransaction(map[string]any{})
	assert.Nil(t, in)
	assert.ElementsMatch(t, []string{"account_id", "date", "amount"}, violationFields(vs))

	// 必填字段传空字符串按"缺失"处理，报不能为空而不是格式错误
	payload := validPayload()
	payload["account_id"] = ""
	_, vs = ValidateCreateTransaction(payload)
	require.Len(t, vs, 1)
	assert.Equal(t, "account_id", vs[0].Field)
	assert.Contains(t, vs[0].Message, "不能为空")
}

func TestValidateCreateTransaction_UUIDFormat(t *testing.T) {
	cases := []string{
		"not-a-uuid",
		"123e4567-e89b-12d3-a456",         // 太短
		"123e4567e89b12d3a456426614174000x", // 带非法字符
	}
	for _, bad := range cases {
		payload := validPayload()
		payload["account_id"] = bad
		_, vs := ValidateCreateTransaction(payload)
		require.Len(t, vs, 1, "account_id=%q", bad)
		assert.Contains(t, vs[0].Message, "UUID")
	}

	// 可选 UUID 字段：给了就必须合法
	payload := validPayload()
	payload["category_id"] = "not-a-uuid"
	_, vs := ValidateCreateTransaction(payload)
	require.Len(t, vs, 1)
	assert.Equal(t, "category_id", vs[0].Field)

	// 非字符串类型同样报 UUID 格式错误
	payload = validPayload()
	payload["account_id"] = 123
	_, vs = ValidateCreateTransaction(payload)
	require.Len(t, vs, 1)
	assert.Contains(t, vs[0].Message, "UUID")
}

func TestValidateCreateTransaction_Date(t *testing.T) {
	valid := []string{
		"2024-01-15",
		"2024-01-15T10:30:00",
		"2024-01-15T10:30:00Z",
		"2024-01-15T10:30:00.000Z",
	}
	for _, d := range valid {
		payload := validPayload()
		payload["date"] = d
		in, vs := ValidateCreateTransaction(payload)
		require.Empty(t, vs, "date=%q", d)
		// 统一归一化为日历日期
		assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.Local), in.Date)
	}

	invalid := []string{
		"15/01/2024",
		"2024-1-15",
		"2024-01-15 10:30:00",
		"2024-13-40", // 通过正则但不是真实日期
		"abc",
	}
	for _, d := range invalid {
		payload := validPayload()
		payload["date"] = d
		_, vs := ValidateCreateTransaction(payload)
		require.Len(t, vs, 1, "date=%q", d)
		assert.Equal(t, "date", vs[0].Field)
	}
}

func TestValidateCreateTransaction_AmountRange(t *testing.T) {
	// 边界内全部通过
	for _, a := range []float64{-999999.99, -0.01, 0, 0.01, 50.25, 999999.99} {
		payload := validPayload()
		payload["amount"] = a
		in, vs := ValidateCreateTransaction(payload)
		require.Empty(t, vs, "amount=%v", a)
		assert.Equal(t, a, in.Amount)
	}

	// 超出边界报范围错误
	for _, a := range []float64{-1000000, 1000000, 999999.995} {
		payload := validPayload()
		payload["amount"] = a
		_, vs := ValidateCreateTransaction(payload)
		require.Len(t, vs, 1, "amount=%v", a)
		assert.Equal(t, "amount", vs[0].Field)
	}
}

func TestValidateCreateTransaction_AmountPrecision(t *testing.T) {
	payload := validPayload()
	payload["amount"] = 50.253
	_, vs := ValidateCreateTransaction(payload)
	require.Len(t, vs, 1)
	assert.Contains(t, vs[0].Message, "两位小数")
}

func TestValidateCreateTransaction_AmountType(t *testing.T) {
	// NaN / Inf 报类型错误
	for _, a := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		payload := validPayload()
		payload["amount"] = a
		_, vs := ValidateCreateTransaction(payload)
		require.Len(t, vs, 1)
		assert.Equal(t, "amount", vs[0].Field)
	}

	// 非数字非字符串报类型错误
	payload := validPayload()
	payload["amount"] = true
	_, vs := ValidateCreateTransaction(payload)
	require.Len(t, vs, 1)
	assert.Equal(t, "amount", vs[0].Field)
}

func TestValidateCreateTransaction_AmountStringCoercion(t *testing.T) {
	// 数字字符串先转换再校验
	payload := validPayload()
	payload["amount"] = "123.45"
	in, vs := ValidateCreateTransaction(payload)
	require.Empty(t, vs)
	assert.Equal(t, 123.45, in.Amount)

	// 转换后同样检查范围
	payload["amount"] = "1000000"
	_, vs = ValidateCreateTransaction(payload)
	require.Len(t, vs, 1)
	assert.Contains(t, vs[0].Message, "不能大于")

	// 非数字字符串报类型错误
	payload["amount"] = "abc"
	_, vs = ValidateCreateTransaction(payload)
	require.Len(t, vs, 1)
	assert.Contains(t, vs[0].Message, "有效数字")
}

func TestValidateCreateTransaction_StringLength(t *testing.T) {
	long := make([]byte, 256)
	for i := range long {
		long[i] = 'a'
	}
	payload := validPayload()
	payload["merchant"] = string(long)
	_, vs := ValidateCreateTransaction(payload)
	require.Len(t, vs, 1)
	assert.Equal(t, "merchant", vs[0].Field)

	// 恰好 255 个字符通过
	payload["merchant"] = string(long[:255])
	_, vs = ValidateCreateTransaction(payload)
	assert.Empty(t, vs)

	// description 上限 1000
	longDesc := make([]byte, 1001)
	for i := range longDesc {
		longDesc[i] = 'b'
	}
	payload = validPayload()
	payload["description"] = string(longDesc)
	_, vs = ValidateCreateTransaction(payload)
	require.Len(t, vs, 1)
	assert.Equal(t, "description", vs[0].Field)
}

func TestValidateCreateTransaction_CollectsAllViolations(t *testing.T) {
	payload := map[string]any{
		"account_id":  "not-a-uuid",
		"date":        "15/01/2024",
		"amount":      1000000,
		"category_id": "also-bad",
	}
	in, vs := ValidateCreateTransaction(payload)
	assert.Nil(t, in)
	assert.ElementsMatch(t,
		[]string{"account_id", "date", "amount", "category_id"},
		violationFields(vs))
}
