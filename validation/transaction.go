package validation

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// FieldViolation 单个字段的校验错误
type FieldViolation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// CreateTransactionInput 校验通过后归一化的交易创建参数
// Merchant/Description 已去除首尾空白；Date 已解析为日历日期（当天零点，本地时区）
type CreateTransactionInput struct {
	AccountID   string
	Date        time.Time
	Amount      float64
	Merchant    string
	Description string
	CategoryID  *string
	OwnerUserID *string
	CardID      *string
}

const (
	// AmountMin 金额下限
	AmountMin = -999999.99
	// AmountMax 金额上限
	AmountMax = 999999.99

	merchantMaxLen    = 255
	descriptionMaxLen = 1000
)

// 日期格式：YYYY-MM-DD，可带 ISO 时间后缀
var dateRegexp = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}(T\d{2}:\d{2}:\d{2}(\.\d{3})?Z?)?$`)

// checkFunc 针对单个字段的校验规则：读取原始 payload，校验并写入归一化结果
// 返回 nil 表示该字段通过
type checkFunc func(payload map[string]any, out *CreateTransactionInput) *FieldViolation

// createTransactionRules 交易创建的字段规则，按声明顺序逐条独立求值
// 所有违规一次性收集返回，不在第一个错误处短路
var createTransactionRules = []struct {
	field string
	check checkFunc
}{
	{"account_id", checkAccountID},
	{"date", checkDate},
	{"amount", checkAmount},
	{"merchant", checkMerchant},
	{"description", checkDescription},
	{"category_id", checkCategoryID},
	{"owner_user_id", checkOwnerUserID},
	{"card_id", checkCardID},
}

// ValidateCreateTransaction 校验任意形状的交易创建 payload
// 校验通过返回归一化后的参数；否则返回全部字段违规，永不 panic
func ValidateCreateTransaction(payload map[string]any) (*CreateTransactionInput, []FieldViolation) {
	out := &CreateTransactionInput{}
	var violations []FieldViolation
	for _, r := range createTransactionRules {
		if v := r.check(payload, out); v != nil {
			violations = append(violations, *v)
		}
	}
	if len(violations) > 0 {
		return nil, violations
	}
	return out, nil
}

func checkAccountID(payload map[string]any, out *CreateTransactionInput) *FieldViolation {
	s, v := requiredUUID(payload, "account_id")
	if v != nil {
		return v
	}
	out.AccountID = s
	return nil
}

func checkDate(payload map[string]any, out *CreateTransactionInput) *FieldViolation {
	raw, ok := payload["date"]
	if !ok || raw == nil {
		return &FieldViolation{Field: "date", Message: "date 不能为空"}
	}
	s, isStr := raw.(string)
	if isStr && s == "" {
		// 必填字段传空字符串视为缺失，而不是格式错误
		return &FieldViolation{Field: "date", Message: "date 不能为空"}
	}
	if !isStr || !dateRegexp.MatchString(s) {
		return &FieldViolation{Field: "date", Message: "date 必须是 ISO 日期字符串（YYYY-MM-DD 或 YYYY-MM-DDTHH:mm:ss.sssZ）"}
	}
	// 只取日历日期部分，时分秒不参与存储
	d, err := time.ParseInLocation("2006-01-02", s[:10], time.Local)
	if err != nil {
		return &FieldViolation{Field: "date", Message: "date 不是有效的日期"}
	}
	out.Date = d
	return nil
}

func checkAmount(payload map[string]any, out *CreateTransactionInput) *FieldViolation {
	raw, ok := payload["amount"]
	if !ok || raw == nil {
		return &FieldViolation{Field: "amount", Message: "amount 不能为空"}
	}

	var amount float64
	switch v := raw.(type) {
	case float64:
		amount = v
	case string:
		if v == "" {
			return &FieldViolation{Field: "amount", Message: "amount 不能为空"}
		}
		// 数字字符串先转换为数字，再做范围和精度检查
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return &FieldViolation{Field: "amount", Message: "amount 必须是有效数字，最多保留两位小数"}
		}
		amount = parsed
	default:
		return &FieldViolation{Field: "amount", Message: "amount 必须是有效数字，最多保留两位小数"}
	}

	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return &FieldViolation{Field: "amount", Message: "amount 必须是有效数字，最多保留两位小数"}
	}
	if decimalPlaces(amount) > 2 {
		return &FieldViolation{Field: "amount", Message: "amount 必须是有效数字，最多保留两位小数"}
	}
	if amount < AmountMin {
		return &FieldViolation{Field: "amount", Message: "amount 不能小于 -999999.99"}
	}
	if amount > AmountMax {
		return &FieldViolation{Field: "amount", Message: "amount 不能大于 999999.99"}
	}
	out.Amount = amount
	return nil
}

func checkMerchant(payload map[string]any, out *CreateTransactionInput) *FieldViolation {
	s, present, v := optionalTrimmedString(payload, "merchant", merchantMaxLen)
	if v != nil {
		return v
	}
	if present {
		out.Merchant = s
	}
	return nil
}

func checkDescription(payload map[string]any, out *CreateTransactionInput) *FieldViolation {
	s, present, v := optionalTrimmedString(payload, "description", descriptionMaxLen)
	if v != nil {
		return v
	}
	if present {
		out.Description = s
	}
	return nil
}

func checkCategoryID(payload map[string]any, out *CreateTransactionInput) *FieldViolation {
	s, present, v := optionalUUID(payload, "category_id")
	if v != nil {
		return v
	}
	if present {
		out.CategoryID = &s
	}
	return nil
}

func checkOwnerUserID(payload map[string]any, out *CreateTransactionInput) *FieldViolation {
	s, present, v := optionalUUID(payload, "owner_user_id")
	if v != nil {
		return v
	}
	if present {
		out.OwnerUserID = &s
	}
	return nil
}

func checkCardID(payload map[string]any, out *CreateTransactionInput) *FieldViolation {
	s, present, v := optionalUUID(payload, "card_id")
	if v != nil {
		return v
	}
	if present {
		out.CardID = &s
	}
	return nil
}

// requiredUUID 必填 UUID 字段：缺失或空字符串报"不能为空"，其余非法值报格式错误
func requiredUUID(payload map[string]any, field string) (string, *FieldViolation) {
	raw, ok := payload[field]
	if !ok || raw == nil {
		return "", &FieldViolation{Field: field, Message: field + " 不能为空"}
	}
	s, isStr := raw.(string)
	if isStr && s == "" {
		return "", &FieldViolation{Field: field, Message: field + " 不能为空"}
	}
	if !isStr {
		return "", &FieldViolation{Field: field, Message: field + " 必须是合法的 UUID"}
	}
	if _, err := uuid.Parse(s); err != nil {
		return "", &FieldViolation{Field: field, Message: field + " 必须是合法的 UUID"}
	}
	return s, nil
}

// optionalUUID 可选 UUID 字段：缺失不报错，给了就必须是合法 UUID
func optionalUUID(payload map[string]any, field string) (string, bool, *FieldViolation) {
	raw, ok := payload[field]
	if !ok || raw == nil {
		return "", false, nil
	}
	s, isStr := raw.(string)
	if !isStr {
		return "", false, &FieldViolation{Field: field, Message: field + " 必须是合法的 UUID"}
	}
	if _, err := uuid.Parse(s); err != nil {
		return "", false, &FieldViolation{Field: field, Message: field + " 必须是合法的 UUID"}
	}
	return s, true, nil
}

// optionalTrimmedString 可选字符串字段：去除首尾空白后检查长度上限
func optionalTrimmedString(payload map[string]any, field string, maxLen int) (string, bool, *FieldViolation) {
	raw, ok := payload[field]
	if !ok || raw == nil {
		return "", false, nil
	}
	s, isStr := raw.(string)
	if !isStr {
		return "", false, &FieldViolation{Field: field, Message: field + " 必须是字符串"}
	}
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) > maxLen {
		return "", false, &FieldViolation{Field: field, Message: field + " 长度不能超过 " + strconv.Itoa(maxLen) + " 个字符"}
	}
	return s, true, nil
}

// decimalPlaces 返回浮点数的十进制小数位数
// 使用最短往返表示判断，避免二进制浮点误差误伤 50.25 这类值
func decimalPlaces(f float64) int {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	for i := 0; i < len(s); i++ {
		if s[i] == '.' {
			return len(s) - i - 1
		}
	}
	return 0
}
