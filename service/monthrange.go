package service

import (
	"errors"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidMonth 月份参数无法解析
var ErrInvalidMonth = errors.New("无效的月份参数，应为 YYYY-MM 格式")

// ResolveMonthRange 将 "YYYY-MM" 月份参数解析为闭区间 [当月1日, 当月最后一天]
// 区间两端均为本地时区零点；年份必须是4位数字，月份为1-2位且在 [1,12] 内
func ResolveMonthRange(token string) (start, end time.Time, err error) {
	parts := strings.Split(token, "-")
	if len(parts) != 2 {
		return time.Time{}, time.Time{}, ErrInvalidMonth
	}
	if len(parts[0]) != 4 || len(parts[1]) < 1 || len(parts[1]) > 2 {
		return time.Time{}, time.Time{}, ErrInvalidMonth
	}
	year, err := strconv.Atoi(parts[0])
	if err != nil {
		return time.Time{}, time.Time{}, ErrInvalidMonth
	}
	month, err := strconv.Atoi(parts[1])
	if err != nil || month < 1 || month > 12 {
		return time.Time{}, time.Time{}, ErrInvalidMonth
	}

	start = time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.Local)
	// 下个月的第0天即当月最后一天，自动处理 28/29/30/31（含闰年二月）
	end = time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.Local)
	return start, end, nil
}
