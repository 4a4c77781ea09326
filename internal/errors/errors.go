package errors

import (
	"fmt"
	"strings"
)

// ErrorCode 错误码类型
type ErrorCode int

// 错误码定义（按模块分组）
const (
	// 通用错误 (1000-1999)
	ErrUnknown      ErrorCode = 1000
	ErrInvalidParam ErrorCode = 1001
	ErrNotFound     ErrorCode = 1002

	// 钱包错误 (2000-2999)
	ErrInsufficientBalance ErrorCode = 2000
	ErrInvalidBet          ErrorCode = 2001

	// 游戏会话错误 (3000-3999)
	ErrActiveGame      ErrorCode = 3000
	ErrNoActiveSession ErrorCode = 3001
	ErrNoActiveGame    ErrorCode = 3002

	// 过关游戏错误 (4000-4999)
	ErrInvalidDifficulty ErrorCode = 4000
	ErrMaxRounds         ErrorCode = 4001
	ErrCannotCashout     ErrorCode = 4002

	// 弹珠游戏错误 (5000-5999)
	ErrInvalidRows ErrorCode = 5000
	ErrInvalidRisk ErrorCode = 5001

	// 牌类游戏错误 (6000-6999)
	ErrIllegalAction ErrorCode = 6000

	// 数据库错误 (7000-7999)
	ErrDatabaseConnect ErrorCode = 7000
	ErrDatabaseQuery   ErrorCode = 7001
	ErrDatabaseInsert  ErrorCode = 7002

	// 配置错误 (8000-8999)
	ErrConfigLoad  ErrorCode = 8000
	ErrConfigParse ErrorCode = 8001
)

// 错误码消息映射
var errorMessages = map[ErrorCode]string{
	ErrUnknown:      "未知错误",
	ErrInvalidParam: "无效的参数",
	ErrNotFound:     "资源未找到",

	ErrInsufficientBalance: "余额不足",
	ErrInvalidBet:          "无效的投注金额",

	ErrActiveGame:      "已有进行中的游戏",
	ErrNoActiveSession: "没有进行中的会话",
	ErrNoActiveGame:    "没有进行中的牌局",

	ErrInvalidDifficulty: "无效的难度",
	ErrMaxRounds:         "已达到最大回合数",
	ErrCannotCashout:     "当前不能提现",

	ErrInvalidRows: "无效的行数",
	ErrInvalidRisk: "无效的风险等级",

	ErrIllegalAction: "当前状态不允许该操作",

	ErrDatabaseConnect: "数据库连接失败",
	ErrDatabaseQuery:   "数据库查询失败",
	ErrDatabaseInsert:  "数据库插入失败",

	ErrConfigLoad:  "配置加载失败",
	ErrConfigParse: "配置解析失败",
}

// 对外接口错误码映射（客户端只认短码）
var apiCodes = map[ErrorCode]string{
	ErrInsufficientBalance: "er_insufficient_balance",
	ErrActiveGame:          "er_active_game",
	ErrNoActiveSession:     "er_no_active_session",
	ErrNoActiveGame:        "er_no_active_game",
	ErrInvalidDifficulty:   "er_invalid_difficulty",
	ErrMaxRounds:           "er_max_rounds",
	ErrCannotCashout:       "er_cannot_cashout",
	ErrInvalidRows:         "er_invalid_rows",
	ErrInvalidRisk:         "er_invalid_risk",
}

// AppError 应用错误结构
type AppError struct {
	Code    ErrorCode `json:"code"`    // 错误码
	Message string    `json:"message"` // 错误消息
	Details string    `json:"details"` // 详细信息
	Cause   error     `json:"-"`       // 原始错误
}

// Error 实现error接口
func (e *AppError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("[%d] %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

// Unwrap 返回原始错误
func (e *AppError) Unwrap() error {
	return e.Cause
}

// APICode 返回对外接口使用的短错误码
func (e *AppError) APICode() string {
	if code, ok := apiCodes[e.Code]; ok {
		return code
	}
	return "er_general"
}

// WithDetails 添加详细信息
func (e *AppError) WithDetails(details string) *AppError {
	e.Details = details
	return e
}

// New 创建新的应用错误
func New(code ErrorCode, details ...string) *AppError {
	message, ok := errorMessages[code]
	if !ok {
		message = errorMessages[ErrUnknown]
	}

	err := &AppError{
		Code:    code,
		Message: message,
	}

	if len(details) > 0 {
		err.Details = strings.Join(details, "; ")
	}

	return err
}

// Newf 创建格式化的应用错误
func Newf(code ErrorCode, format string, args ...interface{}) *AppError {
	return New(code, fmt.Sprintf(format, args...))
}

// Wrap 包装错误
func Wrap(err error, code ErrorCode, details ...string) *AppError {
	if err == nil {
		return nil
	}

	// 如果已经是AppError，保留原始错误码
	if appErr, ok := err.(*AppError); ok {
		if len(details) > 0 {
			appErr.Details = strings.Join(details, "; ") + "; " + appErr.Details
		}
		return appErr
	}

	appErr := New(code, details...)
	appErr.Cause = err
	if appErr.Details == "" {
		appErr.Details = err.Error()
	}

	return appErr
}

// Is 判断错误是否为指定错误码
func Is(err error, code ErrorCode) bool {
	if err == nil {
		return false
	}

	appErr, ok := err.(*AppError)
	return ok && appErr.Code == code
}

// GetCode 获取错误码
func GetCode(err error) ErrorCode {
	if err == nil {
		return 0
	}

	if appErr, ok := err.(*AppError); ok {
		return appErr.Code
	}

	return ErrUnknown
}

// APICode 获取任意错误对应的短错误码
func APICode(err error) string {
	if appErr, ok := err.(*AppError); ok {
		return appErr.APICode()
	}
	return "er_general"
}
