package util

import "errors"

var (
	ErrUserNotFound       = errors.New("用户不存在")
	ErrEmailRegistered    = errors.New("该邮箱已被注册")
	ErrInvalidCredentials = errors.New("invalid credentials")

	// 生成流水线
	ErrMissingCredential  = errors.New("AI API key not configured")
	ErrMalformedResponse  = errors.New("model response is not parseable JSON")
	ErrInvalidSchema      = errors.New("model response missing student_worksheet")
	ErrGenerationInFlight = errors.New("a generation is already in progress")

	// 非致命：导出继续，仅跳过插图
	ErrImageFetch = errors.New("mascot image fetch failed")

	ErrNoCurrentActivity = errors.New("no current activity")
	ErrHistoryNotFound   = errors.New("history entry not found")
)
