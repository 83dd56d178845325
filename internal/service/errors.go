package service

import "errors"

var (
	// ErrNotFound 记录不存在
	ErrNotFound = errors.New("record not found")
	// ErrInvalidEmail 邮箱格式不合法
	ErrInvalidEmail = errors.New("invalid email address")
	// ErrEmailRequired 邮箱不能为空
	ErrEmailRequired = errors.New("email is required")
	// ErrEmailExists 邮箱已被注册
	ErrEmailExists = errors.New("email already registered")
	// ErrUsernameExists 用户名已被占用
	ErrUsernameExists = errors.New("username already taken")
	// ErrWeakPassword 密码强度不足
	ErrWeakPassword = errors.New("password does not meet requirements")
	// ErrInvalidCredentials 邮箱或密码错误
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrUserSuspended 账户已停用
	ErrUserSuspended = errors.New("account suspended")
	// ErrUserBanned 账户已封禁
	ErrUserBanned = errors.New("account banned")
	// ErrTokenExpired 令牌已过期
	ErrTokenExpired = errors.New("token expired")
	// ErrTokenInvalid 令牌不合法
	ErrTokenInvalid = errors.New("invalid token")
	// ErrWrongTokenType 令牌类型不匹配
	ErrWrongTokenType = errors.New("wrong token type")
	// ErrUserMismatch 令牌与账户不一致
	ErrUserMismatch = errors.New("token does not match user")
	// ErrAlreadyAuthor 已是作者身份
	ErrAlreadyAuthor = errors.New("user is already an author")
	// ErrAlreadyAdmin 已是管理员身份
	ErrAlreadyAdmin = errors.New("user is already an admin")
	// ErrVerifyCodeInvalid 验证码错误或已过期
	ErrVerifyCodeInvalid = errors.New("invalid verification code or code expired")
	// ErrVerifyCodeTooFrequent 验证码发送过于频繁
	ErrVerifyCodeTooFrequent = errors.New("verification code requested too frequently")
	// ErrEmailServiceDisabled 邮件服务未配置
	ErrEmailServiceDisabled = errors.New("email service not configured")
	// ErrInvalidStatus 状态值不合法
	ErrInvalidStatus = errors.New("invalid user status")
	// ErrLibraryNotFound 书架不存在
	ErrLibraryNotFound = errors.New("library not found")
	// ErrNovelAlreadyInLibrary 小说已在书架中
	ErrNovelAlreadyInLibrary = errors.New("novel already in library")
	// ErrNovelNotInLibrary 小说不在书架中
	ErrNovelNotInLibrary = errors.New("novel not in library")
	// ErrInvalidProgress 阅读进度不合法
	ErrInvalidProgress = errors.New("invalid reading progress")
	// ErrForbidden 没有操作权限
	ErrForbidden = errors.New("permission denied")
)
