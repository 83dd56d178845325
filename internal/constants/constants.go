package constants

// 用户状态
const (
	UserStatusNormal    = 0 // 正常
	UserStatusSuspended = 1 // 已停用
	UserStatusBanned    = 2 // 已封禁
)

// 性别
const (
	GenderUnknown = 0
	GenderMale    = 1
	GenderFemale  = 2
)

// Token 类型
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// 角色标识
const (
	RoleUser   = "ROLE_USER"
	RoleAdmin  = "ROLE_ADMIN"
	RoleAuthor = "ROLE_AUTHOR"
)

// TokenTypeBearer 响应中的 token 类型字段
const TokenTypeBearer = "Bearer"

// ContextPrincipalKey 请求主体在 gin 上下文中的键
const ContextPrincipalKey = "principal"

// 事件主题
const (
	TopicUserEvents   = "user.events"
	TopicUserActivity = "active"
)

// 事件类型
const (
	EventUserRegistered = "UserRegisteredEvent"
	EventUserLoggedIn   = "UserLoggedInEvent"
)

// 邮箱验证码用途
const (
	VerifyPurposeRegister    = "register"
	VerifyPurposeChangeEmail = "change_email"
	VerifyPurposeAuthor      = "author_upgrade"
)

// 队列名称
const (
	QueueDefault = "default"
)

// 异步任务类型
const (
	TaskVerifyCodeEmail = "email:verify_code"
)

// 默认头像
const (
	AvatarUnknown = "/static/avatar/user.png"
	AvatarMale    = "/static/avatar/user_male.png"
	AvatarFemale  = "/static/avatar/user_female.png"
)
