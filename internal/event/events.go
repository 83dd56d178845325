package event

// Envelope 事件信封，所有领域事件统一包装
type Envelope struct {
	EventType string      `json:"event_type"`
	Payload   interface{} `json:"payload"`
	Timestamp int64       `json:"timestamp"`
}

// UserRegistered 用户注册事件
type UserRegistered struct {
	UserID   string `json:"userId"`
	Email    string `json:"email"`
	Username string `json:"username"`
}

// UserLoggedIn 用户登录事件
type UserLoggedIn struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
}
