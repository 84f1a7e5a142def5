package share

// UserInfo 和游戏逻辑隔离的用户信息
type UserInfo struct {
	UserID    string // 用户 ID
	SeatIndex int
	IsAI      bool // 电脑托管座位
}

// NewUserInfo 创建玩家信息
func NewUserInfo(userID string, seatIndex int, isAI bool) *UserInfo {
	return &UserInfo{
		UserID:    userID,
		SeatIndex: seatIndex,
		IsAI:      isAI,
	}
}
