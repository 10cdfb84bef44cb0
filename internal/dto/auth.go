package dto

// LoginRequest carries back-office login credentials.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries the issued bearer token and basic user info.
type LoginResponse struct {
	Token    string `json:"token"`
	UserID   int64  `json:"userID"`
	RealName string `json:"realName"`
	Role     string `json:"role"`
}
