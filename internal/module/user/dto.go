package user

// CreateUserRequest represents the input for creating a new user.
type CreateUserRequest struct {
	Nickname string `json:"nickname" form:"nickname" binding:"required,min=2,max=100"`
}
