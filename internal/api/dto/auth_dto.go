package dto

type SignUpDTO struct {
	Email    string   `form:"email" validate:"required,email"`
	Password string   `form:"password" validate:"required,min=6"`
	Username string   `form:"username" validate:"required,min=3,max=50,username"`
	IsAuthor Checkbox `form:"is_author"`
	IsReader Checkbox `form:"is_reader"`
}

type SignInDTO struct {
	Email    string `form:"email"`
	Password string `form:"password"`
}

type ForgotPasswordDTO struct {
	Email string `form:"email"`
}

type ResetPasswordDTO struct {
	Password        string `form:"password"`
	ConfirmPassword string `form:"confirmPassword"`
}

type CallbackDTO struct {
	Code string `form:"code"`
	Next string `form:"next"`
}

// SessionDTO 导航栏所需的当前会话信息
type SessionDTO struct {
	SignedIn bool     `json:"signed_in"`
	UserID   string   `json:"user_id,omitempty"`
	Username string   `json:"username,omitempty"`
	IsAuthor bool     `json:"is_author"`
	IsReader bool     `json:"is_reader"`
	Roles    []string `json:"roles,omitempty"`
}
