package request

type SendCodeRequest struct {
	Phone string `json:"phone" validate:"required,phone_ru"`
}

type VerifyCodeRequest struct {
	Phone string  `json:"phone" validate:"required,phone_ru"`
	Code  string  `json:"code" validate:"required,len=6,numeric"`
	Name  *string `json:"name,omitempty" validate:"omitempty,min=2,max=50"`
}

type AdminLoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required,min=4"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type LogoutRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}
