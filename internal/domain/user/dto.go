package user

type RegisterInput struct {
	Name       string  `json:"name" binding:"required,min=2,max=100"`
	Email      *string `json:"email" binding:"omitempty,email"`
	Phone      *string `json:"phone" binding:"omitempty"`
	Password   string  `json:"password" binding:"required,min=8,max=128"`
	UserType   string  `json:"userType" binding:"omitempty,oneof=citizen official head_supervisor admin"`
	Department *string `json:"department"`
	Address    *string `json:"address"`
	Pincode    *string `json:"pincode"`
}

type LoginInput struct {
	Email    *string `json:"email"`
	Phone    *string `json:"phone"`
	Password string  `json:"password" binding:"required"`
}

type ForgotPasswordInput struct {
	Email *string `json:"email"`
	Phone *string `json:"phone"`
}

type ResetPasswordInput struct {
	Token    string `json:"token" binding:"required"`
	Password string `json:"password" binding:"required,min=8,max=128"`
}

type VerifyEmailInput struct {
	Email string `json:"email" binding:"required,email"`
}

// UpdateProfileInput carries the self-service profile fields; role and
// department changes stay out of reach of the account owner.
type UpdateProfileInput struct {
	Name    *string `json:"name" binding:"omitempty,min=2,max=100"`
	Email   *string `json:"email" binding:"omitempty,email"`
	Phone   *string `json:"phone"`
	Address *string `json:"address"`
	Pincode *string `json:"pincode"`
}

// DTO is the user payload returned by the auth endpoints; the password
// hash never leaves the service layer.
type DTO struct {
	ID            uint    `json:"id"`
	Name          string  `json:"name"`
	Email         *string `json:"email,omitempty"`
	Phone         *string `json:"phone,omitempty"`
	UserType      string  `json:"userType"`
	Department    *string `json:"department,omitempty"`
	Address       *string `json:"address,omitempty"`
	Pincode       *string `json:"pincode,omitempty"`
	EmailVerified bool    `json:"emailVerified"`
	CreatedAt     string  `json:"createdAt"`
}

func ToDTO(u User) DTO {
	return DTO{
		ID:            u.ID,
		Name:          u.Name,
		Email:         u.Email,
		Phone:         u.Phone,
		UserType:      string(u.UserType),
		Department:    u.Department,
		Address:       u.Address,
		Pincode:       u.Pincode,
		EmailVerified: u.EmailVerified,
		CreatedAt:     u.CreatedAt.UTC().Format("2006-01-02 15:04:05"),
	}
}
