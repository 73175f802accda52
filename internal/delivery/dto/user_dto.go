package dto

// Request DTOs

type CreateUserRequest struct {
	Username   string `json:"username" validate:"required,min=3,max=50,alphanum"`
	Email      string `json:"email" validate:"required,email,max=255"`
	Password   string `json:"password" validate:"required,min=8,max=72"`
	FirstName  string `json:"first_name" validate:"required,max=100,personname"`
	LastName   string `json:"last_name" validate:"required,max=100,personname"`
	Position   string `json:"position" validate:"omitempty,max=100"`
	Profession string `json:"profession" validate:"omitempty,max=100"`
	Phone      string `json:"phone" validate:"omitempty,phone"`
	RoleID     int    `json:"role_id" validate:"required,gte=1"`
}

// UpdateUserRequest only changes the fields that are present.
type UpdateUserRequest struct {
	Email      *string `json:"email" validate:"omitempty,email,max=255"`
	Password   *string `json:"password" validate:"omitempty,min=8,max=72"`
	FirstName  *string `json:"first_name" validate:"omitempty,max=100,personname"`
	LastName   *string `json:"last_name" validate:"omitempty,max=100,personname"`
	Position   *string `json:"position" validate:"omitempty,max=100"`
	Profession *string `json:"profession" validate:"omitempty,max=100"`
	Phone      *string `json:"phone" validate:"omitempty,phone"`
	RoleID     *int    `json:"role_id" validate:"omitempty,gte=1"`
	IsActive   *bool   `json:"is_active" validate:"omitempty"`
}

// Response DTOs

type UserListResponse struct {
	Users []UserResponse `json:"users"`
	Total int64          `json:"total"`
}

type RoleResponse struct {
	ID          int    `json:"id"`
	RoleName    string `json:"role_name"`
	Description string `json:"description,omitempty"`
}
