package domain

import "time"

type User struct {
	UserID       string    `json:"id" dynamodbav:"user_id"`
	Email        string    `json:"email" dynamodbav:"email"`
	PasswordHash string    `json:"-" dynamodbav:"password_hash"`
	RoleCode     int       `json:"role_id" dynamodbav:"role_id"`
	StaffRole    StaffRole `json:"staff_role,omitempty" dynamodbav:"user_staff_roles"`
	FirstName    string    `json:"first_name" dynamodbav:"first_name"`
	LastName     string    `json:"last_name" dynamodbav:"last_name"`
	Enable       bool      `json:"enable" dynamodbav:"enable"`
	CreatedAt    time.Time `json:"created" dynamodbav:"created_at"`
	UpdatedAt    time.Time `json:"updated" dynamodbav:"updated_at"`
}

// Role resolves the stored role code.
func (u *User) Role() (Role, error) {
	return RoleFromCode(u.RoleCode)
}

type CreateUserRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8,max=72"`
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
	Role      Role   `json:"role" validate:"required,oneof=admin hospital staff"`
	StaffRole string `json:"staff_role" validate:"omitempty,oneof=reviewer interviewer physician"`
}
