// file: internals/features/users/auth/dto/auth_dto.go
package dto

import (
	"github.com/google/uuid"
)

/* =========================================================
 * REQUESTS
 * ========================================================= */

type RegisterRequest struct {
	UserName    string  `json:"user_name" validate:"required,min=3,max=50"`
	Email       string  `json:"email" validate:"required,email"`
	Password    string  `json:"password" validate:"required,min=8"`
	Role        string  `json:"role" validate:"omitempty,oneof=student parent teacher contributor"`
	PhoneNumber *string `json:"phone_number" validate:"omitempty,max=30"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginGoogleRequest struct {
	IDToken string `json:"id_token" validate:"required"`
}

/* =========================================================
 * RESPONSE
 * ========================================================= */

type AuthUserResponse struct {
	ID       uuid.UUID `json:"id"`
	UserName string    `json:"user_name"`
	Email    string    `json:"email"`
	Role     string    `json:"role"`
}

type LoginResponse struct {
	AccessToken string           `json:"access_token"`
	User        AuthUserResponse `json:"user"`
}
