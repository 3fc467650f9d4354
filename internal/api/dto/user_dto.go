package dto

import (
	"github.com/spec-kit/user-account-service/internal/domain"
)

const dateOfBirthLayout = "2006-01-02"

// UserResponse is the public view of an account. Credential and two-factor
// fields are never serialized.
type UserResponse struct {
	ID          int64   `json:"id"`
	Username    string  `json:"username"`
	FirstName   *string `json:"firstName,omitempty"`
	LastName    *string `json:"lastName,omitempty"`
	Email       string  `json:"email"`
	DNI         *string `json:"dni,omitempty"`
	DateOfBirth *string `json:"dateOfBirth,omitempty"`
	PhoneNumber *string `json:"phoneNumber,omitempty"`
	Enabled     bool    `json:"enabled"`
	Role        string  `json:"role"`
}

// NewUserResponse maps a domain user to its public view.
func NewUserResponse(user *domain.User) UserResponse {
	resp := UserResponse{
		ID:          user.ID,
		Username:    user.Username,
		FirstName:   user.FirstName,
		LastName:    user.LastName,
		Email:       user.Email,
		DNI:         user.DNI,
		PhoneNumber: user.PhoneNumber,
		Enabled:     user.Enabled,
		Role:        string(user.Role),
	}
	if user.DateOfBirth != nil {
		formatted := user.DateOfBirth.Format(dateOfBirthLayout)
		resp.DateOfBirth = &formatted
	}
	return resp
}

// NewUserResponseList maps a slice of domain users.
func NewUserResponseList(users []*domain.User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for _, user := range users {
		out = append(out, NewUserResponse(user))
	}
	return out
}
