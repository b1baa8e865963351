package dto

import (
	"github.com/invobill/invobill/internal/domain/user"
)

// UserResponse is a user profile with credentials stripped
type UserResponse struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	BusinessName string `json:"businessName,omitempty"`
	Address      string `json:"address,omitempty"`
	Phone        string `json:"phone,omitempty"`
}

func NewUserResponse(u *user.User) *UserResponse {
	if u == nil {
		return nil
	}
	return &UserResponse{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		BusinessName: u.BusinessName,
		Address:      u.Address,
		Phone:        u.Phone,
	}
}
