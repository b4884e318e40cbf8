package dto

import (
	"strings"

	"github.com/hugh/bugtracker/internal/api/validation"
	"github.com/hugh/bugtracker/internal/database/models"
)

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r RegisterRequest) Validate() map[string]string {
	errors := make(map[string]string)

	username := strings.TrimSpace(r.Username)
	if username == "" {
		errors["username"] = "Username is required"
	} else if validation.TooLong(username, validation.MaxUsernameLength) {
		errors["username"] = "Username must be at most 64 characters"
	}
	if r.Email == "" {
		errors["email"] = "Email is required"
	} else if !validation.IsValidEmail(strings.TrimSpace(r.Email)) {
		errors["email"] = "Email is invalid"
	}
	if r.Password == "" {
		errors["password"] = "Password is required"
	} else if ok, msg := validation.IsValidPassword(r.Password); !ok {
		errors["password"] = msg
	}

	return errors
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r LoginRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if r.Email == "" {
		errors["email"] = "Email is required"
	}
	if r.Password == "" {
		errors["password"] = "Password is required"
	}

	return errors
}

type AuthResponse struct {
	Token string  `json:"token"`
	User  UserDTO `json:"user"`
}

// UserDTO is the public view of a user. TeamID is null while onboarding.
type UserDTO struct {
	ID       string  `json:"id"`
	Username string  `json:"username"`
	Email    string  `json:"email"`
	TeamID   *string `json:"team_id"`
}

func NewUserDTO(u *models.User) UserDTO {
	out := UserDTO{
		ID:       u.ID.String(),
		Username: u.Username,
		Email:    u.Email,
	}
	if u.HasTeam() {
		id := u.TeamID.String()
		out.TeamID = &id
	}
	return out
}
